package payment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"settlement-service/internal/config"
	"settlement-service/internal/domain"
)

const jazzCashTimeLayout = "20060102150405"

// JazzCashAdapter builds MWALLET redirect forms; JazzCash is browser-redirect
// based, so Initiate performs no HTTP call. The caller submits FormData as a
// form POST to PaymentURL.
type JazzCashAdapter struct {
	cfg *config.JazzCashConfig
	now func() time.Time
}

func NewJazzCashAdapter(cfg *config.JazzCashConfig) *JazzCashAdapter {
	return &JazzCashAdapter{cfg: cfg, now: time.Now}
}

func (a *JazzCashAdapter) Method() domain.PaymentMethod {
	return domain.PaymentJazzCash
}

func (a *JazzCashAdapter) Initiate(ctx context.Context, req Request) (*Initiation, error) {
	if req.OrderID == 0 {
		return nil, &domain.ValidationError{Field: "orderId", Reason: "required"}
	}
	if req.Amount <= 0 {
		return nil, &domain.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	now := a.now()
	txnRef := fmt.Sprintf("T%d", now.UnixMilli())
	orderRef := strconv.FormatUint(req.OrderID, 10)

	form := map[string]string{
		"pp_Version":           "1.1",
		"pp_TxnType":           "MWALLET",
		"pp_Language":          "EN",
		"pp_MerchantID":        a.cfg.MerchantID,
		"pp_SubMerchantID":     "",
		"pp_Password":          a.cfg.Password,
		"pp_BankID":            "TBANK",
		"pp_ProductID":         "RETL",
		"pp_TxnRefNo":          txnRef,
		"pp_Amount":            toPaisa(req.Amount),
		"pp_TxnCurrency":       "PKR",
		"pp_TxnDateTime":       now.Format(jazzCashTimeLayout),
		"pp_BillReference":     orderRef,
		"pp_Description":       "Payment for Order " + orderRef,
		"pp_TxnExpiryDateTime": now.Add(time.Hour).Format(jazzCashTimeLayout),
		"pp_ReturnURL":         a.cfg.ReturnURL,
		"ppmpf_1":              "1",
		"ppmpf_2":              "2",
		"ppmpf_3":              "3",
		"ppmpf_4":              "4",
		"ppmpf_5":              "5",
	}

	hash, err := SignJazzCash(form, a.cfg.IntegritySalt)
	if err != nil {
		return nil, err
	}
	form["pp_SecureHash"] = hash

	return &Initiation{
		Success:     true,
		PaymentURL:  a.cfg.APIURL,
		FormData:    form,
		ProviderRef: txnRef,
	}, nil
}

func (a *JazzCashAdapter) Verify(payload map[string]string) (*VerificationResult, error) {
	ok, err := VerifyJazzCash(payload, a.cfg.IntegritySalt)
	if err != nil {
		return nil, err
	}

	status := StatusFailed
	if payload["pp_ResponseCode"] == "000" {
		status = StatusSuccess
	}

	return &VerificationResult{
		IsValid:         ok,
		Status:          status,
		TransactionID:   payload["pp_TxnRefNo"],
		Amount:          fromPaisa(payload["pp_Amount"]),
		ResponseCode:    payload["pp_ResponseCode"],
		ResponseMessage: payload["pp_ResponseMessage"],
	}, nil
}
