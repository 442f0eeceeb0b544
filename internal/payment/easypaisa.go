package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"settlement-service/internal/config"
	"settlement-service/internal/domain"
)

const easyPaisaExpiryLayout = "20060102 15:04:05"

// EasyPaisaAdapter builds redirect form data; no HTTP call at initiate time.
// EasyPaisa transmits amounts as 2-decimal PKR strings, not minor units.
type EasyPaisaAdapter struct {
	cfg *config.EasyPaisaConfig
	now func() time.Time
}

func NewEasyPaisaAdapter(cfg *config.EasyPaisaConfig) *EasyPaisaAdapter {
	return &EasyPaisaAdapter{cfg: cfg, now: time.Now}
}

func (a *EasyPaisaAdapter) Method() domain.PaymentMethod {
	return domain.PaymentEasyPaisa
}

func (a *EasyPaisaAdapter) Initiate(ctx context.Context, req Request) (*Initiation, error) {
	if req.OrderID == 0 {
		return nil, &domain.ValidationError{Field: "orderId", Reason: "required"}
	}
	if req.Amount <= 0 {
		return nil, &domain.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	now := a.now()
	orderRef := fmt.Sprintf("EP%d", now.UnixMilli())
	amount := decimal.NewFromFloat(req.Amount).StringFixed(2)
	expiry := now.Add(24 * time.Hour).Format(easyPaisaExpiryLayout)

	hash, err := SignEasyPaisaRequest(amount, a.cfg.StoreID, orderRef, expiry, a.cfg.HashKey)
	if err != nil {
		return nil, err
	}

	form := map[string]string{
		"storeId":           a.cfg.StoreID,
		"amount":            amount,
		"postBackURL":       a.cfg.ReturnURL,
		"orderRefNum":       orderRef,
		"expiryDate":        expiry,
		"merchantHashedReq": hash,
		"autoRedirect":      "1",
		"paymentMethod":     "InitialRequest",
		"emailAddr":         req.Email,
		"mobileNum":         req.Phone,
	}

	return &Initiation{
		Success:     true,
		PaymentURL:  a.cfg.APIURL,
		FormData:    form,
		ProviderRef: orderRef,
	}, nil
}

func (a *EasyPaisaAdapter) Verify(payload map[string]string) (*VerificationResult, error) {
	claimed := payload["merchantHashedResp"]
	if claimed == "" {
		return nil, &domain.ValidationError{Field: "merchantHashedResp", Reason: "missing"}
	}

	expected, err := SignEasyPaisaResponse(
		payload["amount"],
		payload["orderRefNum"],
		payload["responseCode"],
		payload["responseDesc"],
		a.cfg.HashKey,
	)
	if err != nil {
		return nil, err
	}

	status := StatusFailed
	if payload["responseCode"] == "0000" {
		status = StatusSuccess
	}

	amount, _ := decimal.NewFromString(payload["amount"])
	amt, _ := amount.Float64()

	return &VerificationResult{
		IsValid:         claimed == expected,
		Status:          status,
		TransactionID:   payload["orderRefNum"],
		Amount:          amt,
		ResponseCode:    payload["responseCode"],
		ResponseMessage: payload["responseDesc"],
	}, nil
}
