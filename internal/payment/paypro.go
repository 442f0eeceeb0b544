package payment

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"settlement-service/internal/config"
	"settlement-service/internal/domain"
)

// PayProAdapter talks to the provider synchronously at initiate time and
// expects an immediate PaymentGatewayUrl in the success response. Provider
// rejection surfaces as Initiation{Success:false}, never as an error, so
// callers must check Success before redirecting.
type PayProAdapter struct {
	cfg    *config.PayProConfig
	client *resty.Client
}

func NewPayProAdapter(cfg *config.PayProConfig) *PayProAdapter {
	return &PayProAdapter{
		cfg:    cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

func (a *PayProAdapter) Method() domain.PaymentMethod {
	return domain.PaymentPayPro
}

func (a *PayProAdapter) Initiate(ctx context.Context, req Request) (*Initiation, error) {
	if req.OrderID == 0 {
		return nil, &domain.ValidationError{Field: "orderId", Reason: "required"}
	}
	if req.Amount <= 0 {
		return nil, &domain.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	orderNumber := strconv.FormatUint(req.OrderID, 10)
	amount := toPaisa(req.Amount)

	signature, err := SignPayProRequest(a.cfg.MerchantID, orderNumber, amount, a.cfg.Secret)
	if err != nil {
		return nil, err
	}

	body := map[string]string{
		"MerchantId":     a.cfg.MerchantID,
		"OrderNumber":    orderNumber,
		"OrderAmount":    amount,
		"CustomerEmail":  req.Email,
		"CustomerMobile": req.Phone,
		"ReturnUrl":      a.cfg.ReturnURL,
		"Signature":      signature,
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(body).
		Post(a.cfg.APIURL)
	if err != nil {
		return &Initiation{Success: false, Error: err.Error()}, nil
	}
	if resp.StatusCode() != 200 {
		return &Initiation{
			Success: false,
			Error:   "paypro request failed with status " + strconv.Itoa(resp.StatusCode()),
		}, nil
	}

	var parsed struct {
		PaymentGatewayUrl string `json:"PaymentGatewayUrl"`
		Message           string `json:"Message"`
	}
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return &Initiation{Success: false, Error: "invalid response from paypro"}, nil
	}
	if parsed.PaymentGatewayUrl == "" {
		msg := parsed.Message
		if msg == "" {
			msg = "paypro did not return a payment URL"
		}
		return &Initiation{Success: false, Error: msg}, nil
	}

	return &Initiation{
		Success:     true,
		PaymentURL:  parsed.PaymentGatewayUrl,
		ProviderRef: orderNumber,
	}, nil
}

func (a *PayProAdapter) Verify(payload map[string]string) (*VerificationResult, error) {
	claimed := payload["Signature"]
	if claimed == "" {
		return nil, &domain.ValidationError{Field: "Signature", Reason: "missing"}
	}

	expected, err := SignPayProResponse(
		payload["OrderNumber"],
		payload["Amount"],
		payload["Status"],
		a.cfg.Secret,
	)
	if err != nil {
		return nil, err
	}

	status := StatusFailed
	if payload["Status"] == "00" {
		status = StatusSuccess
	}

	return &VerificationResult{
		IsValid:         claimed == expected,
		Status:          status,
		TransactionID:   payload["OrderNumber"],
		Amount:          fromPaisa(payload["Amount"]),
		ResponseCode:    payload["Status"],
		ResponseMessage: payload["ResponseMessage"],
	}, nil
}
