package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"settlement-service/internal/domain"
)

// Request is the provider-agnostic payment initiation input. Amount is in
// whole currency units; adapters own the conversion to provider scale.
type Request struct {
	OrderID uint64
	Amount  float64
	Email   string
	Phone   string
}

// Initiation is the normalized initiate result. Redirect-form providers
// (JazzCash, EasyPaisa) populate FormData; direct-redirect providers
// (PayPro) return a ready PaymentURL only. Provider rejection is reported
// via Success=false, not an error; callers must check Success before use.
type Initiation struct {
	Success     bool
	PaymentURL  string
	FormData    map[string]string
	ProviderRef string
	Error       string
}

// VerificationResult separates integrity from outcome: IsValid is strictly
// the signature comparison, Status the provider's response-code judgment.
// Both must hold for an order to be marked completed.
type VerificationResult struct {
	IsValid         bool
	Status          string // success | failed | error
	TransactionID   string
	Amount          float64
	ResponseCode    string
	ResponseMessage string
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusError   = "error"
)

type Adapter interface {
	Method() domain.PaymentMethod
	Initiate(ctx context.Context, req Request) (*Initiation, error)
	Verify(payload map[string]string) (*VerificationResult, error)
}

// toPaisa converts a whole-currency amount to the integer minor-unit string
// PayPro and JazzCash transmit.
func toPaisa(amount float64) string {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).String()
}

// fromPaisa parses a provider minor-unit amount back to currency units.
func fromPaisa(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Div(decimal.NewFromInt(100)).Float64()
	return f
}
