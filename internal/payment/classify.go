package payment

import "settlement-service/internal/domain"

// Classify decides which provider a callback payload belongs to. An explicit
// provider discriminant (set by the callback route from its query string) is
// authoritative. Shape-sniffing on field pairs remains as a compatibility
// shim for gateways that cannot carry the discriminant, with fixed
// precedence PayPro, JazzCash, EasyPaisa so an ambiguous crafted payload
// resolves deterministically. An unrecognized shape fails closed.
func Classify(payload map[string]string, provider string) (domain.PaymentMethod, error) {
	if provider != "" {
		m := domain.PaymentMethod(provider)
		switch m {
		case domain.PaymentPayPro, domain.PaymentJazzCash, domain.PaymentEasyPaisa:
			return m, nil
		}
		return "", domain.ErrUnknownPaymentMethod
	}

	if payload["OrderNumber"] != "" && payload["Signature"] != "" {
		return domain.PaymentPayPro, nil
	}
	if payload["pp_TxnRefNo"] != "" && payload["pp_SecureHash"] != "" {
		return domain.PaymentJazzCash, nil
	}
	if payload["orderRefNum"] != "" && payload["merchantHashedResp"] != "" {
		return domain.PaymentEasyPaisa, nil
	}
	return "", domain.ErrUnknownPaymentMethod
}
