package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"settlement-service/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]string
		provider string
		want     domain.PaymentMethod
		wantErr  error
	}{
		{
			name:    "paypro by shape",
			payload: map[string]string{"OrderNumber": "42", "Signature": "AB"},
			want:    domain.PaymentPayPro,
		},
		{
			name:    "jazzcash by shape",
			payload: map[string]string{"pp_TxnRefNo": "T1", "pp_SecureHash": "AB"},
			want:    domain.PaymentJazzCash,
		},
		{
			name:    "easypaisa by shape",
			payload: map[string]string{"orderRefNum": "EP1", "merchantHashedResp": "ab"},
			want:    domain.PaymentEasyPaisa,
		},
		{
			name:    "unrecognized shape fails closed",
			payload: map[string]string{"foo": "bar"},
			wantErr: domain.ErrUnknownPaymentMethod,
		},
		{
			name: "ambiguous payload resolves by precedence",
			payload: map[string]string{
				"OrderNumber": "42", "Signature": "AB",
				"pp_TxnRefNo": "T1", "pp_SecureHash": "CD",
			},
			want: domain.PaymentPayPro,
		},
		{
			name: "explicit provider beats shape",
			payload: map[string]string{
				"OrderNumber": "42", "Signature": "AB",
				"pp_TxnRefNo": "T1", "pp_SecureHash": "CD",
			},
			provider: "jazzcash",
			want:     domain.PaymentJazzCash,
		},
		{
			name:     "cod is not a callback provider",
			payload:  map[string]string{},
			provider: "cod",
			wantErr:  domain.ErrUnknownPaymentMethod,
		},
		{
			name:     "garbage provider fails closed",
			payload:  map[string]string{"OrderNumber": "42", "Signature": "AB"},
			provider: "stripe",
			wantErr:  domain.ErrUnknownPaymentMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.payload, tt.provider)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
