package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlement-service/internal/config"
	"settlement-service/internal/domain"
)

func jazzCashTestAdapter() *JazzCashAdapter {
	a := NewJazzCashAdapter(&config.JazzCashConfig{
		MerchantID:    "MC123",
		Password:      "pass",
		IntegritySalt: "salt123",
		ReturnURL:     "https://shop.example/payment/callback",
		APIURL:        "https://sandbox.jazzcash.com.pk/ApplicationAPI/API/Payment/DoTransaction",
	})
	a.now = func() time.Time { return time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC) }
	return a
}

func TestJazzCashInitiateBuildsSignedForm(t *testing.T) {
	a := jazzCashTestAdapter()

	res, err := a.Initiate(context.Background(), Request{OrderID: 7, Amount: 1850, Email: "u@example.com"})
	require.NoError(t, err)
	require.True(t, res.Success)

	form := res.FormData
	assert.Equal(t, "MWALLET", form["pp_TxnType"])
	assert.Equal(t, "1.1", form["pp_Version"])
	assert.Equal(t, "MC123", form["pp_MerchantID"])
	assert.Equal(t, "185000", form["pp_Amount"], "amount must be converted to paisa")
	assert.Equal(t, "PKR", form["pp_TxnCurrency"])
	assert.Equal(t, "7", form["pp_BillReference"])
	assert.Equal(t, "20260115103000", form["pp_TxnDateTime"])
	assert.Equal(t, "20260115113000", form["pp_TxnExpiryDateTime"], "expiry is one hour out")
	assert.Regexp(t, `^T\d+$`, form["pp_TxnRefNo"])
	assert.Equal(t, form["pp_TxnRefNo"], res.ProviderRef)
	assert.Equal(t, a.cfg.APIURL, res.PaymentURL)

	ok, err := VerifyJazzCash(form, "salt123")
	require.NoError(t, err)
	assert.True(t, ok, "outbound form must verify against its own hash")
}

func TestJazzCashInitiateValidation(t *testing.T) {
	a := jazzCashTestAdapter()

	_, err := a.Initiate(context.Background(), Request{OrderID: 0, Amount: 100})
	assert.True(t, domain.IsValidation(err))

	_, err = a.Initiate(context.Background(), Request{OrderID: 7, Amount: 0})
	assert.True(t, domain.IsValidation(err))
}

func TestJazzCashVerify(t *testing.T) {
	a := jazzCashTestAdapter()

	makePayload := func(responseCode string) map[string]string {
		fields := map[string]string{
			"pp_TxnRefNo":        "T1700000000000",
			"pp_Amount":          "185000",
			"pp_BillReference":   "7",
			"pp_ResponseCode":    responseCode,
			"pp_ResponseMessage": "Done",
		}
		sig, err := SignJazzCash(fields, "salt123")
		require.NoError(t, err)
		fields["pp_SecureHash"] = sig
		return fields
	}

	t.Run("valid success callback", func(t *testing.T) {
		res, err := a.Verify(makePayload("000"))
		require.NoError(t, err)
		assert.True(t, res.IsValid)
		assert.Equal(t, StatusSuccess, res.Status)
		assert.Equal(t, "T1700000000000", res.TransactionID)
		assert.InDelta(t, 1850.0, res.Amount, 0.001, "amount converted back from paisa")
	})

	t.Run("valid but declined", func(t *testing.T) {
		res, err := a.Verify(makePayload("124"))
		require.NoError(t, err)
		assert.True(t, res.IsValid)
		assert.Equal(t, StatusFailed, res.Status)
	})

	t.Run("tampered amount", func(t *testing.T) {
		payload := makePayload("000")
		payload["pp_Amount"] = "1"
		res, err := a.Verify(payload)
		require.NoError(t, err)
		assert.False(t, res.IsValid)
	})
}
