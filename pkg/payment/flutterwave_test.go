package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vybraa/vybraa-api-v1/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlutterwaveValidateSignature(t *testing.T) {
	f := NewFlutterwave("", "sk", "hash_secret", time.Second)
	assert.True(t, f.ValidateSignature("hash_secret"))
	assert.False(t, f.ValidateSignature("wrong"))
	assert.False(t, f.ValidateSignature(""))
}

func TestFlutterwaveValidateSignatureUnconfigured(t *testing.T) {
	// No secret hash configured accepts everything.
	f := NewFlutterwave("", "sk", "", time.Second)
	assert.True(t, f.ValidateSignature("anything"))
	assert.True(t, f.ValidateSignature(""))
}

func TestMapFlutterwaveStatus(t *testing.T) {
	cases := map[string]string{
		"successful": domain.TransactionStatusCompleted,
		"succeeded":  domain.TransactionStatusCompleted,
		"failed":     domain.TransactionStatusFailed,
		"pending":    domain.TransactionStatusPending,
		"cancelled":  domain.TransactionStatusCancelled,
		"processing": domain.TransactionStatusProcessing,
		"who-knows":  domain.TransactionStatusPending,
		"":           domain.TransactionStatusPending,
	}
	for in, want := range cases {
		assert.Equal(t, want, MapFlutterwaveStatus(in), "status %q", in)
	}
}

func TestFlutterwaveNormalizeKeepsMajorUnits(t *testing.T) {
	f := NewFlutterwave("", "sk", "hash", time.Second)
	raw := []byte(`{"data":{}}`)

	ev := f.Normalize(FlutterwaveData{
		TxRef:       "vyb_tx_1",
		Amount:      50,
		Currency:    "USD",
		PaymentType: "card",
		Status:      "successful",
	}, raw)

	assert.Equal(t, domain.ProviderFlutterwave, ev.Provider)
	assert.Equal(t, "vyb_tx_1", ev.Reference)
	assert.True(t, ev.Amount.Equal(decimal.NewFromInt(50)), "got %s", ev.Amount)
	assert.Equal(t, domain.TransactionStatusCompleted, ev.Status)
}

func TestFlutterwaveVerifyByReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/vyb_tx_1/verify", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","message":"Transaction fetched successfully","data":{"tx_ref":"vyb_tx_1","amount":50,"currency":"USD","payment_type":"card","status":"successful"}}`))
	}))
	defer srv.Close()

	f := NewFlutterwave(srv.URL, "sk_test", "hash", time.Second)
	ev, err := f.VerifyByReference(context.Background(), "vyb_tx_1")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, ev.Status)
	assert.True(t, ev.Amount.Equal(decimal.NewFromInt(50)))
}

func TestFlutterwaveVerifyErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"No transaction was found for this id"}`))
	}))
	defer srv.Close()

	f := NewFlutterwave(srv.URL, "sk_test", "hash", time.Second)
	_, err := f.VerifyByReference(context.Background(), "vyb_tx_missing")
	assert.ErrorIs(t, err, ErrVerifyFailed)
}

func TestFlutterwaveVerifyServerErrorIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFlutterwave(srv.URL, "sk_test", "hash", time.Second)
	_, err := f.VerifyByReference(context.Background(), "vyb_tx_1")
	assert.ErrorIs(t, err, ErrGatewayTimeout)
}
