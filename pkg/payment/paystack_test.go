package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vybraa/vybraa-api-v1/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPaystack(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackValidateSignature(t *testing.T) {
	p := NewPaystack("", "sk_test_secret", time.Second)
	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1"}}`)

	assert.True(t, p.ValidateSignature(body, signPaystack("sk_test_secret", body)))
	assert.False(t, p.ValidateSignature(body, signPaystack("sk_wrong_secret", body)))
	assert.False(t, p.ValidateSignature(body, ""))
	// Signature binds the exact body bytes.
	assert.False(t, p.ValidateSignature(append(body, ' '), signPaystack("sk_test_secret", body)))
}

func TestPaystackNormalizeConvertsKobo(t *testing.T) {
	p := NewPaystack("", "sk", time.Second)
	raw := []byte(`{"data":{}}`)

	ev := p.Normalize(PaystackData{
		Reference: "ref_1",
		Amount:    500000, // kobo
		Currency:  "NGN",
		Channel:   "card",
		Status:    "success",
	}, raw)

	assert.Equal(t, domain.ProviderPaystack, ev.Provider)
	assert.Equal(t, "ref_1", ev.Reference)
	assert.True(t, ev.Amount.Equal(decimal.NewFromInt(5000)), "got %s", ev.Amount)
	assert.Equal(t, domain.TransactionStatusCompleted, ev.Status)
	assert.Equal(t, raw, ev.Raw)
}

func TestMapPaystackStatus(t *testing.T) {
	assert.Equal(t, domain.TransactionStatusCompleted, mapPaystackStatus("success"))
	assert.Equal(t, domain.TransactionStatusFailed, mapPaystackStatus("failed"))
	assert.Equal(t, domain.TransactionStatusPending, mapPaystackStatus("abandoned"))
	assert.Equal(t, domain.TransactionStatusPending, mapPaystackStatus(""))
}

func TestPaystackVerifyByReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref_1", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"reference":"ref_1","amount":500000,"currency":"NGN","channel":"card","status":"success"}}`))
	}))
	defer srv.Close()

	p := NewPaystack(srv.URL, "sk_test", time.Second)
	ev, err := p.VerifyByReference(context.Background(), "ref_1")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, ev.Status)
	assert.True(t, ev.Amount.Equal(decimal.NewFromInt(5000)))
}

func TestPaystackVerifyByReferenceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	}))
	defer srv.Close()

	p := NewPaystack(srv.URL, "sk_test", time.Second)
	_, err := p.VerifyByReference(context.Background(), "ref_missing")
	assert.ErrorIs(t, err, ErrVerifyFailed)
}

func TestPaystackVerifyServerErrorIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewPaystack(srv.URL, "sk_test", time.Second)
	_, err := p.VerifyByReference(context.Background(), "ref_1")
	assert.ErrorIs(t, err, ErrGatewayTimeout)
}

func TestPaystackVerifyTransportTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p := NewPaystack(srv.URL, "sk_test", 20*time.Millisecond)
	_, err := p.VerifyByReference(context.Background(), "ref_1")
	assert.ErrorIs(t, err, ErrGatewayTimeout)
}
