package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vybraa/vybraa-api-v1/internal/domain"
)

// PaystackWebhook is the envelope Paystack posts to the webhook URL.
type PaystackWebhook struct {
	Event string       `json:"event"`
	Data  PaystackData `json:"data"`
}

type PaystackCustomer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type PaystackData struct {
	ID              int64            `json:"id"`
	Status          string           `json:"status"`
	Reference       string           `json:"reference"`
	Amount          int64            `json:"amount"` // minor units (kobo)
	GatewayResponse string           `json:"gateway_response"`
	Channel         string           `json:"channel"`
	Currency        string           `json:"currency"`
	Metadata        json.RawMessage  `json:"metadata"`
	Customer        PaystackCustomer `json:"customer"`
	PaidAt          string           `json:"paid_at"`
	CreatedAt       string           `json:"created_at"`
}

type paystackVerifyResp struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Data    PaystackData `json:"data"`
}

// Paystack translates Paystack webhook payloads and verify responses
// into the normalized Event shape. It performs no database writes.
type Paystack struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewPaystack(baseURL, secretKey string, timeout time.Duration) *Paystack {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &Paystack{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
	}
}

// ValidateSignature checks the x-paystack-signature header:
// HMAC-SHA512 of the raw request body keyed with the secret key.
func (p *Paystack) ValidateSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(p.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Normalize converts a Paystack payload into the ledger shape. Paystack
// amounts arrive in kobo and are divided by 100 here, before any write.
func (p *Paystack) Normalize(data PaystackData, raw []byte) Event {
	return Event{
		Provider:  domain.ProviderPaystack,
		Reference: data.Reference,
		Amount:    decimal.NewFromInt(data.Amount).Div(decimal.NewFromInt(100)),
		Currency:  data.Currency,
		Channel:   data.Channel,
		Status:    mapPaystackStatus(data.Status),
		Raw:       raw,
	}
}

func mapPaystackStatus(status string) string {
	switch status {
	case "success":
		return domain.TransactionStatusCompleted
	case "failed":
		return domain.TransactionStatusFailed
	default:
		return domain.TransactionStatusPending
	}
}

// VerifyByReference calls GET /transaction/verify/:reference.
func (p *Paystack) VerifyByReference(ctx context.Context, reference string) (*Event, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", p.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: paystack verify returned %d", ErrGatewayTimeout, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: paystack verify %s: %d %s", ErrVerifyFailed, reference, resp.StatusCode, string(body))
	}
	var out paystackVerifyResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, fmt.Errorf("%w: %s", ErrVerifyFailed, out.Message)
	}
	ev := p.Normalize(out.Data, body)
	return &ev, nil
}
