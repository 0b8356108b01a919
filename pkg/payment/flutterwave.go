package payment

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vybraa/vybraa-api-v1/internal/domain"
)

// FlutterwaveWebhook is the envelope Flutterwave posts to the webhook
// URL.
type FlutterwaveWebhook struct {
	Event string          `json:"event"`
	Data  FlutterwaveData `json:"data"`
}

type FlutterwaveCustomer struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type FlutterwaveData struct {
	ID                int64               `json:"id"`
	TxRef             string              `json:"tx_ref"`
	FlwRef            string              `json:"flw_ref"`
	Amount            float64             `json:"amount"` // already major units
	Currency          string              `json:"currency"`
	ChargedAmount     float64             `json:"charged_amount"`
	AppFee            float64             `json:"app_fee"`
	MerchantFee       float64             `json:"merchant_fee"`
	ProcessorResponse string              `json:"processor_response"`
	Status            string              `json:"status"`
	PaymentType       string              `json:"payment_type"`
	CreatedAt         string              `json:"created_at"`
	Customer          FlutterwaveCustomer `json:"customer"`
	Metadata          json.RawMessage     `json:"meta"`
}

type flutterwaveVerifyResp struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    FlutterwaveData `json:"data"`
}

// Flutterwave translates Flutterwave webhook payloads and verify
// responses into the normalized Event shape. It performs no database
// writes.
type Flutterwave struct {
	baseURL    string
	secretKey  string
	secretHash string
	client     *http.Client
}

func NewFlutterwave(baseURL, secretKey, secretHash string, timeout time.Duration) *Flutterwave {
	if baseURL == "" {
		baseURL = "https://api.flutterwave.com/v3"
	}
	return &Flutterwave{
		baseURL:    baseURL,
		secretKey:  secretKey,
		secretHash: secretHash,
		client:     &http.Client{Timeout: timeout},
	}
}

// ValidateSignature checks the verif-hash header. Unlike Paystack this
// is a plain shared-secret comparison, not an HMAC over the body. An
// unset secret hash accepts everything, loudly.
func (f *Flutterwave) ValidateSignature(signature string) bool {
	if f.secretHash == "" {
		log.Printf("[Flutterwave] secret hash not configured, skipping signature validation")
		return true
	}
	return subtle.ConstantTimeCompare([]byte(f.secretHash), []byte(signature)) == 1
}

// Normalize converts a Flutterwave payload into the ledger shape.
// Amounts are already in major units.
func (f *Flutterwave) Normalize(data FlutterwaveData, raw []byte) Event {
	return Event{
		Provider:  domain.ProviderFlutterwave,
		Reference: data.TxRef,
		Amount:    decimal.NewFromFloat(data.Amount),
		Currency:  data.Currency,
		Channel:   data.PaymentType,
		Status:    MapFlutterwaveStatus(data.Status),
		Raw:       raw,
	}
}

// MapFlutterwaveStatus maps Flutterwave's status vocabulary onto the
// ledger's transaction statuses. Unknown values stay PENDING so the
// reconciliation sweep can settle them later.
func MapFlutterwaveStatus(status string) string {
	switch status {
	case "successful", "succeeded":
		return domain.TransactionStatusCompleted
	case "failed":
		return domain.TransactionStatusFailed
	case "pending":
		return domain.TransactionStatusPending
	case "cancelled":
		return domain.TransactionStatusCancelled
	case "processing":
		return domain.TransactionStatusProcessing
	default:
		return domain.TransactionStatusPending
	}
}

// VerifyByReference calls GET /transactions/:reference/verify.
func (f *Flutterwave) VerifyByReference(ctx context.Context, reference string) (*Event, error) {
	url := fmt.Sprintf("%s/transactions/%s/verify", f.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.secretKey)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: flutterwave verify returned %d", ErrGatewayTimeout, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: flutterwave verify %s: %d %s", ErrVerifyFailed, reference, resp.StatusCode, string(body))
	}
	var out flutterwaveVerifyResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrVerifyFailed, out.Message)
	}
	ev := f.Normalize(out.Data, body)
	return &ev, nil
}
