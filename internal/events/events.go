package events

import "github.com/shopspring/decimal"

const (
	TypePaymentCompleted     = "payment.completed"
	TypePaymentFailed        = "payment.failed"
	TypeRequestStatusChanged = "request.status.changed"
	TypeEscrowReleased       = "escrow.released"
)

// PaymentCompleted fires exactly once per settlement, on the first
// transition of a transaction to COMPLETED.
type PaymentCompleted struct {
	RequestID       uint
	TransactionID   uint
	FanUserID       uint
	CelebrityUserID uint
	CelebrityName   string
	FanName         string
	Occasion        string
	Reference       string
	Amount          decimal.Decimal
	Currency        string
}

func (PaymentCompleted) Type() string { return TypePaymentCompleted }

type PaymentFailed struct {
	RequestID     uint
	TransactionID uint
	FanUserID     uint
	Reference     string
	Reason        string
}

func (PaymentFailed) Type() string { return TypePaymentFailed }

type RequestStatusChanged struct {
	RequestID uint
	Status    string
}

func (RequestStatusChanged) Type() string { return TypeRequestStatusChanged }

// EscrowReleased fires after the release transaction commits.
type EscrowReleased struct {
	RequestID       uint
	CelebrityUserID uint
	Amount          decimal.Decimal // payee net, base currency
	Fee             decimal.Decimal
	Currency        string
}

func (EscrowReleased) Type() string { return TypeEscrowReleased }
