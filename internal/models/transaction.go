package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is the ledger row for one payment attempt. Reference is
// provider-unique and acts as the idempotency key for webhook
// deliveries; Amount is stored in the provider's currency.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	RequestID     *uint           `gorm:"index" json:"request_id"` // nil for non-request transfers
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Currency      string          `gorm:"size:3;not null" json:"currency"`
	Provider      string          `gorm:"size:20;index" json:"provider"` // paystack | flutterwave
	PaymentMethod string          `gorm:"size:50" json:"payment_method"` // gateway channel (card, bank, ...)
	Reference     string          `gorm:"size:128;uniqueIndex;not null" json:"reference"`
	Type          string          `gorm:"size:10;not null" json:"type"`         // CREDIT | DEBIT
	Status        string          `gorm:"size:20;not null;index" json:"status"` // PENDING, PROCESSING, COMPLETED, FAILED, CANCELLED
	IsInEscrow    bool            `gorm:"default:false;index" json:"is_in_escrow"`
	EscrowType    *string         `gorm:"size:30" json:"escrow_type"`          // REQUEST_PAYMENT
	EscrowStatus  *string         `gorm:"size:20;index" json:"escrow_status"`  // PENDING, RELEASED, REFUNDED
	ReleaseDate   *time.Time      `json:"release_date"`
	Description   string          `gorm:"size:255" json:"description"`
	Metadata      string          `gorm:"type:text" json:"metadata"` // raw provider payload, JSON
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	User    User     `gorm:"foreignKey:UserID" json:"-"`
	Request *Request `gorm:"foreignKey:RequestID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// EscrowPending reports whether the funds are still held in escrow.
func (t *Transaction) EscrowPending() bool {
	return t.IsInEscrow && t.EscrowStatus != nil && *t.EscrowStatus == "PENDING"
}
