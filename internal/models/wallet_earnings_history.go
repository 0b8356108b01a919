package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletEarningsHistory is the append-only audit trail of escrow
// releases: one row per release, capturing the payee's net and the
// platform's cut in the base currency.
type WalletEarningsHistory struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	WalletID  uint            `gorm:"not null;index" json:"wallet_id"`
	RequestID uint            `gorm:"not null;index" json:"request_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Currency  string          `gorm:"size:3;not null" json:"currency"`
	VybraaFee decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"vybraa_fee"`
	Status    string          `gorm:"size:20;not null" json:"status"` // CREDIT
	CreatedAt time.Time       `json:"created_at"`

	Wallet  Wallet  `gorm:"foreignKey:WalletID" json:"-"`
	Request Request `gorm:"foreignKey:RequestID" json:"-"`
}

func (WalletEarningsHistory) TableName() string {
	return "wallet_earnings_histories"
}
