package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet balances are only ever mutated by additive increments derived
// from released escrow transactions, never overwritten from input.
type Wallet struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        *uint           `gorm:"uniqueIndex" json:"user_id"` // nil for the platform wallet
	WalletBalance decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"wallet_balance"`
	Currency      string          `gorm:"size:3;default:'USD'" json:"currency"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	IsFreezed     bool            `gorm:"default:false" json:"is_freezed"`
	IsSuperAdmin  bool            `gorm:"default:false;index" json:"is_super_admin"` // exactly one true row
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}
