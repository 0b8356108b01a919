package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores "1 FromCurrency = Rate units of ToCurrency".
type ExchangeRate struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	FromCurrency string          `gorm:"size:3;not null;index:idx_rate_pair" json:"from_currency"`
	ToCurrency   string          `gorm:"size:3;not null;index:idx_rate_pair" json:"to_currency"`
	Rate         decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"rate"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (ExchangeRate) TableName() string {
	return "exchange_rates"
}
