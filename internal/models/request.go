package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Request is a fan's paid video request to a celebrity. Price is held
// in the platform base currency; PaymentReference links the request to
// its gateway transaction.
type Request struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	UserID             uint            `gorm:"not null;index" json:"user_id"`
	CelebrityProfileID uint            `gorm:"not null;index" json:"celebrity_profile_id"`
	Occasion           string          `gorm:"size:120" json:"occasion"`
	ForName            string          `gorm:"size:120" json:"for_name"`
	FromName           string          `gorm:"size:120" json:"from_name"`
	Instructions       string          `gorm:"type:text" json:"instructions"`
	Price              decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price"`
	IsRequestPaid      bool            `gorm:"default:false;index" json:"is_request_paid"`
	Status             string          `gorm:"size:20;not null;index" json:"status"` // PENDING, IN_PROGRESS, COMPLETED, DECLINED
	PaymentReference   string          `gorm:"size:128;uniqueIndex" json:"payment_reference"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`

	User             User             `gorm:"foreignKey:UserID" json:"-"`
	CelebrityProfile CelebrityProfile `gorm:"foreignKey:CelebrityProfileID" json:"-"`
	Transactions     []Transaction    `gorm:"foreignKey:RequestID" json:"-"`
}

func (Request) TableName() string {
	return "requests"
}
