package models

import (
	"time"
)

// ConfigSetting holds platform tunables keyed by slug, e.g. the
// request_fee_charge row consumed by the fee evaluator.
type ConfigSetting struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:120;not null" json:"name"`
	Description     string    `gorm:"size:255" json:"description"`
	Slug            string    `gorm:"size:80;uniqueIndex;not null" json:"slug"`
	Value           string    `gorm:"size:80;not null" json:"value"`
	CalculationType string    `gorm:"size:20;not null" json:"calculation_type"` // PERCENTAGE | FIXED
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (ConfigSetting) TableName() string {
	return "vybraa_config_settings"
}
