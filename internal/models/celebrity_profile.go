package models

import (
	"time"

	"gorm.io/gorm"
)

type CelebrityProfile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName string         `gorm:"size:120;not null" json:"display_name"`
	Bio         string         `gorm:"type:text" json:"bio"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (CelebrityProfile) TableName() string {
	return "celebrity_profiles"
}
