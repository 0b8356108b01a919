package models

import (
	"time"

	"github.com/vybraa/vybraa-api-v1/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	FirstName    string         `gorm:"size:100" json:"first_name"`
	LastName     string         `gorm:"size:100" json:"last_name"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // FAN | CELEBRITY | ADMIN
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	CelebrityProfile *CelebrityProfile `gorm:"foreignKey:UserID" json:"celebrity_profile,omitempty"`
}

func (u *User) IsCelebrity() bool { return u.Role == domain.RoleCelebrity }
func (u *User) IsFan() bool       { return u.Role == domain.RoleFan }

func (User) TableName() string {
	return "users"
}
