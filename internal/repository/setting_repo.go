package repository

import (
	"errors"

	"github.com/vybraa/vybraa-api-v1/internal/models"

	"gorm.io/gorm"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) GetBySlug(slug string) (*models.ConfigSetting, error) {
	var s models.ConfigSetting
	err := r.db.Where("slug = ?", slug).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingRepository) Create(s *models.ConfigSetting) error {
	return r.db.Create(s).Error
}
