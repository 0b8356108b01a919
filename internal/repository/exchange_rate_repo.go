package repository

import (
	"errors"

	"github.com/vybraa/vybraa-api-v1/internal/models"

	"gorm.io/gorm"
)

type ExchangeRateRepository struct {
	db *gorm.DB
}

func NewExchangeRateRepository(db *gorm.DB) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db}
}

func (r *ExchangeRateRepository) GetActiveRate(from, to string) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	err := r.db.
		Where("from_currency = ? AND to_currency = ? AND is_active = ?", from, to, true).
		Order("created_at DESC").
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *ExchangeRateRepository) Create(rate *models.ExchangeRate) error {
	return r.db.Create(rate).Error
}

func (r *ExchangeRateRepository) List(from, to string) ([]models.ExchangeRate, error) {
	q := r.db.Order("from_currency, to_currency")
	if from != "" {
		q = q.Where("from_currency = ?", from)
	}
	if to != "" {
		q = q.Where("to_currency = ?", to)
	}
	var rates []models.ExchangeRate
	err := q.Find(&rates).Error
	return rates, err
}
