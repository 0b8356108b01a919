package repository

import (
	"errors"

	"github.com/vybraa/vybraa-api-v1/internal/models"

	"gorm.io/gorm"
)

type EarningsRepository struct {
	db *gorm.DB
}

func NewEarningsRepository(db *gorm.DB) *EarningsRepository {
	return &EarningsRepository{db: db}
}

func (r *EarningsRepository) Create(h *models.WalletEarningsHistory) error {
	return r.db.Create(h).Error
}

func (r *EarningsRepository) GetByRequestID(requestID uint) (*models.WalletEarningsHistory, error) {
	var h models.WalletEarningsHistory
	err := r.db.Where("request_id = ?", requestID).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *EarningsRepository) ListByWalletID(walletID uint) ([]models.WalletEarningsHistory, error) {
	var list []models.WalletEarningsHistory
	err := r.db.Where("wallet_id = ?", walletID).Order("created_at DESC").Find(&list).Error
	return list, err
}
