package repository

import (
	"errors"
	"time"

	"github.com/vybraa/vybraa-api-v1/internal/domain"
	"github.com/vybraa/vybraa-api-v1/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByReference(reference string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.Where("reference = ?", reference).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByReferenceForUpdate locks the row for the duration of the
// surrounding transaction so concurrent releases serialize.
func (r *TransactionRepository) GetByReferenceForUpdate(reference string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reference = ?", reference).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.Preload("Request").First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Create(t *models.Transaction) error {
	return r.db.Create(t).Error
}

func (r *TransactionRepository) Update(t *models.Transaction) error {
	return r.db.Save(t).Error
}

// ListStalePending finds escrowed transactions that never moved past
// PENDING, for gateway re-verification.
func (r *TransactionRepository) ListStalePending(olderThan time.Time) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.
		Where("is_in_escrow = ? AND escrow_status = ? AND status = ? AND created_at < ?",
			true, domain.EscrowStatusPending, domain.TransactionStatusPending, olderThan).
		Preload("Request").
		Find(&list).Error
	return list, err
}
