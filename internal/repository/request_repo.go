package repository

import (
	"errors"
	"time"

	"github.com/vybraa/vybraa-api-v1/internal/domain"
	"github.com/vybraa/vybraa-api-v1/internal/models"

	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) GetByID(id uint) (*models.Request, error) {
	var req models.Request
	err := r.db.Preload("User").Preload("CelebrityProfile").Preload("CelebrityProfile.User").
		First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) GetByPaymentReference(reference string) (*models.Request, error) {
	var req models.Request
	err := r.db.Preload("User").Preload("CelebrityProfile").Preload("CelebrityProfile.User").
		Where("payment_reference = ?", reference).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// MarkPaid is monotonic: the WHERE guard means a request already paid
// is left alone, whatever arrives afterwards.
func (r *RequestRepository) MarkPaid(id uint) error {
	return r.db.Model(&models.Request{}).
		Where("id = ? AND is_request_paid = ?", id, false).
		Update("is_request_paid", true).Error
}

func (r *RequestRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Request{}).Where("id = ?", id).Update("status", status).Error
}

// ListCompletedWithPendingEscrow finds fulfilled requests whose funds
// are still held: at least one escrow-PENDING transaction and none
// already released.
func (r *RequestRepository) ListCompletedWithPendingEscrow() ([]models.Request, error) {
	var list []models.Request
	err := r.db.
		Where("status = ?", domain.RequestStatusCompleted).
		Where("EXISTS (SELECT 1 FROM transactions t WHERE t.request_id = requests.id AND t.is_in_escrow = ? AND t.escrow_status = ? AND t.deleted_at IS NULL)",
			true, domain.EscrowStatusPending).
		Where("NOT EXISTS (SELECT 1 FROM transactions t WHERE t.request_id = requests.id AND t.escrow_status = ? AND t.deleted_at IS NULL)",
			domain.EscrowStatusReleased).
		Preload("CelebrityProfile").
		Find(&list).Error
	return list, err
}

func (r *RequestRepository) ListUnpaidOlderThan(cutoff time.Time) ([]models.Request, error) {
	var list []models.Request
	err := r.db.
		Where("status = ? AND is_request_paid = ? AND created_at < ?",
			domain.RequestStatusPending, false, cutoff).
		Preload("Transactions").
		Find(&list).Error
	return list, err
}

func (r *RequestRepository) ListReleasedByCelebrity(celebrityProfileID uint) ([]models.Request, error) {
	var list []models.Request
	err := r.db.
		Where("celebrity_profile_id = ?", celebrityProfileID).
		Where("EXISTS (SELECT 1 FROM transactions t WHERE t.request_id = requests.id AND t.status = ? AND t.escrow_status = ? AND t.deleted_at IS NULL)",
			domain.TransactionStatusCompleted, domain.EscrowStatusReleased).
		Preload("Transactions").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *RequestRepository) CountPaidByCelebrity(celebrityProfileID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Request{}).
		Where("celebrity_profile_id = ? AND is_request_paid = ?", celebrityProfileID, true).
		Count(&n).Error
	return n, err
}

func (r *RequestRepository) CountPaidUnfulfilledByCelebrity(celebrityProfileID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Request{}).
		Where("celebrity_profile_id = ? AND is_request_paid = ? AND status IN ?",
			celebrityProfileID, true, []string{domain.RequestStatusDeclined, domain.RequestStatusPending}).
		Count(&n).Error
	return n, err
}

func (r *RequestRepository) SoftDelete(id uint) error {
	return r.db.Delete(&models.Request{}, id).Error
}
