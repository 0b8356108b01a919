package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vybraa/vybraa-api-v1/internal/models"
)

// The settlement engine talks to persistence through these narrow
// interfaces so the atomic release can run every step against one
// database transaction. Get* methods return (nil, nil) when no row
// matches.

type TransactionStore interface {
	GetByReference(reference string) (*models.Transaction, error)
	// GetByReferenceForUpdate takes a row lock; only meaningful inside
	// InTx.
	GetByReferenceForUpdate(reference string) (*models.Transaction, error)
	GetByID(id uint) (*models.Transaction, error)
	Create(t *models.Transaction) error
	Update(t *models.Transaction) error
	ListStalePending(olderThan time.Time) ([]models.Transaction, error)
}

type RequestStore interface {
	GetByID(id uint) (*models.Request, error)
	GetByPaymentReference(reference string) (*models.Request, error)
	// MarkPaid flips isRequestPaid false→true; it never reverts.
	MarkPaid(id uint) error
	UpdateStatus(id uint, status string) error
	ListCompletedWithPendingEscrow() ([]models.Request, error)
	ListUnpaidOlderThan(cutoff time.Time) ([]models.Request, error)
	ListReleasedByCelebrity(celebrityProfileID uint) ([]models.Request, error)
	CountPaidByCelebrity(celebrityProfileID uint) (int64, error)
	CountPaidUnfulfilledByCelebrity(celebrityProfileID uint) (int64, error)
	SoftDelete(id uint) error
}

type WalletStore interface {
	GetByUserID(userID uint) (*models.Wallet, error)
	GetByUserIDForUpdate(userID uint) (*models.Wallet, error)
	GetSuperAdminForUpdate() (*models.Wallet, error)
	// Credit issues an additive balance increment; never a
	// read-modify-write at the application layer.
	Credit(walletID uint, amount decimal.Decimal) error
}

type EarningsStore interface {
	Create(h *models.WalletEarningsHistory) error
	GetByRequestID(requestID uint) (*models.WalletEarningsHistory, error)
	ListByWalletID(walletID uint) ([]models.WalletEarningsHistory, error)
}

type SettingStore interface {
	GetBySlug(slug string) (*models.ConfigSetting, error)
	Create(s *models.ConfigSetting) error
}

type RateStore interface {
	GetActiveRate(fromCurrency, toCurrency string) (*models.ExchangeRate, error)
	Create(r *models.ExchangeRate) error
	List(fromCurrency, toCurrency string) ([]models.ExchangeRate, error)
}

type ProfileStore interface {
	GetByID(id uint) (*models.CelebrityProfile, error)
	GetByUserID(userID uint) (*models.CelebrityProfile, error)
}

type NotificationStore interface {
	Create(n *models.Notification) error
	ListByUser(userID uint, limit int) ([]models.Notification, error)
}

// Store aggregates the stores behind one transaction boundary. InTx
// runs fn against a Store bound to a single database transaction;
// returning an error rolls back everything fn did.
type Store interface {
	Transactions() TransactionStore
	Requests() RequestStore
	Wallets() WalletStore
	Earnings() EarningsStore
	Settings() SettingStore
	Rates() RateStore
	Profiles() ProfileStore
	Notifications() NotificationStore
	InTx(ctx context.Context, fn func(Store) error) error
}
