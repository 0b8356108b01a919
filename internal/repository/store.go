package repository

import (
	"context"

	"github.com/vybraa/vybraa-api-v1/internal/service"

	"gorm.io/gorm"
)

// Store bundles all repositories over a shared *gorm.DB so services can
// run multi-table work inside one database transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Transactions() service.TransactionStore { return NewTransactionRepository(s.db) }
func (s *Store) Requests() service.RequestStore         { return NewRequestRepository(s.db) }
func (s *Store) Wallets() service.WalletStore           { return NewWalletRepository(s.db) }
func (s *Store) Earnings() service.EarningsStore        { return NewEarningsRepository(s.db) }
func (s *Store) Settings() service.SettingStore         { return NewSettingRepository(s.db) }
func (s *Store) Rates() service.RateStore               { return NewExchangeRateRepository(s.db) }
func (s *Store) Profiles() service.ProfileStore         { return NewProfileRepository(s.db) }
func (s *Store) Notifications() service.NotificationStore {
	return NewNotificationRepository(s.db)
}

// InTx runs fn inside a database transaction. The Store handed to fn is
// bound to the transaction, so every repository call within fn commits or
// rolls back as a unit.
func (s *Store) InTx(ctx context.Context, fn func(service.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
