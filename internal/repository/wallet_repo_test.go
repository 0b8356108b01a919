package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDb.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      mockDb,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestWalletCreditUsesSQLIncrement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWalletRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `wallets` SET `wallet_balance`=wallet_balance \\+ .+").
		WithArgs(sqlmock.AnyArg(), uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Credit(7, decimal.NewFromInt(45))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletGetByUserIDMissingReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWalletRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `wallets` WHERE user_id = .+").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "wallet_balance"}))

	w, err := repo.GetByUserID(42)
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestTransactionGetByReferenceForUpdateLocks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `transactions` WHERE reference = .+ FOR UPDATE").
		WithArgs("ref_1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reference", "status"}).
			AddRow(1, "ref_1", "PENDING"))

	tr, err := repo.GetByReferenceForUpdate("ref_1")
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, "ref_1", tr.Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestMarkPaidIsGuarded(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `requests` SET .+ WHERE .*id = .+ AND is_request_paid = .+").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.MarkPaid(9))
	assert.NoError(t, mock.ExpectationsWereMet())
}
