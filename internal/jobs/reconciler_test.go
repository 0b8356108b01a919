package jobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vybraa/vybraa-api-v1/config"
	"github.com/vybraa/vybraa-api-v1/internal/domain"
	"github.com/vybraa/vybraa-api-v1/internal/events"
	"github.com/vybraa/vybraa-api-v1/internal/models"
	"github.com/vybraa/vybraa-api-v1/internal/service"
	"github.com/vybraa/vybraa-api-v1/internal/service/servicetest"
	"github.com/vybraa/vybraa-api-v1/pkg/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	ev  *payment.Event
	err error
}

func (v stubVerifier) VerifyByReference(ctx context.Context, reference string) (*payment.Event, error) {
	return v.ev, v.err
}

var jobsCfg = config.JobsConfig{
	StalePendingInterval:  time.Hour,
	StalePendingAge:       24 * time.Hour,
	UnpaidRequestInterval: 24 * time.Hour,
	UnpaidRequestAge:      48 * time.Hour,
	EscrowReleaseInterval: time.Minute,
}

func newReconcilerFixture(t *testing.T, verifier payment.Verifier) (*servicetest.MemStore, *Reconciler) {
	t.Helper()
	store := servicetest.NewMemStore()
	bus := events.NewBus()
	settlement := service.NewSettlementService(store, bus, "USD")
	rec := NewReconciler(store, settlement, map[string]payment.Verifier{
		domain.ProviderPaystack: verifier,
	}, jobsCfg, "USD")
	return store, rec
}

func seedStalePayment(store *servicetest.MemStore) (*models.Request, *models.Transaction) {
	profile := store.SeedProfile(&models.CelebrityProfile{
		UserID:      20,
		DisplayName: "Ada",
		User:        models.User{ID: 20, FirstName: "Ada"},
	})
	req := store.SeedRequest(&models.Request{
		UserID:             10,
		CelebrityProfileID: profile.ID,
		Price:              decimal.NewFromInt(50),
		Status:             domain.RequestStatusPending,
		PaymentReference:   "ref_stale",
		User:               models.User{ID: 10, FirstName: "Femi"},
		CelebrityProfile:   *profile,
	})
	pending := domain.EscrowStatusPending
	escrowType := domain.EscrowTypeRequestPayment
	tr := store.SeedTransaction(&models.Transaction{
		UserID:       req.UserID,
		RequestID:    &req.ID,
		Amount:       decimal.NewFromInt(50),
		Currency:     "USD",
		Provider:     domain.ProviderPaystack,
		Reference:    "ref_stale",
		Type:         domain.TransactionTypeCredit,
		Status:       domain.TransactionStatusPending,
		IsInEscrow:   true,
		EscrowType:   &escrowType,
		EscrowStatus: &pending,
		CreatedAt:    time.Now().Add(-30 * time.Hour),
	})
	return req, tr
}

func TestSweepStalePendingSettlesSuccess(t *testing.T) {
	ev := payment.Event{
		Provider:  domain.ProviderPaystack,
		Reference: "ref_stale",
		Amount:    decimal.NewFromInt(50),
		Currency:  "USD",
		Status:    domain.TransactionStatusCompleted,
	}
	store, rec := newReconcilerFixture(t, stubVerifier{ev: &ev})
	req, tr := seedStalePayment(store)

	require.NoError(t, rec.SweepStalePending(context.Background()))

	got, _ := store.Transactions().GetByReference(tr.Reference)
	assert.Equal(t, domain.TransactionStatusCompleted, got.Status)
	gotReq, _ := store.Requests().GetByID(req.ID)
	assert.True(t, gotReq.IsRequestPaid)
	assert.Equal(t, domain.RequestStatusPending, gotReq.Status)
}

func TestSweepStalePendingTimeoutLeavesPending(t *testing.T) {
	store, rec := newReconcilerFixture(t, stubVerifier{err: payment.ErrGatewayTimeout})
	_, tr := seedStalePayment(store)

	require.NoError(t, rec.SweepStalePending(context.Background()))

	got, _ := store.Transactions().GetByReference(tr.Reference)
	assert.Equal(t, domain.TransactionStatusPending, got.Status)
	assert.Equal(t, domain.EscrowStatusPending, *got.EscrowStatus)
}

func TestSweepStalePendingVerifyFailedDeclines(t *testing.T) {
	store, rec := newReconcilerFixture(t, stubVerifier{err: payment.ErrVerifyFailed})
	req, tr := seedStalePayment(store)

	require.NoError(t, rec.SweepStalePending(context.Background()))

	got, _ := store.Transactions().GetByReference(tr.Reference)
	assert.Equal(t, domain.TransactionStatusFailed, got.Status)
	assert.Equal(t, domain.EscrowStatusRefunded, *got.EscrowStatus)

	gotReq, _ := store.Requests().GetByID(req.ID)
	assert.Equal(t, domain.RequestStatusDeclined, gotReq.Status)
	assert.False(t, gotReq.IsRequestPaid)
}

func TestSweepStalePendingIgnoresFreshRows(t *testing.T) {
	store, rec := newReconcilerFixture(t, stubVerifier{err: payment.ErrVerifyFailed})
	_, tr := seedStalePayment(store)
	tr.CreatedAt = time.Now().Add(-time.Hour)

	require.NoError(t, rec.SweepStalePending(context.Background()))

	got, _ := store.Transactions().GetByReference(tr.Reference)
	assert.Equal(t, domain.TransactionStatusPending, got.Status)
}

func TestSweepUnpaidRequestsExpires(t *testing.T) {
	store, rec := newReconcilerFixture(t, stubVerifier{})
	req := store.SeedRequest(&models.Request{
		UserID:           10,
		Price:            decimal.NewFromInt(50),
		Status:           domain.RequestStatusPending,
		PaymentReference: "ref_never_paid",
		CreatedAt:        time.Now().Add(-72 * time.Hour),
	})

	require.NoError(t, rec.SweepUnpaidRequests(context.Background()))

	// Audit transaction with a synthetic timeout reference.
	require.Len(t, store.TxRows, 1)
	tr := store.TxRows[0]
	assert.True(t, strings.HasPrefix(tr.Reference, "timeout_"), "got %s", tr.Reference)
	assert.Equal(t, domain.TransactionStatusFailed, tr.Status)
	assert.False(t, tr.IsInEscrow)
	require.NotNil(t, tr.RequestID)
	assert.Equal(t, req.ID, *tr.RequestID)

	gone, _ := store.Requests().GetByID(req.ID)
	assert.Nil(t, gone, "expired request must be soft-deleted")
}

func TestSweepUnpaidRequestsSkipsSyntheticWhenLedgerRowExists(t *testing.T) {
	store, rec := newReconcilerFixture(t, stubVerifier{})
	req := store.SeedRequest(&models.Request{
		UserID:           10,
		Price:            decimal.NewFromInt(50),
		Status:           domain.RequestStatusPending,
		PaymentReference: "ref_failed_attempt",
		CreatedAt:        time.Now().Add(-72 * time.Hour),
	})
	refunded := domain.EscrowStatusRefunded
	store.SeedTransaction(&models.Transaction{
		UserID:       req.UserID,
		RequestID:    &req.ID,
		Amount:       decimal.NewFromInt(50),
		Currency:     "USD",
		Reference:    "ref_failed_attempt",
		Type:         domain.TransactionTypeCredit,
		Status:       domain.TransactionStatusFailed,
		EscrowStatus: &refunded,
	})

	require.NoError(t, rec.SweepUnpaidRequests(context.Background()))

	// The failed attempt already records the outcome; no second row.
	require.Len(t, store.TxRows, 1)
	assert.Equal(t, "ref_failed_attempt", store.TxRows[0].Reference)

	gone, _ := store.Requests().GetByID(req.ID)
	assert.Nil(t, gone, "expired request must still be soft-deleted")
}

func TestSweepUnpaidRequestsLeavesRecentOnes(t *testing.T) {
	store, rec := newReconcilerFixture(t, stubVerifier{})
	req := store.SeedRequest(&models.Request{
		UserID:           10,
		Price:            decimal.NewFromInt(50),
		Status:           domain.RequestStatusPending,
		PaymentReference: "ref_recent",
		CreatedAt:        time.Now().Add(-12 * time.Hour),
	})

	require.NoError(t, rec.SweepUnpaidRequests(context.Background()))

	assert.Empty(t, store.TxRows)
	still, _ := store.Requests().GetByID(req.ID)
	assert.NotNil(t, still)
}

func TestSweepEscrowReleasesPaysOut(t *testing.T) {
	store, rec := newReconcilerFixture(t, stubVerifier{})
	store.SeedSetting(&models.ConfigSetting{
		Slug:            "request_fee_charge",
		Value:           "10",
		CalculationType: domain.CalculationTypePercentage,
	})
	req, _ := seedStalePayment(store)
	req.Status = domain.RequestStatusCompleted
	req.IsRequestPaid = true
	tr, _ := store.Transactions().GetByReference("ref_stale")
	tr.Status = domain.TransactionStatusCompleted

	celebUserID := uint(20)
	celebWallet := store.SeedWallet(&models.Wallet{UserID: &celebUserID, Currency: "USD"})
	adminWallet := store.SeedWallet(&models.Wallet{IsSuperAdmin: true, Currency: "USD"})

	require.NoError(t, rec.SweepEscrowReleases(context.Background()))

	assert.True(t, celebWallet.WalletBalance.Equal(decimal.NewFromInt(45)), "got %s", celebWallet.WalletBalance)
	assert.True(t, adminWallet.WalletBalance.Equal(decimal.NewFromInt(5)), "got %s", adminWallet.WalletBalance)
	got, _ := store.Transactions().GetByReference("ref_stale")
	assert.Equal(t, domain.EscrowStatusReleased, *got.EscrowStatus)

	// A second sweep finds nothing to release.
	require.NoError(t, rec.SweepEscrowReleases(context.Background()))
	assert.True(t, celebWallet.WalletBalance.Equal(decimal.NewFromInt(45)))
}
