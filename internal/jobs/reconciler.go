package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/vybraa/vybraa-api-v1/config"
	"github.com/vybraa/vybraa-api-v1/internal/domain"
	"github.com/vybraa/vybraa-api-v1/internal/models"
	"github.com/vybraa/vybraa-api-v1/internal/service"
	"github.com/vybraa/vybraa-api-v1/pkg/payment"

	"github.com/google/uuid"
)

// Reconciler runs the background sweeps that keep the ledger honest:
// stale PENDING transactions get re-verified against the gateway,
// requests nobody paid for get expired, and fulfilled requests get
// their escrow released.
type Reconciler struct {
	store        service.Store
	settlement   *service.SettlementService
	verifiers    map[string]payment.Verifier
	cfg          config.JobsConfig
	baseCurrency string
}

func NewReconciler(store service.Store, settlement *service.SettlementService, verifiers map[string]payment.Verifier, cfg config.JobsConfig, baseCurrency string) *Reconciler {
	return &Reconciler{
		store:        store,
		settlement:   settlement,
		verifiers:    verifiers,
		cfg:          cfg,
		baseCurrency: baseCurrency,
	}
}

// Start launches the sweep loops. They stop when ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	go r.loop(ctx, "stale-pending", r.cfg.StalePendingInterval, r.SweepStalePending)
	go r.loop(ctx, "unpaid-requests", r.cfg.UnpaidRequestInterval, r.SweepUnpaidRequests)
	go r.loop(ctx, "escrow-release", r.cfg.EscrowReleaseInterval, r.SweepEscrowReleases)
}

func (r *Reconciler) loop(ctx context.Context, name string, interval time.Duration, sweep func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Printf("[Reconciler] %s sweep every %s", name, interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sweep(ctx); err != nil {
				log.Printf("[Reconciler] %s sweep: %v", name, err)
			}
		}
	}
}

// SweepStalePending re-verifies transactions that have sat in PENDING
// escrow past the configured age. A gateway timeout leaves the row
// untouched for the next pass; a definitive answer settles it.
func (r *Reconciler) SweepStalePending(ctx context.Context) error {
	cutoff := time.Now().Add(-r.cfg.StalePendingAge)
	stale, err := r.store.Transactions().ListStalePending(cutoff)
	if err != nil {
		return err
	}
	for i := range stale {
		tr := &stale[i]
		if err := r.reverify(ctx, tr); err != nil {
			log.Printf("[Reconciler] reverify %s: %v", tr.Reference, err)
		}
	}
	return nil
}

func (r *Reconciler) reverify(ctx context.Context, tr *models.Transaction) error {
	verifier, ok := r.verifiers[tr.Provider]
	if !ok {
		return fmt.Errorf("no verifier for provider %q", tr.Provider)
	}

	ev, err := verifier.VerifyByReference(ctx, tr.Reference)
	switch {
	case errors.Is(err, payment.ErrGatewayTimeout):
		// Indeterminate; keep PENDING and try again next sweep.
		log.Printf("[Reconciler] gateway timeout verifying %s, will retry", tr.Reference)
		return nil
	case errors.Is(err, payment.ErrVerifyFailed):
		ev = &payment.Event{
			Provider:  tr.Provider,
			Reference: tr.Reference,
			Amount:    tr.Amount,
			Currency:  tr.Currency,
			Status:    domain.TransactionStatusFailed,
		}
	case err != nil:
		return err
	}

	if _, err := r.settlement.Settle(ctx, *ev); err != nil {
		return err
	}
	if ev.Status == domain.TransactionStatusFailed && tr.RequestID != nil {
		return r.settlement.DeclineRequest(ctx, *tr.RequestID)
	}
	return nil
}

// SweepUnpaidRequests expires requests whose payment never arrived:
// write a synthetic FAILED transaction for the audit trail when no
// ledger row exists yet, then soft-delete the request.
func (r *Reconciler) SweepUnpaidRequests(ctx context.Context) error {
	cutoff := time.Now().Add(-r.cfg.UnpaidRequestAge)
	unpaid, err := r.store.Requests().ListUnpaidOlderThan(cutoff)
	if err != nil {
		return err
	}
	for i := range unpaid {
		req := &unpaid[i]
		if hasCompletedPayment(req) {
			continue
		}
		// The audit-trail transaction is only synthesized when the
		// request has no ledger rows at all; an existing FAILED or
		// PENDING row already records what happened.
		if len(req.Transactions) == 0 {
			requestID := req.ID
			tr := &models.Transaction{
				UserID:      req.UserID,
				RequestID:   &requestID,
				Amount:      req.Price,
				Currency:    r.baseCurrency,
				Reference:   "timeout_" + uuid.NewString(),
				Type:        domain.TransactionTypeCredit,
				Status:      domain.TransactionStatusFailed,
				Description: "request expired before payment",
			}
			if err := r.store.Transactions().Create(tr); err != nil {
				log.Printf("[Reconciler] expire request %d: %v", req.ID, err)
				continue
			}
		}
		if err := r.store.Requests().SoftDelete(req.ID); err != nil {
			log.Printf("[Reconciler] soft-delete request %d: %v", req.ID, err)
			continue
		}
		log.Printf("[Reconciler] expired unpaid request %d", req.ID)
	}
	return nil
}

func hasCompletedPayment(req *models.Request) bool {
	for i := range req.Transactions {
		if req.Transactions[i].Status == domain.TransactionStatusCompleted {
			return true
		}
	}
	return false
}

// SweepEscrowReleases pays out every fulfilled request still holding
// PENDING escrow. Each release is its own database transaction, so one
// failure does not block the rest.
func (r *Reconciler) SweepEscrowReleases(ctx context.Context) error {
	due, err := r.store.Requests().ListCompletedWithPendingEscrow()
	if err != nil {
		return err
	}
	for i := range due {
		if err := r.settlement.ReleaseEscrow(ctx, due[i].ID); err != nil {
			log.Printf("[Reconciler] release escrow for request %d: %v", due[i].ID, err)
		}
	}
	return nil
}
