package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vybraa/vybraa-api-v1/internal/domain"
	"github.com/vybraa/vybraa-api-v1/internal/events"
	"github.com/vybraa/vybraa-api-v1/internal/models"
	"github.com/vybraa/vybraa-api-v1/pkg/payment"
)

// defaultFeePercent is the documented fallback applied only during
// escrow release when the fee config row cannot be read.
var defaultFeePercent = decimal.NewFromInt(10)

// SettlementService drives the escrow lifecycle: webhook/verification
// events land in the ledger through Settle, and fulfilled requests get
// their funds split and paid out through ReleaseEscrow.
type SettlementService struct {
	store        Store
	bus          *events.Bus
	baseCurrency string
}

func NewSettlementService(store Store, bus *events.Bus, baseCurrency string) *SettlementService {
	return &SettlementService{store: store, bus: bus, baseCurrency: baseCurrency}
}

// Settle applies a normalized gateway event to the ledger. Delivery is
// at-least-once, so the upsert is keyed on the provider reference:
// a duplicate delivery with an unchanged status is a no-op, and an
// escrow that already left PENDING is never touched again.
func (s *SettlementService) Settle(ctx context.Context, ev payment.Event) (*models.Transaction, error) {
	req, err := s.store.Requests().GetByPaymentReference(ev.Reference)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return s.settleUnmatched(ctx, ev)
	}

	existing, err := s.store.Transactions().GetByReference(ev.Reference)
	if err != nil {
		return nil, err
	}

	wasCompleted := existing != nil && existing.Status == domain.TransactionStatusCompleted
	tr, err := s.upsertRecord(existing, req, ev)
	if err != nil {
		return nil, err
	}

	switch {
	case tr.Status == domain.TransactionStatusCompleted && !wasCompleted:
		if err := s.store.Requests().MarkPaid(req.ID); err != nil {
			return nil, err
		}
		log.Printf("[Settlement] payment %s completed for request %d", ev.Reference, req.ID)
		s.bus.Publish(ctx, events.PaymentCompleted{
			RequestID:       req.ID,
			TransactionID:   tr.ID,
			FanUserID:       req.UserID,
			CelebrityUserID: req.CelebrityProfile.UserID,
			CelebrityName:   req.CelebrityProfile.DisplayName,
			FanName:         fanName(req),
			Occasion:        req.Occasion,
			Reference:       ev.Reference,
			Amount:          ev.Amount,
			Currency:        ev.Currency,
		})
	case tr.Status == domain.TransactionStatusFailed && (existing == nil || existing.Status != domain.TransactionStatusFailed):
		// Request status deliberately stays as-is; the stale-pending
		// sweep owns declining requests.
		log.Printf("[Settlement] payment %s failed for request %d", ev.Reference, req.ID)
		s.bus.Publish(ctx, events.PaymentFailed{
			RequestID:     req.ID,
			TransactionID: tr.ID,
			FanUserID:     req.UserID,
			Reference:     ev.Reference,
			Reason:        ev.Status,
		})
	}
	return tr, nil
}

// settleUnmatched handles references with no request attached, e.g. a
// withdrawal transfer callback: the transaction must already exist.
func (s *SettlementService) settleUnmatched(ctx context.Context, ev payment.Event) (*models.Transaction, error) {
	tr, err := s.store.Transactions().GetByReference(ev.Reference)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, fmt.Errorf("%w: %s", ErrReferenceNotFound, ev.Reference)
	}
	if tr.EscrowStatus != nil && *tr.EscrowStatus == domain.EscrowStatusReleased {
		return tr, nil
	}
	if tr.Status == domain.TransactionStatusCompleted {
		// Transfers don't move backward: a late pending/processing
		// delivery for a finished transfer is stale noise.
		return tr, nil
	}
	if tr.Status == ev.Status {
		return tr, nil
	}
	tr.Status = ev.Status
	tr.Metadata = string(ev.Raw)
	if err := s.store.Transactions().Update(tr); err != nil {
		return nil, err
	}
	log.Printf("[Settlement] transfer %s moved to %s", ev.Reference, ev.Status)
	return tr, nil
}

// upsertRecord creates or updates the ledger row for a request-backed
// payment. Escrow fields follow the status: a completed or still
// in-flight payment is held in escrow as PENDING, a failed one flips to
// REFUNDED.
func (s *SettlementService) upsertRecord(existing *models.Transaction, req *models.Request, ev payment.Event) (*models.Transaction, error) {
	escrowStatus := domain.EscrowStatusPending
	if ev.Status == domain.TransactionStatusFailed {
		escrowStatus = domain.EscrowStatusRefunded
	}
	escrowType := domain.EscrowTypeRequestPayment

	if existing != nil {
		if existing.EscrowStatus != nil && *existing.EscrowStatus != domain.EscrowStatusPending {
			// RELEASED and REFUNDED are terminal; escrow never runs
			// backward, so a late delivery cannot revive a written-off
			// payment into a releasable one.
			return existing, nil
		}
		if existing.Status == ev.Status {
			return existing, nil
		}
		existing.Status = ev.Status
		existing.EscrowStatus = &escrowStatus
		existing.Metadata = string(ev.Raw)
		if err := s.store.Transactions().Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	requestID := req.ID
	tr := &models.Transaction{
		UserID:        req.UserID,
		RequestID:     &requestID,
		Amount:        ev.Amount,
		Currency:      ev.Currency,
		Provider:      ev.Provider,
		PaymentMethod: ev.Channel,
		Reference:     ev.Reference,
		Type:          domain.TransactionTypeCredit,
		Status:        ev.Status,
		IsInEscrow:    true,
		EscrowType:    &escrowType,
		EscrowStatus:  &escrowStatus,
		Metadata:      string(ev.Raw),
	}
	if err := s.store.Transactions().Create(tr); err != nil {
		return nil, err
	}
	return tr, nil
}

// ReleaseEscrow pays out a completed request: mark the transaction
// RELEASED, convert to base currency, split fee, credit the celebrity
// and platform wallets, and append one earnings-history row. The whole
// sequence runs in a single database transaction with row locks; any
// failure rolls everything back and the next sweep retries.
func (s *SettlementService) ReleaseEscrow(ctx context.Context, requestID uint) error {
	var released events.EscrowReleased

	err := s.store.InTx(ctx, func(tx Store) error {
		req, err := tx.Requests().GetByID(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return fmt.Errorf("request %d not found", requestID)
		}
		if req.Status != domain.RequestStatusCompleted {
			return fmt.Errorf("request %d is %s, not COMPLETED", requestID, req.Status)
		}

		tr, err := tx.Transactions().GetByReferenceForUpdate(req.PaymentReference)
		if err != nil {
			return err
		}
		if tr == nil {
			return fmt.Errorf("%w: request %d reference %s", ErrTransactionNotFound, req.ID, req.PaymentReference)
		}
		if tr.EscrowStatus == nil || *tr.EscrowStatus != domain.EscrowStatusPending {
			// Already released or refunded; a concurrent sweep got here
			// first. Nothing to do.
			return nil
		}

		now := time.Now()
		releasedStatus := domain.EscrowStatusReleased
		tr.EscrowStatus = &releasedStatus
		tr.ReleaseDate = &now
		if err := tx.Transactions().Update(tr); err != nil {
			return err
		}

		baseAmount, err := ConvertToBase(tx.Rates(), s.baseCurrency, tr.Amount, tr.Currency)
		if err != nil {
			return err
		}

		split, err := EvaluateFee(tx.Settings(), baseAmount, domain.FeeTypeRequest)
		if err != nil {
			// Documented fallback: a broken fee config must not park
			// celebrity funds forever, so release at a flat 10%.
			log.Printf("[Settlement] fee config unavailable for request %d, falling back to 10%%: %v", req.ID, err)
			fee := baseAmount.Mul(defaultFeePercent).Div(oneHundred)
			split = FeeSplit{Fee: fee, Payee: baseAmount.Sub(fee)}
		}

		celebWallet, err := tx.Wallets().GetByUserIDForUpdate(req.CelebrityProfile.UserID)
		if err != nil {
			return err
		}
		if celebWallet == nil {
			return fmt.Errorf("%w: user %d", ErrWalletNotFound, req.CelebrityProfile.UserID)
		}
		if err := tx.Wallets().Credit(celebWallet.ID, split.Payee); err != nil {
			return err
		}

		superWallet, err := tx.Wallets().GetSuperAdminForUpdate()
		if err != nil {
			return err
		}
		if superWallet == nil {
			return ErrSuperAdminWalletNotFound
		}
		if err := tx.Wallets().Credit(superWallet.ID, split.Fee); err != nil {
			return err
		}

		if err := tx.Earnings().Create(&models.WalletEarningsHistory{
			WalletID:  celebWallet.ID,
			RequestID: req.ID,
			Amount:    split.Payee,
			Currency:  s.baseCurrency,
			VybraaFee: split.Fee,
			Status:    domain.EarningsStatusCredit,
		}); err != nil {
			return err
		}

		released = events.EscrowReleased{
			RequestID:       req.ID,
			CelebrityUserID: req.CelebrityProfile.UserID,
			Amount:          split.Payee,
			Fee:             split.Fee,
			Currency:        s.baseCurrency,
		}
		return nil
	})
	if err != nil {
		return err
	}

	if released.RequestID != 0 {
		log.Printf("[Settlement] escrow released for request %d: %s to celebrity, %s platform fee",
			released.RequestID, released.Amount, released.Fee)
		s.bus.Publish(ctx, released)
	}
	return nil
}

// DeclineRequest moves a request to DECLINED and announces the change.
func (s *SettlementService) DeclineRequest(ctx context.Context, requestID uint) error {
	if err := s.store.Requests().UpdateStatus(requestID, domain.RequestStatusDeclined); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.RequestStatusChanged{RequestID: requestID, Status: domain.RequestStatusDeclined})
	return nil
}

func fanName(req *models.Request) string {
	if req.FromName != "" {
		return req.FromName
	}
	return req.User.FirstName
}
