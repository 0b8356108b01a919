// Package servicetest provides an in-memory service.Store for tests.
// InTx serializes callers the way row locks do in MySQL, so concurrent
// release tests exercise the same mutual exclusion the real store has.
package servicetest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vybraa/vybraa-api-v1/internal/models"
	"github.com/vybraa/vybraa-api-v1/internal/service"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MemStore struct {
	mu   sync.Mutex
	txMu sync.Mutex
	ids  uint

	TxRows      []*models.Transaction
	ReqRows     []*models.Request
	WalletRows  []*models.Wallet
	EarningRows []*models.WalletEarningsHistory
	SettingRows []*models.ConfigSetting
	RateRows    []*models.ExchangeRate
	ProfileRows []*models.CelebrityProfile
	NoteRows    []*models.Notification
}

var _ service.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) nextID() uint {
	s.ids++
	return s.ids
}

func (s *MemStore) Transactions() service.TransactionStore   { return memTxStore{s} }
func (s *MemStore) Requests() service.RequestStore           { return memReqStore{s} }
func (s *MemStore) Wallets() service.WalletStore             { return memWalletStore{s} }
func (s *MemStore) Earnings() service.EarningsStore          { return memEarningsStore{s} }
func (s *MemStore) Settings() service.SettingStore           { return memSettingStore{s} }
func (s *MemStore) Rates() service.RateStore                 { return memRateStore{s} }
func (s *MemStore) Profiles() service.ProfileStore           { return memProfileStore{s} }
func (s *MemStore) Notifications() service.NotificationStore { return memNoteStore{s} }

func (s *MemStore) InTx(ctx context.Context, fn func(service.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}

// Seeding helpers. They assign IDs when missing.

func (s *MemStore) SeedRequest(req *models.Request) *models.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == 0 {
		req.ID = s.nextID()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	s.ReqRows = append(s.ReqRows, req)
	return req
}

func (s *MemStore) SeedWallet(w *models.Wallet) *models.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == 0 {
		w.ID = s.nextID()
	}
	s.WalletRows = append(s.WalletRows, w)
	return w
}

func (s *MemStore) SeedSetting(c *models.ConfigSetting) *models.ConfigSetting {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.nextID()
	}
	s.SettingRows = append(s.SettingRows, c)
	return c
}

func (s *MemStore) SeedRate(r *models.ExchangeRate) *models.ExchangeRate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.nextID()
	}
	s.RateRows = append(s.RateRows, r)
	return r
}

func (s *MemStore) SeedProfile(p *models.CelebrityProfile) *models.CelebrityProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextID()
	}
	s.ProfileRows = append(s.ProfileRows, p)
	return p
}

func (s *MemStore) SeedTransaction(t *models.Transaction) *models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.nextID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.TxRows = append(s.TxRows, t)
	return t
}

// Transactions

type memTxStore struct{ s *MemStore }

func (m memTxStore) GetByReference(reference string) (*models.Transaction, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, t := range m.s.TxRows {
		if t.Reference == reference && !t.DeletedAt.Valid {
			return t, nil
		}
	}
	return nil, nil
}

func (m memTxStore) GetByReferenceForUpdate(reference string) (*models.Transaction, error) {
	return m.GetByReference(reference)
}

func (m memTxStore) GetByID(id uint) (*models.Transaction, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, t := range m.s.TxRows {
		if t.ID == id && !t.DeletedAt.Valid {
			if t.RequestID != nil && t.Request == nil {
				t.Request = m.s.findRequestLocked(*t.RequestID)
			}
			return t, nil
		}
	}
	return nil, nil
}

func (m memTxStore) Create(t *models.Transaction) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.TxRows {
		if existing.Reference == t.Reference {
			return fmt.Errorf("duplicate reference %s", t.Reference)
		}
	}
	if t.ID == 0 {
		t.ID = m.s.nextID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	m.s.TxRows = append(m.s.TxRows, t)
	return nil
}

func (m memTxStore) Update(t *models.Transaction) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i, existing := range m.s.TxRows {
		if existing.ID == t.ID {
			m.s.TxRows[i] = t
			return nil
		}
	}
	return fmt.Errorf("transaction %d not found", t.ID)
}

func (m memTxStore) ListStalePending(olderThan time.Time) ([]models.Transaction, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.s.TxRows {
		if t.DeletedAt.Valid || !t.IsInEscrow {
			continue
		}
		if t.Status != "PENDING" || t.EscrowStatus == nil || *t.EscrowStatus != "PENDING" {
			continue
		}
		if !t.CreatedAt.Before(olderThan) {
			continue
		}
		cp := *t
		out = append(out, cp)
	}
	return out, nil
}

// Requests

type memReqStore struct{ s *MemStore }

func (s *MemStore) findRequestLocked(id uint) *models.Request {
	for _, r := range s.ReqRows {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (m memReqStore) GetByID(id uint) (*models.Request, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.ReqRows {
		if r.ID == id && !r.DeletedAt.Valid {
			return r, nil
		}
	}
	return nil, nil
}

func (m memReqStore) GetByPaymentReference(reference string) (*models.Request, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.ReqRows {
		if r.PaymentReference == reference && !r.DeletedAt.Valid {
			return r, nil
		}
	}
	return nil, nil
}

func (m memReqStore) MarkPaid(id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.ReqRows {
		if r.ID == id && !r.IsRequestPaid {
			r.IsRequestPaid = true
		}
	}
	return nil
}

func (m memReqStore) UpdateStatus(id uint, status string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.ReqRows {
		if r.ID == id {
			r.Status = status
		}
	}
	return nil
}

func (m memReqStore) ListCompletedWithPendingEscrow() ([]models.Request, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Request
	for _, r := range m.s.ReqRows {
		if r.DeletedAt.Valid || r.Status != "COMPLETED" {
			continue
		}
		pending, released := false, false
		for _, t := range m.s.TxRows {
			if t.RequestID == nil || *t.RequestID != r.ID || t.DeletedAt.Valid {
				continue
			}
			if t.EscrowStatus != nil && *t.EscrowStatus == "PENDING" && t.IsInEscrow {
				pending = true
			}
			if t.EscrowStatus != nil && *t.EscrowStatus == "RELEASED" {
				released = true
			}
		}
		if pending && !released {
			cp := *r
			out = append(out, cp)
		}
	}
	return out, nil
}

func (m memReqStore) ListUnpaidOlderThan(cutoff time.Time) ([]models.Request, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Request
	for _, r := range m.s.ReqRows {
		if r.DeletedAt.Valid || r.IsRequestPaid || r.Status != "PENDING" {
			continue
		}
		if !r.CreatedAt.Before(cutoff) {
			continue
		}
		cp := *r
		cp.Transactions = m.s.transactionsForLocked(r.ID)
		out = append(out, cp)
	}
	return out, nil
}

func (s *MemStore) transactionsForLocked(requestID uint) []models.Transaction {
	var out []models.Transaction
	for _, t := range s.TxRows {
		if t.RequestID != nil && *t.RequestID == requestID && !t.DeletedAt.Valid {
			out = append(out, *t)
		}
	}
	return out
}

func (m memReqStore) ListReleasedByCelebrity(celebrityProfileID uint) ([]models.Request, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Request
	for _, r := range m.s.ReqRows {
		if r.DeletedAt.Valid || r.CelebrityProfileID != celebrityProfileID {
			continue
		}
		for _, t := range m.s.TxRows {
			if t.RequestID != nil && *t.RequestID == r.ID && !t.DeletedAt.Valid &&
				t.Status == "COMPLETED" && t.EscrowStatus != nil && *t.EscrowStatus == "RELEASED" {
				cp := *r
				cp.Transactions = m.s.transactionsForLocked(r.ID)
				out = append(out, cp)
				break
			}
		}
	}
	return out, nil
}

func (m memReqStore) CountPaidByCelebrity(celebrityProfileID uint) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, r := range m.s.ReqRows {
		if !r.DeletedAt.Valid && r.CelebrityProfileID == celebrityProfileID && r.IsRequestPaid {
			n++
		}
	}
	return n, nil
}

func (m memReqStore) CountPaidUnfulfilledByCelebrity(celebrityProfileID uint) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, r := range m.s.ReqRows {
		if !r.DeletedAt.Valid && r.CelebrityProfileID == celebrityProfileID && r.IsRequestPaid &&
			(r.Status == "DECLINED" || r.Status == "PENDING") {
			n++
		}
	}
	return n, nil
}

func (m memReqStore) SoftDelete(id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.ReqRows {
		if r.ID == id {
			r.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		}
	}
	return nil
}

// Wallets

type memWalletStore struct{ s *MemStore }

func (m memWalletStore) GetByUserID(userID uint) (*models.Wallet, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, w := range m.s.WalletRows {
		if w.UserID != nil && *w.UserID == userID && !w.DeletedAt.Valid {
			return w, nil
		}
	}
	return nil, nil
}

func (m memWalletStore) GetByUserIDForUpdate(userID uint) (*models.Wallet, error) {
	return m.GetByUserID(userID)
}

func (m memWalletStore) GetSuperAdminForUpdate() (*models.Wallet, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, w := range m.s.WalletRows {
		if w.IsSuperAdmin && !w.DeletedAt.Valid {
			return w, nil
		}
	}
	return nil, nil
}

func (m memWalletStore) Credit(walletID uint, amount decimal.Decimal) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, w := range m.s.WalletRows {
		if w.ID == walletID {
			w.WalletBalance = w.WalletBalance.Add(amount)
			return nil
		}
	}
	return fmt.Errorf("wallet %d not found", walletID)
}

// Earnings

type memEarningsStore struct{ s *MemStore }

func (m memEarningsStore) Create(h *models.WalletEarningsHistory) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if h.ID == 0 {
		h.ID = m.s.nextID()
	}
	h.CreatedAt = time.Now()
	m.s.EarningRows = append(m.s.EarningRows, h)
	return nil
}

func (m memEarningsStore) GetByRequestID(requestID uint) (*models.WalletEarningsHistory, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, h := range m.s.EarningRows {
		if h.RequestID == requestID {
			return h, nil
		}
	}
	return nil, nil
}

func (m memEarningsStore) ListByWalletID(walletID uint) ([]models.WalletEarningsHistory, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.WalletEarningsHistory
	for _, h := range m.s.EarningRows {
		if h.WalletID == walletID {
			out = append(out, *h)
		}
	}
	return out, nil
}

// Settings

type memSettingStore struct{ s *MemStore }

func (m memSettingStore) GetBySlug(slug string) (*models.ConfigSetting, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.SettingRows {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (m memSettingStore) Create(c *models.ConfigSetting) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.s.nextID()
	}
	m.s.SettingRows = append(m.s.SettingRows, c)
	return nil
}

// Rates

type memRateStore struct{ s *MemStore }

func (m memRateStore) GetActiveRate(from, to string) (*models.ExchangeRate, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.RateRows {
		if r.IsActive && strings.EqualFold(r.FromCurrency, from) && strings.EqualFold(r.ToCurrency, to) {
			return r, nil
		}
	}
	return nil, nil
}

func (m memRateStore) Create(r *models.ExchangeRate) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if r.ID == 0 {
		r.ID = m.s.nextID()
	}
	m.s.RateRows = append(m.s.RateRows, r)
	return nil
}

func (m memRateStore) List(from, to string) ([]models.ExchangeRate, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.ExchangeRate
	for _, r := range m.s.RateRows {
		if from != "" && !strings.EqualFold(r.FromCurrency, from) {
			continue
		}
		if to != "" && !strings.EqualFold(r.ToCurrency, to) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

// Profiles

type memProfileStore struct{ s *MemStore }

func (m memProfileStore) GetByID(id uint) (*models.CelebrityProfile, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.ProfileRows {
		if p.ID == id && !p.DeletedAt.Valid {
			return p, nil
		}
	}
	return nil, nil
}

func (m memProfileStore) GetByUserID(userID uint) (*models.CelebrityProfile, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.ProfileRows {
		if p.UserID == userID && !p.DeletedAt.Valid {
			return p, nil
		}
	}
	return nil, nil
}

// Notifications

type memNoteStore struct{ s *MemStore }

func (m memNoteStore) Create(n *models.Notification) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if n.ID == 0 {
		n.ID = m.s.nextID()
	}
	n.CreatedAt = time.Now()
	m.s.NoteRows = append(m.s.NoteRows, n)
	return nil
}

func (m memNoteStore) ListByUser(userID uint, limit int) ([]models.Notification, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	var out []models.Notification
	for i := len(m.s.NoteRows) - 1; i >= 0 && len(out) < limit; i-- {
		n := m.s.NoteRows[i]
		if n.UserID == userID && !n.DeletedAt.Valid {
			out = append(out, *n)
		}
	}
	return out, nil
}
