package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vybraa/vybraa-api-v1/internal/domain"
	"github.com/vybraa/vybraa-api-v1/internal/middleware"
	"github.com/vybraa/vybraa-api-v1/internal/models"
	"github.com/vybraa/vybraa-api-v1/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WalletHandler serves the celebrity-facing earnings surface: balance
// overview, released transactions and per-transaction detail.
type WalletHandler struct {
	store    service.Store
	currency *service.CurrencyService
}

func NewWalletHandler(store service.Store, currency *service.CurrencyService) *WalletHandler {
	return &WalletHandler{store: store, currency: currency}
}

// Overview handles GET /me/wallet.
func (h *WalletHandler) Overview(c *gin.Context) {
	userID := middleware.GetUserID(c)

	wallet, err := h.store.Wallets().GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet lookup failed"})
		return
	}
	if wallet == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
		return
	}

	profile, err := h.store.Profiles().GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "celebrity profile not found"})
		return
	}

	released, err := h.store.Requests().ListReleasedByCelebrity(profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "earnings lookup failed"})
		return
	}
	totalEarnings := decimal.Zero
	for i := range released {
		req := &released[i]
		if req.Status == domain.RequestStatusCompleted && req.IsRequestPaid {
			totalEarnings = totalEarnings.Add(req.Price)
		}
	}

	totalRequests, err := h.store.Requests().CountPaidByCelebrity(profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request count failed"})
		return
	}
	totalDeclined, err := h.store.Requests().CountPaidUnfulfilledByCelebrity(profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request count failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalBalance":          wallet.WalletBalance.String(),
		"totalEarnings":         totalEarnings.String(),
		"totalRequests":         totalRequests,
		"totalRequestsDeclined": totalDeclined,
	})
}

type walletTransactionItem struct {
	ID       uint   `json:"id"`
	Occasion string `json:"occasion"`
	ForName  string `json:"for_name"`
	FromName string `json:"from_name"`

	Transaction struct {
		ID        uint      `json:"id"`
		Type      string    `json:"type"`
		Amount    string    `json:"amount"` // converted to base currency
		Currency  string    `json:"currency"`
		Status    string    `json:"status"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"transaction"`
}

// Transactions handles GET /me/wallet/transactions. Amounts are
// converted to the base currency so the list is uniform regardless of
// what currency each fan paid in.
func (h *WalletHandler) Transactions(c *gin.Context) {
	userID := middleware.GetUserID(c)

	profile, err := h.store.Profiles().GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "celebrity profile not found"})
		return
	}

	released, err := h.store.Requests().ListReleasedByCelebrity(profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction lookup failed"})
		return
	}

	items := make([]walletTransactionItem, 0, len(released))
	for i := range released {
		req := &released[i]
		tr := releasedTransaction(req)
		if tr == nil {
			continue
		}
		amount, err := h.currency.ConvertToBase(tr.Amount, tr.Currency)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "currency conversion failed"})
			return
		}
		item := walletTransactionItem{
			ID:       req.ID,
			Occasion: req.Occasion,
			ForName:  req.ForName,
			FromName: req.FromName,
		}
		item.Transaction.ID = tr.ID
		item.Transaction.Type = tr.Type
		item.Transaction.Amount = amount.String()
		item.Transaction.Currency = h.currency.BaseCurrency()
		item.Transaction.Status = tr.Status
		item.Transaction.CreatedAt = tr.CreatedAt
		items = append(items, item)
	}
	c.JSON(http.StatusOK, items)
}

// SingleTransaction handles GET /me/wallet/transactions/:id, joining
// the transaction with its request and earnings-history row.
func (h *WalletHandler) SingleTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	tr, err := h.store.Transactions().GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction lookup failed"})
		return
	}
	if tr == nil || tr.Request == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	profile, err := h.store.Profiles().GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}
	if !ownsTransaction(tr, userID, profile) {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	earnings, err := h.store.Earnings().GetByRequestID(tr.Request.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "earnings lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requestFrom":           tr.Request.FromName,
		"requestFor":            tr.Request.ForName,
		"occasion":              tr.Request.Occasion,
		"createdAt":             tr.CreatedAt,
		"type":                  tr.Type,
		"requestAmount":         tr.Amount.String(),
		"requestCurrency":       tr.Currency,
		"requestStatus":         tr.Status,
		"walletEarningsHistory": earnings,
	})
}

func releasedTransaction(req *models.Request) *models.Transaction {
	for i := range req.Transactions {
		tr := &req.Transactions[i]
		if tr.Status == domain.TransactionStatusCompleted &&
			tr.EscrowStatus != nil && *tr.EscrowStatus == domain.EscrowStatusReleased {
			return tr
		}
	}
	return nil
}

func ownsTransaction(tr *models.Transaction, userID uint, profile *models.CelebrityProfile) bool {
	if tr.UserID == userID {
		return true
	}
	return profile != nil && tr.Request != nil && tr.Request.CelebrityProfileID == profile.ID
}
