package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vybraa/vybraa-api-v1/internal/models"
	"github.com/vybraa/vybraa-api-v1/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminHandler covers the platform-operator surface: exchange rates,
// config settings, and fee previews.
type AdminHandler struct {
	store   service.Store
	configs *service.ConfigService
}

func NewAdminHandler(store service.Store, configs *service.ConfigService) *AdminHandler {
	return &AdminHandler{store: store, configs: configs}
}

type createExchangeRateRequest struct {
	FromCurrency string `json:"from_currency" binding:"required,len=3"`
	ToCurrency   string `json:"to_currency" binding:"required,len=3"`
	Rate         string `json:"rate" binding:"required"`
}

// CreateExchangeRate handles POST /admin/exchange-rates. The rate means
// "1 from_currency = rate units of to_currency".
func (h *AdminHandler) CreateExchangeRate(c *gin.Context) {
	var req createExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil || rate.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rate must be a positive number"})
		return
	}

	row := &models.ExchangeRate{
		FromCurrency: strings.ToUpper(req.FromCurrency),
		ToCurrency:   strings.ToUpper(req.ToCurrency),
		Rate:         rate,
		IsActive:     true,
	}
	if err := h.store.Rates().Create(row); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create exchange rate"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

// ListExchangeRates handles GET /admin/exchange-rates with optional
// ?from= and ?to= filters.
func (h *AdminHandler) ListExchangeRates(c *gin.Context) {
	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))
	rates, err := h.store.Rates().List(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list exchange rates"})
		return
	}
	c.JSON(http.StatusOK, rates)
}

type createConfigRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Slug            string `json:"slug" binding:"required"`
	Value           string `json:"value" binding:"required"`
	CalculationType string `json:"calculation_type" binding:"required,oneof=PERCENTAGE FIXED"`
}

// CreateConfig handles POST /admin/config.
func (h *AdminHandler) CreateConfig(c *gin.Context) {
	var req createConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := decimal.NewFromString(req.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be numeric"})
		return
	}

	existing, err := h.store.Settings().GetBySlug(req.Slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "config lookup failed"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "config slug already exists"})
		return
	}

	row := &models.ConfigSetting{
		Name:            req.Name,
		Description:     req.Description,
		Slug:            req.Slug,
		Value:           req.Value,
		CalculationType: req.CalculationType,
	}
	if err := h.store.Settings().Create(row); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create config"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

// PreviewFee handles GET /admin/fees/preview?amount=&type=. It runs the
// stored fee config against an amount so operators can check a split
// before funds move.
func (h *AdminHandler) PreviewFee(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive number"})
		return
	}
	feeType := c.DefaultQuery("type", "request")

	split, err := h.configs.EvaluateRequestPrice(amount, feeType)
	if err != nil {
		if errors.Is(err, service.ErrConfigMissing) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no fee config for type " + feeType})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fee evaluation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"amount":       amount,
		"fee_type":     feeType,
		"platform_fee": split.Fee,
		"payee_amount": split.Payee,
	})
}

// GetConfig handles GET /admin/config/:slug.
func (h *AdminHandler) GetConfig(c *gin.Context) {
	cfg, err := h.store.Settings().GetBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "config lookup failed"})
		return
	}
	if cfg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "config not found"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}
