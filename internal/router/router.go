package router

import (
	"net/http"
	"time"

	"github.com/vybraa/vybraa-api-v1/config"
	"github.com/vybraa/vybraa-api-v1/internal/domain"
	"github.com/vybraa/vybraa-api-v1/internal/events"
	"github.com/vybraa/vybraa-api-v1/internal/handler"
	"github.com/vybraa/vybraa-api-v1/internal/middleware"
	"github.com/vybraa/vybraa-api-v1/internal/repository"
	"github.com/vybraa/vybraa-api-v1/internal/service"
	"github.com/vybraa/vybraa-api-v1/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps is the wired object graph shared by the HTTP surface and the
// background reconciler.
type Deps struct {
	Store       *repository.Store
	Bus         *events.Bus
	Paystack    *payment.Paystack
	Flutterwave *payment.Flutterwave
	Verifiers   map[string]payment.Verifier

	Settlement *service.SettlementService
	Currency   *service.CurrencyService
	Configs    *service.ConfigService
}

func BuildDeps(cfg *config.Config, db *gorm.DB) *Deps {
	store := repository.NewStore(db)
	bus := events.NewBus()

	paystack := payment.NewPaystack(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey, cfg.Paystack.Timeout)
	flutterwave := payment.NewFlutterwave(cfg.Flutterwave.BaseURL, cfg.Flutterwave.SecretKey, cfg.Flutterwave.SecretHash, cfg.Flutterwave.Timeout)

	settlementSvc := service.NewSettlementService(store, bus, cfg.BaseCurrency)
	currencySvc := service.NewCurrencyService(store, cfg.BaseCurrency)
	configSvc := service.NewConfigService(store)
	notifSvc := service.NewNotificationService(store)
	notifSvc.Register(bus)

	return &Deps{
		Store:       store,
		Bus:         bus,
		Paystack:    paystack,
		Flutterwave: flutterwave,
		Verifiers: map[string]payment.Verifier{
			domain.ProviderPaystack:    paystack,
			domain.ProviderFlutterwave: flutterwave,
		},
		Settlement: settlementSvc,
		Currency:   currencySvc,
		Configs:    configSvc,
	}
}

func Setup(cfg *config.Config, deps *Deps) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Handlers
	paystackWebhookHandler := handler.NewPaystackWebhookHandler(deps.Paystack, deps.Settlement)
	flutterwaveWebhookHandler := handler.NewFlutterwaveWebhookHandler(deps.Flutterwave, deps.Settlement)
	paymentHandler := handler.NewPaymentHandler(deps.Verifiers, deps.Settlement)
	walletHandler := handler.NewWalletHandler(deps.Store, deps.Currency)
	adminHandler := handler.NewAdminHandler(deps.Store, deps.Configs)
	notificationHandler := handler.NewNotificationHandler(deps.Store)

	authMw := middleware.AuthRequired(&cfg.JWT)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		pay := api.Group("/payment")
		{
			pay.POST("/paystack/webhook", paystackWebhookHandler.Handle)
			pay.POST("/flutterwave/webhook", flutterwaveWebhookHandler.Handle)
			pay.GET("/paystack/verify/:reference", authMw, paymentHandler.Verify(domain.ProviderPaystack))
			pay.GET("/flutterwave/verify/:reference", authMw, paymentHandler.Verify(domain.ProviderFlutterwave))
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/wallet", walletHandler.Overview)
			me.GET("/wallet/transactions", walletHandler.Transactions)
			me.GET("/wallet/transactions/:id", walletHandler.SingleTransaction)
			me.GET("/notifications", notificationHandler.List)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.POST("/exchange-rates", adminHandler.CreateExchangeRate)
			admin.GET("/exchange-rates", adminHandler.ListExchangeRates)
			admin.POST("/config", adminHandler.CreateConfig)
			admin.GET("/config/:slug", adminHandler.GetConfig)
			admin.GET("/fees/preview", adminHandler.PreviewFee)
		}
	}

	return r
}
