package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/vybraa/vybraa-api-v1/internal/service"
	"github.com/vybraa/vybraa-api-v1/pkg/payment"

	"github.com/gin-gonic/gin"
)

// PaymentHandler serves the client-initiated verification path: after
// the checkout redirect the frontend asks us to confirm the charge with
// the gateway and settle it, instead of waiting for the webhook.
type PaymentHandler struct {
	verifiers  map[string]payment.Verifier
	settlement *service.SettlementService
}

func NewPaymentHandler(verifiers map[string]payment.Verifier, settlement *service.SettlementService) *PaymentHandler {
	return &PaymentHandler{verifiers: verifiers, settlement: settlement}
}

// Verify handles GET /payment/<provider>/verify/:reference for the
// given provider.
func (h *PaymentHandler) Verify(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reference := c.Param("reference")

		verifier, ok := h.verifiers[provider]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider"})
			return
		}

		ev, err := verifier.VerifyByReference(c.Request.Context(), reference)
		switch {
		case errors.Is(err, payment.ErrGatewayTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "gateway unreachable, try again"})
			return
		case errors.Is(err, payment.ErrVerifyFailed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment not verified"})
			return
		case err != nil:
			log.Printf("[Payment] verify %s/%s: %v", provider, reference, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
			return
		}

		tr, err := h.settlement.Settle(c.Request.Context(), *ev)
		if err != nil {
			if errors.Is(err, service.ErrReferenceNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown reference"})
				return
			}
			log.Printf("[Payment] settle %s: %v", reference, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"reference": tr.Reference,
			"status":    tr.Status,
			"amount":    tr.Amount,
			"currency":  tr.Currency,
		})
	}
}
