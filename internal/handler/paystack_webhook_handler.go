package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/vybraa/vybraa-api-v1/internal/service"
	"github.com/vybraa/vybraa-api-v1/pkg/payment"

	"github.com/gin-gonic/gin"
)

type PaystackWebhookHandler struct {
	gateway    *payment.Paystack
	settlement *service.SettlementService
}

func NewPaystackWebhookHandler(gateway *payment.Paystack, settlement *service.SettlementService) *PaystackWebhookHandler {
	return &PaystackWebhookHandler{gateway: gateway, settlement: settlement}
}

// Handle processes a Paystack webhook delivery. Paystack retries on any
// non-200, so transient failures return 5xx on purpose and a bad
// signature is rejected outright with 401.
func (h *PaystackWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if !h.gateway.ValidateSignature(body, c.GetHeader("x-paystack-signature")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var hook payment.PaystackWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	switch hook.Event {
	case "charge.success", "charge.failed":
		ev := h.gateway.Normalize(hook.Data, body)
		if _, err := h.settlement.Settle(c.Request.Context(), ev); err != nil {
			if errors.Is(err, service.ErrReferenceNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown reference"})
				return
			}
			log.Printf("[PaystackWebhook] settle %s: %v", hook.Data.Reference, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed"})
			return
		}
	default:
		log.Printf("[PaystackWebhook] ignoring event %s", hook.Event)
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
