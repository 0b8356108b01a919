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

type FlutterwaveWebhookHandler struct {
	gateway    *payment.Flutterwave
	settlement *service.SettlementService
}

func NewFlutterwaveWebhookHandler(gateway *payment.Flutterwave, settlement *service.SettlementService) *FlutterwaveWebhookHandler {
	return &FlutterwaveWebhookHandler{gateway: gateway, settlement: settlement}
}

// Handle processes a Flutterwave webhook delivery. Flutterwave treats
// any non-200 as undeliverable and disables the hook after repeated
// failures, so every outcome answers 200; the body carries the error.
func (h *FlutterwaveWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "invalid body"})
		return
	}
	if !h.gateway.ValidateSignature(c.GetHeader("verif-hash")) {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "invalid signature"})
		return
	}

	var hook payment.FlutterwaveWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "invalid json"})
		return
	}
	if hook.Data.TxRef == "" {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "missing tx_ref"})
		return
	}

	ev := h.gateway.Normalize(hook.Data, body)
	if _, err := h.settlement.Settle(c.Request.Context(), ev); err != nil {
		if errors.Is(err, service.ErrReferenceNotFound) {
			c.JSON(http.StatusOK, gin.H{"status": "error", "message": "request_not_found"})
			return
		}
		log.Printf("[FlutterwaveWebhook] settle %s: %v", hook.Data.TxRef, err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "settlement failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
