package handlers

import (
	"net/http"

	"glowbook/services/booking"
	"glowbook/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives asynchronous payment confirmations. The endpoint
// is unauthenticated at the HTTP layer; authenticity rests entirely on the
// gateway signature. Responses stay generic: nothing internal leaks to an
// unauthenticated caller.
type WebhookHandler struct {
	Gateway payment.Gateway
	Engine  booking.LifecycleEngine
	Logger  *zap.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(gateway payment.Gateway, engine booking.LifecycleEngine, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Gateway: gateway, Engine: engine, Logger: logger}
}

// HandlePaymentWebhook handles POST /api/webhooks/payment.
func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	event, err := h.Gateway.VerifyAndParseEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.Logger.Warn("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	if event.Type == payment.EventDepositSucceeded && event.IntentID != "" {
		if err := h.Engine.ApplyPaymentEvent(c.Request.Context(), event.IntentID); err != nil {
			h.Logger.Error("failed to apply payment event", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
