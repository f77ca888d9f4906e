package public

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/freshcart-shop/freshcart/internal/http/response"
	"github.com/freshcart-shop/freshcart/internal/service"

	"github.com/gin-gonic/gin"
)

const webhookBodyLimit = 1 << 20

// CreatePaymentIntentRequest starts gateway payment for an order.
type CreatePaymentIntentRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// CreatePaymentIntent creates (or replays) a gateway payment intent.
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	intent, err := h.PaymentService.CreatePaymentIntent(c.Request.Context(), req.OrderID, uid)
	if err != nil {
		respondWithMappedError(c, err, paymentHandlerErrors)
		return
	}

	response.Success(c, intent)
}

// GetPayment returns a payment owned by the shopper.
func (h *Handler) GetPayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || paymentID == 0 {
		response.BadRequest(c, "Invalid payment id")
		return
	}

	payment, err := h.PaymentService.GetPayment(uint(paymentID), uid)
	if err != nil {
		respondWithMappedError(c, err, paymentHandlerErrors)
		return
	}

	response.Success(c, payment)
}

// HandleWebhook receives gateway events. The raw body is read before any
// binding so the signature check sees the exact bytes that were signed.
// The gateway only needs a bare acknowledgement, not the API envelope.
func (h *Handler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookBodyLimit))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.PaymentService.HandleWebhook(payload, signature); err != nil {
		if errors.Is(err, service.ErrWebhookInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		// Non-2xx so the gateway retries the delivery.
		c.JSON(http.StatusBadRequest, gin.H{"error": "processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
