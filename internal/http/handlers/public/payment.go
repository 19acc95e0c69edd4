package public

import (
	"io"
	"net/http"

	"github.com/ava-bijoux/ava-next/internal/http/response"
	"github.com/ava-bijoux/ava-next/internal/models"

	"github.com/gin-gonic/gin"
)

// CreatePaymentIntentRequest checkout payment bootstrap payload
type CreatePaymentIntentRequest struct {
	Amount       models.Money `json:"amount" binding:"required"`
	Description  string       `json:"description"`
	ReceiptEmail string       `json:"receipt_email"`
}

// CreatePaymentIntent opens a card payment for the checkout total
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	result, err := h.PaymentService.CreatePaymentIntent(c.Request.Context(), req.Amount, req.Description, req.ReceiptEmail)
	if err != nil {
		respondWithMappedError(c, err, paymentIntentErrorRules, response.CodeInternal, "create payment intent failed")
		return
	}

	response.Success(c, result)
}

// StripeWebhook receives asynchronous payment confirmations. The
// signature check happens inside the service; an invalid signature is a
// plain 400 so the provider retries with a fresh delivery.
func (h *Handler) StripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.String(http.StatusBadRequest, "read body failed")
		return
	}

	headers := map[string]string{
		"Stripe-Signature": c.GetHeader("Stripe-Signature"),
	}
	if err := h.PaymentService.HandleWebhook(headers, body); err != nil {
		c.String(http.StatusBadRequest, "webhook rejected")
		return
	}
	c.String(http.StatusOK, "ok")
}
