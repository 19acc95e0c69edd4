package public

import (
	"strings"

	"github.com/ava-bijoux/ava-next/internal/http/response"
	"github.com/ava-bijoux/ava-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrder records a checkout. The response carries only the order
// number; payment state is confirmed asynchronously by the webhook when
// the intent could not be verified inline.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	req.ClientIP = c.ClientIP()

	result, err := h.OrderService.CreateOrder(req)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "create order failed")
		return
	}

	response.Created(c, result)
}

// GetOrder order confirmation lookup. The order number is unguessable
// enough for a confirmation page but the payload stays customer-facing.
func (h *Handler) GetOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	order, err := h.OrderService.GetOrder(id)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
		}, response.CodeInternal, "get order failed")
		return
	}
	response.Success(c, order)
}
