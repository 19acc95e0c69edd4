package admin

import (
	"strconv"
	"strings"

	"github.com/ava-bijoux/ava-next/internal/http/handlers/shared"
	"github.com/ava-bijoux/ava-next/internal/http/response"
	"github.com/ava-bijoux/ava-next/internal/repository"
	"github.com/ava-bijoux/ava-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest status transition payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

var orderStatusErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrInvalidStatus, code: response.CodeBadRequest, msg: "unknown status"},
	{target: service.ErrOrderAlreadyTerminal, code: response.CodeConflict, msg: "order already closed"},
	{target: service.ErrInvalidTransition, code: response.CodeConflict, msg: "status transition not allowed"},
}

// ListOrders back-office order listing
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		OrderID:       strings.TrimSpace(c.Query("order_id")),
		CustomerEmail: strings.TrimSpace(c.Query("customer_email")),
	}
	if salonID, err := strconv.ParseUint(c.Query("salon_id"), 10, 64); err == nil {
		filter.SalonID = uint(salonID)
	}

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "list orders failed", err)
		return
	}

	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: shared.BuildTotalPage(total, pageSize),
	})
}

// GetOrder back-office order detail
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.OrderService.GetOrder(strings.TrimSpace(c.Param("id")))
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "get order failed")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus moves an order along the fulfillment pipeline
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.UpdateStatus(strings.TrimSpace(c.Param("id")), req.Status)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "update order status failed")
		return
	}
	response.Success(c, order)
}
