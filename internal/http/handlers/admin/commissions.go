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

// ProcessPayoutRequest settlement payload
type ProcessPayoutRequest struct {
	Reference string `json:"reference"`
}

// ListCommissions commission ledger across all salons
func (h *Handler) ListCommissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.CommissionListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		OrderID:  strings.TrimSpace(c.Query("order_id")),
		PayoutID: strings.TrimSpace(c.Query("payout_id")),
	}
	if salonID, err := strconv.ParseUint(c.Query("salon_id"), 10, 64); err == nil {
		filter.SalonID = uint(salonID)
	}

	commissions, total, err := h.CommissionService.ListCommissions(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "list commissions failed", err)
		return
	}

	response.SuccessWithPage(c, commissions, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: shared.BuildTotalPage(total, pageSize),
	})
}

// ListCommissionsBySalon per-salon ledger aggregates
func (h *Handler) ListCommissionsBySalon(c *gin.Context) {
	rows, err := h.CommissionService.ListSalonLedger()
	if err != nil {
		respondError(c, response.CodeInternal, "list salon ledger failed", err)
		return
	}
	response.Success(c, rows)
}

// ListPayouts payout requests across all salons
func (h *Handler) ListPayouts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.PayoutListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
	}
	if salonID, err := strconv.ParseUint(c.Query("salon_id"), 10, 64); err == nil {
		filter.SalonID = uint(salonID)
	}

	payouts, total, err := h.CommissionService.ListPayouts(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "list payouts failed", err)
		return
	}

	response.SuccessWithPage(c, payouts, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: shared.BuildTotalPage(total, pageSize),
	})
}

// GetPayout one payout with its bound commissions
func (h *Handler) GetPayout(c *gin.Context) {
	payout, err := h.CommissionService.GetPayout(strings.TrimSpace(c.Param("id")))
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrPayoutNotFound, code: response.CodeNotFound, msg: "payout not found"},
		}, response.CodeInternal, "get payout failed")
		return
	}
	response.Success(c, payout)
}

// ProcessPayout settles a pending payout. Only the commissions bound at
// request time are marked paid; settling twice is a no-op conflict.
func (h *Handler) ProcessPayout(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	// Body is optional, the reference can be filled in later.
	var req ProcessPayoutRequest
	_ = c.ShouldBindJSON(&req)

	payout, err := h.CommissionService.ProcessPayout(strings.TrimSpace(c.Param("id")), adminID, req.Reference)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrPayoutNotFound, code: response.CodeNotFound, msg: "payout not found"},
			{target: service.ErrPayoutAlreadySettled, code: response.CodeConflict, msg: "payout already settled"},
		}, response.CodeInternal, "process payout failed")
		return
	}
	response.Success(c, payout)
}
