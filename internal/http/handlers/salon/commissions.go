package salon

import (
	"strconv"
	"strings"

	"github.com/ava-bijoux/ava-next/internal/http/handlers/shared"
	"github.com/ava-bijoux/ava-next/internal/http/response"
	"github.com/ava-bijoux/ava-next/internal/repository"
	"github.com/ava-bijoux/ava-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCommissions commission ledger of the current salon
func (h *Handler) ListCommissions(c *gin.Context) {
	salonID, ok := getSalonID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	commissions, total, err := h.CommissionService.ListCommissions(repository.CommissionListFilter{
		Page:     page,
		PageSize: pageSize,
		SalonID:  salonID,
		Status:   strings.TrimSpace(c.Query("status")),
	})
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

// GetSummary earnings summary of the current salon
func (h *Handler) GetSummary(c *gin.Context) {
	salonID, ok := getSalonID(c)
	if !ok {
		return
	}

	summary, err := h.CommissionService.GetSalonSummary(salonID)
	if err != nil {
		respondError(c, response.CodeInternal, "get summary failed", err)
		return
	}
	response.Success(c, summary)
}

// RequestPayout opens a payout over every pending unpaid commission
func (h *Handler) RequestPayout(c *gin.Context) {
	salonID, ok := getSalonID(c)
	if !ok {
		return
	}

	payout, err := h.CommissionService.RequestPayout(salonID)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrNoPendingCommissions, code: response.CodeBadRequest, msg: "no pending commissions"},
			{target: service.ErrPayoutAlreadyPending, code: response.CodeConflict, msg: "a payout is already pending"},
			{target: service.ErrSalonNotFound, code: response.CodeNotFound, msg: "salon not found"},
		}, response.CodeInternal, "request payout failed")
		return
	}
	response.Created(c, payout)
}

// ListPayouts payout history of the current salon
func (h *Handler) ListPayouts(c *gin.Context) {
	salonID, ok := getSalonID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	payouts, total, err := h.CommissionService.ListPayouts(repository.PayoutListFilter{
		Page:     page,
		PageSize: pageSize,
		SalonID:  salonID,
		Status:   strings.TrimSpace(c.Query("status")),
	})
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

// GetPayout one payout with its bound commissions, scoped to the salon
func (h *Handler) GetPayout(c *gin.Context) {
	salonID, ok := getSalonID(c)
	if !ok {
		return
	}

	payout, err := h.CommissionService.GetSalonPayout(salonID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrPayoutNotFound, code: response.CodeNotFound, msg: "payout not found"},
		}, response.CodeInternal, "get payout failed")
		return
	}
	response.Success(c, payout)
}
