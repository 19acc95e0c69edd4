package salon

import (
	"github.com/ava-bijoux/ava-next/internal/http/response"
	"github.com/ava-bijoux/ava-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProfile current salon account with its ledger summary
func (h *Handler) GetProfile(c *gin.Context) {
	salonID, ok := getSalonID(c)
	if !ok {
		return
	}

	account, err := h.AuthService.GetSalon(salonID)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrSalonNotFound, code: response.CodeNotFound, msg: "salon not found"},
		}, response.CodeInternal, "get profile failed")
		return
	}

	summary, err := h.CommissionService.GetSalonSummary(salonID)
	if err != nil {
		respondError(c, response.CodeInternal, "get profile failed", err)
		return
	}
	response.Success(c, gin.H{
		"salon": account,
		"stats": summary,
	})
}

// UpdateProfile self-service profile edit. Bank details and commission
// rate are admin-managed and not accepted here.
func (h *Handler) UpdateProfile(c *gin.Context) {
	salonID, ok := getSalonID(c)
	if !ok {
		return
	}

	var req service.UpdateSalonProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	account, err := h.SalonService.UpdateProfile(salonID, req)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrSalonNotFound, code: response.CodeNotFound, msg: "salon not found"},
		}, response.CodeInternal, "update profile failed")
		return
	}
	response.Success(c, account)
}
