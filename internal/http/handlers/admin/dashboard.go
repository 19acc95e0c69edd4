package admin

import (
	"github.com/ava-bijoux/ava-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Dashboard back-office landing metrics
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.DashboardService.GetStats()
	if err != nil {
		respondError(c, response.CodeInternal, "load dashboard failed", err)
		return
	}
	response.Success(c, stats)
}
