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

var salonErrorRules = []mappedHandlerError{
	{target: service.ErrSalonNotFound, code: response.CodeNotFound, msg: "salon not found"},
	{target: service.ErrEmailTaken, code: response.CodeConflict, msg: "email already in use"},
	{target: service.ErrSlugTaken, code: response.CodeConflict, msg: "slug already in use"},
}

// UpdateSalonStatusRequest activation toggle payload
type UpdateSalonStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListSalons partner account listing
func (h *Handler) ListSalons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	salons, total, err := h.SalonService.ListSalons(repository.SalonListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "list salons failed", err)
		return
	}

	response.SuccessWithPage(c, salons, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: shared.BuildTotalPage(total, pageSize),
	})
}

// GetSalon partner account detail
func (h *Handler) GetSalon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "salon id invalid", nil)
		return
	}
	salon, err := h.SalonService.GetSalon(uint(id))
	if err != nil {
		respondWithMappedError(c, err, salonErrorRules, response.CodeInternal, "get salon failed")
		return
	}
	response.Success(c, salon)
}

// CreateSalon onboards a partner salon
func (h *Handler) CreateSalon(c *gin.Context) {
	var req service.CreateSalonInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	salon, err := h.SalonService.CreateSalon(req)
	if err != nil {
		respondWithMappedError(c, err, salonErrorRules, response.CodeInternal, "create salon failed")
		return
	}
	response.Created(c, salon)
}

// UpdateSalon edits a partner account, bank details included
func (h *Handler) UpdateSalon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "salon id invalid", nil)
		return
	}
	var req service.UpdateSalonInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	salon, err := h.SalonService.UpdateSalon(uint(id), req)
	if err != nil {
		respondWithMappedError(c, err, salonErrorRules, response.CodeInternal, "update salon failed")
		return
	}
	response.Success(c, salon)
}

// UpdateSalonStatus activates or suspends a partner account
func (h *Handler) UpdateSalonStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "salon id invalid", nil)
		return
	}
	var req UpdateSalonStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	status := req.Status
	salon, err := h.SalonService.UpdateSalon(uint(id), service.UpdateSalonInput{Status: &status})
	if err != nil {
		respondWithMappedError(c, err, salonErrorRules, response.CodeInternal, "update salon status failed")
		return
	}
	response.Success(c, salon)
}
