package public

import (
	"strings"

	"github.com/ava-bijoux/ava-next/internal/http/response"
	"github.com/ava-bijoux/ava-next/internal/service"

	"github.com/gin-gonic/gin"
)

// salonPublicView storefront attribution payload, no contact or bank data
type salonPublicView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	City string `json:"city"`
}

// GetSalon resolves a salon referral slug for checkout attribution
func (h *Handler) GetSalon(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	salon, err := h.SalonService.GetSalonBySlug(slug)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrSalonNotFound, code: response.CodeNotFound, msg: "salon not found"},
			{target: service.ErrSalonInactive, code: response.CodeNotFound, msg: "salon not found"},
		}, response.CodeInternal, "get salon failed")
		return
	}
	response.Success(c, salonPublicView{
		ID:   salon.ID,
		Name: salon.Name,
		Slug: salon.Slug,
		City: salon.City,
	})
}
