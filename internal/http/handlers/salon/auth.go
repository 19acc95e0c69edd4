package salon

import (
	"github.com/ava-bijoux/ava-next/internal/http/response"
	"github.com/ava-bijoux/ava-next/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest partner login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse partner login result
type LoginResponse struct {
	Token string      `json:"token"`
	Salon interface{} `json:"salon"`
}

// Login authenticates a salon account
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	token, account, err := h.AuthService.SalonLogin(req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid credentials"},
			{target: service.ErrAccountDisabled, code: response.CodeForbidden, msg: "account disabled"},
		}, response.CodeInternal, "login failed")
		return
	}

	response.Success(c, LoginResponse{Token: token, Salon: account})
}
