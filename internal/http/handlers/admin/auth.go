package admin

import (
	"github.com/ava-bijoux/ava-next/internal/http/handlers/shared"
	"github.com/ava-bijoux/ava-next/internal/http/response"
	"github.com/ava-bijoux/ava-next/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest back-office login payload
type LoginRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// LoginResponse back-office login result
type LoginResponse struct {
	Token string      `json:"token"`
	Admin interface{} `json:"admin"`
}

// Captcha issues an image challenge for the login form
func (h *Handler) Captcha(c *gin.Context) {
	challenge, err := h.CaptchaService.Generate()
	if err != nil {
		respondError(c, response.CodeInternal, "generate captcha failed", err)
		return
	}
	response.Success(c, challenge)
}

// Login authenticates an admin account
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if h.CaptchaService.Required() {
		if err := h.CaptchaService.Verify(req.CaptchaID, req.CaptchaCode); err != nil {
			respondWithMappedError(c, err, []mappedHandlerError{
				{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, msg: "captcha required"},
				{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, msg: "captcha invalid"},
			}, response.CodeBadRequest, "captcha invalid")
			return
		}
	}

	token, account, err := h.AuthService.AdminLogin(req.Username, req.Password, c.ClientIP())
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid credentials"},
			{target: service.ErrAccountDisabled, code: response.CodeForbidden, msg: "account disabled"},
		}, response.CodeInternal, "login failed")
		return
	}

	// Keep the enforcer's role binding in sync with the account record.
	if err := h.AuthzService.SyncAdminRole(account.ID, account.Role); err != nil {
		shared.RequestLog(c).Warnw("admin_role_sync_failed", "admin_id", account.ID, "role", account.Role, "error", err)
	}

	response.Success(c, LoginResponse{Token: token, Admin: account})
}

// Me current admin account
func (h *Handler) Me(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	account, err := h.AuthService.GetAdmin(adminID)
	if err != nil || account == nil {
		respondError(c, response.CodeNotFound, "admin not found", err)
		return
	}
	response.Success(c, account)
}
