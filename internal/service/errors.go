package service

import "errors"

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Catalog errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product inactive")
	ErrSlugTaken       = errors.New("slug already taken")
)

// Salon errors
var (
	ErrSalonNotFound = errors.New("salon not found")
	ErrSalonInactive = errors.New("salon inactive")
	ErrEmailTaken    = errors.New("email already taken")
)

// Order errors
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderEmpty            = errors.New("order has no items")
	ErrOrderInvalid          = errors.New("order payload invalid")
	ErrCustomTextTooLong     = errors.New("custom text exceeds product limit")
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrOrderAlreadyTerminal  = errors.New("order already in terminal status")
	ErrOrderAlreadyPaid      = errors.New("order already paid")
	ErrPaymentNotVerified    = errors.New("payment not verified")
	ErrPaymentAmountMismatch = errors.New("payment amount mismatch")
)

// Commission / payout errors
var (
	ErrCommissionNotFound   = errors.New("commission not found")
	ErrPayoutNotFound       = errors.New("payout not found")
	ErrNoPendingCommissions = errors.New("no pending commissions to pay out")
	ErrPayoutAlreadyPending = errors.New("a pending payout already exists")
	ErrPayoutAlreadySettled = errors.New("payout already settled")
)

// Email errors
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrEmailSendFailed           = errors.New("email send failed")
)

// Captcha errors
var (
	ErrCaptchaRequired = errors.New("captcha required")
	ErrCaptchaInvalid  = errors.New("captcha invalid")
)
