package service

import (
	"strings"
	"time"

	"github.com/ava-bijoux/ava-next/internal/config"

	"github.com/mojocn/base64Captcha"
)

// CaptchaChallenge image captcha challenge
type CaptchaChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService image captcha for the admin login form
type CaptchaService struct {
	cfg   config.CaptchaConfig
	store base64Captcha.Store
}

// NewCaptchaService creates a captcha service
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	maxStore := cfg.MaxStore
	if maxStore <= 0 {
		maxStore = base64Captcha.GCLimitNumber
	}
	expire := base64Captcha.Expiration
	if cfg.ExpireSeconds > 0 {
		expire = time.Duration(cfg.ExpireSeconds) * time.Second
	}
	return &CaptchaService{
		cfg:   cfg,
		store: base64Captcha.NewMemoryStore(maxStore, expire),
	}
}

// Required reports whether captcha is enforced on admin login
func (s *CaptchaService) Required() bool {
	return s.cfg.AdminLogin
}

// Generate creates an image challenge
func (s *CaptchaService) Generate() (*CaptchaChallenge, error) {
	driver := base64Captcha.NewDriverString(
		valueOr(s.cfg.Height, 60),
		valueOr(s.cfg.Width, 200),
		s.cfg.NoiseCount,
		s.cfg.ShowLine,
		valueOr(s.cfg.Length, 5),
		base64Captcha.TxtSimpleCharaters,
		nil,
		nil,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.store)
	id, b64, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaChallenge{CaptchaID: id, ImageBase64: b64}, nil
}

// Verify checks an answer and consumes the challenge
func (s *CaptchaService) Verify(captchaID, answer string) error {
	if !s.Required() {
		return nil
	}
	captchaID = strings.TrimSpace(captchaID)
	answer = strings.TrimSpace(answer)
	if captchaID == "" || answer == "" {
		return ErrCaptchaRequired
	}
	if !s.store.Verify(captchaID, answer, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func valueOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
