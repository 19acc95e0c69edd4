package service

import (
	"strings"
	"time"

	"github.com/ava-bijoux/ava-next/internal/config"
	"github.com/ava-bijoux/ava-next/internal/constants"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/ava-bijoux/ava-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminClaims back-office token claims
type AdminClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Actor    string `json:"actor"`
	jwt.RegisteredClaims
}

// SalonClaims partner portal token claims
type SalonClaims struct {
	SalonID uint   `json:"salon_id"`
	Email   string `json:"email"`
	Actor   string `json:"actor"`
	jwt.RegisteredClaims
}

// AuthService issues and validates bearer tokens for both back-office
// admins and salon partners. The two audiences use separate signing keys.
type AuthService struct {
	adminRepo repository.AdminRepository
	salonRepo repository.SalonRepository
	adminJWT  config.JWTConfig
	salonJWT  config.JWTConfig
}

// NewAuthService creates an auth service
func NewAuthService(adminRepo repository.AdminRepository, salonRepo repository.SalonRepository, adminJWT, salonJWT config.JWTConfig) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		salonRepo: salonRepo,
		adminJWT:  adminJWT,
		salonJWT:  salonJWT,
	}
}

// AdminLogin validates credentials and issues an admin token
func (s *AuthService) AdminLogin(username, password, clientIP string) (string, *models.Admin, error) {
	admin, err := s.adminRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return "", nil, err
	}
	if admin == nil {
		return "", nil, ErrInvalidCredentials
	}
	if admin.Status != constants.AdminStatusActive {
		return "", nil, ErrAccountDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := AdminClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		Actor:    constants.ActorTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL(s.adminJWT))),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.adminJWT.SecretKey))
	if err != nil {
		return "", nil, err
	}

	if err := s.adminRepo.UpdateLoginInfo(admin.ID, clientIP, now); err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

// SalonLogin validates credentials and issues a salon token
func (s *AuthService) SalonLogin(email, password string) (string, *models.Salon, error) {
	salon, err := s.salonRepo.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if salon == nil {
		return "", nil, ErrInvalidCredentials
	}
	if salon.Status != constants.SalonStatusActive {
		return "", nil, ErrAccountDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(salon.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := SalonClaims{
		SalonID: salon.ID,
		Email:   salon.Email,
		Actor:   constants.ActorTypeSalon,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL(s.salonJWT))),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.salonJWT.SecretKey))
	if err != nil {
		return "", nil, err
	}
	return token, salon, nil
}

// ParseAdminToken validates an admin bearer token
func (s *AuthService) ParseAdminToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(s.adminJWT.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Actor != constants.ActorTypeAdmin || claims.AdminID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseSalonToken validates a salon bearer token
func (s *AuthService) ParseSalonToken(tokenString string) (*SalonClaims, error) {
	claims := &SalonClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(s.salonJWT.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Actor != constants.ActorTypeSalon || claims.SalonID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// GetAdmin loads an admin for the authenticated context
func (s *AuthService) GetAdmin(id uint) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if admin == nil || admin.Status != constants.AdminStatusActive {
		return nil, ErrTokenInvalid
	}
	return admin, nil
}

// GetSalon loads a salon for the authenticated context
func (s *AuthService) GetSalon(id uint) (*models.Salon, error) {
	salon, err := s.salonRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if salon == nil || salon.Status != constants.SalonStatusActive {
		return nil, ErrTokenInvalid
	}
	return salon, nil
}

func (s *AuthService) tokenTTL(cfg config.JWTConfig) time.Duration {
	if cfg.ExpireHours > 0 {
		return time.Duration(cfg.ExpireHours) * time.Hour
	}
	return 24 * time.Hour
}
