package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ava-bijoux/ava-next/internal/config"
	"github.com/ava-bijoux/ava-next/internal/constants"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/ava-bijoux/ava-next/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}, &models.Salon{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewAuthService(
		repository.NewAdminRepository(db),
		repository.NewSalonRepository(db),
		config.JWTConfig{SecretKey: "admin-test-secret-admin-test-secret", ExpireHours: 2},
		config.JWTConfig{SecretKey: "salon-test-secret-salon-test-secret", ExpireHours: 168},
	)
	return svc, db
}

func createTestAdmin(t *testing.T, db *gorm.DB, username, password, role, status string) *models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{
		Username: username,
		Password: string(hash),
		Role:     role,
		Status:   status,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return admin
}

func TestAdminLoginIssuesToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, db, "alice", "admin-pass-1", constants.AdminRoleAdmin, constants.AdminStatusActive)

	token, admin, err := svc.AdminLogin("alice", "admin-pass-1", "127.0.0.1")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if token == "" || admin == nil {
		t.Fatalf("expected token and account")
	}

	claims, err := svc.ParseAdminToken(token)
	if err != nil {
		t.Fatalf("parse admin token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Role != constants.AdminRoleAdmin {
		t.Fatalf("role must travel in the token, got: %s", claims.Role)
	}
	if claims.Actor != constants.ActorTypeAdmin {
		t.Fatalf("unexpected actor: %s", claims.Actor)
	}
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, db, "bob", "admin-pass-2", constants.AdminRoleOperations, constants.AdminStatusActive)
	createTestAdmin(t, db, "carol", "admin-pass-3", constants.AdminRoleAdmin, constants.AdminStatusInactive)

	if _, _, err := svc.AdminLogin("bob", "wrong-pass", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
	if _, _, err := svc.AdminLogin("nobody", "whatever", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got: %v", err)
	}
	if _, _, err := svc.AdminLogin("carol", "admin-pass-3", ""); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected account disabled, got: %v", err)
	}
}

func TestSalonLoginIssuesToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("salon-pass-1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	salon := &models.Salon{
		Name:     "Salon Jeton",
		Slug:     "salon-jeton",
		Email:    "jeton@example.com",
		Password: string(hash),
		Status:   constants.SalonStatusActive,
	}
	if err := db.Create(salon).Error; err != nil {
		t.Fatalf("create salon failed: %v", err)
	}

	token, account, err := svc.SalonLogin("jeton@example.com", "salon-pass-1")
	if err != nil {
		t.Fatalf("salon login failed: %v", err)
	}
	claims, err := svc.ParseSalonToken(token)
	if err != nil {
		t.Fatalf("parse salon token failed: %v", err)
	}
	if claims.SalonID != account.ID || claims.Email != "jeton@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenAudiencesAreSeparate(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, db, "dave", "admin-pass-4", constants.AdminRoleSuper, constants.AdminStatusActive)

	token, _, err := svc.AdminLogin("dave", "admin-pass-4", "")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if _, err := svc.ParseSalonToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("admin token must not open the salon portal, got: %v", err)
	}
	if _, err := svc.ParseAdminToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid token, got: %v", err)
	}
	if _, err := svc.ParseAdminToken(strings.Repeat("x.", 2) + "x"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid token, got: %v", err)
	}
}
