package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ava-bijoux/ava-next/internal/constants"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/ava-bijoux/ava-next/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupSalonServiceTest(t *testing.T) (*SalonService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:salon_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Salon{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewSalonService(repository.NewSalonRepository(db), 0.30), db
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Salon Marie Coiffure": "salon-marie-coiffure",
		"  Coiff & Style  ":    "coiff-style",
		"Hair---Beauté":        "hair-beaut",
		"123 Salon":            "123-salon",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("slugify %q: got %q want %q", input, got, want)
		}
	}
}

func TestCreateSalonHashesPasswordAndDefaults(t *testing.T) {
	svc, _ := setupSalonServiceTest(t)

	salon, err := svc.CreateSalon(CreateSalonInput{
		Name:     "Salon Marie Coiffure",
		Email:    "MARIE@SalonMarie.fr",
		Password: "salon12345",
		City:     "Paris",
	})
	if err != nil {
		t.Fatalf("create salon failed: %v", err)
	}
	if salon.Slug != "salon-marie-coiffure" {
		t.Fatalf("unexpected slug: %s", salon.Slug)
	}
	if salon.Email != "marie@salonmarie.fr" {
		t.Fatalf("email not normalized: %s", salon.Email)
	}
	if salon.Status != constants.SalonStatusActive {
		t.Fatalf("new salon must be active, got: %s", salon.Status)
	}
	if salon.CommissionRate != 0.30 {
		t.Fatalf("default rate not applied: %f", salon.CommissionRate)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(salon.Password), []byte("salon12345")); err != nil {
		t.Fatalf("password not hashed with bcrypt: %v", err)
	}
}

func TestCreateSalonRejectsDuplicates(t *testing.T) {
	svc, _ := setupSalonServiceTest(t)

	if _, err := svc.CreateSalon(CreateSalonInput{
		Name:     "Coiff & Style",
		Email:    "contact@coiffstyle.fr",
		Password: "salon12345",
	}); err != nil {
		t.Fatalf("create salon failed: %v", err)
	}

	if _, err := svc.CreateSalon(CreateSalonInput{
		Name:     "Coiff et Style Bis",
		Email:    "Contact@CoiffStyle.fr",
		Password: "salon12345",
	}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email taken, got: %v", err)
	}

	if _, err := svc.CreateSalon(CreateSalonInput{
		Name:     "Coiff & Style",
		Email:    "other@coiffstyle.fr",
		Password: "salon12345",
	}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected slug taken, got: %v", err)
	}
}

func TestUpdateSalonPartialFields(t *testing.T) {
	svc, _ := setupSalonServiceTest(t)

	salon, err := svc.CreateSalon(CreateSalonInput{
		Name:           "Hair Beauté",
		Email:          "hello@hairbeaute.fr",
		Password:       "salon12345",
		City:           "Marseille",
		CommissionRate: 0.25,
	})
	if err != nil {
		t.Fatalf("create salon failed: %v", err)
	}

	phone := "0612345678"
	rate := 0.35
	updated, err := svc.UpdateSalon(salon.ID, UpdateSalonInput{
		Phone:          &phone,
		CommissionRate: &rate,
	})
	if err != nil {
		t.Fatalf("update salon failed: %v", err)
	}
	if updated.Phone != phone {
		t.Fatalf("phone not updated: %s", updated.Phone)
	}
	if updated.CommissionRate != rate {
		t.Fatalf("rate not updated: %f", updated.CommissionRate)
	}
	if updated.City != "Marseille" {
		t.Fatalf("untouched field changed: %s", updated.City)
	}
}

func TestUpdateSalonStatusControlsPublicLookup(t *testing.T) {
	svc, _ := setupSalonServiceTest(t)

	salon, err := svc.CreateSalon(CreateSalonInput{
		Name:     "Salon Public",
		Email:    "public@example.com",
		Password: "salon12345",
	})
	if err != nil {
		t.Fatalf("create salon failed: %v", err)
	}

	if _, err := svc.GetSalonBySlug(salon.Slug); err != nil {
		t.Fatalf("active salon lookup failed: %v", err)
	}

	inactive := constants.SalonStatusInactive
	if _, err := svc.UpdateSalon(salon.ID, UpdateSalonInput{Status: &inactive}); err != nil {
		t.Fatalf("deactivate salon failed: %v", err)
	}
	if _, err := svc.GetSalonBySlug(salon.Slug); !errors.Is(err, ErrSalonInactive) {
		t.Fatalf("expected inactive salon rejection, got: %v", err)
	}
	if _, err := svc.GetSalonBySlug("no-such-salon"); !errors.Is(err, ErrSalonNotFound) {
		t.Fatalf("expected salon not found, got: %v", err)
	}
}

func TestUpdateProfileCannotTouchBankOrRate(t *testing.T) {
	svc, _ := setupSalonServiceTest(t)

	salon, err := svc.CreateSalon(CreateSalonInput{
		Name:           "Salon Profil",
		Email:          "profil@example.com",
		Password:       "salon12345",
		CommissionRate: 0.30,
		IBAN:           "FR7630006000011234567890189",
	})
	if err != nil {
		t.Fatalf("create salon failed: %v", err)
	}

	contact := "Marie Martin"
	updated, err := svc.UpdateProfile(salon.ID, UpdateSalonProfileInput{ContactName: &contact})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.ContactName != contact {
		t.Fatalf("contact not updated: %s", updated.ContactName)
	}
	if updated.IBAN != salon.IBAN {
		t.Fatalf("profile update must not touch bank details")
	}
	if updated.CommissionRate != 0.30 {
		t.Fatalf("profile update must not touch the rate")
	}
}
