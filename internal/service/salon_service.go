package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/ava-bijoux/ava-next/internal/constants"
	"github.com/ava-bijoux/ava-next/internal/logger"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/ava-bijoux/ava-next/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// CreateSalonInput admin salon creation payload
type CreateSalonInput struct {
	Name           string  `json:"name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=8"`
	ContactName    string  `json:"contact_name"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	City           string  `json:"city"`
	PostalCode     string  `json:"postal_code"`
	CommissionRate float64 `json:"commission_rate"`
	IBAN           string  `json:"iban"`
	BIC            string  `json:"bic"`
}

// UpdateSalonInput admin salon update payload, nil fields stay untouched
type UpdateSalonInput struct {
	Name           *string  `json:"name"`
	ContactName    *string  `json:"contact_name"`
	Phone          *string  `json:"phone"`
	Address        *string  `json:"address"`
	City           *string  `json:"city"`
	PostalCode     *string  `json:"postal_code"`
	CommissionRate *float64 `json:"commission_rate"`
	IBAN           *string  `json:"iban"`
	BIC            *string  `json:"bic"`
	Status         *string  `json:"status"`
	Password       *string  `json:"password"`
}

// UpdateSalonProfileInput self-service profile payload
type UpdateSalonProfileInput struct {
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
	Password    *string `json:"password"`
}

// SalonService partner account management
type SalonService struct {
	salonRepo   repository.SalonRepository
	defaultRate float64
	now         func() time.Time
}

// NewSalonService creates a salon service
func NewSalonService(salonRepo repository.SalonRepository, defaultRate float64) *SalonService {
	if defaultRate <= 0 {
		defaultRate = 0.30
	}
	return &SalonService{
		salonRepo:   salonRepo,
		defaultRate: defaultRate,
		now:         time.Now,
	}
}

// Slugify lowers a name into a URL slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// CreateSalon registers a partner salon
func (s *SalonService) CreateSalon(input CreateSalonInput) (*models.Salon, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := s.salonRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	slug := Slugify(input.Name)
	if slug == "" {
		return nil, ErrSalonNotFound
	}
	if taken, err := s.salonRepo.GetBySlug(slug); err != nil {
		return nil, err
	} else if taken != nil {
		return nil, ErrSlugTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	rate := input.CommissionRate
	if rate <= 0 {
		rate = s.defaultRate
	}

	salon := &models.Salon{
		Name:           strings.TrimSpace(input.Name),
		Slug:           slug,
		Email:          email,
		Password:       string(hash),
		ContactName:    strings.TrimSpace(input.ContactName),
		Phone:          strings.TrimSpace(input.Phone),
		Address:        strings.TrimSpace(input.Address),
		City:           strings.TrimSpace(input.City),
		PostalCode:     strings.TrimSpace(input.PostalCode),
		CommissionRate: rate,
		IBAN:           strings.TrimSpace(input.IBAN),
		BIC:            strings.TrimSpace(input.BIC),
		Status:         constants.SalonStatusActive,
	}
	if err := s.salonRepo.Create(salon); err != nil {
		return nil, err
	}
	logger.Infow("salon_created", "salon_id", salon.ID, "slug", salon.Slug)
	return salon, nil
}

// GetSalon fetches one salon
func (s *SalonService) GetSalon(id uint) (*models.Salon, error) {
	salon, err := s.salonRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if salon == nil {
		return nil, ErrSalonNotFound
	}
	return salon, nil
}

// GetSalonBySlug fetches one salon by referral slug, storefront use
func (s *SalonService) GetSalonBySlug(slug string) (*models.Salon, error) {
	salon, err := s.salonRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if salon == nil {
		return nil, ErrSalonNotFound
	}
	if salon.Status != constants.SalonStatusActive {
		return nil, ErrSalonInactive
	}
	return salon, nil
}

// ListSalons queries salons with filters
func (s *SalonService) ListSalons(filter repository.SalonListFilter) ([]models.Salon, int64, error) {
	return s.salonRepo.List(filter)
}

// UpdateSalon applies an admin edit
func (s *SalonService) UpdateSalon(id uint, input UpdateSalonInput) (*models.Salon, error) {
	salon, err := s.GetSalon(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		salon.Name = strings.TrimSpace(*input.Name)
	}
	if input.ContactName != nil {
		salon.ContactName = strings.TrimSpace(*input.ContactName)
	}
	if input.Phone != nil {
		salon.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		salon.Address = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		salon.City = strings.TrimSpace(*input.City)
	}
	if input.PostalCode != nil {
		salon.PostalCode = strings.TrimSpace(*input.PostalCode)
	}
	if input.CommissionRate != nil && *input.CommissionRate > 0 {
		salon.CommissionRate = *input.CommissionRate
	}
	if input.IBAN != nil {
		salon.IBAN = strings.TrimSpace(*input.IBAN)
	}
	if input.BIC != nil {
		salon.BIC = strings.TrimSpace(*input.BIC)
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if status != constants.SalonStatusActive && status != constants.SalonStatusInactive {
			return nil, ErrOrderInvalid
		}
		salon.Status = status
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		salon.Password = string(hash)
	}

	salon.UpdatedAt = s.now()
	if err := s.salonRepo.Update(salon); err != nil {
		return nil, err
	}
	return salon, nil
}

// UpdateProfile applies a salon's self-service edit; bank details and the
// commission rate stay admin-only.
func (s *SalonService) UpdateProfile(id uint, input UpdateSalonProfileInput) (*models.Salon, error) {
	return s.UpdateSalon(id, UpdateSalonInput{
		ContactName: input.ContactName,
		Phone:       input.Phone,
		Address:     input.Address,
		City:        input.City,
		PostalCode:  input.PostalCode,
		Password:    input.Password,
	})
}
