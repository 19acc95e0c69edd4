package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/ava-bijoux/ava-next/internal/models"
	"gorm.io/gorm"
)

// SalonRepository salon data access interface
type SalonRepository interface {
	GetByID(id uint) (*models.Salon, error)
	GetByEmail(email string) (*models.Salon, error)
	GetBySlug(slug string) (*models.Salon, error)
	Create(salon *models.Salon) error
	Update(salon *models.Salon) error
	UpdateStatus(id uint, status string, updatedAt time.Time) error
	List(filter SalonListFilter) ([]models.Salon, int64, error)
	ListActive() ([]models.Salon, error)
}

// GormSalonRepository GORM salon repository
type GormSalonRepository struct {
	db *gorm.DB
}

// NewSalonRepository creates a salon repository
func NewSalonRepository(db *gorm.DB) *GormSalonRepository {
	return &GormSalonRepository{db: db}
}

// GetByID fetches a salon by ID
func (r *GormSalonRepository) GetByID(id uint) (*models.Salon, error) {
	if id == 0 {
		return nil, nil
	}
	var salon models.Salon
	if err := r.db.First(&salon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &salon, nil
}

// GetByEmail fetches a salon by login email
func (r *GormSalonRepository) GetByEmail(email string) (*models.Salon, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, nil
	}
	var salon models.Salon
	if err := r.db.Where("email = ?", normalized).First(&salon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &salon, nil
}

// GetBySlug fetches a salon by URL slug
func (r *GormSalonRepository) GetBySlug(slug string) (*models.Salon, error) {
	normalized := strings.ToLower(strings.TrimSpace(slug))
	if normalized == "" {
		return nil, nil
	}
	var salon models.Salon
	if err := r.db.Where("slug = ?", normalized).First(&salon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &salon, nil
}

// Create inserts a salon
func (r *GormSalonRepository) Create(salon *models.Salon) error {
	return r.db.Create(salon).Error
}

// Update saves a salon
func (r *GormSalonRepository) Update(salon *models.Salon) error {
	return r.db.Save(salon).Error
}

// UpdateStatus updates a salon status
func (r *GormSalonRepository) UpdateStatus(id uint, status string, updatedAt time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Salon{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     strings.TrimSpace(status),
			"updated_at": updatedAt,
		}).Error
}

// List queries salons with filters
func (r *GormSalonRepository) List(filter SalonListFilter) ([]models.Salon, int64, error) {
	query := r.db.Model(&models.Salon{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("(name LIKE ? OR email LIKE ? OR city LIKE ?)", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Salon
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListActive returns every active salon ordered by name
func (r *GormSalonRepository) ListActive() ([]models.Salon, error) {
	var rows []models.Salon
	if err := r.db.Where("status = ?", "active").Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
