package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/ava-bijoux/ava-next/internal/constants"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository order data access interface
type OrderRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository

	Create(order *models.Order) error
	Update(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByIDForUpdate(id string) (*models.Order, error)
	GetByPaymentIntentID(intentID string) (*models.Order, error)
	UpdateStatus(id, status string, updatedAt time.Time) error
	List(filter OrderListFilter) ([]models.Order, int64, error)
	CountByStatus() (map[string]int64, error)
	SumPaidRevenue() (decimal.Decimal, error)
}

// GormOrderRepository GORM order repository
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction runs fn inside a transaction
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create inserts an order together with its items
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// Update saves an order
func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// GetByID fetches an order with items, salon and commission
func (r *GormOrderRepository) GetByID(id string) (*models.Order, error) {
	normalized := strings.TrimSpace(id)
	if normalized == "" {
		return nil, nil
	}
	var order models.Order
	if err := r.db.Preload("Items").Preload("Salon").Preload("Commission").
		Where("id = ?", normalized).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDForUpdate fetches an order with a row lock
func (r *GormOrderRepository) GetByIDForUpdate(id string) (*models.Order, error) {
	normalized := strings.TrimSpace(id)
	if normalized == "" {
		return nil, nil
	}
	var order models.Order
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", normalized).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByPaymentIntentID fetches an order by its payment intent
func (r *GormOrderRepository) GetByPaymentIntentID(intentID string) (*models.Order, error) {
	normalized := strings.TrimSpace(intentID)
	if normalized == "" {
		return nil, nil
	}
	var order models.Order
	if err := r.db.Where("payment_intent_id = ?", normalized).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus updates an order status
func (r *GormOrderRepository) UpdateStatus(id, status string, updatedAt time.Time) error {
	normalized := strings.TrimSpace(id)
	if normalized == "" {
		return nil
	}
	return r.db.Model(&models.Order{}).
		Where("id = ?", normalized).
		Updates(map[string]interface{}{
			"status":     strings.TrimSpace(status),
			"updated_at": updatedAt,
		}).Error
}

// List queries orders with filters
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Preload("Items").Preload("Salon")
	if filter.SalonID != 0 {
		query = query.Where("salon_id = ?", filter.SalonID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if ps := strings.TrimSpace(filter.PaymentStatus); ps != "" {
		query = query.Where("payment_status = ?", ps)
	}
	if orderID := strings.TrimSpace(filter.OrderID); orderID != "" {
		query = query.Where("id LIKE ?", "%"+orderID+"%")
	}
	if email := strings.TrimSpace(filter.CustomerEmail); email != "" {
		query = query.Where("customer_email LIKE ?", "%"+email+"%")
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Order
	if err := query.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountByStatus counts orders grouped by status
func (r *GormOrderRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string `gorm:"column:status"`
		Total  int64  `gorm:"column:total"`
	}
	if err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Total
	}
	return result, nil
}

// SumPaidRevenue totals the amounts of paid orders
func (r *GormOrderRepository) SumPaidRevenue() (decimal.Decimal, error) {
	var row struct {
		Revenue decimal.Decimal `gorm:"column:revenue"`
	}
	if err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS revenue").
		Where("payment_status = ?", constants.PaymentStatusPaid).
		Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Revenue.Round(2), nil
}
