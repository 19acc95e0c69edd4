package repository

import (
	"errors"
	"strings"

	"github.com/ava-bijoux/ava-next/internal/constants"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommissionRepository commission and payout ledger data access interface
type CommissionRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CommissionRepository

	CreateCommission(commission *models.Commission) error
	GetCommissionByOrderID(orderID string) (*models.Commission, error)
	ListCommissions(filter CommissionListFilter) ([]models.Commission, int64, error)
	ListPendingUnboundForUpdate(salonID uint) ([]models.Commission, error)
	ListCommissionsByPayoutIDForUpdate(payoutID string) ([]models.Commission, error)
	BatchUpdateCommissions(ids []uint, updates map[string]interface{}) error
	SumCommissionBySalon(salonID uint, status string, unboundOnly bool) (decimal.Decimal, error)

	CreatePayout(payout *models.Payout) error
	UpdatePayout(payout *models.Payout) error
	GetPayoutByID(id string) (*models.Payout, error)
	GetPayoutByIDForUpdate(id string) (*models.Payout, error)
	HasPendingPayout(salonID uint) (bool, error)
	ListPayouts(filter PayoutListFilter) ([]models.Payout, int64, error)

	GetSalonStats(salonID uint) (SalonStatsAggregate, error)
	ListSalonAggregates() ([]SalonLedgerAggregate, error)
}

// GormCommissionRepository GORM commission repository
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository creates a commission repository
func NewCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// WithTx binds the repository to a transaction
func (r *GormCommissionRepository) WithTx(tx *gorm.DB) CommissionRepository {
	if tx == nil {
		return r
	}
	return &GormCommissionRepository{db: tx}
}

// Transaction runs fn inside a transaction
func (r *GormCommissionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// CreateCommission inserts a commission row
func (r *GormCommissionRepository) CreateCommission(commission *models.Commission) error {
	return r.db.Create(commission).Error
}

// GetCommissionByOrderID fetches the commission of an order
func (r *GormCommissionRepository) GetCommissionByOrderID(orderID string) (*models.Commission, error) {
	normalized := strings.TrimSpace(orderID)
	if normalized == "" {
		return nil, nil
	}
	var commission models.Commission
	if err := r.db.Where("order_id = ?", normalized).First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// ListCommissions queries commissions with filters
func (r *GormCommissionRepository) ListCommissions(filter CommissionListFilter) ([]models.Commission, int64, error) {
	query := r.db.Model(&models.Commission{}).Preload("Salon").Preload("Order")
	if filter.SalonID != 0 {
		query = query.Where("commissions.salon_id = ?", filter.SalonID)
	}
	if orderID := strings.TrimSpace(filter.OrderID); orderID != "" {
		query = query.Where("commissions.order_id LIKE ?", "%"+orderID+"%")
	}
	if payoutID := strings.TrimSpace(filter.PayoutID); payoutID != "" {
		query = query.Where("commissions.payout_id = ?", payoutID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("commissions.status = ?", status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("commissions.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("commissions.created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Commission
	if err := query.Order("commissions.id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListPendingUnboundForUpdate locks the pending commissions of a salon not yet
// bound to a payout
func (r *GormCommissionRepository) ListPendingUnboundForUpdate(salonID uint) ([]models.Commission, error) {
	if salonID == 0 {
		return []models.Commission{}, nil
	}
	var rows []models.Commission
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("salon_id = ? AND status = ? AND payout_id IS NULL",
			salonID, constants.CommissionStatusPending).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCommissionsByPayoutIDForUpdate locks the commissions bound to a payout
func (r *GormCommissionRepository) ListCommissionsByPayoutIDForUpdate(payoutID string) ([]models.Commission, error) {
	normalized := strings.TrimSpace(payoutID)
	if normalized == "" {
		return []models.Commission{}, nil
	}
	var rows []models.Commission
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payout_id = ?", normalized).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// BatchUpdateCommissions updates a set of commission rows
func (r *GormCommissionRepository) BatchUpdateCommissions(ids []uint, updates map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Commission{}).Where("id IN ?", ids).Updates(updates).Error
}

// SumCommissionBySalon totals commission amounts for a salon
func (r *GormCommissionRepository) SumCommissionBySalon(salonID uint, status string, unboundOnly bool) (decimal.Decimal, error) {
	if salonID == 0 {
		return decimal.Zero, nil
	}
	query := r.db.Model(&models.Commission{}).Where("salon_id = ?", salonID)
	if s := strings.TrimSpace(status); s != "" {
		query = query.Where("status = ?", s)
	}
	if unboundOnly {
		query = query.Where("payout_id IS NULL")
	}

	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	if err := query.Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total.Round(2), nil
}

// CreatePayout inserts a payout request
func (r *GormCommissionRepository) CreatePayout(payout *models.Payout) error {
	return r.db.Create(payout).Error
}

// UpdatePayout saves a payout
func (r *GormCommissionRepository) UpdatePayout(payout *models.Payout) error {
	return r.db.Save(payout).Error
}

// GetPayoutByID fetches a payout with its salon and bound commissions
func (r *GormCommissionRepository) GetPayoutByID(id string) (*models.Payout, error) {
	normalized := strings.TrimSpace(id)
	if normalized == "" {
		return nil, nil
	}
	var payout models.Payout
	if err := r.db.Preload("Salon").Preload("Commissions").
		Where("id = ?", normalized).First(&payout).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// GetPayoutByIDForUpdate fetches a payout with a row lock
func (r *GormCommissionRepository) GetPayoutByIDForUpdate(id string) (*models.Payout, error) {
	normalized := strings.TrimSpace(id)
	if normalized == "" {
		return nil, nil
	}
	var payout models.Payout
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", normalized).First(&payout).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// HasPendingPayout reports whether the salon already holds a pending payout
func (r *GormCommissionRepository) HasPendingPayout(salonID uint) (bool, error) {
	if salonID == 0 {
		return false, nil
	}
	var total int64
	if err := r.db.Model(&models.Payout{}).
		Where("salon_id = ? AND status = ?", salonID, constants.PayoutStatusPending).
		Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// ListPayouts queries payouts with filters
func (r *GormCommissionRepository) ListPayouts(filter PayoutListFilter) ([]models.Payout, int64, error) {
	query := r.db.Model(&models.Payout{}).Preload("Salon")
	if filter.SalonID != 0 {
		query = query.Where("salon_id = ?", filter.SalonID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
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

	var rows []models.Payout
	if err := query.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GetSalonStats aggregates the commission ledger of a salon
func (r *GormCommissionRepository) GetSalonStats(salonID uint) (SalonStatsAggregate, error) {
	stats := SalonStatsAggregate{
		PendingAmount:  decimal.Zero,
		PaidAmount:     decimal.Zero,
		LifetimeAmount: decimal.Zero,
	}
	if salonID == 0 {
		return stats, nil
	}

	if err := r.db.Model(&models.Order{}).
		Where("salon_id = ?", salonID).
		Count(&stats.OrderCount).Error; err != nil {
		return stats, err
	}

	var rows []struct {
		Status string          `gorm:"column:status"`
		Count  int64           `gorm:"column:cnt"`
		Total  decimal.Decimal `gorm:"column:total"`
	}
	if err := r.db.Model(&models.Commission{}).
		Select("status, COUNT(*) AS cnt, COALESCE(SUM(amount), 0) AS total").
		Where("salon_id = ?", salonID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, row := range rows {
		switch row.Status {
		case constants.CommissionStatusPending:
			stats.PendingCount = row.Count
			stats.PendingAmount = row.Total.Round(2)
		case constants.CommissionStatusPaid:
			stats.PaidCount = row.Count
			stats.PaidAmount = row.Total.Round(2)
		}
		stats.LifetimeAmount = stats.LifetimeAmount.Add(row.Total).Round(2)
	}
	return stats, nil
}

// ListSalonAggregates builds one ledger row per salon for the back office:
// commission totals grouped by status plus the open payout request, if any.
func (r *GormCommissionRepository) ListSalonAggregates() ([]SalonLedgerAggregate, error) {
	var salons []models.Salon
	if err := r.db.Model(&models.Salon{}).
		Select("id", "name", "status").
		Order("name asc").
		Find(&salons).Error; err != nil {
		return nil, err
	}

	var grouped []struct {
		SalonID uint            `gorm:"column:salon_id"`
		Status  string          `gorm:"column:status"`
		Count   int64           `gorm:"column:cnt"`
		Total   decimal.Decimal `gorm:"column:total"`
	}
	if err := r.db.Model(&models.Commission{}).
		Select("salon_id, status, COUNT(*) AS cnt, COALESCE(SUM(amount), 0) AS total").
		Group("salon_id, status").
		Scan(&grouped).Error; err != nil {
		return nil, err
	}

	var openPayouts []models.Payout
	if err := r.db.Model(&models.Payout{}).
		Where("status = ?", constants.PayoutStatusPending).
		Find(&openPayouts).Error; err != nil {
		return nil, err
	}

	rows := make([]SalonLedgerAggregate, 0, len(salons))
	index := make(map[uint]int, len(salons))
	for _, salon := range salons {
		index[salon.ID] = len(rows)
		rows = append(rows, SalonLedgerAggregate{
			SalonID:       salon.ID,
			SalonName:     salon.Name,
			SalonStatus:   salon.Status,
			PendingAmount: decimal.Zero,
			PaidAmount:    decimal.Zero,
		})
	}
	for _, g := range grouped {
		i, ok := index[g.SalonID]
		if !ok {
			continue
		}
		switch g.Status {
		case constants.CommissionStatusPending:
			rows[i].PendingCount = g.Count
			rows[i].PendingAmount = g.Total.Round(2)
		case constants.CommissionStatusPaid:
			rows[i].PaidCount = g.Count
			rows[i].PaidAmount = g.Total.Round(2)
		}
	}
	for _, payout := range openPayouts {
		i, ok := index[payout.SalonID]
		if !ok {
			continue
		}
		id := payout.ID
		at := payout.CreatedAt
		rows[i].PendingPayoutID = &id
		rows[i].PendingPayoutAt = &at
	}
	return rows, nil
}
