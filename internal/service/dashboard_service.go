package service

import (
	"github.com/ava-bijoux/ava-next/internal/constants"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/ava-bijoux/ava-next/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardStats back-office overview numbers
type DashboardStats struct {
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
	TotalOrders       int64            `json:"total_orders"`
	Revenue           models.Money     `json:"revenue"`
	PendingPayouts    int64            `json:"pending_payouts"`
	PendingCommission models.Money     `json:"pending_commission"`
	ActiveSalons      int64            `json:"active_salons"`
}

// DashboardService back-office overview aggregation
type DashboardService struct {
	orderRepo      repository.OrderRepository
	commissionRepo repository.CommissionRepository
	salonRepo      repository.SalonRepository
}

// NewDashboardService creates a dashboard service
func NewDashboardService(orderRepo repository.OrderRepository, commissionRepo repository.CommissionRepository, salonRepo repository.SalonRepository) *DashboardService {
	return &DashboardService{
		orderRepo:      orderRepo,
		commissionRepo: commissionRepo,
		salonRepo:      salonRepo,
	}
}

// GetStats aggregates the admin overview
func (s *DashboardService) GetStats() (*DashboardStats, error) {
	byStatus, err := s.orderRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	total := int64(0)
	for _, count := range byStatus {
		total += count
	}

	revenue, err := s.orderRepo.SumPaidRevenue()
	if err != nil {
		return nil, err
	}

	_, pendingPayouts, err := s.commissionRepo.ListPayouts(repository.PayoutListFilter{
		Status:   constants.PayoutStatusPending,
		PageSize: 1,
	})
	if err != nil {
		return nil, err
	}

	pendingCommission := decimal.Zero
	salons, err := s.salonRepo.ListActive()
	if err != nil {
		return nil, err
	}
	for _, salon := range salons {
		amount, err := s.commissionRepo.SumCommissionBySalon(salon.ID, constants.CommissionStatusPending, false)
		if err != nil {
			return nil, err
		}
		pendingCommission = pendingCommission.Add(amount)
	}

	return &DashboardStats{
		OrdersByStatus:    byStatus,
		TotalOrders:       total,
		Revenue:           models.NewMoneyFromDecimal(revenue),
		PendingPayouts:    pendingPayouts,
		PendingCommission: models.NewMoneyFromDecimal(pendingCommission),
		ActiveSalons:      int64(len(salons)),
	}, nil
}
