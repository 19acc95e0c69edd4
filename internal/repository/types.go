package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductListFilter catalog listing filters
type ProductListFilter struct {
	Page       int
	PageSize   int
	Category   string
	Search     string
	OnlyActive bool
}

// SalonListFilter salon listing filters
type SalonListFilter struct {
	Page     int
	PageSize int
	Status   string
	Keyword  string
}

// OrderListFilter order listing filters
type OrderListFilter struct {
	Page          int
	PageSize      int
	SalonID       uint
	Status        string
	PaymentStatus string
	OrderID       string
	CustomerEmail string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// CommissionListFilter commission listing filters
type CommissionListFilter struct {
	Page        int
	PageSize    int
	SalonID     uint
	OrderID     string
	PayoutID    string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PayoutListFilter payout listing filters
type PayoutListFilter struct {
	Page        int
	PageSize    int
	SalonID     uint
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// SalonStatsAggregate per-salon ledger totals
type SalonStatsAggregate struct {
	OrderCount     int64
	PendingAmount  decimal.Decimal
	PaidAmount     decimal.Decimal
	LifetimeAmount decimal.Decimal
	PendingCount   int64
	PaidCount      int64
}

// SalonLedgerAggregate one back-office ledger row per salon
type SalonLedgerAggregate struct {
	SalonID         uint
	SalonName       string
	SalonStatus     string
	PendingAmount   decimal.Decimal
	PaidAmount      decimal.Decimal
	PendingCount    int64
	PaidCount       int64
	PendingPayoutID *string
	PendingPayoutAt *time.Time
}
