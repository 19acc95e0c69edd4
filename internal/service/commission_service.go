package service

import (
	"time"

	"github.com/ava-bijoux/ava-next/internal/constants"
	"github.com/ava-bijoux/ava-next/internal/logger"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/ava-bijoux/ava-next/internal/queue"
	"github.com/ava-bijoux/ava-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalonCommissionSummary self-service ledger summary
type SalonCommissionSummary struct {
	Available    models.Money `json:"available"`
	TotalPaid    models.Money `json:"totalPaid"`
	PendingCount int64        `json:"pending_count"`
	PaidCount    int64        `json:"paid_count"`
	OrderCount   int64        `json:"order_count"`
}

// CommissionService commission ledger and payout lifecycle
type CommissionService struct {
	commissionRepo repository.CommissionRepository
	salonRepo      repository.SalonRepository
	queueClient    *queue.Client
	now            func() time.Time
}

// NewCommissionService creates a commission service
func NewCommissionService(commissionRepo repository.CommissionRepository, salonRepo repository.SalonRepository, queueClient *queue.Client) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
		salonRepo:      salonRepo,
		queueClient:    queueClient,
		now:            time.Now,
	}
}

// SalonLedgerRow per-salon aggregate for the back office
type SalonLedgerRow struct {
	SalonID         uint         `json:"salon_id"`
	SalonName       string       `json:"salon_name"`
	SalonStatus     string       `json:"salon_status"`
	PendingAmount   models.Money `json:"pending_amount"`
	PaidAmount      models.Money `json:"paid_amount"`
	PendingCount    int64        `json:"pending_count"`
	PaidCount       int64        `json:"paid_count"`
	PendingPayoutID *string      `json:"pending_payout_id,omitempty"`
	PendingPayoutAt *time.Time   `json:"pending_payout_requested_at,omitempty"`
}

// ListCommissions queries the ledger with filters
func (s *CommissionService) ListCommissions(filter repository.CommissionListFilter) ([]models.Commission, int64, error) {
	return s.commissionRepo.ListCommissions(filter)
}

// ListSalonLedger aggregates the ledger per salon for the back office
func (s *CommissionService) ListSalonLedger() ([]SalonLedgerRow, error) {
	aggregates, err := s.commissionRepo.ListSalonAggregates()
	if err != nil {
		return nil, err
	}
	rows := make([]SalonLedgerRow, 0, len(aggregates))
	for _, agg := range aggregates {
		rows = append(rows, SalonLedgerRow{
			SalonID:         agg.SalonID,
			SalonName:       agg.SalonName,
			SalonStatus:     agg.SalonStatus,
			PendingAmount:   models.NewMoneyFromDecimal(agg.PendingAmount),
			PaidAmount:      models.NewMoneyFromDecimal(agg.PaidAmount),
			PendingCount:    agg.PendingCount,
			PaidCount:       agg.PaidCount,
			PendingPayoutID: agg.PendingPayoutID,
			PendingPayoutAt: agg.PendingPayoutAt,
		})
	}
	return rows, nil
}

// GetSalonSummary aggregates a salon's ledger for the portal
func (s *CommissionService) GetSalonSummary(salonID uint) (*SalonCommissionSummary, error) {
	stats, err := s.commissionRepo.GetSalonStats(salonID)
	if err != nil {
		return nil, err
	}
	return &SalonCommissionSummary{
		Available:    models.NewMoneyFromDecimal(stats.PendingAmount),
		TotalPaid:    models.NewMoneyFromDecimal(stats.PaidAmount),
		PendingCount: stats.PendingCount,
		PaidCount:    stats.PaidCount,
		OrderCount:   stats.OrderCount,
	}, nil
}

// RequestPayout opens a payout for every pending commission of the salon.
// The pending rows are locked and stamped with the payout id inside one
// transaction, so settlement later pays exactly this set and nothing that
// accrues in between. A salon can hold one pending payout at a time; the
// in-transaction check is backed by a partial unique index on the table.
func (s *CommissionService) RequestPayout(salonID uint) (*models.Payout, error) {
	salon, err := s.salonRepo.GetByID(salonID)
	if err != nil {
		return nil, err
	}
	if salon == nil {
		return nil, ErrSalonNotFound
	}

	var payoutID string
	err = s.commissionRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.commissionRepo.WithTx(tx)

		pending, err := txRepo.HasPendingPayout(salonID)
		if err != nil {
			return err
		}
		if pending {
			return ErrPayoutAlreadyPending
		}

		commissions, err := txRepo.ListPendingUnboundForUpdate(salonID)
		if err != nil {
			return err
		}
		amount := decimal.Zero
		ids := make([]uint, 0, len(commissions))
		for _, c := range commissions {
			amount = amount.Add(c.Amount.Decimal)
			ids = append(ids, c.ID)
		}
		amount = amount.Round(2)
		if len(ids) == 0 || amount.LessThanOrEqual(decimal.Zero) {
			return ErrNoPendingCommissions
		}

		now := s.now()
		payout := &models.Payout{
			ID:              GeneratePayoutID(now),
			SalonID:         salonID,
			Amount:          models.NewMoneyFromDecimal(amount),
			CommissionCount: len(ids),
			Status:          constants.PayoutStatusPending,
			IBAN:            salon.IBAN,
		}
		if err := txRepo.CreatePayout(payout); err != nil {
			return err
		}
		payoutID = payout.ID

		return txRepo.BatchUpdateCommissions(ids, map[string]interface{}{
			"payout_id":  payout.ID,
			"updated_at": now,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("payout_requested", "payout_id", payoutID, "salon_id", salonID)
	return s.commissionRepo.GetPayoutByID(payoutID)
}

// ProcessPayout settles a pending payout. Only the commissions stamped with
// the payout id at request time flip to paid; re-settling a completed payout
// fails instead of double-paying.
func (s *CommissionService) ProcessPayout(payoutID string, adminID uint, reference string) (*models.Payout, error) {
	err := s.commissionRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.commissionRepo.WithTx(tx)

		payout, err := txRepo.GetPayoutByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrPayoutNotFound
		}
		if payout.Status != constants.PayoutStatusPending {
			return ErrPayoutAlreadySettled
		}

		commissions, err := txRepo.ListCommissionsByPayoutIDForUpdate(payout.ID)
		if err != nil {
			return err
		}
		ids := make([]uint, 0, len(commissions))
		for _, c := range commissions {
			if c.Status == constants.CommissionStatusPending {
				ids = append(ids, c.ID)
			}
		}

		now := s.now()
		if len(ids) > 0 {
			if err := txRepo.BatchUpdateCommissions(ids, map[string]interface{}{
				"status":     constants.CommissionStatusPaid,
				"paid_at":    now,
				"updated_at": now,
			}); err != nil {
				return err
			}
		}

		payout.Status = constants.PayoutStatusCompleted
		payout.Reference = reference
		payout.ProcessedBy = &adminID
		payout.ProcessedAt = &now
		payout.UpdatedAt = now
		return txRepo.UpdatePayout(payout)
	})
	if err != nil {
		return nil, err
	}

	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueuePayoutProcessedEmail(queue.PayoutProcessedEmailPayload{PayoutID: payoutID}); err != nil {
			logger.Warnw("payout_processed_email_enqueue_failed", "payout_id", payoutID, "error", err)
		}
	}

	logger.Infow("payout_processed", "payout_id", payoutID, "admin_id", adminID)
	return s.commissionRepo.GetPayoutByID(payoutID)
}

// GetPayout fetches one payout with its bound commissions
func (s *CommissionService) GetPayout(id string) (*models.Payout, error) {
	payout, err := s.commissionRepo.GetPayoutByID(id)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, ErrPayoutNotFound
	}
	return payout, nil
}

// GetSalonPayout fetches one payout scoped to a salon
func (s *CommissionService) GetSalonPayout(salonID uint, id string) (*models.Payout, error) {
	payout, err := s.GetPayout(id)
	if err != nil {
		return nil, err
	}
	if payout.SalonID != salonID {
		return nil, ErrPayoutNotFound
	}
	return payout, nil
}

// ListPayouts queries payouts with filters
func (s *CommissionService) ListPayouts(filter repository.PayoutListFilter) ([]models.Payout, int64, error) {
	return s.commissionRepo.ListPayouts(filter)
}
