package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ava-bijoux/ava-next/internal/constants"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/ava-bijoux/ava-next/internal/queue"
	"github.com/ava-bijoux/ava-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCommissionServiceTest(t *testing.T) (*CommissionService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:commission_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Salon{},
		&models.Order{},
		&models.OrderItem{},
		&models.Commission{},
		&models.Payout{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("build queue client failed: %v", err)
	}
	svc := NewCommissionService(
		repository.NewCommissionRepository(db),
		repository.NewSalonRepository(db),
		queueClient,
	)
	return svc, db
}

func createLedgerCommission(t *testing.T, db *gorm.DB, salonID uint, orderID, amount string) *models.Commission {
	t.Helper()
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("parse amount failed: %v", err)
	}
	commission := &models.Commission{
		SalonID:   salonID,
		OrderID:   orderID,
		OrderBase: models.NewMoneyFromDecimal(parsed.Div(decimal.NewFromFloat(0.30)).Round(2)),
		Rate:      0.30,
		Amount:    models.NewMoneyFromDecimal(parsed),
		Status:    constants.CommissionStatusPending,
	}
	if err := db.Create(commission).Error; err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	return commission
}

// advanceClock pins the service clock one step past the previous value so
// consecutive payout ids never share a millisecond.
func advanceClock(svc *CommissionService, at time.Time) {
	svc.now = func() time.Time { return at }
}

func TestRequestPayoutBindsPendingCommissions(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	salon := createTestSalon(t, db, constants.SalonStatusActive)
	first := createLedgerCommission(t, db, salon.ID, "AVA-RP1A", "22.44")
	second := createLedgerCommission(t, db, salon.ID, "AVA-RP1B", "10.00")

	payout, err := svc.RequestPayout(salon.ID)
	if err != nil {
		t.Fatalf("request payout failed: %v", err)
	}
	if payout.Status != constants.PayoutStatusPending {
		t.Fatalf("unexpected payout status: %s", payout.Status)
	}
	if payout.CommissionCount != 2 {
		t.Fatalf("unexpected commission count: %d", payout.CommissionCount)
	}
	if !payout.Amount.Decimal.Equal(decimal.NewFromFloat(32.44)) {
		t.Fatalf("unexpected payout amount: %s", payout.Amount.String())
	}
	if payout.IBAN != salon.IBAN {
		t.Fatalf("payout must snapshot the salon bank account")
	}

	for _, id := range []uint{first.ID, second.ID} {
		var row models.Commission
		if err := db.First(&row, id).Error; err != nil {
			t.Fatalf("load commission failed: %v", err)
		}
		if row.PayoutID == nil || *row.PayoutID != payout.ID {
			t.Fatalf("commission %d not bound to payout", id)
		}
		if row.Status != constants.CommissionStatusPending {
			t.Fatalf("requesting a payout must not settle commission %d", id)
		}
	}
}

func TestRequestPayoutRejectsSecondPending(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	salon := createTestSalon(t, db, constants.SalonStatusActive)
	createLedgerCommission(t, db, salon.ID, "AVA-RP2A", "15.00")

	if _, err := svc.RequestPayout(salon.ID); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	createLedgerCommission(t, db, salon.ID, "AVA-RP2B", "8.00")
	advanceClock(svc, time.Now().Add(time.Second))
	if _, err := svc.RequestPayout(salon.ID); !errors.Is(err, ErrPayoutAlreadyPending) {
		t.Fatalf("expected pending payout conflict, got: %v", err)
	}
}

func TestRequestPayoutWithoutPendingCommissions(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	salon := createTestSalon(t, db, constants.SalonStatusActive)

	if _, err := svc.RequestPayout(salon.ID); !errors.Is(err, ErrNoPendingCommissions) {
		t.Fatalf("expected no pending commissions, got: %v", err)
	}
	if _, err := svc.RequestPayout(9999); !errors.Is(err, ErrSalonNotFound) {
		t.Fatalf("expected salon not found, got: %v", err)
	}
}

func TestProcessPayoutSettlesOnlyBoundSet(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	salon := createTestSalon(t, db, constants.SalonStatusActive)
	bound := createLedgerCommission(t, db, salon.ID, "AVA-PP1A", "22.44")

	payout, err := svc.RequestPayout(salon.ID)
	if err != nil {
		t.Fatalf("request payout failed: %v", err)
	}

	// Accrues after the request, must survive settlement untouched.
	late := createLedgerCommission(t, db, salon.ID, "AVA-PP1B", "12.00")

	processed, err := svc.ProcessPayout(payout.ID, 7, "SEPA-2026-001")
	if err != nil {
		t.Fatalf("process payout failed: %v", err)
	}
	if processed.Status != constants.PayoutStatusCompleted {
		t.Fatalf("unexpected payout status: %s", processed.Status)
	}
	if processed.Reference != "SEPA-2026-001" {
		t.Fatalf("reference not recorded: %s", processed.Reference)
	}
	if processed.ProcessedBy == nil || *processed.ProcessedBy != 7 {
		t.Fatalf("settling admin not recorded: %+v", processed.ProcessedBy)
	}
	if processed.ProcessedAt == nil {
		t.Fatalf("settlement time not recorded")
	}

	var settled models.Commission
	if err := db.First(&settled, bound.ID).Error; err != nil {
		t.Fatalf("load settled commission failed: %v", err)
	}
	if settled.Status != constants.CommissionStatusPaid || settled.PaidAt == nil {
		t.Fatalf("bound commission not settled: %+v", settled.Status)
	}

	var untouched models.Commission
	if err := db.First(&untouched, late.ID).Error; err != nil {
		t.Fatalf("load late commission failed: %v", err)
	}
	if untouched.Status != constants.CommissionStatusPending || untouched.PayoutID != nil {
		t.Fatalf("commission accrued after the request must stay pending and unbound")
	}
}

func TestProcessPayoutRejectsResettlement(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	salon := createTestSalon(t, db, constants.SalonStatusActive)
	createLedgerCommission(t, db, salon.ID, "AVA-PP2A", "18.00")

	payout, err := svc.RequestPayout(salon.ID)
	if err != nil {
		t.Fatalf("request payout failed: %v", err)
	}
	if _, err := svc.ProcessPayout(payout.ID, 1, "SEPA-2026-002"); err != nil {
		t.Fatalf("process payout failed: %v", err)
	}
	if _, err := svc.ProcessPayout(payout.ID, 1, "SEPA-2026-002-BIS"); !errors.Is(err, ErrPayoutAlreadySettled) {
		t.Fatalf("expected already settled, got: %v", err)
	}
	if _, err := svc.ProcessPayout("PAY-MISSING", 1, ""); !errors.Is(err, ErrPayoutNotFound) {
		t.Fatalf("expected payout not found, got: %v", err)
	}
}

func TestRequestPayoutAfterSettlementOpensNewCycle(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	salon := createTestSalon(t, db, constants.SalonStatusActive)
	createLedgerCommission(t, db, salon.ID, "AVA-PP3A", "20.00")

	first, err := svc.RequestPayout(salon.ID)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if _, err := svc.ProcessPayout(first.ID, 1, "SEPA-2026-003"); err != nil {
		t.Fatalf("process payout failed: %v", err)
	}

	createLedgerCommission(t, db, salon.ID, "AVA-PP3B", "9.50")
	advanceClock(svc, time.Now().Add(time.Second))
	second, err := svc.RequestPayout(salon.ID)
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("new cycle must mint a new payout id")
	}
	if !second.Amount.Decimal.Equal(decimal.NewFromFloat(9.50)) {
		t.Fatalf("unexpected second payout amount: %s", second.Amount.String())
	}
}

func TestGetSalonSummary(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	salon := createTestSalon(t, db, constants.SalonStatusActive)
	createLedgerCommission(t, db, salon.ID, "AVA-SUM1", "22.44")
	createLedgerCommission(t, db, salon.ID, "AVA-SUM2", "10.00")
	paid := createLedgerCommission(t, db, salon.ID, "AVA-SUM3", "5.00")
	now := time.Now()
	if err := db.Model(paid).Updates(map[string]interface{}{
		"status":  constants.CommissionStatusPaid,
		"paid_at": now,
	}).Error; err != nil {
		t.Fatalf("settle commission failed: %v", err)
	}

	summary, err := svc.GetSalonSummary(salon.ID)
	if err != nil {
		t.Fatalf("get summary failed: %v", err)
	}
	if !summary.Available.Decimal.Equal(decimal.NewFromFloat(32.44)) {
		t.Fatalf("unexpected available amount: %s", summary.Available.String())
	}
	if !summary.TotalPaid.Decimal.Equal(decimal.NewFromFloat(5.00)) {
		t.Fatalf("unexpected paid amount: %s", summary.TotalPaid.String())
	}
	if summary.PendingCount != 2 || summary.PaidCount != 1 {
		t.Fatalf("unexpected counts: pending=%d paid=%d", summary.PendingCount, summary.PaidCount)
	}
}

func TestGetSalonPayoutScopesToSalon(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)
	salon := createTestSalon(t, db, constants.SalonStatusActive)
	other := createTestSalon(t, db, constants.SalonStatusActive)
	createLedgerCommission(t, db, salon.ID, "AVA-SCOPE2", "14.00")

	payout, err := svc.RequestPayout(salon.ID)
	if err != nil {
		t.Fatalf("request payout failed: %v", err)
	}
	if _, err := svc.GetSalonPayout(salon.ID, payout.ID); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := svc.GetSalonPayout(other.ID, payout.ID); !errors.Is(err, ErrPayoutNotFound) {
		t.Fatalf("foreign salon must not see the payout, got: %v", err)
	}
}
