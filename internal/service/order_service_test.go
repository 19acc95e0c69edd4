package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
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

type stubPaymentVerifier struct {
	verified bool
	err      error
}

func (v *stubPaymentVerifier) VerifyPaymentIntent(intentID string, expectedAmount models.Money, currency string) (bool, error) {
	return v.verified, v.err
}

func setupOrderServiceTest(t *testing.T, verifier PaymentVerifier) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Salon{},
		&models.Product{},
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
	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewSalonRepository(db),
		repository.NewCommissionRepository(db),
		verifier,
		queueClient,
		0.30,
		"EUR",
	)
	return svc, db
}

func createTestSalon(t *testing.T, db *gorm.DB, status string) *models.Salon {
	t.Helper()
	salon := &models.Salon{
		Name:           "Salon Marie Coiffure",
		Slug:           fmt.Sprintf("salon-marie-%d", time.Now().UnixNano()),
		Email:          fmt.Sprintf("marie_%d@example.com", time.Now().UnixNano()),
		Password:       "hash",
		City:           "Paris",
		CommissionRate: 0.30,
		IBAN:           "FR7630006000011234567890189",
		Status:         status,
	}
	if err := db.Create(salon).Error; err != nil {
		t.Fatalf("create salon failed: %v", err)
	}
	return salon
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price string) *models.Product {
	t.Helper()
	amount, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	product := &models.Product{
		Name:     name,
		Slug:     fmt.Sprintf("%s-%d", strings.ToLower(strings.ReplaceAll(name, " ", "-")), time.Now().UnixNano()),
		Category: "necklace",
		Price:    models.NewMoneyFromDecimal(amount),
		MaxChars: 12,
		InStock:  true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func checkoutInput(salonID *uint, items []OrderItemInput) CreateOrderInput {
	return CreateOrderInput{
		SalonID: salonID,
		Customer: CustomerInput{
			Email: "claire@example.com",
			Name:  "Claire Dupont",
		},
		Items: items,
		Delivery: DeliveryInput{
			Type:       "home",
			Address:    "12 rue de la Paix",
			City:       "Paris",
			PostalCode: "75002",
		},
		DeliveryCost: models.NewMoneyFromDecimal(decimal.NewFromFloat(4.90)),
	}
}

func TestGenerateOrderID(t *testing.T) {
	at := time.UnixMilli(1756377600000)
	id := GenerateOrderID(at)
	if !strings.HasPrefix(id, constants.OrderIDPrefix+"-") {
		t.Fatalf("unexpected order id prefix: %s", id)
	}
	raw := strings.TrimPrefix(id, constants.OrderIDPrefix+"-")
	if raw != strings.ToUpper(raw) {
		t.Fatalf("order id not uppercased: %s", id)
	}
	millis, err := strconv.ParseInt(strings.ToLower(raw), 36, 64)
	if err != nil {
		t.Fatalf("order id not base36: %v", err)
	}
	if millis != at.UnixMilli() {
		t.Fatalf("order id timestamp mismatch: got %d want %d", millis, at.UnixMilli())
	}
}

func TestCreateOrderWithSalonCreatesCommission(t *testing.T) {
	svc, db := setupOrderServiceTest(t, nil)
	salon := createTestSalon(t, db, constants.SalonStatusActive)
	necklace := createTestProduct(t, db, "Collier Plaque Or", "39.90")
	bracelet := createTestProduct(t, db, "Bracelet Jonc Or", "34.90")

	result, err := svc.CreateOrder(checkoutInput(&salon.ID, []OrderItemInput{
		{ProductID: necklace.ID, CustomText: "Claire", Font: "script", Color: "gold", Price: necklace.Price},
		{ProductID: bracelet.ID, CustomText: "Maman", Font: "serif", Color: "rose-gold", Price: bracelet.Price},
	}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if result.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("unexpected payment status: %s", result.PaymentStatus)
	}

	order, err := svc.GetOrder(result.OrderID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if order.SalonID == nil || *order.SalonID != salon.ID {
		t.Fatalf("order not attributed to salon: %+v", order.SalonID)
	}
	if len(order.Items) != 2 {
		t.Fatalf("unexpected item count: %d", len(order.Items))
	}
	if order.Items[0].ProductName != necklace.Name {
		t.Fatalf("product name not snapshotted: %s", order.Items[0].ProductName)
	}
	if !order.Subtotal.Decimal.Equal(decimal.NewFromFloat(74.80)) {
		t.Fatalf("unexpected subtotal: %s", order.Subtotal.String())
	}
	if !order.Total.Decimal.Equal(decimal.NewFromFloat(79.70)) {
		t.Fatalf("unexpected total: %s", order.Total.String())
	}

	var commissions []models.Commission
	if err := db.Where("order_id = ?", order.ID).Find(&commissions).Error; err != nil {
		t.Fatalf("list commissions failed: %v", err)
	}
	if len(commissions) != 1 {
		t.Fatalf("expected one commission, got %d", len(commissions))
	}
	commission := commissions[0]
	if commission.SalonID != salon.ID {
		t.Fatalf("commission bound to wrong salon: %d", commission.SalonID)
	}
	if commission.Status != constants.CommissionStatusPending {
		t.Fatalf("unexpected commission status: %s", commission.Status)
	}
	if commission.PayoutID != nil {
		t.Fatalf("new commission must not be bound to a payout")
	}
	// 74.80 * 0.30 = 22.44
	if !commission.Amount.Decimal.Equal(decimal.NewFromFloat(22.44)) {
		t.Fatalf("unexpected commission amount: %s", commission.Amount.String())
	}
	if !commission.OrderBase.Decimal.Equal(decimal.NewFromFloat(74.80)) {
		t.Fatalf("unexpected commission base: %s", commission.OrderBase.String())
	}
}

func TestCreateOrderWithoutSalonSkipsCommission(t *testing.T) {
	svc, db := setupOrderServiceTest(t, nil)
	necklace := createTestProduct(t, db, "Collier Barre Argent", "32.90")

	result, err := svc.CreateOrder(checkoutInput(nil, []OrderItemInput{
		{ProductID: necklace.ID, CustomText: "Emma", Price: necklace.Price},
	}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Commission{}).Count(&count).Error; err != nil {
		t.Fatalf("count commissions failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("direct sale must not create a commission, got %d", count)
	}
	order, err := svc.GetOrder(result.OrderID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if order.SalonID != nil {
		t.Fatalf("direct sale must not carry a salon id")
	}
}

func TestCreateOrderRejectsInactiveSalon(t *testing.T) {
	svc, db := setupOrderServiceTest(t, nil)
	salon := createTestSalon(t, db, constants.SalonStatusInactive)
	necklace := createTestProduct(t, db, "Collier Medaillon", "34.90")

	_, err := svc.CreateOrder(checkoutInput(&salon.ID, []OrderItemInput{
		{ProductID: necklace.ID, Price: necklace.Price},
	}))
	if !errors.Is(err, ErrSalonInactive) {
		t.Fatalf("expected inactive salon error, got: %v", err)
	}
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	svc, _ := setupOrderServiceTest(t, nil)

	_, err := svc.CreateOrder(checkoutInput(nil, nil))
	if !errors.Is(err, ErrOrderEmpty) {
		t.Fatalf("expected empty order error, got: %v", err)
	}
}

func TestCreateOrderVerifiedIntentMarksPaid(t *testing.T) {
	svc, db := setupOrderServiceTest(t, &stubPaymentVerifier{verified: true})
	necklace := createTestProduct(t, db, "Bracelet Cuir Argent", "42.90")

	input := checkoutInput(nil, []OrderItemInput{
		{ProductID: necklace.ID, Price: necklace.Price},
	})
	input.PaymentIntentID = "pi_test_123"

	result, err := svc.CreateOrder(input)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if result.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("expected paid, got: %s", result.PaymentStatus)
	}
	order, err := svc.GetOrder(result.OrderID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if order.PaidAt == nil {
		t.Fatalf("paid order must carry a paid_at timestamp")
	}
	if order.PaymentIntentID != "pi_test_123" {
		t.Fatalf("payment intent not recorded: %s", order.PaymentIntentID)
	}
}

func TestCreateOrderUnverifiedIntentStaysPending(t *testing.T) {
	svc, db := setupOrderServiceTest(t, &stubPaymentVerifier{err: errors.New("stripe unavailable")})
	necklace := createTestProduct(t, db, "Bracelet Chaine Plaque", "36.90")

	input := checkoutInput(nil, []OrderItemInput{
		{ProductID: necklace.ID, Price: necklace.Price},
	})
	input.PaymentIntentID = "pi_test_456"

	result, err := svc.CreateOrder(input)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if result.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("unverified intent must stay pending, got: %s", result.PaymentStatus)
	}
}

func createStatusTestOrder(t *testing.T, db *gorm.DB, id, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:            id,
		Status:        status,
		CustomerName:  "Claire Dupont",
		CustomerEmail: "claire@example.com",
		DeliveryType:  "home",
		Subtotal:      models.NewMoneyFromDecimal(decimal.NewFromFloat(39.90)),
		Total:         models.NewMoneyFromDecimal(decimal.NewFromFloat(44.80)),
		Currency:      "EUR",
		PaymentStatus: constants.PaymentStatusPaid,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestUpdateStatusForwardChain(t *testing.T) {
	svc, db := setupOrderServiceTest(t, nil)
	createStatusTestOrder(t, db, "AVA-CHAIN1", constants.OrderStatusPending)

	chain := []string{
		constants.OrderStatusProduction,
		constants.OrderStatusShipped,
		constants.OrderStatusReady,
		constants.OrderStatusDelivered,
	}
	for _, next := range chain {
		order, err := svc.UpdateStatus("AVA-CHAIN1", next)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
		if order.Status != next {
			t.Fatalf("status not applied: got %s want %s", order.Status, next)
		}
	}
}

func TestUpdateStatusRejectsSkippedStep(t *testing.T) {
	svc, db := setupOrderServiceTest(t, nil)
	createStatusTestOrder(t, db, "AVA-SKIP1", constants.OrderStatusPending)

	_, err := svc.UpdateStatus("AVA-SKIP1", constants.OrderStatusShipped)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got: %v", err)
	}
}

func TestUpdateStatusRejectsTerminalOrder(t *testing.T) {
	svc, db := setupOrderServiceTest(t, nil)
	createStatusTestOrder(t, db, "AVA-TERM1", constants.OrderStatusDelivered)

	_, err := svc.UpdateStatus("AVA-TERM1", constants.OrderStatusCancelled)
	if !errors.Is(err, ErrOrderAlreadyTerminal) {
		t.Fatalf("expected terminal order error, got: %v", err)
	}
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	svc, db := setupOrderServiceTest(t, nil)
	createStatusTestOrder(t, db, "AVA-NOOP1", constants.OrderStatusProduction)

	order, err := svc.UpdateStatus("AVA-NOOP1", constants.OrderStatusProduction)
	if err != nil {
		t.Fatalf("same-status update failed: %v", err)
	}
	if order.Status != constants.OrderStatusProduction {
		t.Fatalf("unexpected status: %s", order.Status)
	}
}

func TestUpdateStatusCancelRecordsTimestamp(t *testing.T) {
	svc, db := setupOrderServiceTest(t, nil)
	createStatusTestOrder(t, db, "AVA-CANCEL1", constants.OrderStatusShipped)

	order, err := svc.UpdateStatus("AVA-CANCEL1", constants.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if order.Status != constants.OrderStatusCancelled {
		t.Fatalf("unexpected status: %s", order.Status)
	}
	if order.CancelledAt == nil {
		t.Fatalf("cancelled order must carry cancelled_at")
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, db := setupOrderServiceTest(t, nil)
	createStatusTestOrder(t, db, "AVA-BAD1", constants.OrderStatusPending)

	if _, err := svc.UpdateStatus("AVA-BAD1", "refunded"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status error, got: %v", err)
	}
	if _, err := svc.UpdateStatus("AVA-MISSING", constants.OrderStatusProduction); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got: %v", err)
	}
}

func TestGetSalonOrderScopesToSalon(t *testing.T) {
	svc, db := setupOrderServiceTest(t, nil)
	salon := createTestSalon(t, db, constants.SalonStatusActive)
	other := createTestSalon(t, db, constants.SalonStatusActive)

	order := createStatusTestOrder(t, db, "AVA-SCOPE1", constants.OrderStatusPending)
	if err := db.Model(order).Update("salon_id", salon.ID).Error; err != nil {
		t.Fatalf("attach salon failed: %v", err)
	}

	if _, err := svc.GetSalonOrder(salon.ID, "AVA-SCOPE1"); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := svc.GetSalonOrder(other.ID, "AVA-SCOPE1"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign salon must not see the order, got: %v", err)
	}
}
