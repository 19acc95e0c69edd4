package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/ava-bijoux/ava-next/internal/constants"
	"github.com/ava-bijoux/ava-next/internal/logger"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/ava-bijoux/ava-next/internal/queue"
	"github.com/ava-bijoux/ava-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// allowedTransitions forward-only order status graph. Cancellation is
// reachable from every non-terminal state; terminal states accept nothing.
var allowedTransitions = map[string][]string{
	constants.OrderStatusPending:    {constants.OrderStatusProduction, constants.OrderStatusCancelled},
	constants.OrderStatusProduction: {constants.OrderStatusShipped, constants.OrderStatusCancelled},
	constants.OrderStatusShipped:    {constants.OrderStatusReady, constants.OrderStatusCancelled},
	constants.OrderStatusReady:      {constants.OrderStatusDelivered, constants.OrderStatusCancelled},
	constants.OrderStatusDelivered:  {},
	constants.OrderStatusCancelled:  {},
}

// CustomerInput checkout customer block
type CustomerInput struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// DeliveryInput checkout delivery block
type DeliveryInput struct {
	Type         string `json:"type" binding:"required"`
	Address      string `json:"address"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	RelayPointID string `json:"relayPointId"`
}

// OrderItemInput one customized product line
type OrderItemInput struct {
	ProductID  uint         `json:"productId" binding:"required"`
	CustomText string       `json:"customText"`
	Font       string       `json:"font"`
	Color      string       `json:"color"`
	Price      models.Money `json:"price"`
}

// CreateOrderInput checkout payload
type CreateOrderInput struct {
	SalonID         *uint            `json:"salon_id"`
	Customer        CustomerInput    `json:"customer" binding:"required"`
	Items           []OrderItemInput `json:"items" binding:"required"`
	Delivery        DeliveryInput    `json:"delivery" binding:"required"`
	Subtotal        models.Money     `json:"subtotal"`
	DeliveryCost    models.Money     `json:"delivery_cost"`
	Total           models.Money     `json:"total"`
	PaymentIntentID string           `json:"payment_intent_id"`
	Notes           string           `json:"notes"`
	ClientIP        string           `json:"-"`
}

// CreateOrderResult checkout response payload
type CreateOrderResult struct {
	OrderID       string `json:"orderId"`
	PaymentStatus string `json:"payment_status"`
}

// PaymentVerifier confirms a payment intent against the provider before an
// order may be recorded as paid.
type PaymentVerifier interface {
	VerifyPaymentIntent(intentID string, expectedAmount models.Money, currency string) (bool, error)
}

// OrderService order ingestion, reads and status transitions
type OrderService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	salonRepo      repository.SalonRepository
	commissionRepo repository.CommissionRepository
	verifier       PaymentVerifier
	queueClient    *queue.Client
	commissionRate decimal.Decimal
	currency       string
	now            func() time.Time
}

// NewOrderService creates an order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	salonRepo repository.SalonRepository,
	commissionRepo repository.CommissionRepository,
	verifier PaymentVerifier,
	queueClient *queue.Client,
	commissionRate float64,
	currency string,
) *OrderService {
	if commissionRate <= 0 {
		commissionRate = 0.30
	}
	if strings.TrimSpace(currency) == "" {
		currency = "EUR"
	}
	return &OrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		salonRepo:      salonRepo,
		commissionRepo: commissionRepo,
		verifier:       verifier,
		queueClient:    queueClient,
		commissionRate: decimal.NewFromFloat(commissionRate),
		currency:       strings.ToUpper(strings.TrimSpace(currency)),
		now:            time.Now,
	}
}

// GenerateOrderID builds a human-readable order number from the current
// millisecond timestamp in base36.
func GenerateOrderID(at time.Time) string {
	return constants.OrderIDPrefix + "-" + strings.ToUpper(strconv.FormatInt(at.UnixMilli(), 36))
}

// GeneratePayoutID builds a payout number in the same base36 shape.
func GeneratePayoutID(at time.Time) string {
	return constants.PayoutIDPrefix + "-" + strings.ToUpper(strconv.FormatInt(at.UnixMilli(), 36))
}

// CreateOrder validates the checkout payload and creates the order, its
// items and, when a salon referred the sale, exactly one pending commission.
// All rows are written in a single transaction. The order is only recorded
// as paid after the payment intent has been verified against the provider;
// otherwise payment stays pending until the webhook confirms it.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*CreateOrderResult, error) {
	if strings.TrimSpace(input.Customer.Email) == "" {
		return nil, ErrOrderInvalid
	}
	if len(input.Items) == 0 {
		return nil, ErrOrderEmpty
	}
	if strings.TrimSpace(input.Delivery.Type) == "" {
		return nil, ErrOrderInvalid
	}

	// Recompute the subtotal from the item lines; the client copy is not
	// trusted for money math.
	subtotal := decimal.Zero
	productIDs := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == 0 {
			return nil, ErrOrderInvalid
		}
		subtotal = subtotal.Add(item.Price.Decimal)
		productIDs = append(productIDs, item.ProductID)
	}
	subtotal = subtotal.Round(2)

	products, err := s.productRepo.GetByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	catalog := make(map[uint]models.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	for _, item := range input.Items {
		product, ok := catalog[item.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		if !product.InStock {
			return nil, ErrProductInactive
		}
		if product.MaxChars > 0 && len([]rune(strings.TrimSpace(item.CustomText))) > product.MaxChars {
			return nil, ErrCustomTextTooLong
		}
	}

	var salonID *uint
	if input.SalonID != nil && *input.SalonID != 0 {
		salon, err := s.salonRepo.GetByID(*input.SalonID)
		if err != nil {
			return nil, err
		}
		if salon == nil {
			return nil, ErrSalonNotFound
		}
		if salon.Status != constants.SalonStatusActive {
			return nil, ErrSalonInactive
		}
		salonID = &salon.ID
	}

	total := subtotal.Add(input.DeliveryCost.Decimal).Round(2)
	now := s.now()

	paymentStatus := constants.PaymentStatusPending
	var paidAt *time.Time
	intentID := strings.TrimSpace(input.PaymentIntentID)
	if intentID != "" && s.verifier != nil {
		verified, err := s.verifier.VerifyPaymentIntent(intentID, models.NewMoneyFromDecimal(total), s.currency)
		if err != nil {
			logger.Warnw("order_payment_verify_failed", "payment_intent_id", intentID, "error", err)
		} else if verified {
			paymentStatus = constants.PaymentStatusPaid
			paidAt = &now
		}
	}

	order := &models.Order{
		ID:              GenerateOrderID(now),
		SalonID:         salonID,
		Status:          constants.OrderStatusPending,
		CustomerName:    strings.TrimSpace(input.Customer.Name),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(input.Customer.Email)),
		CustomerPhone:   strings.TrimSpace(input.Customer.Phone),
		DeliveryType:    strings.TrimSpace(input.Delivery.Type),
		DeliveryAddress: strings.TrimSpace(input.Delivery.Address),
		DeliveryCity:    strings.TrimSpace(input.Delivery.City),
		DeliveryPostal:  strings.TrimSpace(input.Delivery.PostalCode),
		RelayPointID:    strings.TrimSpace(input.Delivery.RelayPointID),
		Subtotal:        models.NewMoneyFromDecimal(subtotal),
		DeliveryCost:    input.DeliveryCost,
		Total:           models.NewMoneyFromDecimal(total),
		Currency:        s.currency,
		PaymentStatus:   paymentStatus,
		PaymentIntentID: intentID,
		Notes:           strings.TrimSpace(input.Notes),
		ClientIP:        strings.TrimSpace(input.ClientIP),
		PaidAt:          paidAt,
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: catalog[item.ProductID].Name,
			CustomText:  strings.TrimSpace(item.CustomText),
			Font:        strings.TrimSpace(item.Font),
			Color:       strings.TrimSpace(item.Color),
			Price:       item.Price,
		})
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		txOrders := s.orderRepo.WithTx(tx)
		txCommissions := s.commissionRepo.WithTx(tx)

		if err := txOrders.Create(order); err != nil {
			return err
		}
		if salonID == nil {
			return nil
		}
		amount := subtotal.Mul(s.commissionRate).Round(2)
		return txCommissions.CreateCommission(&models.Commission{
			SalonID:   *salonID,
			OrderID:   order.ID,
			OrderBase: models.NewMoneyFromDecimal(subtotal),
			Rate:      rateFloat(s.commissionRate),
			Amount:    models.NewMoneyFromDecimal(amount),
			Status:    constants.CommissionStatusPending,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderConfirmationEmail(queue.OrderConfirmationEmailPayload{OrderID: order.ID}); err != nil {
			logger.Warnw("order_confirmation_email_enqueue_failed", "order_id", order.ID, "error", err)
		}
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"salon_id", salonID,
		"total", order.Total.String(),
		"payment_status", paymentStatus,
	)
	return &CreateOrderResult{OrderID: order.ID, PaymentStatus: paymentStatus}, nil
}

// GetOrder fetches one order with items
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetSalonOrder fetches one order scoped to a salon
func (s *OrderService) GetSalonOrder(salonID uint, id string) (*models.Order, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}
	if order.SalonID == nil || *order.SalonID != salonID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders queries orders with filters
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// UpdateStatus applies an admin status change, enforcing the transition
// graph. Setting a status an order already holds is a no-op.
func (s *OrderService) UpdateStatus(id, status string) (*models.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !isValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		txOrders := s.orderRepo.WithTx(tx)
		order, err := txOrders.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == status {
			return nil
		}
		if !isAllowedTransition(order.Status, status) {
			if isTerminalStatus(order.Status) {
				return ErrOrderAlreadyTerminal
			}
			return ErrInvalidTransition
		}

		now := s.now()
		order.Status = status
		order.UpdatedAt = now
		if status == constants.OrderStatusCancelled {
			order.CancelledAt = &now
		}
		return txOrders.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(id)
}

func isValidOrderStatus(status string) bool {
	for _, s := range constants.OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func isTerminalStatus(status string) bool {
	return status == constants.OrderStatusDelivered || status == constants.OrderStatusCancelled
}

func isAllowedTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func rateFloat(rate decimal.Decimal) float64 {
	f, _ := rate.Float64()
	return f
}
