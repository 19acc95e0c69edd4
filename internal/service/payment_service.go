package service

import (
	"context"
	"strings"
	"time"

	"github.com/ava-bijoux/ava-next/internal/config"
	"github.com/ava-bijoux/ava-next/internal/constants"
	"github.com/ava-bijoux/ava-next/internal/logger"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/ava-bijoux/ava-next/internal/payment/stripe"
	"github.com/ava-bijoux/ava-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentIntentResult client-side payment bootstrap payload
type PaymentIntentResult struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	PublishableKey  string `json:"publishable_key"`
}

// PaymentService Stripe integration: intent creation, server-side
// verification before an order is recorded paid, and webhook handling.
type PaymentService struct {
	cfg       config.StripeConfig
	orderRepo repository.OrderRepository
	now       func() time.Time
}

// NewPaymentService creates a payment service
func NewPaymentService(cfg config.StripeConfig, orderRepo repository.OrderRepository) *PaymentService {
	return &PaymentService{
		cfg:       cfg,
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

func (s *PaymentService) stripeConfig() *stripe.Config {
	return &stripe.Config{
		SecretKey:               s.cfg.SecretKey,
		PublishableKey:          s.cfg.PublishableKey,
		WebhookSecret:           s.cfg.WebhookSecret,
		APIBaseURL:              s.cfg.APIBaseURL,
		TimeoutMS:               s.cfg.TimeoutMS,
		WebhookToleranceSeconds: s.cfg.WebhookToleranceS,
	}
}

// CreatePaymentIntent opens a payment intent for the checkout amount
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, amount models.Money, description, receiptEmail string) (*PaymentIntentResult, error) {
	currency := strings.ToUpper(strings.TrimSpace(s.cfg.Currency))
	if currency == "" {
		currency = "EUR"
	}
	result, err := stripe.CreatePaymentIntent(ctx, s.stripeConfig(), stripe.CreateInput{
		OrderID:      "",
		Amount:       amount.String(),
		Currency:     currency,
		Description:  description,
		ReceiptEmail: receiptEmail,
	})
	if err != nil {
		return nil, err
	}
	return &PaymentIntentResult{
		PaymentIntentID: result.PaymentIntentID,
		ClientSecret:    result.ClientSecret,
		PublishableKey:  s.cfg.PublishableKey,
	}, nil
}

// VerifyPaymentIntent re-fetches the intent from Stripe and checks that it
// succeeded for at least the expected amount. With verification disabled in
// config the client-supplied intent is accepted as-is.
func (s *PaymentService) VerifyPaymentIntent(intentID string, expectedAmount models.Money, currency string) (bool, error) {
	if !s.cfg.VerifyBeforePaid {
		return true, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := stripe.QueryPaymentIntent(ctx, s.stripeConfig(), intentID)
	if err != nil {
		return false, err
	}
	if result.Status != "success" {
		return false, nil
	}
	if result.Currency != "" && !strings.EqualFold(result.Currency, currency) {
		return false, ErrPaymentAmountMismatch
	}
	if result.Amount != "" {
		paid, err := decimal.NewFromString(result.Amount)
		if err != nil {
			return false, err
		}
		if paid.LessThan(expectedAmount.Decimal) {
			return false, ErrPaymentAmountMismatch
		}
	}
	return true, nil
}

// HandleWebhook verifies the event signature and reconciles the matching
// order's payment status.
func (s *PaymentService) HandleWebhook(headers map[string]string, body []byte) error {
	event, err := stripe.VerifyAndParseWebhook(s.stripeConfig(), headers, body, s.now())
	if err != nil {
		return err
	}

	intentID := strings.TrimSpace(event.PaymentIntentID)
	if intentID == "" {
		logger.Debugw("stripe_webhook_without_intent", "event_type", event.EventType)
		return nil
	}

	order, err := s.orderRepo.GetByPaymentIntentID(intentID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Debugw("stripe_webhook_order_not_found", "payment_intent_id", intentID, "event_type", event.EventType)
		return nil
	}

	switch event.Status {
	case "success":
		return s.markOrderPaid(order.ID, event.PaidAt)
	case "failed":
		return s.markOrderFailed(order.ID)
	default:
		return nil
	}
}

func (s *PaymentService) markOrderPaid(orderID string, paidAt *time.Time) error {
	return s.orderRepo.Transaction(func(tx *gorm.DB) error {
		txOrders := s.orderRepo.WithTx(tx)
		order, err := txOrders.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.PaymentStatus == constants.PaymentStatusPaid {
			return nil
		}
		now := s.now()
		if paidAt == nil {
			paidAt = &now
		}
		order.PaymentStatus = constants.PaymentStatusPaid
		order.PaidAt = paidAt
		order.UpdatedAt = now
		if err := txOrders.Update(order); err != nil {
			return err
		}
		logger.Infow("order_payment_confirmed", "order_id", order.ID)
		return nil
	})
}

func (s *PaymentService) markOrderFailed(orderID string) error {
	return s.orderRepo.Transaction(func(tx *gorm.DB) error {
		txOrders := s.orderRepo.WithTx(tx)
		order, err := txOrders.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.PaymentStatus == constants.PaymentStatusPaid {
			// A failure event never demotes a confirmed payment.
			return nil
		}
		order.PaymentStatus = constants.PaymentStatusFailed
		order.UpdatedAt = s.now()
		if err := txOrders.Update(order); err != nil {
			return err
		}
		logger.Warnw("order_payment_failed", "order_id", order.ID)
		return nil
	})
}
