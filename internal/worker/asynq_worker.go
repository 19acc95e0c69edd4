package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ava-bijoux/ava-next/internal/logger"
	"github.com/ava-bijoux/ava-next/internal/provider"
	"github.com/ava-bijoux/ava-next/internal/queue"
	"github.com/ava-bijoux/ava-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles queued background tasks
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the task consumer
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds task handlers onto the mux
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmationEmail, c.handleOrderConfirmationEmail)
	mux.HandleFunc(queue.TaskPayoutProcessedEmail, c.handlePayoutProcessedEmail)
}

func (c *Consumer) handleOrderConfirmationEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_confirmation_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderConfirmationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirmation_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.OrderID) == "" {
		logger.Debugw("worker_order_confirmation_skip_invalid_payload")
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_confirmation_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_confirmation_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	receiverEmail := strings.TrimSpace(order.CustomerEmail)
	if receiverEmail == "" {
		logger.Debugw("worker_order_confirmation_skip_empty_receiver", "order_id", order.ID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_confirmation_skip_email_service_nil", "order_id", order.ID)
		return nil
	}
	input := service.OrderConfirmationInput{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Total:        order.Total,
		Currency:     order.Currency,
		ItemCount:    len(order.Items),
	}
	if err := c.EmailService.SendOrderConfirmation(receiverEmail, input); err != nil {
		logger.Warnw("worker_order_confirmation_send_failed",
			"order_id", order.ID,
			"receiver_email", receiverEmail,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handlePayoutProcessedEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payout_processed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PayoutProcessedEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payout_processed_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.PayoutID) == "" {
		logger.Debugw("worker_payout_processed_skip_invalid_payload")
		return nil
	}
	payout, err := c.CommissionRepo.GetPayoutByID(payload.PayoutID)
	if err != nil {
		logger.Warnw("worker_payout_processed_fetch_failed", "payout_id", payload.PayoutID, "error", err)
		return err
	}
	if payout == nil {
		logger.Debugw("worker_payout_processed_skip_not_found", "payout_id", payload.PayoutID)
		return nil
	}
	salon, err := c.SalonRepo.GetByID(payout.SalonID)
	if err != nil {
		logger.Warnw("worker_payout_processed_fetch_salon_failed", "payout_id", payout.ID, "salon_id", payout.SalonID, "error", err)
		return err
	}
	if salon == nil || strings.TrimSpace(salon.Email) == "" {
		logger.Debugw("worker_payout_processed_skip_empty_receiver", "payout_id", payout.ID, "salon_id", payout.SalonID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_payout_processed_skip_email_service_nil", "payout_id", payout.ID)
		return nil
	}
	input := service.PayoutProcessedInput{
		PayoutID:  payout.ID,
		SalonName: salon.Name,
		Amount:    payout.Amount,
		Reference: payout.Reference,
	}
	if err := c.EmailService.SendPayoutProcessed(salon.Email, input); err != nil {
		logger.Warnw("worker_payout_processed_send_failed",
			"payout_id", payout.ID,
			"salon_id", payout.SalonID,
			"error", err,
		)
		return err
	}
	return nil
}
