package queue

import (
	"encoding/json"

	"github.com/ava-bijoux/ava-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmationEmail order confirmation email task
	TaskOrderConfirmationEmail = constants.TaskOrderConfirmationEmail
	// TaskPayoutProcessedEmail payout processed email task
	TaskPayoutProcessedEmail = constants.TaskPayoutProcessedEmail
)

// OrderConfirmationEmailPayload order confirmation email payload
type OrderConfirmationEmailPayload struct {
	OrderID string `json:"order_id"`
}

// PayoutProcessedEmailPayload payout processed email payload
type PayoutProcessedEmailPayload struct {
	PayoutID string `json:"payout_id"`
}

// NewOrderConfirmationEmailTask builds an order confirmation email task
func NewOrderConfirmationEmailTask(payload OrderConfirmationEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmationEmail, body), nil
}

// NewPayoutProcessedEmailTask builds a payout processed email task
func NewPayoutProcessedEmailTask(payload PayoutProcessedEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPayoutProcessedEmail, body), nil
}
