package models

import (
	"time"

	"gorm.io/gorm"
)

// Order customer order
type Order struct {
	ID              string         `gorm:"primarykey;type:varchar(40)" json:"id"`                      // order number, AVA-xxxx
	SalonID         *uint          `gorm:"index" json:"salon_id,omitempty"`                            // referring salon, nil for direct sales
	Status          string         `gorm:"index;not null" json:"status"`                               // fulfillment status
	CustomerName    string         `gorm:"type:varchar(200);not null" json:"customer_name"`            // recipient name
	CustomerEmail   string         `gorm:"index;type:varchar(200);not null" json:"customer_email"`     // recipient email
	CustomerPhone   string         `gorm:"type:varchar(40)" json:"customer_phone,omitempty"`           // recipient phone
	DeliveryType    string         `gorm:"type:varchar(20);not null" json:"delivery_type"`             // home / relay / pickup
	DeliveryAddress string         `gorm:"type:varchar(500)" json:"delivery_address,omitempty"`        // shipping address
	DeliveryCity    string         `gorm:"type:varchar(120)" json:"delivery_city,omitempty"`           // shipping city
	DeliveryPostal  string         `gorm:"type:varchar(20)" json:"delivery_postal_code,omitempty"`     // shipping postal code
	RelayPointID    string         `gorm:"type:varchar(80)" json:"relay_point_id,omitempty"`           // relay pickup point
	Subtotal        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`      // item lines total
	DeliveryCost    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_cost"` // delivery charge
	Total           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`         // subtotal + delivery
	Currency        string         `gorm:"type:varchar(10);not null;default:EUR" json:"currency"`      // currency code
	PaymentStatus   string         `gorm:"index;not null;default:pending" json:"payment_status"`       // pending / paid / failed
	PaymentIntentID string         `gorm:"index;type:varchar(120)" json:"-"`                           // Stripe payment intent
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`                           // customer notes
	ClientIP        string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                // ordering client IP
	PaidAt          *time.Time     `gorm:"index" json:"paid_at,omitempty"`                             // payment time
	CancelledAt     *time.Time     `gorm:"index" json:"cancelled_at,omitempty"`                        // cancel time
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                    // created at
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                    // updated at
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                             // soft delete

	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`      // order lines
	Salon      *Salon      `gorm:"foreignKey:SalonID" json:"salon,omitempty"`      // referring salon
	Commission *Commission `gorm:"foreignKey:OrderID" json:"commission,omitempty"` // salon commission
}

// TableName table name
func (Order) TableName() string {
	return "orders"
}
