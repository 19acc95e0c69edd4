package models

import "time"

// Commission salon earning on a referred order
type Commission struct {
	ID        uint       `gorm:"primarykey" json:"id"`                                  // primary key
	SalonID   uint       `gorm:"index;not null" json:"salon_id"`                        // earning salon
	OrderID   string     `gorm:"uniqueIndex;type:varchar(40);not null" json:"order_id"` // source order, one commission per order
	OrderBase Money      `gorm:"type:decimal(20,2);not null;default:0" json:"order_base"` // order subtotal at creation
	Rate      float64    `gorm:"not null" json:"rate"`                                  // rate applied at creation
	Amount    Money      `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`   // earned amount
	Status    string     `gorm:"index;not null;default:pending" json:"status"`          // pending / paid
	PayoutID  *string    `gorm:"index;type:varchar(40)" json:"payout_id,omitempty"`     // settling payout, set when requested
	PaidAt    *time.Time `json:"paid_at,omitempty"`                                     // settlement time
	CreatedAt time.Time  `gorm:"index" json:"created_at"`                               // created at
	UpdatedAt time.Time  `json:"updated_at"`                                            // updated at

	Salon *Salon `gorm:"foreignKey:SalonID" json:"salon,omitempty"` // earning salon
	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"` // source order
}

// TableName table name
func (Commission) TableName() string {
	return "commissions"
}
