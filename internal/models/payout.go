package models

import "time"

// Payout salon payout request, settles a fixed set of commissions
type Payout struct {
	ID              string     `gorm:"primarykey;type:varchar(40)" json:"id"`               // payout number, PAY-xxxx
	SalonID         uint       `gorm:"index;not null" json:"salon_id"`                      // requesting salon
	Amount          Money      `gorm:"type:decimal(20,2);not null;default:0" json:"amount"` // sum of bound commissions
	CommissionCount int        `gorm:"not null;default:0" json:"commission_count"`          // bound commission count
	Status          string     `gorm:"index;not null;default:pending" json:"status"`        // pending / completed
	IBAN            string     `gorm:"type:varchar(64)" json:"-"`                           // bank account snapshot
	Reference       string     `gorm:"type:varchar(200)" json:"reference,omitempty"`        // bank transfer reference
	ProcessedBy     *uint      `gorm:"index" json:"processed_by,omitempty"`                 // settling admin
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`                              // settlement time
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`                             // created at
	UpdatedAt       time.Time  `json:"updated_at"`                                          // updated at

	Salon       *Salon       `gorm:"foreignKey:SalonID" json:"salon,omitempty"`    // requesting salon
	Commissions []Commission `gorm:"foreignKey:PayoutID" json:"commissions,omitempty"` // bound commissions
}

// TableName table name
func (Payout) TableName() string {
	return "payouts"
}
