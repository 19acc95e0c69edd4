package models

import (
	"time"

	"gorm.io/gorm"
)

// Salon partner salon account
type Salon struct {
	ID             uint           `gorm:"primarykey" json:"id"`                           // primary key
	Name           string         `gorm:"type:varchar(200);not null" json:"name"`         // display name
	Slug           string         `gorm:"uniqueIndex;not null" json:"slug"`               // URL slug
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`              // login email
	Password       string         `gorm:"type:varchar(200);not null" json:"-"`            // bcrypt hash
	ContactName    string         `gorm:"type:varchar(200)" json:"contact_name"`          // contact person
	Phone          string         `gorm:"type:varchar(40)" json:"phone,omitempty"`        // contact phone
	Address        string         `gorm:"type:varchar(500)" json:"address,omitempty"`     // street address
	City           string         `gorm:"type:varchar(120)" json:"city,omitempty"`        // city
	PostalCode     string         `gorm:"type:varchar(20)" json:"postal_code,omitempty"`  // postal code
	CommissionRate float64        `gorm:"not null;default:0.30" json:"commission_rate"`   // commission rate on subtotal
	IBAN           string         `gorm:"type:varchar(64)" json:"-"`                      // payout bank account
	BIC            string         `gorm:"type:varchar(16)" json:"-"`                      // payout bank code
	Status         string         `gorm:"index;not null;default:active" json:"status"`    // active / inactive
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                        // created at
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                        // updated at
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                 // soft delete
}

// TableName table name
func (Salon) TableName() string {
	return "salons"
}
