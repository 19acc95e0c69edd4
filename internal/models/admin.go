package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin back-office account
type Admin struct {
	ID          uint           `gorm:"primarykey" json:"id"`                          // primary key
	Username    string         `gorm:"uniqueIndex;not null" json:"username"`          // login name
	Password    string         `gorm:"type:varchar(200);not null" json:"-"`           // bcrypt hash
	Email       string         `gorm:"type:varchar(200)" json:"email,omitempty"`      // contact email
	Role        string         `gorm:"index;not null;default:admin" json:"role"`      // superadmin / admin / operations
	Status      string         `gorm:"index;not null;default:active" json:"status"`   // active / inactive
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`                       // last login time
	LastLoginIP string         `gorm:"type:varchar(64)" json:"last_login_ip"`         // last login IP
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                       // created at
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                       // updated at
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                // soft delete
}

// TableName table name
func (Admin) TableName() string {
	return "admins"
}
