package models

import "time"

// OrderItem one customized product line, immutable after creation
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                // primary key
	OrderID     string    `gorm:"index;type:varchar(40);not null" json:"order_id"`     // owning order
	ProductID   uint      `gorm:"index;not null" json:"product_id"`                    // catalog product
	ProductName string    `gorm:"type:varchar(200)" json:"product_name,omitempty"`     // name snapshot
	CustomText  string    `gorm:"type:varchar(200)" json:"custom_text,omitempty"`      // engraving text
	Font        string    `gorm:"type:varchar(80)" json:"font,omitempty"`              // chosen font
	Color       string    `gorm:"type:varchar(80)" json:"color,omitempty"`             // chosen color
	Price       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // price snapshot
	CreatedAt   time.Time `json:"created_at"`                                          // created at
	UpdatedAt   time.Time `json:"updated_at"`                                          // updated at
}

// TableName table name
func (OrderItem) TableName() string {
	return "order_items"
}
