package models

import (
	"time"

	"gorm.io/gorm"
)

// Product catalog item
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                             // primary key
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`           // display name
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                 // URL slug
	Description string         `gorm:"type:text" json:"description"`                     // long description
	Category    string         `gorm:"index;type:varchar(80)" json:"category"`           // bracelet / necklace / ring ...
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // unit price
	MaxChars    int            `gorm:"not null;default:0" json:"max_chars"`              // engraving character limit
	Fonts       string         `gorm:"type:text" json:"fonts,omitempty"`                 // JSON array of font options
	Colors      string         `gorm:"type:text" json:"colors,omitempty"`                // JSON array of color options
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url,omitempty"`     // primary image
	InStock     bool           `gorm:"not null;default:true" json:"in_stock"`            // available for ordering
	SortOrder   int            `gorm:"not null;default:0" json:"sort_order"`             // listing order
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                          // created at
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                          // updated at
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                   // soft delete
}

// TableName table name
func (Product) TableName() string {
	return "products"
}
