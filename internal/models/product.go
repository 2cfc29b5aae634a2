package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product represents a catalogue item.
type Product struct {
	ID          string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string                      `json:"name" gorm:"type:varchar(255);not null"`
	Description string                      `json:"description"`
	Price       decimal.NullDecimal         `json:"price" gorm:"type:decimal(10,2)"` // Invalid means not for sale
	Sizes       datatypes.JSONSlice[string] `json:"sizes"`
	Category    string                      `json:"category" gorm:"type:varchar(255);index"` // Weak reference to Category.Name
	Color       string                      `json:"color"`
	Fabric      string                      `json:"fabric"`
	ImageURLs   datatypes.JSONSlice[string] `json:"image_urls" gorm:"column:image_urls"`
	IsFeatured  bool                        `json:"is_featured"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// CoverImage returns the first image URL, or "" when the product has no images.
func (p Product) CoverImage() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}
