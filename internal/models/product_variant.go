package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant is a purchasable variant of a product (size, pack).
type ProductVariant struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ProductID uint           `gorm:"index;not null" json:"product_id"`
	Name      string         `gorm:"not null" json:"name"`
	SKU       string         `gorm:"uniqueIndex;not null" json:"sku"`
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Stock     int            `gorm:"not null;default:0" json:"stock"`
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName pins the table name.
func (ProductVariant) TableName() string {
	return "product_variants"
}
