package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem is a priced line item. Product and variant identity are
// snapshotted at checkout so later catalog edits do not rewrite history.
type OrderItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	OrderID      uint           `gorm:"index;not null" json:"order_id"`
	ProductID    uint           `gorm:"index;not null" json:"product_id"`
	ProductName  string         `gorm:"not null" json:"product_name"`
	ProductImage string         `gorm:"type:varchar(500)" json:"product_image,omitempty"`
	VariantID    *uint          `gorm:"index" json:"variant_id,omitempty"`
	VariantName  string         `gorm:"type:varchar(100)" json:"variant_name,omitempty"`
	VariantSKU   string         `gorm:"type:varchar(100)" json:"variant_sku,omitempty"`
	UnitPrice    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`
	Quantity     int            `gorm:"not null" json:"quantity"`
	TotalPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName pins the table name.
func (OrderItem) TableName() string {
	return "order_items"
}
