package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is a pending line in a user's cart. One row per
// (user, product, variant) combination.
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_cart_user_product_variant" json:"user_id"`
	ProductID uint           `gorm:"not null;uniqueIndex:idx_cart_user_product_variant" json:"product_id"`
	VariantID *uint          `gorm:"uniqueIndex:idx_cart_user_product_variant" json:"variant_id,omitempty"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

// TableName pins the table name.
func (CartItem) TableName() string {
	return "cart_items"
}
