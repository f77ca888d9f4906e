package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a discount rule. DiscountValue is a percentage for
// PERCENTAGE coupons and an absolute amount for FIXED_AMOUNT; it is
// ignored for FREE_SHIPPING. Zero limits mean unlimited.
type Coupon struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Code            string         `gorm:"uniqueIndex;not null" json:"code"`
	Description     string         `gorm:"type:text" json:"description,omitempty"`
	DiscountType    string         `gorm:"not null" json:"discount_type"`
	DiscountValue   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"`
	MinOrderAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"`
	MaxDiscount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`
	UsageLimit      int            `gorm:"not null;default:0" json:"usage_limit"`
	UsedCount       int            `gorm:"not null;default:0" json:"used_count"`
	PerUserLimit    int            `gorm:"not null;default:0" json:"per_user_limit"`
	CategoryIDs     UintArray      `gorm:"type:json" json:"category_ids,omitempty"`
	ProductIDs      UintArray      `gorm:"type:json" json:"product_ids,omitempty"`
	ExcludedUserIDs UintArray      `gorm:"type:json" json:"excluded_user_ids,omitempty"`
	ValidFrom       *time.Time     `gorm:"index" json:"valid_from"`
	ValidUntil      *time.Time     `gorm:"index" json:"valid_until"`
	Status          string         `gorm:"index;not null;default:'ACTIVE'" json:"status"`
	IsActive        bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName pins the table name.
func (Coupon) TableName() string {
	return "coupons"
}
