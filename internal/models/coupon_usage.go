package models

import (
	"time"

	"gorm.io/gorm"
)

// CouponUsage is an append-only redemption ledger row.
type CouponUsage struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CouponID       uint           `gorm:"index;not null" json:"coupon_id"`
	UserID         uint           `gorm:"index;not null" json:"user_id"`
	OrderID        uint           `gorm:"index;not null" json:"order_id"`
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName pins the table name.
func (CouponUsage) TableName() string {
	return "coupon_usages"
}
