package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is the settlement record for a checkout. Status tracks the
// fulfilment lifecycle; PaymentStatus tracks the money lifecycle, on a
// separate axis.
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`
	UserID         uint           `gorm:"index;not null" json:"user_id"`
	Status         string         `gorm:"index;not null" json:"status"`
	PaymentStatus  string         `gorm:"index;not null" json:"payment_status"`
	PaymentMethod  string         `gorm:"type:varchar(20)" json:"payment_method"`
	Currency       string         `gorm:"not null" json:"currency"`
	Subtotal       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`
	CouponDiscount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"coupon_discount"`
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`
	TaxAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`
	DeliveryFee    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"`
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	CouponID       *uint          `gorm:"index" json:"coupon_id,omitempty"`
	CouponCode     string         `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`
	AddressID      uint           `gorm:"index;not null" json:"address_id"`
	Instructions   string         `gorm:"type:text" json:"instructions,omitempty"`
	DeliveredAt    *time.Time     `gorm:"index" json:"delivered_at"`
	CancelledAt    *time.Time     `gorm:"index" json:"cancelled_at"`
	CancelReason   string         `gorm:"type:text" json:"cancel_reason,omitempty"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payment *Payment    `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	Address *Address    `gorm:"foreignKey:AddressID" json:"address,omitempty"`
}

// TableName pins the table name.
func (Order) TableName() string {
	return "orders"
}
