package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is the settlement record for an order, one row per order.
// IntentID is the gateway payment intent identifier and the idempotency
// key for webhook processing; RefundedAmount mirrors the gateway's
// cumulative refund total.
type Payment struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	OrderID        uint           `gorm:"uniqueIndex;not null" json:"order_id"`
	UserID         uint           `gorm:"index;not null" json:"user_id"`
	IntentID       string         `gorm:"uniqueIndex;not null" json:"intent_id"`
	TransactionID  string         `gorm:"index" json:"transaction_id,omitempty"`
	ClientSecret   string         `gorm:"type:varchar(200)" json:"-"`
	Amount         Money          `gorm:"type:decimal(20,2);not null" json:"amount"`
	RefundedAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"refunded_amount"`
	Currency       string         `gorm:"not null" json:"currency"`
	Status         string         `gorm:"index;not null" json:"status"`
	FailureReason  string         `gorm:"type:text" json:"failure_reason,omitempty"`
	PaidAt         *time.Time     `gorm:"index" json:"paid_at"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName pins the table name.
func (Payment) TableName() string {
	return "payments"
}
