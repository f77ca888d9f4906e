package queue

import (
	"encoding/json"

	"github.com/freshcart-shop/freshcart/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderNotification delivers customer-facing order updates.
	TaskOrderNotification = constants.TaskOrderNotification
	// TaskCouponUsageRecord appends to the coupon redemption ledger.
	TaskCouponUsageRecord = constants.TaskCouponUsageRecord
)

// OrderNotificationPayload carries an order event to the notifier.
type OrderNotificationPayload struct {
	Kind    string `json:"kind"`
	OrderID uint   `json:"order_id"`
	UserID  uint   `json:"user_id"`
}

// CouponUsageRecordPayload carries a redemption to the ledger writer.
type CouponUsageRecordPayload struct {
	CouponID       uint   `json:"coupon_id"`
	UserID         uint   `json:"user_id"`
	OrderID        uint   `json:"order_id"`
	DiscountAmount string `json:"discount_amount"`
}

// NewOrderNotificationTask builds an order notification task.
func NewOrderNotificationTask(payload OrderNotificationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotification, body), nil
}

// NewCouponUsageRecordTask builds a coupon usage recording task.
func NewCouponUsageRecordTask(payload CouponUsageRecordPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCouponUsageRecord, body), nil
}
