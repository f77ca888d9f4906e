package worker

import (
	"context"
	"encoding/json"

	"github.com/freshcart-shop/freshcart/internal/logger"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/provider"
	"github.com/freshcart-shop/freshcart/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles queued tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds task handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderNotification, c.handleOrderNotification)
	mux.HandleFunc(queue.TaskCouponUsageRecord, c.handleCouponUsageRecord)
}

func (c *Consumer) handleOrderNotification(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_notification_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_notification_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	return c.NotificationService.Deliver(payload)
}

// handleCouponUsageRecord writes the redemption ledger row. Recording
// is idempotent per (coupon, order), so asynq retries are safe.
func (c *Consumer) handleCouponUsageRecord(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.CouponUsageRecordPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_coupon_usage_unmarshal_failed", "error", err)
		return err
	}
	if payload.CouponID == 0 || payload.OrderID == 0 {
		logger.Debugw("worker_coupon_usage_skip_invalid_payload",
			"coupon_id", payload.CouponID,
			"order_id", payload.OrderID,
		)
		return nil
	}
	discount, err := models.NewMoneyFromString(payload.DiscountAmount)
	if err != nil {
		logger.Warnw("worker_coupon_usage_bad_amount",
			"coupon_id", payload.CouponID,
			"order_id", payload.OrderID,
			"amount", payload.DiscountAmount,
		)
		return nil
	}
	if err := c.CouponService.RecordUsage(payload.CouponID, payload.UserID, payload.OrderID, discount); err != nil {
		logger.Errorw("worker_coupon_usage_record_failed",
			"coupon_id", payload.CouponID,
			"order_id", payload.OrderID,
			"error", err,
		)
		return err
	}
	return nil
}
