package service

import (
	"github.com/freshcart-shop/freshcart/internal/logger"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/queue"
	"github.com/freshcart-shop/freshcart/internal/repository"
)

// NotificationService fans order events out through the queue. Enqueue
// failures are logged and swallowed: notifications are best-effort and
// never unwind the transaction that produced them.
type NotificationService struct {
	queueClient *queue.Client
	orderRepo   repository.OrderRepository
}

// NewNotificationService creates a notification service.
func NewNotificationService(queueClient *queue.Client, orderRepo repository.OrderRepository) *NotificationService {
	return &NotificationService{
		queueClient: queueClient,
		orderRepo:   orderRepo,
	}
}

// EnqueueOrderNotification queues a customer-facing order update.
func (s *NotificationService) EnqueueOrderNotification(kind string, orderID, userID uint) {
	err := s.queueClient.EnqueueOrderNotification(queue.OrderNotificationPayload{
		Kind:    kind,
		OrderID: orderID,
		UserID:  userID,
	})
	if err != nil {
		logger.Errorw("order_notification_enqueue_failed",
			"kind", kind,
			"order_id", orderID,
			"error", err,
		)
	}
}

// EnqueueCouponUsage queues a redemption ledger write.
func (s *NotificationService) EnqueueCouponUsage(couponID, userID, orderID uint, discount models.Money) {
	err := s.queueClient.EnqueueCouponUsageRecord(queue.CouponUsageRecordPayload{
		CouponID:       couponID,
		UserID:         userID,
		OrderID:        orderID,
		DiscountAmount: discount.String(),
	})
	if err != nil {
		logger.Errorw("coupon_usage_enqueue_failed",
			"coupon_id", couponID,
			"order_id", orderID,
			"error", err,
		)
	}
}

// Deliver is the consumer side of an order notification. Delivery
// channels (push, email) hang off here; today it emits a structured
// audit record.
func (s *NotificationService) Deliver(payload queue.OrderNotificationPayload) error {
	order, err := s.orderRepo.GetByID(payload.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("notification_order_missing", "order_id", payload.OrderID)
		return nil
	}

	logger.Infow("order_notification_sent",
		"kind", payload.Kind,
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", payload.UserID,
		"status", order.Status,
		"payment_status", order.PaymentStatus,
	)
	return nil
}
