package constants

// Order status values
const (
	OrderStatusPending        = "PENDING"
	OrderStatusConfirmed      = "CONFIRMED"
	OrderStatusPreparing      = "PREPARING"
	OrderStatusOutForDelivery = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      = "DELIVERED"
	OrderStatusCancelled      = "CANCELLED"
	OrderStatusRefunded       = "REFUNDED"
)

// Payment status values (separate axis from order status)
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
)

// Payment method tags
const (
	PaymentMethodCard = "CARD"
	PaymentMethodUPI  = "UPI"
	PaymentMethodCOD  = "COD"
)

// Coupon discount types
const (
	CouponTypePercentage   = "PERCENTAGE"
	CouponTypeFixedAmount  = "FIXED_AMOUNT"
	CouponTypeFreeShipping = "FREE_SHIPPING"
)

// Coupon lifecycle status
const (
	CouponStatusActive  = "ACTIVE"
	CouponStatusExpired = "EXPIRED"
)

// Queue names
const (
	QueueDefault = "default"
)

// Task type names
const (
	TaskOrderNotification = "order:notification"
	TaskCouponUsageRecord = "coupon:usage_record"
)

// Notification kinds carried by the order notification task
const (
	NotifyOrderConfirmed     = "order_confirmed"
	NotifyOrderStatusChanged = "order_status_changed"
	NotifyOrderCancelled     = "order_cancelled"
	NotifyPaymentCompleted   = "payment_completed"
	NotifyPaymentRefunded    = "payment_refunded"
)

// CancelReasonMinLength is the minimum length of a cancellation reason.
const CancelReasonMinLength = 10

// OrderNoMaxAttempts bounds the order-number collision retry loop.
const OrderNoMaxAttempts = 5
