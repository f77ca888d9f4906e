package service

import "errors"

// Order errors
var (
	ErrOrderNotFound             = errors.New("order not found")
	ErrOrderAccessDenied         = errors.New("order does not belong to user")
	ErrOrderInvalidTransition    = errors.New("invalid status transition")
	ErrOrderCancelReasonTooShort = errors.New("cancellation reason too short")
	ErrOrderNoGenerateFailed     = errors.New("order number generation failed")
	ErrCartEmpty                 = errors.New("cart is empty")
	ErrAddressNotFound           = errors.New("address not found")
	ErrProductUnavailable        = errors.New("product unavailable")
)

// Payment errors
var (
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrPaymentAlreadyCompleted = errors.New("payment already completed")
	ErrPaymentNotCompleted     = errors.New("payment not completed")
	ErrRefundExceedsRemaining  = errors.New("refund amount exceeds remaining refundable amount")
	ErrRefundAmountInvalid     = errors.New("refund amount invalid")
	ErrWebhookInvalid          = errors.New("webhook verification failed")
	ErrGatewayUnavailable      = errors.New("payment gateway not configured")
)

// Coupon errors (admin surface; checkout-path coupon failures are
// reported through the evaluation result, not errors)
var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponCodeTaken = errors.New("coupon code already exists")
	ErrCouponInvalid   = errors.New("coupon invalid")
)
