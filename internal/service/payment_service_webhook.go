package service

import (
	"fmt"
	"time"

	"github.com/freshcart-shop/freshcart/internal/constants"
	"github.com/freshcart-shop/freshcart/internal/logger"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/payment/stripe"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HandleWebhook verifies and applies a gateway webhook. Verification
// failures are hard rejects; recognized events apply atomically and are
// idempotent per intent, so gateway retries are harmless.
func (s *PaymentService) HandleWebhook(payload []byte, signatureHeader string) error {
	if s.gateway == nil {
		return ErrGatewayUnavailable
	}
	event, err := s.gateway.VerifyWebhook(payload, signatureHeader, time.Now())
	if err != nil {
		logger.Warnw("payment_webhook_rejected", "error", err)
		return fmt.Errorf("%w: %v", ErrWebhookInvalid, err)
	}

	logger.Infow("payment_webhook_received",
		"event_id", event.EventID,
		"event_type", event.Type,
		"intent_id", event.IntentID,
	)

	switch event.Type {
	case "payment_intent.succeeded":
		return s.applyPaymentSucceeded(event)
	case "payment_intent.payment_failed":
		return s.applyPaymentFailed(event)
	case "charge.refunded":
		return s.applyChargeRefunded(event)
	default:
		logger.Debugw("payment_webhook_ignored", "event_type", event.Type)
		return nil
	}
}

func (s *PaymentService) applyPaymentSucceeded(event *stripe.WebhookEvent) error {
	var notifyOrderID, notifyUserID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.WithTx(tx).GetByIntentID(event.IntentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}
		if payment.Status == constants.PaymentStatusCompleted {
			logger.Debugw("payment_webhook_duplicate", "intent_id", event.IntentID)
			return nil
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":  constants.PaymentStatusCompleted,
			"paid_at": now,
		}
		if event.TransactionID != "" {
			updates["transaction_id"] = event.TransactionID
		}
		if err := s.paymentRepo.WithTx(tx).Updates(payment.ID, updates); err != nil {
			return err
		}

		order, err := s.orderRepo.WithTx(tx).GetByID(payment.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		orderUpdates := map[string]interface{}{
			"payment_status": constants.PaymentStatusCompleted,
			"updated_at":     now,
		}
		status := order.Status
		if CanTransition(order.Status, constants.OrderStatusConfirmed) {
			status = constants.OrderStatusConfirmed
		}
		if err := s.orderRepo.WithTx(tx).UpdateStatus(order.ID, status, orderUpdates); err != nil {
			return err
		}

		notifyOrderID = order.ID
		notifyUserID = order.UserID
		logger.Infow("payment_completed",
			"payment_id", payment.ID,
			"order_id", order.ID,
			"intent_id", event.IntentID,
			"transaction_id", event.TransactionID,
		)
		return nil
	})
	if err != nil {
		return err
	}

	if notifyOrderID != 0 {
		s.notifier.EnqueueOrderNotification(constants.NotifyPaymentCompleted, notifyOrderID, notifyUserID)
	}
	return nil
}

func (s *PaymentService) applyPaymentFailed(event *stripe.WebhookEvent) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.WithTx(tx).GetByIntentID(event.IntentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}
		// A failure event racing behind a success is stale; a success
		// already settled the money.
		if payment.Status == constants.PaymentStatusCompleted ||
			payment.Status == constants.PaymentStatusRefunded {
			logger.Debugw("payment_webhook_stale_failure", "intent_id", event.IntentID)
			return nil
		}
		if payment.Status == constants.PaymentStatusFailed {
			return nil
		}

		updates := map[string]interface{}{
			"status": constants.PaymentStatusFailed,
		}
		if event.FailureReason != "" {
			updates["failure_reason"] = event.FailureReason
		}
		if err := s.paymentRepo.WithTx(tx).Updates(payment.ID, updates); err != nil {
			return err
		}
		if err := s.orderRepo.WithTx(tx).UpdateStatus(payment.OrderID, constants.OrderStatusPending, map[string]interface{}{
			"payment_status": constants.PaymentStatusFailed,
			"updated_at":     time.Now(),
		}); err != nil {
			return err
		}

		logger.Infow("payment_failed",
			"payment_id", payment.ID,
			"order_id", payment.OrderID,
			"intent_id", event.IntentID,
			"reason", event.FailureReason,
		)
		return nil
	})
}

// applyChargeRefunded syncs the local cumulative refund total to the
// gateway's amount_refunded. Equal totals mean a duplicate delivery;
// a smaller gateway total means an out-of-order event. Both are no-ops.
func (s *PaymentService) applyChargeRefunded(event *stripe.WebhookEvent) error {
	cumulative, err := decimal.NewFromString(event.AmountRefunded)
	if err != nil {
		logger.Warnw("payment_webhook_bad_refund_amount",
			"intent_id", event.IntentID,
			"amount_refunded", event.AmountRefunded,
		)
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		payment, err := s.lookupRefundTarget(tx, event)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}

		if cumulative.LessThanOrEqual(payment.RefundedAmount.Decimal) {
			logger.Debugw("payment_webhook_refund_noop",
				"intent_id", event.IntentID,
				"local", payment.RefundedAmount.String(),
				"gateway", cumulative.StringFixed(2),
			)
			return nil
		}

		fullyRefunded := cumulative.GreaterThanOrEqual(payment.Amount.Decimal)
		updates := map[string]interface{}{
			"refunded_amount": models.NewMoneyFromDecimal(cumulative),
		}
		if fullyRefunded {
			updates["status"] = constants.PaymentStatusRefunded
		}
		if err := s.paymentRepo.WithTx(tx).Updates(payment.ID, updates); err != nil {
			return err
		}
		if fullyRefunded {
			if err := s.markOrderRefunded(tx, payment.OrderID); err != nil {
				return err
			}
		}

		logger.Infow("payment_refund_synced",
			"payment_id", payment.ID,
			"order_id", payment.OrderID,
			"cumulative_refunded", cumulative.StringFixed(2),
			"fully_refunded", fullyRefunded,
		)
		return nil
	})
}

// lookupRefundTarget resolves the payment for a refund event by the
// charge id first, then by intent id.
func (s *PaymentService) lookupRefundTarget(tx *gorm.DB, event *stripe.WebhookEvent) (*models.Payment, error) {
	if event.TransactionID != "" {
		payment, err := s.paymentRepo.WithTx(tx).GetByTransactionID(event.TransactionID)
		if err != nil {
			return nil, err
		}
		if payment != nil {
			return payment, nil
		}
	}
	if event.IntentID != "" {
		return s.paymentRepo.WithTx(tx).GetByIntentID(event.IntentID)
	}
	return nil, nil
}
