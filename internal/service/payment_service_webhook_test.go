package service

import (
	"context"
	"errors"
	"testing"

	"github.com/freshcart-shop/freshcart/internal/constants"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/payment/stripe"
)

func TestHandleWebhookInvalidSignature(t *testing.T) {
	svc, gateway, _ := newPaymentTestService(t, "webhook_bad_sig")
	gateway.webhookErr = stripe.ErrSignatureInvalid

	err := svc.HandleWebhook([]byte("{}"), "t=1,v1=bad")
	if !errors.Is(err, ErrWebhookInvalid) {
		t.Fatalf("expected ErrWebhookInvalid, got: %v", err)
	}
}

func TestHandleWebhookPaymentSucceeded(t *testing.T) {
	svc, gateway, db := newPaymentTestService(t, "webhook_succeeded")
	user := createTestUser(t, db, "hook@test.local")
	order := createPendingOrder(t, db, user.ID, "400.00")

	result, err := svc.CreatePaymentIntent(context.Background(), order.ID, user.ID)
	if err != nil {
		t.Fatalf("CreatePaymentIntent error: %v", err)
	}

	gateway.webhookEvent = &stripe.WebhookEvent{
		EventID:       "evt_1",
		Type:          "payment_intent.succeeded",
		IntentID:      result.IntentID,
		TransactionID: "ch_abc",
		Amount:        "400.00",
	}
	if err := svc.HandleWebhook([]byte("{}"), "sig"); err != nil {
		t.Fatalf("HandleWebhook error: %v", err)
	}

	var payment models.Payment
	if err := db.Where("intent_id = ?", result.IntentID).First(&payment).Error; err != nil {
		t.Fatalf("load payment failed: %v", err)
	}
	if payment.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", payment.Status)
	}
	if payment.PaidAt == nil {
		t.Fatalf("expected paid_at to be stamped")
	}
	if payment.TransactionID != "ch_abc" {
		t.Fatalf("expected transaction id ch_abc, got %s", payment.TransactionID)
	}

	var reloadedOrder models.Order
	if err := db.First(&reloadedOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloadedOrder.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected CONFIRMED order, got %s", reloadedOrder.Status)
	}
	if reloadedOrder.PaymentStatus != constants.PaymentStatusCompleted {
		t.Fatalf("expected COMPLETED payment status, got %s", reloadedOrder.PaymentStatus)
	}
}

func TestHandleWebhookDuplicateSucceeded(t *testing.T) {
	svc, gateway, db := newPaymentTestService(t, "webhook_duplicate")
	user := createTestUser(t, db, "dup@test.local")
	order := createPendingOrder(t, db, user.ID, "400.00")
	payment := completePayment(t, svc, gateway, db, order, user.ID)
	firstPaidAt := payment.PaidAt

	// Gateway retries the same event.
	if err := svc.HandleWebhook([]byte("{}"), "sig"); err != nil {
		t.Fatalf("duplicate HandleWebhook error: %v", err)
	}

	var reloaded models.Payment
	if err := db.First(&reloaded, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if reloaded.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", reloaded.Status)
	}
	if firstPaidAt == nil || reloaded.PaidAt == nil || !reloaded.PaidAt.Equal(*firstPaidAt) {
		t.Fatalf("expected paid_at unchanged, got %v and %v", firstPaidAt, reloaded.PaidAt)
	}
}

func TestHandleWebhookFailureAfterSuccessIgnored(t *testing.T) {
	svc, gateway, db := newPaymentTestService(t, "webhook_stale_failure")
	user := createTestUser(t, db, "stale@test.local")
	order := createPendingOrder(t, db, user.ID, "400.00")
	payment := completePayment(t, svc, gateway, db, order, user.ID)

	gateway.webhookEvent = &stripe.WebhookEvent{
		EventID:       "evt_fail",
		Type:          "payment_intent.payment_failed",
		IntentID:      payment.IntentID,
		FailureReason: "card_declined",
	}
	if err := svc.HandleWebhook([]byte("{}"), "sig"); err != nil {
		t.Fatalf("HandleWebhook error: %v", err)
	}

	var reloaded models.Payment
	if err := db.First(&reloaded, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if reloaded.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected stale failure ignored, got %s", reloaded.Status)
	}
}

func TestHandleWebhookPaymentFailed(t *testing.T) {
	svc, gateway, db := newPaymentTestService(t, "webhook_failed")
	user := createTestUser(t, db, "fail@test.local")
	order := createPendingOrder(t, db, user.ID, "400.00")

	result, err := svc.CreatePaymentIntent(context.Background(), order.ID, user.ID)
	if err != nil {
		t.Fatalf("CreatePaymentIntent error: %v", err)
	}

	gateway.webhookEvent = &stripe.WebhookEvent{
		EventID:       "evt_fail",
		Type:          "payment_intent.payment_failed",
		IntentID:      result.IntentID,
		FailureReason: "insufficient_funds",
	}
	if err := svc.HandleWebhook([]byte("{}"), "sig"); err != nil {
		t.Fatalf("HandleWebhook error: %v", err)
	}

	var payment models.Payment
	if err := db.First(&payment, result.PaymentID).Error; err != nil {
		t.Fatalf("load payment failed: %v", err)
	}
	if payment.Status != constants.PaymentStatusFailed {
		t.Fatalf("expected FAILED, got %s", payment.Status)
	}
	if payment.FailureReason != "insufficient_funds" {
		t.Fatalf("unexpected failure reason: %s", payment.FailureReason)
	}

	// A failed attempt keeps the order open for retry.
	var reloadedOrder models.Order
	if err := db.First(&reloadedOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloadedOrder.Status != constants.OrderStatusPending {
		t.Fatalf("expected order to stay PENDING, got %s", reloadedOrder.Status)
	}
	if reloadedOrder.PaymentStatus != constants.PaymentStatusFailed {
		t.Fatalf("expected payment status FAILED, got %s", reloadedOrder.PaymentStatus)
	}
}

func TestHandleWebhookChargeRefundedCumulative(t *testing.T) {
	svc, gateway, db := newPaymentTestService(t, "webhook_refund")
	user := createTestUser(t, db, "chargeback@test.local")
	order := createPendingOrder(t, db, user.ID, "100.00")
	payment := completePayment(t, svc, gateway, db, order, user.ID)

	refundEvent := func(cumulative string) *stripe.WebhookEvent {
		return &stripe.WebhookEvent{
			EventID:        "evt_refund_" + cumulative,
			Type:           "charge.refunded",
			IntentID:       payment.IntentID,
			TransactionID:  payment.TransactionID,
			AmountRefunded: cumulative,
		}
	}

	gateway.webhookEvent = refundEvent("40.00")
	if err := svc.HandleWebhook([]byte("{}"), "sig"); err != nil {
		t.Fatalf("partial refund webhook error: %v", err)
	}

	var reloaded models.Payment
	if err := db.First(&reloaded, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if !reloaded.RefundedAmount.Decimal.Equal(testMoney(t, "40.00").Decimal) {
		t.Fatalf("expected refunded 40.00, got %s", reloaded.RefundedAmount)
	}
	if reloaded.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected COMPLETED after partial refund, got %s", reloaded.Status)
	}

	// Duplicate delivery of the same cumulative total is a no-op.
	if err := svc.HandleWebhook([]byte("{}"), "sig"); err != nil {
		t.Fatalf("duplicate refund webhook error: %v", err)
	}
	if err := db.First(&reloaded, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if !reloaded.RefundedAmount.Decimal.Equal(testMoney(t, "40.00").Decimal) {
		t.Fatalf("expected refunded still 40.00, got %s", reloaded.RefundedAmount)
	}

	// Full refund closes the payment.
	gateway.webhookEvent = refundEvent("100.00")
	if err := svc.HandleWebhook([]byte("{}"), "sig"); err != nil {
		t.Fatalf("full refund webhook error: %v", err)
	}
	if err := db.First(&reloaded, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if reloaded.Status != constants.PaymentStatusRefunded {
		t.Fatalf("expected REFUNDED, got %s", reloaded.Status)
	}

	// An out-of-order event with a smaller cumulative total is ignored.
	gateway.webhookEvent = refundEvent("40.00")
	if err := svc.HandleWebhook([]byte("{}"), "sig"); err != nil {
		t.Fatalf("out-of-order refund webhook error: %v", err)
	}
	if err := db.First(&reloaded, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if !reloaded.RefundedAmount.Decimal.Equal(testMoney(t, "100.00").Decimal) {
		t.Fatalf("expected refunded 100.00, got %s", reloaded.RefundedAmount)
	}
}

func TestHandleWebhookUnknownEventIgnored(t *testing.T) {
	svc, gateway, _ := newPaymentTestService(t, "webhook_unknown")
	gateway.webhookEvent = &stripe.WebhookEvent{
		EventID: "evt_other",
		Type:    "customer.created",
	}
	if err := svc.HandleWebhook([]byte("{}"), "sig"); err != nil {
		t.Fatalf("expected unknown event to be ignored, got: %v", err)
	}
}
