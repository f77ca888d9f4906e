package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/freshcart-shop/freshcart/internal/constants"
	"github.com/freshcart-shop/freshcart/internal/logger"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/payment/stripe"
	"github.com/freshcart-shop/freshcart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentGateway is the slice of the gateway client the settlement
// processor needs. *stripe.Client satisfies it; tests swap in a fake.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, input stripe.CreateIntentInput) (*stripe.IntentResult, error)
	RetrieveIntent(ctx context.Context, intentID string) (*stripe.IntentResult, error)
	CreateRefund(ctx context.Context, input stripe.RefundInput) (*stripe.RefundResult, error)
	VerifyWebhook(payload []byte, signatureHeader string, now time.Time) (*stripe.WebhookEvent, error)
}

// PaymentService settles orders against the payment gateway.
type PaymentService struct {
	db          *gorm.DB
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	gateway     PaymentGateway
	notifier    *NotificationService
	currency    string
}

// NewPaymentService creates a payment service.
func NewPaymentService(
	db *gorm.DB,
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	gateway PaymentGateway,
	notifier *NotificationService,
	currency string,
) *PaymentService {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "INR"
	}
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		notifier:    notifier,
		currency:    currency,
	}
}

// PaymentIntentResult is what the checkout client needs to confirm the
// payment browser-side.
type PaymentIntentResult struct {
	PaymentID    uint         `json:"payment_id"`
	IntentID     string       `json:"intent_id"`
	ClientSecret string       `json:"client_secret"`
	Amount       models.Money `json:"amount"`
	Currency     string       `json:"currency"`
	Status       string       `json:"status"`
}

// CreatePaymentIntent opens (or returns the already open) payment
// intent for an order. Only orders still awaiting payment qualify.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, orderID, userID uint) (*PaymentIntentResult, error) {
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		return nil, ErrPaymentAlreadyCompleted
	}

	existing, err := s.paymentRepo.GetByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status != constants.PaymentStatusPending {
			return nil, ErrPaymentAlreadyCompleted
		}
		return &PaymentIntentResult{
			PaymentID:    existing.ID,
			IntentID:     existing.IntentID,
			ClientSecret: existing.ClientSecret,
			Amount:       existing.Amount,
			Currency:     existing.Currency,
			Status:       existing.Status,
		}, nil
	}

	intent, err := s.gateway.CreateIntent(ctx, stripe.CreateIntentInput{
		Amount:   order.TotalAmount.String(),
		Currency: s.currency,
		Metadata: map[string]string{
			"order_id": formatUint(order.ID),
			"order_no": order.OrderNo,
			"user_id":  formatUint(order.UserID),
		},
	})
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID:        order.ID,
		UserID:         order.UserID,
		IntentID:       intent.IntentID,
		ClientSecret:   intent.ClientSecret,
		Amount:         order.TotalAmount,
		RefundedAmount: models.NewMoneyFromDecimal(decimal.Zero),
		Currency:       s.currency,
		Status:         constants.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	logger.Infow("payment_intent_created",
		"payment_id", payment.ID,
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"intent_id", intent.IntentID,
		"amount", payment.Amount.String(),
	)

	return &PaymentIntentResult{
		PaymentID:    payment.ID,
		IntentID:     payment.IntentID,
		ClientSecret: payment.ClientSecret,
		Amount:       payment.Amount,
		Currency:     payment.Currency,
		Status:       payment.Status,
	}, nil
}

// GetPayment fetches a payment and enforces ownership.
func (s *PaymentService) GetPayment(paymentID, userID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return payment, nil
}

// ProcessRefund refunds part or all of a completed payment. A nil
// amount means refund everything still refundable. The local cumulative
// total follows the gateway's accepted amount.
func (s *PaymentService) ProcessRefund(ctx context.Context, paymentID uint, amount *models.Money) (*models.Payment, error) {
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != constants.PaymentStatusCompleted {
		return nil, ErrPaymentNotCompleted
	}

	remaining := payment.Amount.Decimal.Sub(payment.RefundedAmount.Decimal)
	if remaining.LessThanOrEqual(decimal.Zero) {
		return nil, ErrRefundExceedsRemaining
	}

	requested := remaining
	if amount != nil {
		requested = amount.Decimal
	}
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, ErrRefundAmountInvalid
	}
	if requested.GreaterThan(remaining) {
		return nil, ErrRefundExceedsRemaining
	}

	refund, err := s.gateway.CreateRefund(ctx, stripe.RefundInput{
		IntentID: payment.IntentID,
		Amount:   models.NewMoneyFromDecimal(requested).String(),
		Currency: payment.Currency,
	})
	if err != nil {
		return nil, err
	}

	accepted := requested
	if parsed, perr := decimal.NewFromString(refund.Amount); perr == nil && parsed.GreaterThan(decimal.Zero) {
		accepted = parsed
	}

	newTotal := payment.RefundedAmount.Decimal.Add(accepted)
	fullyRefunded := newTotal.GreaterThanOrEqual(payment.Amount.Decimal)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"refunded_amount": models.NewMoneyFromDecimal(newTotal),
		}
		if fullyRefunded {
			updates["status"] = constants.PaymentStatusRefunded
		}
		if err := s.paymentRepo.WithTx(tx).Updates(payment.ID, updates); err != nil {
			return err
		}
		if fullyRefunded {
			return s.markOrderRefunded(tx, payment.OrderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("payment_refund_processed",
		"payment_id", payment.ID,
		"order_id", payment.OrderID,
		"refund_id", refund.RefundID,
		"amount", accepted.StringFixed(2),
		"cumulative_refunded", newTotal.StringFixed(2),
		"fully_refunded", fullyRefunded,
	)
	if fullyRefunded {
		s.notifier.EnqueueOrderNotification(constants.NotifyPaymentRefunded, payment.OrderID, payment.UserID)
	}

	payment.RefundedAmount = models.NewMoneyFromDecimal(newTotal)
	if fullyRefunded {
		payment.Status = constants.PaymentStatusRefunded
	}
	return payment, nil
}

// markOrderRefunded flips the order's payment axis and, when the status
// machine allows it, the fulfilment axis too.
func (s *PaymentService) markOrderRefunded(tx *gorm.DB, orderID uint) error {
	order, err := s.orderRepo.WithTx(tx).GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	updates := map[string]interface{}{
		"payment_status": constants.PaymentStatusRefunded,
		"updated_at":     time.Now(),
	}
	status := order.Status
	if CanTransition(order.Status, constants.OrderStatusRefunded) {
		status = constants.OrderStatusRefunded
	}
	return s.orderRepo.WithTx(tx).UpdateStatus(order.ID, status, updates)
}

func formatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
