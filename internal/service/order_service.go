package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/freshcart-shop/freshcart/internal/config"
	"github.com/freshcart-shop/freshcart/internal/constants"
	"github.com/freshcart-shop/freshcart/internal/logger"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricingPolicy holds the checkout pricing knobs parsed to decimals.
type PricingPolicy struct {
	Currency              string
	TaxRatePercent        decimal.Decimal
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
}

// NewPricingPolicy parses the config values, falling back to platform
// defaults on malformed entries.
func NewPricingPolicy(cfg config.PricingConfig) PricingPolicy {
	policy := PricingPolicy{
		Currency:              strings.ToUpper(strings.TrimSpace(cfg.Currency)),
		TaxRatePercent:        decimal.NewFromInt(5),
		DeliveryFee:           decimal.NewFromInt(40),
		FreeDeliveryThreshold: decimal.NewFromInt(500),
	}
	if policy.Currency == "" {
		policy.Currency = "INR"
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(cfg.TaxRatePercent)); err == nil {
		policy.TaxRatePercent = v
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(cfg.DeliveryFee)); err == nil {
		policy.DeliveryFee = v
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(cfg.FreeDeliveryThreshold)); err == nil {
		policy.FreeDeliveryThreshold = v
	}
	return policy
}

// CouponRejectionError signals that the submitted coupon code failed an
// evaluation rule. Checkout is rejected with the rule's message.
type CouponRejectionError struct {
	Message string
}

func (e *CouponRejectionError) Error() string {
	return e.Message
}

// OrderService orchestrates checkout and the order lifecycle.
type OrderService struct {
	db            *gorm.DB
	orderRepo     repository.OrderRepository
	cartRepo      repository.CartRepository
	addressRepo   repository.AddressRepository
	productRepo   repository.ProductRepository
	couponService *CouponService
	notifier      *NotificationService
	pricing       PricingPolicy
}

// NewOrderService creates an order service.
func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	productRepo repository.ProductRepository,
	couponService *CouponService,
	notifier *NotificationService,
	pricing PricingPolicy,
) *OrderService {
	return &OrderService{
		db:            db,
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		addressRepo:   addressRepo,
		productRepo:   productRepo,
		couponService: couponService,
		notifier:      notifier,
		pricing:       pricing,
	}
}

// CreateOrderInput is the checkout request.
type CreateOrderInput struct {
	UserID        uint
	AddressID     uint
	CouponCode    string
	PaymentMethod string
	Instructions  string
}

// CreateOrder turns the user's cart into a priced PENDING order. The
// order, its items, and the cart clear commit in one transaction.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	cartItems, err := s.cartRepo.ListByUser(input.UserID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	address, err := s.addressRepo.GetByIDAndUser(input.AddressID, input.UserID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}

	orderItems, evalItems, subtotal, err := s.buildOrderItems(cartItems)
	if err != nil {
		return nil, err
	}

	var couponID *uint
	var couponCode string
	couponDiscount := decimal.Zero
	freeShipping := false

	if strings.TrimSpace(input.CouponCode) != "" {
		evaluation, err := s.couponService.Evaluate(EvaluateCouponInput{
			Code:        input.CouponCode,
			UserID:      input.UserID,
			OrderAmount: models.NewMoneyFromDecimal(subtotal),
			Items:       evalItems,
		})
		switch {
		case err != nil || evaluation.Unavailable:
			// A broken coupon store must not block checkout. The order
			// goes through without a discount.
			logger.Errorw("order_coupon_evaluation_unavailable",
				"user_id", input.UserID,
				"coupon_code", input.CouponCode,
				"error", err,
			)
		case !evaluation.IsValid:
			return nil, &CouponRejectionError{Message: evaluation.Message}
		default:
			id := evaluation.CouponID
			couponID = &id
			couponCode = evaluation.Code
			couponDiscount = evaluation.DiscountAmount.Decimal
			freeShipping = evaluation.IsFreeShipping
		}
	}

	totals := s.computeTotals(subtotal, couponDiscount, freeShipping)

	orderNo, err := s.generateUniqueOrderNo()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNo:        orderNo,
		UserID:         input.UserID,
		Status:         constants.OrderStatusPending,
		PaymentStatus:  constants.PaymentStatusPending,
		PaymentMethod:  input.PaymentMethod,
		Currency:       s.pricing.Currency,
		Subtotal:       models.NewMoneyFromDecimal(subtotal),
		CouponDiscount: models.NewMoneyFromDecimal(couponDiscount),
		DiscountAmount: models.NewMoneyFromDecimal(decimal.Zero),
		TaxAmount:      totals.Tax,
		DeliveryFee:    totals.Delivery,
		TotalAmount:    totals.Total,
		CouponID:       couponID,
		CouponCode:     couponCode,
		AddressID:      address.ID,
		Instructions:   strings.TrimSpace(input.Instructions),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order, orderItems); err != nil {
			return err
		}
		return s.cartRepo.WithTx(tx).ClearByUser(input.UserID)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"total_amount", order.TotalAmount.String(),
		"coupon_code", couponCode,
	)

	// Post-commit side effects ride the queue; their failures never
	// unwind the order.
	if couponID != nil {
		s.notifier.EnqueueCouponUsage(*couponID, input.UserID, order.ID, order.CouponDiscount)
	}
	s.notifier.EnqueueOrderNotification(constants.NotifyOrderConfirmed, order.ID, order.UserID)

	return order, nil
}

type orderTotals struct {
	Tax      models.Money
	Delivery models.Money
	Total    models.Money
}

// computeTotals prices the order: tax applies to the discounted
// subtotal, and delivery is free above the threshold or with a
// free-shipping coupon.
func (s *OrderService) computeTotals(subtotal, couponDiscount decimal.Decimal, freeShipping bool) orderTotals {
	discounted := subtotal.Sub(couponDiscount)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}

	tax := discounted.Mul(s.pricing.TaxRatePercent).Div(decimal.NewFromInt(100)).Round(2)

	delivery := s.pricing.DeliveryFee
	if freeShipping || discounted.GreaterThanOrEqual(s.pricing.FreeDeliveryThreshold) {
		delivery = decimal.Zero
	}

	total := discounted.Add(tax).Add(delivery)
	return orderTotals{
		Tax:      models.NewMoneyFromDecimal(tax),
		Delivery: models.NewMoneyFromDecimal(delivery),
		Total:    models.NewMoneyFromDecimal(total),
	}
}

// buildOrderItems snapshots cart lines into order items and collects
// scope data for coupon evaluation.
func (s *OrderService) buildOrderItems(cartItems []models.CartItem) ([]models.OrderItem, []EvaluationItem, decimal.Decimal, error) {
	orderItems := make([]models.OrderItem, 0, len(cartItems))
	evalItems := make([]EvaluationItem, 0, len(cartItems))
	subtotal := decimal.Zero

	for _, line := range cartItems {
		if line.Product == nil || !line.Product.IsActive {
			return nil, nil, decimal.Zero, ErrProductUnavailable
		}
		if line.Quantity <= 0 {
			return nil, nil, decimal.Zero, ErrProductUnavailable
		}

		unitPrice := line.Product.Price.Decimal
		item := models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
		}
		if len(line.Product.Images) > 0 {
			item.ProductImage = line.Product.Images[0]
		}
		if line.VariantID != nil {
			if line.Variant == nil || !line.Variant.IsActive {
				return nil, nil, decimal.Zero, ErrProductUnavailable
			}
			unitPrice = line.Variant.Price.Decimal
			item.VariantID = line.VariantID
			item.VariantName = line.Variant.Name
			item.VariantSKU = line.Variant.SKU
		}

		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		item.UnitPrice = models.NewMoneyFromDecimal(unitPrice)
		item.TotalPrice = models.NewMoneyFromDecimal(lineTotal)
		subtotal = subtotal.Add(lineTotal)

		orderItems = append(orderItems, item)
		evalItems = append(evalItems, EvaluationItem{
			ProductID:  line.ProductID,
			CategoryID: line.Product.CategoryID,
			LineTotal:  item.TotalPrice,
		})
	}

	return orderItems, evalItems, subtotal, nil
}

// UpdateStatus moves an order through the status machine.
func (s *OrderService) UpdateStatus(orderID uint, newStatus string) (*models.Order, error) {
	if !isKnownStatus(newStatus) {
		return nil, fmt.Errorf("%w: Unknown status %s", ErrOrderInvalidTransition, newStatus)
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := validateTransition(order.Status, newStatus); err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	if newStatus == constants.OrderStatusDelivered {
		updates["delivered_at"] = now
	}
	if err := s.orderRepo.UpdateStatus(order.ID, newStatus, updates); err != nil {
		return nil, err
	}

	logger.Infow("order_status_changed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", order.Status,
		"to", newStatus,
	)
	s.notifier.EnqueueOrderNotification(constants.NotifyOrderStatusChanged, order.ID, order.UserID)

	order.Status = newStatus
	if newStatus == constants.OrderStatusDelivered {
		order.DeliveredAt = &now
	}
	return order, nil
}

// CancelOrder cancels an order on the user's behalf. Only PENDING and
// CONFIRMED orders can be cancelled, and a reason is mandatory.
func (s *OrderService) CancelOrder(orderID, userID uint, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < constants.CancelReasonMinLength {
		return nil, ErrOrderCancelReasonTooShort
	}

	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := validateTransition(order.Status, constants.OrderStatusCancelled); err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"cancelled_at":  now,
		"cancel_reason": reason,
		"updated_at":    now,
	}
	if err := s.orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, updates); err != nil {
		return nil, err
	}

	logger.Infow("order_cancelled",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", userID,
	)
	s.notifier.EnqueueOrderNotification(constants.NotifyOrderCancelled, order.ID, order.UserID)

	order.Status = constants.OrderStatusCancelled
	order.CancelledAt = &now
	order.CancelReason = reason
	return order, nil
}

// generateUniqueOrderNo builds a date-coded order number and retries on
// the rare collision.
func (s *OrderService) generateUniqueOrderNo() (string, error) {
	for attempt := 0; attempt < constants.OrderNoMaxAttempts; attempt++ {
		candidate := generateOrderNo()
		exists, err := s.orderRepo.ExistsByOrderNo(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		logger.Warnw("order_no_collision", "order_no", candidate, "attempt", attempt+1)
	}
	return "", ErrOrderNoGenerateFailed
}

func generateOrderNo() string {
	now := time.Now().Format("20060102")
	return fmt.Sprintf("FC%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		fmt.Fprintf(&b, "%d", n.Int64())
	}
	return b.String()
}
