package service

import (
	"strings"
	"time"

	"github.com/freshcart-shop/freshcart/internal/constants"
	"github.com/freshcart-shop/freshcart/internal/logger"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService evaluates coupon codes against a checkout and keeps the
// redemption ledger.
type CouponService struct {
	db         *gorm.DB
	couponRepo repository.CouponRepository
	usageRepo  repository.CouponUsageRepository
}

// NewCouponService creates a coupon service.
func NewCouponService(db *gorm.DB, couponRepo repository.CouponRepository, usageRepo repository.CouponUsageRepository) *CouponService {
	return &CouponService{
		db:         db,
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
	}
}

// EvaluationItem is one checkout line for scope matching.
type EvaluationItem struct {
	ProductID  uint
	CategoryID uint
	LineTotal  models.Money
}

// EvaluateCouponInput is the evaluation request.
type EvaluateCouponInput struct {
	Code        string
	UserID      uint
	OrderAmount models.Money
	Items       []EvaluationItem
}

// CouponEvaluation is the evaluation outcome. A rule failure is a valid
// outcome, not an error: IsValid is false and Message says why.
type CouponEvaluation struct {
	IsValid        bool         `json:"is_valid"`
	CouponID       uint         `json:"coupon_id,omitempty"`
	Code           string       `json:"code,omitempty"`
	DiscountAmount models.Money `json:"discount_amount"`
	FinalAmount    models.Money `json:"final_amount"`
	IsFreeShipping bool         `json:"is_free_shipping"`
	Message        string       `json:"message,omitempty"`

	// Unavailable marks an evaluation that failed on data access rather
	// than a coupon rule. Checkout treats it as "no discount" and keeps
	// going instead of rejecting the order.
	Unavailable bool `json:"-"`
}

func invalidEvaluation(orderAmount models.Money, message string) CouponEvaluation {
	return CouponEvaluation{
		IsValid:        false,
		DiscountAmount: models.NewMoneyFromDecimal(decimal.Zero),
		FinalAmount:    orderAmount,
		Message:        message,
	}
}

func unavailableEvaluation(orderAmount models.Money) CouponEvaluation {
	evaluation := invalidEvaluation(orderAmount, "Coupon could not be checked, please try again")
	evaluation.Unavailable = true
	return evaluation
}

// Evaluate runs the full rule chain for a coupon code. Rules are
// checked in a fixed order and the first failure wins. Codes match
// case-insensitively: the catalog stores them uppercase and the input
// is normalized the same way. Data-access failures come back as an
// Unavailable evaluation, never as an error, so a broken coupon store
// cannot take checkout down with it.
func (s *CouponService) Evaluate(input EvaluateCouponInput) (CouponEvaluation, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return invalidEvaluation(input.OrderAmount, "Coupon code is required"), nil
	}

	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		logger.Errorw("coupon_evaluate_lookup_failed", "code", code, "error", err)
		return unavailableEvaluation(input.OrderAmount), nil
	}
	if coupon == nil {
		return invalidEvaluation(input.OrderAmount, "Coupon not found"), nil
	}
	if !coupon.IsActive || coupon.Status != constants.CouponStatusActive {
		return invalidEvaluation(input.OrderAmount, "Coupon is not active"), nil
	}

	now := time.Now()
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return invalidEvaluation(input.OrderAmount, "Coupon is not yet valid"), nil
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return invalidEvaluation(input.OrderAmount, "Coupon has expired"), nil
	}

	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return invalidEvaluation(input.OrderAmount, "Coupon usage limit reached"), nil
	}

	if coupon.PerUserLimit > 0 && input.UserID != 0 {
		count, err := s.usageRepo.CountByUser(coupon.ID, input.UserID)
		if err != nil {
			logger.Errorw("coupon_evaluate_usage_lookup_failed", "code", code, "error", err)
			return unavailableEvaluation(input.OrderAmount), nil
		}
		if int(count) >= coupon.PerUserLimit {
			return invalidEvaluation(input.OrderAmount, "Coupon usage limit reached for this user"), nil
		}
	}

	if coupon.MinOrderAmount.Decimal.GreaterThan(decimal.Zero) &&
		input.OrderAmount.Decimal.LessThan(coupon.MinOrderAmount.Decimal) {
		return invalidEvaluation(input.OrderAmount,
			"Order amount below coupon minimum of "+coupon.MinOrderAmount.String()), nil
	}

	if !categoryScopeMatches(coupon, input.Items) {
		return invalidEvaluation(input.OrderAmount, "Coupon does not apply to these items"), nil
	}
	if !productScopeMatches(coupon, input.Items) {
		return invalidEvaluation(input.OrderAmount, "Coupon does not apply to these items"), nil
	}

	if coupon.ExcludedUserIDs.Contains(input.UserID) {
		return invalidEvaluation(input.OrderAmount, "Coupon is not available for this user"), nil
	}

	discount, freeShipping := calculateDiscount(coupon, input.OrderAmount)
	final := input.OrderAmount.Decimal.Sub(discount.Decimal)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return CouponEvaluation{
		IsValid:        true,
		CouponID:       coupon.ID,
		Code:           coupon.Code,
		DiscountAmount: discount,
		FinalAmount:    models.NewMoneyFromDecimal(final),
		IsFreeShipping: freeShipping,
	}, nil
}

// categoryScopeMatches checks the category allow-list. An empty list
// applies to everything; otherwise at least one item has to hit a
// listed category.
func categoryScopeMatches(coupon *models.Coupon, items []EvaluationItem) bool {
	if len(coupon.CategoryIDs) == 0 {
		return true
	}
	for _, item := range items {
		if coupon.CategoryIDs.Contains(item.CategoryID) {
			return true
		}
	}
	return false
}

// productScopeMatches is the same intersection test for the product
// allow-list.
func productScopeMatches(coupon *models.Coupon, items []EvaluationItem) bool {
	if len(coupon.ProductIDs) == 0 {
		return true
	}
	for _, item := range items {
		if coupon.ProductIDs.Contains(item.ProductID) {
			return true
		}
	}
	return false
}

// calculateDiscount computes the discount and whether shipping is free.
// Percentage discounts are capped by MaxDiscount when set, and no
// discount may exceed the order amount.
func calculateDiscount(coupon *models.Coupon, orderAmount models.Money) (models.Money, bool) {
	var discount decimal.Decimal
	freeShipping := false

	switch coupon.DiscountType {
	case constants.CouponTypePercentage:
		percent := coupon.DiscountValue.Decimal.Div(decimal.NewFromInt(100))
		discount = orderAmount.Decimal.Mul(percent)
		if coupon.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
			discount = coupon.MaxDiscount.Decimal
		}
	case constants.CouponTypeFixedAmount:
		discount = coupon.DiscountValue.Decimal
	case constants.CouponTypeFreeShipping:
		discount = decimal.Zero
		freeShipping = true
	default:
		discount = decimal.Zero
	}

	if discount.GreaterThan(orderAmount.Decimal) {
		discount = orderAmount.Decimal
	}
	return models.NewMoneyFromDecimal(discount), freeShipping
}

// RecordUsage appends a redemption ledger row and bumps the coupon
// counter in one transaction. Safe to retry: an existing row for the
// same coupon and order is a no-op.
func (s *CouponService) RecordUsage(couponID, userID, orderID uint, discount models.Money) error {
	exists, err := s.usageRepo.ExistsForOrder(couponID, orderID)
	if err != nil {
		return err
	}
	if exists {
		logger.Debugw("coupon_usage_already_recorded",
			"coupon_id", couponID,
			"order_id", orderID,
		)
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.couponRepo.WithTx(tx).IncrementUsedCount(couponID, 1); err != nil {
			return err
		}
		return s.usageRepo.WithTx(tx).Create(&models.CouponUsage{
			CouponID:       couponID,
			UserID:         userID,
			OrderID:        orderID,
			DiscountAmount: discount,
		})
	})
}

// ExpireLapsed marks ACTIVE coupons whose window has closed as EXPIRED.
func (s *CouponService) ExpireLapsed(now time.Time) (int64, error) {
	changed, err := s.couponRepo.MarkExpiredBefore(now)
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		logger.Infow("coupons_expired", "count", changed)
	}
	return changed, nil
}
