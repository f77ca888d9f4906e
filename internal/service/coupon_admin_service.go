package service

import (
	"strings"
	"time"

	"github.com/freshcart-shop/freshcart/internal/constants"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService manages the coupon catalog.
type CouponAdminService struct {
	repo      repository.CouponRepository
	usageRepo repository.CouponUsageRepository
}

// NewCouponAdminService creates a coupon admin service.
func NewCouponAdminService(repo repository.CouponRepository, usageRepo repository.CouponUsageRepository) *CouponAdminService {
	return &CouponAdminService{repo: repo, usageRepo: usageRepo}
}

// CouponInput carries the writable coupon fields.
type CouponInput struct {
	Code            string
	Description     string
	DiscountType    string
	DiscountValue   models.Money
	MinOrderAmount  models.Money
	MaxDiscount     models.Money
	UsageLimit      int
	PerUserLimit    int
	CategoryIDs     []uint
	ProductIDs      []uint
	ExcludedUserIDs []uint
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	IsActive        *bool
}

func validateCouponInput(input CouponInput) error {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return ErrCouponInvalid
	}
	switch input.DiscountType {
	case constants.CouponTypePercentage:
		if input.DiscountValue.Decimal.LessThanOrEqual(decimal.Zero) ||
			input.DiscountValue.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return ErrCouponInvalid
		}
	case constants.CouponTypeFixedAmount:
		if input.DiscountValue.Decimal.LessThanOrEqual(decimal.Zero) {
			return ErrCouponInvalid
		}
	case constants.CouponTypeFreeShipping:
		// value is ignored
	default:
		return ErrCouponInvalid
	}
	if input.ValidFrom != nil && input.ValidUntil != nil && input.ValidUntil.Before(*input.ValidFrom) {
		return ErrCouponInvalid
	}
	if input.UsageLimit < 0 || input.PerUserLimit < 0 {
		return ErrCouponInvalid
	}
	return nil
}

// Create adds a coupon to the catalog. Codes are stored uppercase so
// shoppers can redeem them in any case.
func (s *CouponAdminService) Create(input CouponInput) (*models.Coupon, error) {
	if err := validateCouponInput(input); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(input.Code))

	exist, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrCouponCodeTaken
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	coupon := &models.Coupon{
		Code:            code,
		Description:     strings.TrimSpace(input.Description),
		DiscountType:    input.DiscountType,
		DiscountValue:   input.DiscountValue,
		MinOrderAmount:  input.MinOrderAmount,
		MaxDiscount:     input.MaxDiscount,
		UsageLimit:      input.UsageLimit,
		UsedCount:       0,
		PerUserLimit:    input.PerUserLimit,
		CategoryIDs:     input.CategoryIDs,
		ProductIDs:      input.ProductIDs,
		ExcludedUserIDs: input.ExcludedUserIDs,
		ValidFrom:       input.ValidFrom,
		ValidUntil:      input.ValidUntil,
		Status:          constants.CouponStatusActive,
		IsActive:        isActive,
	}

	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update rewrites a coupon's rules. The redemption counter is kept.
func (s *CouponAdminService) Update(id uint, input CouponInput) (*models.Coupon, error) {
	if id == 0 {
		return nil, ErrCouponInvalid
	}
	if err := validateCouponInput(input); err != nil {
		return nil, err
	}

	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code != coupon.Code {
		exist, err := s.repo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if exist != nil && exist.ID != id {
			return nil, ErrCouponCodeTaken
		}
	}

	coupon.Code = code
	coupon.Description = strings.TrimSpace(input.Description)
	coupon.DiscountType = input.DiscountType
	coupon.DiscountValue = input.DiscountValue
	coupon.MinOrderAmount = input.MinOrderAmount
	coupon.MaxDiscount = input.MaxDiscount
	coupon.UsageLimit = input.UsageLimit
	coupon.PerUserLimit = input.PerUserLimit
	coupon.CategoryIDs = input.CategoryIDs
	coupon.ProductIDs = input.ProductIDs
	coupon.ExcludedUserIDs = input.ExcludedUserIDs
	coupon.ValidFrom = input.ValidFrom
	coupon.ValidUntil = input.ValidUntil
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}
	// Reopening the window reactivates an expired coupon.
	if coupon.ValidUntil == nil || coupon.ValidUntil.After(time.Now()) {
		coupon.Status = constants.CouponStatusActive
	}

	if err := s.repo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete removes a coupon from the catalog.
func (s *CouponAdminService) Delete(id uint) error {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	return s.repo.Delete(id)
}

// Get fetches one coupon.
func (s *CouponAdminService) Get(id uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// List returns coupons matching the filter.
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	return s.repo.List(filter)
}

// UsageStats summarizes redemptions for one coupon.
type UsageStats struct {
	CouponID      uint         `json:"coupon_id"`
	UsedCount     int          `json:"used_count"`
	TotalDiscount models.Money `json:"total_discount"`
}

// Stats aggregates the ledger for a coupon.
func (s *CouponAdminService) Stats(couponID uint) (*UsageStats, error) {
	coupon, err := s.repo.GetByID(couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	usages, _, err := s.usageRepo.List(repository.CouponUsageListFilter{CouponID: couponID})
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, usage := range usages {
		total = total.Add(usage.DiscountAmount.Decimal)
	}
	return &UsageStats{
		CouponID:      couponID,
		UsedCount:     coupon.UsedCount,
		TotalDiscount: models.NewMoneyFromDecimal(total),
	}, nil
}
