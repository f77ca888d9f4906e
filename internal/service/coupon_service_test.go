package service

import (
	"testing"
	"time"

	"github.com/freshcart-shop/freshcart/internal/constants"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/repository"

	"gorm.io/gorm"
)

func newCouponTestService(t *testing.T, name string) (*CouponService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t, name)
	return NewCouponService(db, repository.NewCouponRepository(db), repository.NewCouponUsageRepository(db)), db
}

func createTestCoupon(t *testing.T, db *gorm.DB, coupon *models.Coupon) *models.Coupon {
	t.Helper()
	if coupon.Status == "" {
		coupon.Status = constants.CouponStatusActive
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestEvaluateCouponNotFound(t *testing.T) {
	svc, _ := newCouponTestService(t, "coupon_not_found")

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "NOPE",
		UserID:      1,
		OrderAmount: testMoney(t, "500"),
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if result.IsValid {
		t.Fatalf("expected invalid result")
	}
	if result.Message != "Coupon not found" {
		t.Fatalf("unexpected message: %s", result.Message)
	}
	if !result.FinalAmount.Decimal.Equal(testMoney(t, "500").Decimal) {
		t.Fatalf("expected final amount unchanged, got %s", result.FinalAmount)
	}
}

func TestEvaluatePercentageCappedByMaxDiscount(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_pct_cap")
	createTestCoupon(t, db, &models.Coupon{
		Code:          "PERCENT10",
		DiscountType:  constants.CouponTypePercentage,
		DiscountValue: testMoney(t, "10"),
		MaxDiscount:   testMoney(t, "50"),
		IsActive:      true,
	})

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "PERCENT10",
		UserID:      1,
		OrderAmount: testMoney(t, "800"),
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected valid result, got: %s", result.Message)
	}
	if !result.DiscountAmount.Decimal.Equal(testMoney(t, "50").Decimal) {
		t.Fatalf("expected discount 50, got %s", result.DiscountAmount)
	}
	if !result.FinalAmount.Decimal.Equal(testMoney(t, "750").Decimal) {
		t.Fatalf("expected final 750, got %s", result.FinalAmount)
	}
}

func TestEvaluateFixedAmountCappedByOrderAmount(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_fixed_cap")
	createTestCoupon(t, db, &models.Coupon{
		Code:          "FLAT200",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "200"),
		IsActive:      true,
	})

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "FLAT200",
		UserID:      1,
		OrderAmount: testMoney(t, "150"),
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected valid result, got: %s", result.Message)
	}
	if !result.DiscountAmount.Decimal.Equal(testMoney(t, "150").Decimal) {
		t.Fatalf("expected discount capped at 150, got %s", result.DiscountAmount)
	}
	if !result.FinalAmount.Decimal.IsZero() {
		t.Fatalf("expected final 0, got %s", result.FinalAmount)
	}
}

func TestEvaluateMinOrderAmount(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_min_order")
	createTestCoupon(t, db, &models.Coupon{
		Code:           "MIN500",
		DiscountType:   constants.CouponTypeFixedAmount,
		DiscountValue:  testMoney(t, "50"),
		MinOrderAmount: testMoney(t, "500"),
		IsActive:       true,
	})

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "MIN500",
		UserID:      1,
		OrderAmount: testMoney(t, "499"),
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if result.IsValid {
		t.Fatalf("expected invalid result below minimum")
	}
}

func TestEvaluateExpiredWindow(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_expired")
	past := time.Now().Add(-time.Hour)
	createTestCoupon(t, db, &models.Coupon{
		Code:          "OLD",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "50"),
		ValidUntil:    &past,
		IsActive:      true,
	})

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "OLD",
		UserID:      1,
		OrderAmount: testMoney(t, "500"),
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if result.IsValid || result.Message != "Coupon has expired" {
		t.Fatalf("expected expired rejection, got: %+v", result)
	}
}

func TestEvaluateInactiveCoupon(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_inactive")
	createTestCoupon(t, db, &models.Coupon{
		Code:          "PAUSED",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "50"),
		IsActive:      false,
	})

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "PAUSED",
		UserID:      1,
		OrderAmount: testMoney(t, "500"),
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if result.IsValid {
		t.Fatalf("expected inactive rejection")
	}
}

func TestEvaluatePerUserLimit(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_per_user")
	coupon := createTestCoupon(t, db, &models.Coupon{
		Code:          "ONCE",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "50"),
		PerUserLimit:  1,
		IsActive:      true,
	})
	if err := db.Create(&models.CouponUsage{
		CouponID:       coupon.ID,
		UserID:         7,
		OrderID:        1,
		DiscountAmount: testMoney(t, "50"),
	}).Error; err != nil {
		t.Fatalf("create usage failed: %v", err)
	}

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "ONCE",
		UserID:      7,
		OrderAmount: testMoney(t, "500"),
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if result.IsValid {
		t.Fatalf("expected per-user limit rejection")
	}

	other, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "ONCE",
		UserID:      8,
		OrderAmount: testMoney(t, "500"),
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !other.IsValid {
		t.Fatalf("expected other user to pass, got: %s", other.Message)
	}
}

func TestEvaluateExcludedUser(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_excluded")
	createTestCoupon(t, db, &models.Coupon{
		Code:            "NOTYOU",
		DiscountType:    constants.CouponTypeFixedAmount,
		DiscountValue:   testMoney(t, "50"),
		ExcludedUserIDs: models.UintArray{3},
		IsActive:        true,
	})

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "NOTYOU",
		UserID:      3,
		OrderAmount: testMoney(t, "500"),
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if result.IsValid {
		t.Fatalf("expected excluded user rejection")
	}
}

func TestEvaluateScopeMatching(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_scope")
	createTestCoupon(t, db, &models.Coupon{
		Code:          "SNACKS",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "30"),
		CategoryIDs:   models.UintArray{11},
		IsActive:      true,
	})

	miss, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "SNACKS",
		UserID:      1,
		OrderAmount: testMoney(t, "500"),
		Items: []EvaluationItem{
			{ProductID: 1, CategoryID: 20, LineTotal: testMoney(t, "500")},
		},
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if miss.IsValid {
		t.Fatalf("expected scope mismatch rejection")
	}

	hit, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "SNACKS",
		UserID:      1,
		OrderAmount: testMoney(t, "500"),
		Items: []EvaluationItem{
			{ProductID: 1, CategoryID: 20, LineTotal: testMoney(t, "300")},
			{ProductID: 2, CategoryID: 11, LineTotal: testMoney(t, "200")},
		},
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !hit.IsValid {
		t.Fatalf("expected scope match, got: %s", hit.Message)
	}
	if !hit.DiscountAmount.Decimal.Equal(testMoney(t, "30").Decimal) {
		t.Fatalf("expected discount 30 on full order, got %s", hit.DiscountAmount)
	}
}

func TestEvaluateFreeShipping(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_free_ship")
	createTestCoupon(t, db, &models.Coupon{
		Code:         "FREESHIP",
		DiscountType: constants.CouponTypeFreeShipping,
		IsActive:     true,
	})

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "FREESHIP",
		UserID:      1,
		OrderAmount: testMoney(t, "300"),
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected valid result, got: %s", result.Message)
	}
	if !result.IsFreeShipping {
		t.Fatalf("expected free shipping flag")
	}
	if !result.DiscountAmount.Decimal.IsZero() {
		t.Fatalf("expected zero discount, got %s", result.DiscountAmount)
	}
}

func TestRecordUsageIdempotent(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_record_usage")
	coupon := createTestCoupon(t, db, &models.Coupon{
		Code:          "LEDGER",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "50"),
		IsActive:      true,
	})

	if err := svc.RecordUsage(coupon.ID, 5, 42, testMoney(t, "50")); err != nil {
		t.Fatalf("RecordUsage error: %v", err)
	}
	if err := svc.RecordUsage(coupon.ID, 5, 42, testMoney(t, "50")); err != nil {
		t.Fatalf("RecordUsage retry error: %v", err)
	}

	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("expected used_count 1, got %d", reloaded.UsedCount)
	}

	var usageCount int64
	if err := db.Model(&models.CouponUsage{}).Where("coupon_id = ? AND order_id = ?", coupon.ID, 42).Count(&usageCount).Error; err != nil {
		t.Fatalf("count usage failed: %v", err)
	}
	if usageCount != 1 {
		t.Fatalf("expected a single ledger row, got %d", usageCount)
	}
}

func TestExpireLapsed(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_expire_sweep")
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	createTestCoupon(t, db, &models.Coupon{
		Code:          "LAPSED",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "10"),
		ValidUntil:    &past,
		IsActive:      true,
	})
	createTestCoupon(t, db, &models.Coupon{
		Code:          "CURRENT",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "10"),
		ValidUntil:    &future,
		IsActive:      true,
	})

	changed, err := svc.ExpireLapsed(time.Now())
	if err != nil {
		t.Fatalf("ExpireLapsed error: %v", err)
	}
	if changed != 1 {
		t.Fatalf("expected 1 coupon expired, got %d", changed)
	}

	var lapsed models.Coupon
	if err := db.Where("code = ?", "LAPSED").First(&lapsed).Error; err != nil {
		t.Fatalf("reload lapsed failed: %v", err)
	}
	if lapsed.Status != constants.CouponStatusExpired {
		t.Fatalf("expected EXPIRED status, got %s", lapsed.Status)
	}
}

func TestEvaluateCodeCaseInsensitive(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_case")
	createTestCoupon(t, db, &models.Coupon{
		Code:          "SAVE10",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "50"),
		IsActive:      true,
	})

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "  save10 ",
		UserID:      1,
		OrderAmount: testMoney(t, "500"),
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected lowercase code to match, got: %s", result.Message)
	}
	if result.Code != "SAVE10" {
		t.Fatalf("expected normalized code SAVE10, got %s", result.Code)
	}
}

func TestEvaluateLookupFailureDoesNotError(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_lookup_broken")
	if err := db.Migrator().DropTable(&models.Coupon{}); err != nil {
		t.Fatalf("drop table failed: %v", err)
	}

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "SAVE10",
		UserID:      1,
		OrderAmount: testMoney(t, "500"),
	})
	if err != nil {
		t.Fatalf("expected no error from broken store, got: %v", err)
	}
	if result.IsValid {
		t.Fatalf("expected invalid result")
	}
	if !result.Unavailable {
		t.Fatalf("expected evaluation marked unavailable")
	}
	if !result.FinalAmount.Decimal.Equal(testMoney(t, "500").Decimal) {
		t.Fatalf("expected final amount unchanged, got %s", result.FinalAmount)
	}
}

func TestEvaluateUsageLimitCheckedBeforeMinimum(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_rule_order_usage")
	createTestCoupon(t, db, &models.Coupon{
		Code:           "BOTH",
		DiscountType:   constants.CouponTypeFixedAmount,
		DiscountValue:  testMoney(t, "50"),
		MinOrderAmount: testMoney(t, "1000"),
		UsageLimit:     1,
		UsedCount:      1,
		IsActive:       true,
	})

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "BOTH",
		UserID:      1,
		OrderAmount: testMoney(t, "100"),
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if result.Message != "Coupon usage limit reached" {
		t.Fatalf("expected usage limit failure first, got: %s", result.Message)
	}
}

func TestEvaluateScopeCheckedBeforeExclusion(t *testing.T) {
	svc, db := newCouponTestService(t, "coupon_rule_order_scope")
	createTestCoupon(t, db, &models.Coupon{
		Code:            "SCOPED",
		DiscountType:    constants.CouponTypeFixedAmount,
		DiscountValue:   testMoney(t, "50"),
		CategoryIDs:     models.UintArray{99},
		ExcludedUserIDs: models.UintArray{5},
		IsActive:        true,
	})

	result, err := svc.Evaluate(EvaluateCouponInput{
		Code:        "SCOPED",
		UserID:      5,
		OrderAmount: testMoney(t, "500"),
		Items: []EvaluationItem{
			{ProductID: 1, CategoryID: 1, LineTotal: testMoney(t, "500")},
		},
	})
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if result.Message != "Coupon does not apply to these items" {
		t.Fatalf("expected scope failure first, got: %s", result.Message)
	}
}
