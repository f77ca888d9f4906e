package service

import (
	"errors"
	"testing"
	"time"

	"github.com/freshcart-shop/freshcart/internal/constants"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/repository"

	"gorm.io/gorm"
)

func newCouponAdminTestService(t *testing.T, name string) (*CouponAdminService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t, name)
	return NewCouponAdminService(repository.NewCouponRepository(db), repository.NewCouponUsageRepository(db)), db
}

func TestCouponAdminCreateAndDuplicate(t *testing.T) {
	svc, _ := newCouponAdminTestService(t, "coupon_admin_create")

	coupon, err := svc.Create(CouponInput{
		Code:          "SAVE20",
		DiscountType:  constants.CouponTypePercentage,
		DiscountValue: testMoney(t, "20"),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if coupon.Status != constants.CouponStatusActive {
		t.Fatalf("expected ACTIVE status, got %s", coupon.Status)
	}

	if _, err := svc.Create(CouponInput{
		Code:          "SAVE20",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "20"),
	}); !errors.Is(err, ErrCouponCodeTaken) {
		t.Fatalf("expected ErrCouponCodeTaken, got: %v", err)
	}
}

func TestCouponAdminValidation(t *testing.T) {
	svc, _ := newCouponAdminTestService(t, "coupon_admin_validate")

	cases := []CouponInput{
		{Code: "", DiscountType: constants.CouponTypePercentage, DiscountValue: testMoney(t, "10")},
		{Code: "P0", DiscountType: constants.CouponTypePercentage, DiscountValue: testMoney(t, "0")},
		{Code: "P101", DiscountType: constants.CouponTypePercentage, DiscountValue: testMoney(t, "101")},
		{Code: "F0", DiscountType: constants.CouponTypeFixedAmount, DiscountValue: testMoney(t, "0")},
		{Code: "BADTYPE", DiscountType: "BOGO", DiscountValue: testMoney(t, "10")},
	}
	for _, input := range cases {
		if _, err := svc.Create(input); !errors.Is(err, ErrCouponInvalid) {
			t.Errorf("expected ErrCouponInvalid for %+v, got: %v", input.Code, err)
		}
	}
}

func TestCouponAdminUpdateReactivatesOnNewWindow(t *testing.T) {
	svc, db := newCouponAdminTestService(t, "coupon_admin_update")
	past := time.Now().Add(-time.Hour)
	coupon := createTestCoupon(t, db, &models.Coupon{
		Code:          "REVIVE",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "25"),
		ValidUntil:    &past,
		Status:        constants.CouponStatusExpired,
		IsActive:      true,
	})

	future := time.Now().Add(24 * time.Hour)
	updated, err := svc.Update(coupon.ID, CouponInput{
		Code:          "REVIVE",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "25"),
		ValidUntil:    &future,
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Status != constants.CouponStatusActive {
		t.Fatalf("expected reopened coupon to be ACTIVE, got %s", updated.Status)
	}
}

func TestCouponAdminStats(t *testing.T) {
	svc, db := newCouponAdminTestService(t, "coupon_admin_stats")
	coupon := createTestCoupon(t, db, &models.Coupon{
		Code:          "STATS",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "50"),
		UsedCount:     2,
		IsActive:      true,
	})
	for i, amount := range []string{"50", "30"} {
		if err := db.Create(&models.CouponUsage{
			CouponID:       coupon.ID,
			UserID:         uint(i + 1),
			OrderID:        uint(i + 100),
			DiscountAmount: testMoney(t, amount),
		}).Error; err != nil {
			t.Fatalf("create usage failed: %v", err)
		}
	}

	stats, err := svc.Stats(coupon.ID)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.UsedCount != 2 {
		t.Fatalf("expected used count 2, got %d", stats.UsedCount)
	}
	if !stats.TotalDiscount.Decimal.Equal(testMoney(t, "80").Decimal) {
		t.Fatalf("expected total discount 80, got %s", stats.TotalDiscount)
	}
}

func TestCouponAdminDeleteMissing(t *testing.T) {
	svc, _ := newCouponAdminTestService(t, "coupon_admin_delete")

	if err := svc.Delete(999); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got: %v", err)
	}
}

func TestCouponAdminCreateNormalizesCode(t *testing.T) {
	svc, _ := newCouponAdminTestService(t, "coupon_admin_case")

	coupon, err := svc.Create(CouponInput{
		Code:          "fresh20",
		DiscountType:  constants.CouponTypePercentage,
		DiscountValue: testMoney(t, "20"),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if coupon.Code != "FRESH20" {
		t.Fatalf("expected code stored uppercase, got %s", coupon.Code)
	}

	if _, err := svc.Create(CouponInput{
		Code:          "Fresh20",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: testMoney(t, "20"),
	}); !errors.Is(err, ErrCouponCodeTaken) {
		t.Fatalf("expected ErrCouponCodeTaken for case variant, got: %v", err)
	}
}
