package repository

import (
	"errors"
	"time"

	"github.com/freshcart-shop/freshcart/internal/constants"
	"github.com/freshcart-shop/freshcart/internal/models"

	"gorm.io/gorm"
)

// CouponRepository is the coupon data access interface.
type CouponRepository interface {
	GetByID(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	Update(coupon *models.Coupon) error
	Delete(id uint) error
	List(filter CouponListFilter) ([]models.Coupon, int64, error)
	IncrementUsedCount(id uint, delta int) error
	MarkExpiredBefore(now time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormCouponRepository
}

// GormCouponRepository is the GORM implementation.
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a coupon repository.
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCouponRepository) WithTx(tx *gorm.DB) *GormCouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// GetByID fetches a coupon by ID.
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// GetByCode fetches a coupon by its code.
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// Create inserts a coupon.
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return r.db.Create(coupon).Error
}

// Update saves a coupon.
func (r *GormCouponRepository) Update(coupon *models.Coupon) error {
	return r.db.Save(coupon).Error
}

// Delete soft-deletes a coupon.
func (r *GormCouponRepository) Delete(id uint) error {
	return r.db.Delete(&models.Coupon{}, id).Error
}

// List returns coupons matching the filter.
func (r *GormCouponRepository) List(filter CouponListFilter) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	query := r.db.Model(&models.Coupon{})

	if filter.ID > 0 {
		query = query.Where("id = ?", filter.ID)
	}
	if filter.Code != "" {
		query = query.Where("code = ?", filter.Code)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// IncrementUsedCount bumps the redemption counter.
func (r *GormCouponRepository) IncrementUsedCount(id uint, delta int) error {
	if delta == 0 {
		delta = 1
	}
	return r.db.Model(&models.Coupon{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", delta)).Error
}

// MarkExpiredBefore flips ACTIVE coupons whose window closed before now
// to EXPIRED. Returns the number of rows changed.
func (r *GormCouponRepository) MarkExpiredBefore(now time.Time) (int64, error) {
	result := r.db.Model(&models.Coupon{}).
		Where("status = ?", constants.CouponStatusActive).
		Where("valid_until IS NOT NULL AND valid_until < ?", now).
		Update("status", constants.CouponStatusExpired)
	return result.RowsAffected, result.Error
}
