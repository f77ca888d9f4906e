package repository

import (
	"github.com/freshcart-shop/freshcart/internal/models"

	"gorm.io/gorm"
)

// CouponUsageRepository is the redemption ledger access interface.
type CouponUsageRepository interface {
	Create(usage *models.CouponUsage) error
	CountByUser(couponID, userID uint) (int64, error)
	ExistsForOrder(couponID, orderID uint) (bool, error)
	ListByOrderID(orderID uint) ([]models.CouponUsage, error)
	List(filter CouponUsageListFilter) ([]models.CouponUsage, int64, error)
	WithTx(tx *gorm.DB) *GormCouponUsageRepository
}

// GormCouponUsageRepository is the GORM implementation.
type GormCouponUsageRepository struct {
	db *gorm.DB
}

// NewCouponUsageRepository creates a coupon usage repository.
func NewCouponUsageRepository(db *gorm.DB) *GormCouponUsageRepository {
	return &GormCouponUsageRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCouponUsageRepository) WithTx(tx *gorm.DB) *GormCouponUsageRepository {
	if tx == nil {
		return r
	}
	return &GormCouponUsageRepository{db: tx}
}

// Create appends a ledger row.
func (r *GormCouponUsageRepository) Create(usage *models.CouponUsage) error {
	return r.db.Create(usage).Error
}

// CountByUser counts redemptions of a coupon by one user.
func (r *GormCouponUsageRepository) CountByUser(couponID, userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsForOrder reports whether a redemption was already recorded for
// the order. Guards against duplicate recording on task retry.
func (r *GormCouponUsageRepository) ExistsForOrder(couponID, orderID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND order_id = ?", couponID, orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByOrderID returns ledger rows for an order.
func (r *GormCouponUsageRepository) ListByOrderID(orderID uint) ([]models.CouponUsage, error) {
	var usages []models.CouponUsage
	if err := r.db.Where("order_id = ?", orderID).Find(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

// List returns ledger rows matching the filter.
func (r *GormCouponUsageRepository) List(filter CouponUsageListFilter) ([]models.CouponUsage, int64, error) {
	query := r.db.Model(&models.CouponUsage{})
	if filter.CouponID > 0 {
		query = query.Where("coupon_id = ?", filter.CouponID)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var usages []models.CouponUsage
	if err := query.Order("id desc").Find(&usages).Error; err != nil {
		return nil, 0, err
	}
	return usages, total, nil
}
