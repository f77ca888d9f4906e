package repository

import "time"

// OrderListFilter filters order listings.
type OrderListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	Status        string
	PaymentStatus string
	OrderNo       string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// CouponListFilter filters coupon listings.
type CouponListFilter struct {
	ID       uint
	Code     string
	Status   string
	IsActive *bool
	Page     int
	PageSize int
}

// CouponUsageListFilter filters redemption ledger listings.
type CouponUsageListFilter struct {
	Page     int
	PageSize int
	CouponID uint
	UserID   uint
}
