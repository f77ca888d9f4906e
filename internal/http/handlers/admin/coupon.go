package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/freshcart-shop/freshcart/internal/http/response"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/repository"
	"github.com/freshcart-shop/freshcart/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponRequest is the create/update payload for a coupon.
// Money fields are decimal strings to avoid float drift in transit.
type CouponRequest struct {
	Code            string     `json:"code" binding:"required"`
	Description     string     `json:"description"`
	DiscountType    string     `json:"discount_type" binding:"required"`
	DiscountValue   string     `json:"discount_value"`
	MinOrderAmount  string     `json:"min_order_amount"`
	MaxDiscount     string     `json:"max_discount"`
	UsageLimit      int        `json:"usage_limit"`
	PerUserLimit    int        `json:"per_user_limit"`
	CategoryIDs     []uint     `json:"category_ids"`
	ProductIDs      []uint     `json:"product_ids"`
	ExcludedUserIDs []uint     `json:"excluded_user_ids"`
	ValidFrom       *time.Time `json:"valid_from"`
	ValidUntil      *time.Time `json:"valid_until"`
	IsActive        *bool      `json:"is_active"`
}

func (r CouponRequest) toInput() (service.CouponInput, error) {
	discountValue, err := models.NewMoneyFromString(r.DiscountValue)
	if err != nil {
		return service.CouponInput{}, err
	}
	minOrderAmount, err := models.NewMoneyFromString(r.MinOrderAmount)
	if err != nil {
		return service.CouponInput{}, err
	}
	maxDiscount, err := models.NewMoneyFromString(r.MaxDiscount)
	if err != nil {
		return service.CouponInput{}, err
	}
	return service.CouponInput{
		Code:            strings.TrimSpace(r.Code),
		Description:     r.Description,
		DiscountType:    r.DiscountType,
		DiscountValue:   discountValue,
		MinOrderAmount:  minOrderAmount,
		MaxDiscount:     maxDiscount,
		UsageLimit:      r.UsageLimit,
		PerUserLimit:    r.PerUserLimit,
		CategoryIDs:     r.CategoryIDs,
		ProductIDs:      r.ProductIDs,
		ExcludedUserIDs: r.ExcludedUserIDs,
		ValidFrom:       r.ValidFrom,
		ValidUntil:      r.ValidUntil,
		IsActive:        r.IsActive,
	}, nil
}

// CreateCoupon adds a coupon to the catalog.
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	input, err := req.toInput()
	if err != nil {
		response.BadRequest(c, "Invalid amount format")
		return
	}

	coupon, err := h.CouponAdminService.Create(input)
	if err != nil {
		respondWithMappedError(c, err, couponHandlerErrors)
		return
	}

	response.Created(c, coupon)
}

// UpdateCoupon rewrites a coupon definition.
func (h *Handler) UpdateCoupon(c *gin.Context) {
	couponID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	input, err := req.toInput()
	if err != nil {
		response.BadRequest(c, "Invalid amount format")
		return
	}

	coupon, err := h.CouponAdminService.Update(couponID, input)
	if err != nil {
		respondWithMappedError(c, err, couponHandlerErrors)
		return
	}

	response.Success(c, coupon)
}

// DeleteCoupon removes a coupon. Usage history is kept.
func (h *Handler) DeleteCoupon(c *gin.Context) {
	couponID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.CouponAdminService.Delete(couponID); err != nil {
		respondWithMappedError(c, err, couponHandlerErrors)
		return
	}

	response.Success(c, nil)
}

// GetCoupon returns one coupon by id.
func (h *Handler) GetCoupon(c *gin.Context) {
	couponID, ok := parseIDParam(c)
	if !ok {
		return
	}

	coupon, err := h.CouponAdminService.Get(couponID)
	if err != nil {
		respondWithMappedError(c, err, couponHandlerErrors)
		return
	}

	response.Success(c, coupon)
}

// ListCoupons pages through the coupon catalog.
func (h *Handler) ListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(c.Query("code")),
		Status:   strings.TrimSpace(c.Query("status")),
	}

	coupons, total, err := h.CouponAdminService.List(filter)
	if err != nil {
		respondWithMappedError(c, err, couponHandlerErrors)
		return
	}

	response.SuccessWithPage(c, coupons, response.NewPagination(filter.Page, filter.PageSize, total))
}

// GetCouponStats returns redemption count and total discount granted.
func (h *Handler) GetCouponStats(c *gin.Context) {
	couponID, ok := parseIDParam(c)
	if !ok {
		return
	}

	stats, err := h.CouponAdminService.Stats(couponID)
	if err != nil {
		respondWithMappedError(c, err, couponHandlerErrors)
		return
	}

	response.Success(c, stats)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}
