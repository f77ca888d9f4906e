package public

import (
	"strconv"
	"strings"

	"github.com/freshcart-shop/freshcart/internal/http/response"
	"github.com/freshcart-shop/freshcart/internal/repository"
	"github.com/freshcart-shop/freshcart/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	AddressID     uint   `json:"address_id" binding:"required"`
	CouponCode    string `json:"coupon_code"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	Instructions  string `json:"instructions"`
}

// CancelOrderRequest carries the shopper's cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ValidateCouponRequest previews a coupon code against the cart.
type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// CreateOrder places an order from the shopper's current cart.
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID:        uid,
		AddressID:     req.AddressID,
		CouponCode:    strings.TrimSpace(req.CouponCode),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Instructions:  req.Instructions,
	})
	if err != nil {
		respondWithMappedError(c, err, orderHandlerErrors)
		return
	}

	response.Created(c, order)
}

// ListOrders returns the shopper's orders, newest first.
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(c.Query("status")),
	}

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondWithMappedError(c, err, orderHandlerErrors)
		return
	}

	response.SuccessWithPage(c, orders, response.NewPagination(filter.Page, filter.PageSize, total))
}

// GetOrder returns a single order owned by the shopper.
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		response.BadRequest(c, "Invalid order id")
		return
	}

	order, err := h.OrderService.GetOrder(uint(orderID), uid)
	if err != nil {
		respondWithMappedError(c, err, orderHandlerErrors)
		return
	}

	response.Success(c, order)
}

// CancelOrder cancels a pending or confirmed order with a reason.
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		response.BadRequest(c, "Invalid order id")
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Cancellation reason is required")
		return
	}

	order, err := h.OrderService.CancelOrder(uint(orderID), uid, req.Reason)
	if err != nil {
		respondWithMappedError(c, err, orderHandlerErrors)
		return
	}

	response.Success(c, order)
}

// ValidateCoupon previews a coupon against the shopper's current cart.
// Rule failures come back as a valid 200 payload with is_valid=false.
func (h *Handler) ValidateCoupon(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Coupon code is required")
		return
	}

	evaluation, err := h.OrderService.PreviewCoupon(uid, strings.TrimSpace(req.Code))
	if err != nil {
		respondWithMappedError(c, err, couponHandlerErrors)
		return
	}

	response.Success(c, evaluation)
}
