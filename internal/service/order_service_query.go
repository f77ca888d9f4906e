package service

import (
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/repository"
)

// GetOrder fetches an order and enforces ownership. A missing order is
// ErrOrderNotFound; another user's order is ErrOrderAccessDenied so the
// boundary can tell 404 from 403.
func (s *OrderService) GetOrder(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

// PreviewCoupon evaluates a code against the user's current cart
// without creating anything.
func (s *OrderService) PreviewCoupon(userID uint, code string) (*CouponEvaluation, error) {
	cartItems, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}
	_, evalItems, subtotal, err := s.buildOrderItems(cartItems)
	if err != nil {
		return nil, err
	}
	evaluation, err := s.couponService.Evaluate(EvaluateCouponInput{
		Code:        code,
		UserID:      userID,
		OrderAmount: models.NewMoneyFromDecimal(subtotal),
		Items:       evalItems,
	})
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// ListOrders returns the user's orders, filtered and paginated.
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	return s.orderRepo.List(filter)
}
