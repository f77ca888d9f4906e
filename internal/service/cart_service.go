package service

import (
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/repository"

	"github.com/shopspring/decimal"
)

// CartService manages the pre-checkout cart.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// CartView is a priced snapshot of the cart.
type CartView struct {
	Items    []models.CartItem `json:"items"`
	Subtotal models.Money      `json:"subtotal"`
}

// GetCart returns the user's cart with a computed subtotal.
func (s *CartService) GetCart(userID uint) (*CartView, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	subtotal := decimal.Zero
	for _, line := range items {
		if line.Product == nil {
			continue
		}
		unit := line.Product.Price.Decimal
		if line.Variant != nil {
			unit = line.Variant.Price.Decimal
		}
		subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return &CartView{
		Items:    items,
		Subtotal: models.NewMoneyFromDecimal(subtotal),
	}, nil
}

// AddItem puts a product in the cart or replaces its quantity.
func (s *CartService) AddItem(userID, productID uint, variantID *uint, quantity int) error {
	if quantity <= 0 {
		return ErrProductUnavailable
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrProductUnavailable
	}
	if variantID != nil {
		variant, err := s.productRepo.GetVariantByID(*variantID)
		if err != nil {
			return err
		}
		if variant == nil || variant.ProductID != productID || !variant.IsActive {
			return ErrProductUnavailable
		}
	}
	return s.cartRepo.Upsert(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	})
}

// RemoveItem drops one cart line.
func (s *CartService) RemoveItem(userID, productID uint, variantID *uint) error {
	return s.cartRepo.DeleteByUserAndProduct(userID, productID, variantID)
}

// Clear empties the cart.
func (s *CartService) Clear(userID uint) error {
	return s.cartRepo.ClearByUser(userID)
}
