package repository

import (
	"errors"

	"github.com/freshcart-shop/freshcart/internal/models"

	"gorm.io/gorm"
)

// CartRepository is the cart data access interface.
type CartRepository interface {
	ListByUser(userID uint) ([]models.CartItem, error)
	Upsert(item *models.CartItem) error
	DeleteByUserAndProduct(userID, productID uint, variantID *uint) error
	ClearByUser(userID uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository is the GORM implementation.
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a cart repository.
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser returns a user's cart lines with product and variant.
func (r *GormCartRepository) ListByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Preload("Variant").
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert adds a cart line or replaces the quantity of an existing one.
func (r *GormCartRepository) Upsert(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	query := r.db.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID)
	if item.VariantID != nil {
		query = query.Where("variant_id = ?", *item.VariantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}
	var existing models.CartItem
	err := query.First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(item).Error
	}
	if err != nil {
		return err
	}
	return r.db.Model(&existing).Update("quantity", item.Quantity).Error
}

// DeleteByUserAndProduct removes one cart line.
func (r *GormCartRepository) DeleteByUserAndProduct(userID, productID uint, variantID *uint) error {
	query := r.db.Where("user_id = ? AND product_id = ?", userID, productID)
	if variantID != nil {
		query = query.Where("variant_id = ?", *variantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}
	return query.Delete(&models.CartItem{}).Error
}

// ClearByUser empties a user's cart.
func (r *GormCartRepository) ClearByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
