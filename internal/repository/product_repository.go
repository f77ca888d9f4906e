package repository

import (
	"errors"

	"github.com/freshcart-shop/freshcart/internal/models"

	"gorm.io/gorm"
)

// ProductRepository is the catalog data access interface.
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	GetVariantByID(id uint) (*models.ProductVariant, error)
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository is the GORM implementation.
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// GetByID fetches a product with its variants.
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Variants").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs bulk-fetches products.
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetVariantByID fetches a single variant.
func (r *GormProductRepository) GetVariantByID(id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}
