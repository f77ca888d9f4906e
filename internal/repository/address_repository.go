package repository

import (
	"errors"

	"github.com/freshcart-shop/freshcart/internal/models"

	"gorm.io/gorm"
)

// AddressRepository is the address data access interface.
type AddressRepository interface {
	GetByIDAndUser(id uint, userID uint) (*models.Address, error)
	ListByUser(userID uint) ([]models.Address, error)
	Create(address *models.Address) error
	WithTx(tx *gorm.DB) *GormAddressRepository
}

// GormAddressRepository is the GORM implementation.
type GormAddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository creates an address repository.
func NewAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormAddressRepository) WithTx(tx *gorm.DB) *GormAddressRepository {
	if tx == nil {
		return r
	}
	return &GormAddressRepository{db: tx}
}

// GetByIDAndUser fetches an address only if it belongs to the user.
func (r *GormAddressRepository) GetByIDAndUser(id uint, userID uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// ListByUser returns a user's addresses, default first.
func (r *GormAddressRepository) ListByUser(userID uint) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.Where("user_id = ?", userID).
		Order("is_default desc, id desc").
		Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// Create inserts an address.
func (r *GormAddressRepository) Create(address *models.Address) error {
	return r.db.Create(address).Error
}
