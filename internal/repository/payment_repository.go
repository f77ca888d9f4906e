package repository

import (
	"errors"

	"github.com/freshcart-shop/freshcart/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository is the payment data access interface.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByOrderID(orderID uint) (*models.Payment, error)
	GetByIntentID(intentID string) (*models.Payment, error)
	GetByTransactionID(transactionID string) (*models.Payment, error)
	Update(payment *models.Payment) error
	Updates(id uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository is the GORM implementation.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a payment repository.
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create inserts a payment row.
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByID fetches a payment by ID.
func (r *GormPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByOrderID fetches the payment for an order.
func (r *GormPaymentRepository) GetByOrderID(orderID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByIntentID fetches a payment by gateway intent identifier.
func (r *GormPaymentRepository) GetByIntentID(intentID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Where("intent_id = ?", intentID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByTransactionID fetches a payment by gateway charge identifier.
func (r *GormPaymentRepository) GetByTransactionID(transactionID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Where("transaction_id = ?", transactionID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// Update saves a payment.
func (r *GormPaymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// Updates applies partial column updates.
func (r *GormPaymentRepository) Updates(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(updates).Error
}
