package repository

import (
	"errors"

	"github.com/freshcart-shop/freshcart/internal/models"

	"gorm.io/gorm"
)

// OrderRepository is the order data access interface.
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndUser(id uint, userID uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	ExistsByOrderNo(orderNo string) (bool, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create persists an order and its items.
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// GetByID fetches an order with its items and payment.
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	query := r.db.Preload("Items").Preload("Payment").Preload("Address")
	if err := query.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndUser fetches an order only if it belongs to the user.
func (r *GormOrderRepository) GetByIDAndUser(id uint, userID uint) (*models.Order, error) {
	var order models.Order
	query := r.db.Preload("Items").Preload("Payment").Preload("Address").
		Where("id = ? AND user_id = ?", id, userID)
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo fetches an order by its public number.
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	query := r.db.Preload("Items").Preload("Payment").Where("order_no = ?", orderNo)
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ExistsByOrderNo reports whether an order number is already taken.
func (r *GormOrderRepository) ExistsByOrderNo(orderNo string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).
		Where("order_no = ?", orderNo).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns orders matching the filter, newest first.
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("Items").Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus sets the order status plus any extra columns.
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	values := map[string]interface{}{"status": status}
	for k, v := range updates {
		values[k] = v
	}
	return r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Updates(values).Error
}
