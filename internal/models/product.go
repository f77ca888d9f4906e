package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog entry. Price is the base price; variants may
// override it.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Images      StringArray    `gorm:"type:json" json:"images,omitempty"`
	Tags        StringArray    `gorm:"type:json" json:"tags,omitempty"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

// TableName pins the table name.
func (Product) TableName() string {
	return "products"
}
