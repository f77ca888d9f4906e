package models

import (
	"time"

	"gorm.io/gorm"
)

// Address is a delivery address owned by a user. Orders reference the
// address used at checkout.
type Address struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	UserID     uint           `gorm:"index;not null" json:"user_id"`
	Label      string         `gorm:"type:varchar(50)" json:"label,omitempty"`
	Line1      string         `gorm:"not null" json:"line1"`
	Line2      string         `gorm:"type:varchar(200)" json:"line2,omitempty"`
	City       string         `gorm:"not null" json:"city"`
	State      string         `gorm:"type:varchar(100)" json:"state,omitempty"`
	PostalCode string         `gorm:"type:varchar(20);not null" json:"postal_code"`
	Phone      string         `gorm:"type:varchar(20)" json:"phone,omitempty"`
	IsDefault  bool           `gorm:"not null;default:false" json:"is_default"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName pins the table name.
func (Address) TableName() string {
	return "addresses"
}
