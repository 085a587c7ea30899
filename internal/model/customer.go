package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// customers
//
// Phone is the dedup key: at most one customer per distinct phone number.
// TotalBookings and TotalSpent are derived fields, recomputed by the finance
// service from bookings and invoices; they are never incremented in place.
type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name    string `gorm:"type:varchar(255);not null"`
	Email   string `gorm:"type:varchar(255);not null;index"`
	Phone   string `gorm:"type:varchar(32);not null;uniqueIndex"`
	Address string `gorm:"type:text"`

	TotalBookings int64           `gorm:"not null;default:0"`
	TotalSpent    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
