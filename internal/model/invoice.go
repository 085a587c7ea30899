package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentStatusPaid, PaymentStatusUnpaid, PaymentStatusPartial:
		return PaymentStatus(s), true
	default:
		return "", false
	}
}

// invoices
//
// Items is a snapshot of the service line items at issue time; the finance
// service only reads TotalAmount, so the snapshot is free-form JSON.
type Invoice struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	InvoiceNumber string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	BookingID     *uuid.UUID `gorm:"type:uuid;index"`

	Items       datatypes.JSON  `gorm:"type:jsonb"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	PaymentStatus PaymentStatus `gorm:"type:varchar(16);not null;default:'unpaid'"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Booking  *Booking  `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
