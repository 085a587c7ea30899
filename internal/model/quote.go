package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusSent      QuoteStatus = "sent"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusDeclined  QuoteStatus = "declined"
	QuoteStatusConverted QuoteStatus = "converted"
)

// ParseQuoteStatus validates a quote status coming from the boundary.
// Converted is excluded: it is only reachable through conversion.
func ParseQuoteStatus(s string) (QuoteStatus, bool) {
	switch QuoteStatus(s) {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusDeclined:
		return QuoteStatus(s), true
	default:
		return "", false
	}
}

// quotes
type Quote struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	QuoteNumber string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	BookingID   *uuid.UUID `gorm:"type:uuid;index"`

	Items datatypes.JSON  `gorm:"type:jsonb"`
	Total decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Status QuoteStatus `gorm:"type:varchar(16);not null;default:'draft'"`

	// Set when the quote is converted into an invoice.
	ConvertedInvoiceID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Booking  *Booking  `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
