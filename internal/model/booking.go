package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending        BookingStatus = "pending"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusPendingBooking BookingStatus = "pending-booking"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusCompleted      BookingStatus = "completed"
)

// ActiveStatuses are the statuses that occupy a slot. Used by every
// occupancy, same-date and booking-cap query.
var ActiveStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
}

// ParseBookingStatus validates a status value coming from the boundary.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusPendingBooking,
		BookingStatusCancelled, BookingStatusCompleted:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

type ServiceType string

const (
	ServiceTreeRemoval      ServiceType = "Tree Removal"
	ServiceTrimmingPruning  ServiceType = "Trimming & Pruning"
	ServiceStumpGrinding    ServiceType = "Stump Grinding"
	ServiceEmergencyService ServiceType = "Emergency Service"
)

// ParseServiceType validates a service value coming from the boundary.
func ParseServiceType(s string) (ServiceType, bool) {
	switch ServiceType(s) {
	case ServiceTreeRemoval, ServiceTrimmingPruning, ServiceStumpGrinding, ServiceEmergencyService:
		return ServiceType(s), true
	default:
		return "", false
	}
}

// bookings
//
// Date is stored as a plain YYYY-MM-DD string: slot identity is string
// equality on (date, time) and the partial unique index below depends on
// byte-stable values across postgres and sqlite.
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`

	Service ServiceType   `gorm:"type:varchar(64);not null"`
	Date    string        `gorm:"type:varchar(10);not null;index"`
	Time    string        `gorm:"type:varchar(16);not null"`
	Status  BookingStatus `gorm:"type:varchar(32);not null;index"`

	// Contact fields as submitted, kept on the booking so admission checks
	// by phone/email do not depend on customer resolution.
	Name    string `gorm:"type:varchar(255);not null"`
	Email   string `gorm:"type:varchar(255);not null;index"`
	Phone   string `gorm:"type:varchar(32);not null;index"`
	Address string `gorm:"type:text"`

	Notes  string         `gorm:"type:text"`
	Images datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether the booking occupies its slot.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
