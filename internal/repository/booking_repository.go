package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arborcare/booking-core/internal/model"
)

type BookingRepository interface {
	// Create persists a new booking. A violation of the active-slot unique
	// index surfaces as gorm.ErrDuplicatedKey.
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error
	// UpdateDate moves a booking to a new date, keeping its time slot.
	UpdateDate(ctx context.Context, id uuid.UUID, date string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Active bookings occupying the exact (date, time) slot.
	ListActiveBySlot(ctx context.Context, date, time string) ([]model.Booking, error)
	// Active bookings on the date, any slot. Drives whole-day capacity.
	CountActiveByDate(ctx context.Context, date string) (int64, error)
	// Active bookings whose contact phone OR email matches.
	ListActiveByContact(ctx context.Context, phone, email string) ([]model.Booking, error)
	// Same, restricted to one date.
	ListActiveByContactOnDate(ctx context.Context, phone, email, date string) ([]model.Booking, error)

	// Active bookings in [start, end], for availability maps.
	ListActiveInRange(ctx context.Context, start, end string) ([]model.Booking, error)

	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	// Completed bookings with no invoice referencing them; the financial
	// fallback estimate covers exactly these.
	ListCompletedWithoutInvoice(ctx context.Context, customerID uuid.UUID) ([]model.Booking, error)

	// List returns bookings newest first, optionally filtered by status.
	List(ctx context.Context, status model.BookingStatus) ([]model.Booking, error)
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *GormBookingRepository) UpdateDate(ctx context.Context, id uuid.UUID, date string) error {
	return r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", id).
		Update("date", date).
		Error
}

func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Booking{}, "id = ?", id).Error
}

func (r *GormBookingRepository) ListActiveBySlot(ctx context.Context, date, time string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("date = ? AND time = ?", date, time).
		Where("status IN ?", model.ActiveStatuses).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) CountActiveByDate(ctx context.Context, date string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("date = ?", date).
		Where("status IN ?", model.ActiveStatuses).
		Count(&total).Error
	return total, err
}

func (r *GormBookingRepository) ListActiveByContact(ctx context.Context, phone, email string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("phone = ? OR email = ?", phone, email).
		Where("status IN ?", model.ActiveStatuses).
		Order("date ASC, time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListActiveByContactOnDate(ctx context.Context, phone, email, date string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Where("phone = ? OR email = ?", phone, email).
		Where("status IN ?", model.ActiveStatuses).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListActiveInRange(ctx context.Context, start, end string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Where("status IN ?", model.ActiveStatuses).
		Order("date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error
	return total, err
}

func (r *GormBookingRepository) ListCompletedWithoutInvoice(ctx context.Context, customerID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, model.BookingStatusCompleted).
		Where("NOT EXISTS (SELECT 1 FROM invoices WHERE invoices.booking_id = bookings.id)").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) List(ctx context.Context, status model.BookingStatus) ([]model.Booking, error) {
	q := r.db.WithContext(ctx).Model(&model.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var bookings []model.Booking
	if err := q.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
