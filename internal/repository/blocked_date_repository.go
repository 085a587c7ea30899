package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/arborcare/booking-core/internal/model"
)

type BlockedDateRepository interface {
	// GetByDate returns the row for the date, or (nil, nil) when none exists.
	GetByDate(ctx context.Context, date string) (*model.BlockedDate, error)
	// Upsert creates or replaces the row for the date.
	Upsert(ctx context.Context, date string, reason *string) error
	DeleteByDate(ctx context.Context, date string) error
	ListRange(ctx context.Context, start, end string) ([]model.BlockedDate, error)
}

type GormBlockedDateRepository struct {
	db *gorm.DB
}

func NewGormBlockedDateRepository(db *gorm.DB) *GormBlockedDateRepository {
	return &GormBlockedDateRepository{db: db}
}

func (r *GormBlockedDateRepository) GetByDate(ctx context.Context, date string) (*model.BlockedDate, error) {
	var d model.BlockedDate
	err := r.db.WithContext(ctx).First(&d, "date = ?", date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormBlockedDateRepository) Upsert(ctx context.Context, date string, reason *string) error {
	existing, err := r.GetByDate(ctx, date)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.WithContext(ctx).Create(&model.BlockedDate{Date: date, Reason: reason}).Error
	}
	return r.db.WithContext(ctx).
		Model(&model.BlockedDate{}).
		Where("date = ?", date).
		Update("reason", reason).
		Error
}

func (r *GormBlockedDateRepository) DeleteByDate(ctx context.Context, date string) error {
	return r.db.WithContext(ctx).Delete(&model.BlockedDate{}, "date = ?", date).Error
}

func (r *GormBlockedDateRepository) ListRange(ctx context.Context, start, end string) ([]model.BlockedDate, error) {
	var dates []model.BlockedDate
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").
		Find(&dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}
