package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arborcare/booking-core/internal/model"
)

type QuoteRepository interface {
	Create(ctx context.Context, quote *model.Quote) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quote, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Quote, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuoteStatus) error
	// MarkConverted links the quote to the invoice it was converted into.
	MarkConverted(ctx context.Context, id, invoiceID uuid.UUID) error
}

type GormQuoteRepository struct {
	db *gorm.DB
}

func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

func (r *GormQuoteRepository) Create(ctx context.Context, quote *model.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *GormQuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	var q model.Quote
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *GormQuoteRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Quote, error) {
	var quotes []model.Quote
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *GormQuoteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuoteStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Quote{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *GormQuoteRepository) MarkConverted(ctx context.Context, id, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Quote{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":               model.QuoteStatusConverted,
			"converted_invoice_id": invoiceID,
		}).
		Error
}
