package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arborcare/booking-core/internal/model"
)

type CustomerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*model.Customer, error)
	Create(ctx context.Context, customer *model.Customer) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	// UpdateTotals persists the recomputed aggregates.
	UpdateTotals(ctx context.Context, id uuid.UUID, totalBookings int64, totalSpent decimal.Decimal) error
	// CountDependents counts bookings, quotes and invoices owned by the customer.
	CountDependents(ctx context.Context, id uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteCascade removes dependents in referential order
	// (invoices, quotes, bookings) and then the customer, in one transaction.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

// NormalizePhone keeps only digits; formatting characters are ignored so
// "555-0100" and "(555) 0100" resolve to the same customer.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	b := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		if c >= '0' && c <= '9' {
			b = append(b, c)
		}
	}
	return string(b)
}

type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCustomerRepository) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	n := NormalizePhone(phone)
	if n == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var c model.Customer
	// Try normalized first, then raw (old rows may not be normalized).
	q := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("phone = ?", n)
	if strings.TrimSpace(phone) != n {
		q = q.Or("phone = ?", strings.TrimSpace(phone))
	}
	if err := q.First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	customer.Phone = NormalizePhone(customer.Phone)
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *GormCustomerRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if phone, ok := updates["phone"].(string); ok {
		updates["phone"] = NormalizePhone(phone)
	}
	return r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

func (r *GormCustomerRepository) UpdateTotals(ctx context.Context, id uuid.UUID, totalBookings int64, totalSpent decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_bookings": totalBookings,
			"total_spent":    totalSpent,
		}).
		Error
}

func (r *GormCustomerRepository) CountDependents(ctx context.Context, id uuid.UUID) (int64, error) {
	var total, n int64

	if err := r.db.WithContext(ctx).Model(&model.Booking{}).Where("customer_id = ?", id).Count(&n).Error; err != nil {
		return 0, err
	}
	total += n

	if err := r.db.WithContext(ctx).Model(&model.Quote{}).Where("customer_id = ?", id).Count(&n).Error; err != nil {
		return 0, err
	}
	total += n

	if err := r.db.WithContext(ctx).Model(&model.Invoice{}).Where("customer_id = ?", id).Count(&n).Error; err != nil {
		return 0, err
	}
	total += n

	return total, nil
}

func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Customer{}, "id = ?", id).Error
}

func (r *GormCustomerRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Invoice{}, "customer_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Quote{}, "customer_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Booking{}, "customer_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Customer{}, "id = ?", id).Error
	})
}
