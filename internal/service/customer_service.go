package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arborcare/booking-core/internal/domain"
	"github.com/arborcare/booking-core/internal/model"
	"github.com/arborcare/booking-core/internal/repository"
)

// CustomerService is the customer registry: identity resolution by phone
// number and the admin create/update/delete paths.
type CustomerService struct {
	customers repository.CustomerRepository
	logger    *zap.Logger
}

func NewCustomerService(customers repository.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{customers: customers, logger: logger}
}

// FindByPhone resolves a customer by exact phone match.
func (s *CustomerService) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	c, err := s.customers.FindByPhone(ctx, phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.New(domain.CodeNotFound, "customer not found")
	}
	if err != nil {
		return nil, domain.Dependency("customer lookup", err)
	}
	return c, nil
}

// ResolveOrCreate returns the customer owning the phone number, creating one
// with zero aggregates on first contact. Existing customers are reused as-is;
// the public booking path never overwrites their stored details.
func (s *CustomerService) ResolveOrCreate(ctx context.Context, name, email, phone, address string) (*model.Customer, error) {
	c, err := s.customers.FindByPhone(ctx, phone)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Dependency("customer lookup", err)
	}

	created := &model.Customer{
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Phone:   phone,
		Address: strings.TrimSpace(address),
	}
	if err := s.customers.Create(ctx, created); err != nil {
		// A concurrent first booking may have won the phone uniqueness
		// race; reuse the winner.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.FindByPhone(ctx, phone)
		}
		return nil, domain.Dependency("customer create", err)
	}

	s.logger.Info("customer created",
		zap.String("customer_id", created.ID.String()),
	)
	return created, nil
}

// UpsertByPhone is the public create-or-update path, idempotent and keyed by
// phone number.
func (s *CustomerService) UpsertByPhone(ctx context.Context, name, email, phone, address string) (*model.Customer, error) {
	if repository.NormalizePhone(phone) == "" {
		return nil, domain.New(domain.CodeValidation, "phone is required")
	}

	existing, err := s.customers.FindByPhone(ctx, phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.ResolveOrCreate(ctx, name, email, phone, address)
	}
	if err != nil {
		return nil, domain.Dependency("customer lookup", err)
	}

	updates := map[string]any{}
	if v := strings.TrimSpace(name); v != "" {
		updates["name"] = v
	}
	if v := strings.TrimSpace(email); v != "" {
		updates["email"] = v
	}
	if v := strings.TrimSpace(address); v != "" {
		updates["address"] = v
	}
	if len(updates) > 0 {
		if err := s.customers.Update(ctx, existing.ID, updates); err != nil {
			return nil, domain.Dependency("customer update", err)
		}
	}
	return s.customers.GetByID(ctx, existing.ID)
}

// UpdateByID is the admin edit path, keyed by customer id.
func (s *CustomerService) UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]any) (*model.Customer, error) {
	if _, err := s.customers.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.New(domain.CodeNotFound, "customer not found")
		}
		return nil, domain.Dependency("customer lookup", err)
	}
	if len(updates) > 0 {
		if err := s.customers.Update(ctx, id, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, domain.New(domain.CodeValidation, "another customer already uses that phone number")
			}
			return nil, domain.Dependency("customer update", err)
		}
	}
	return s.customers.GetByID(ctx, id)
}

// Delete removes a customer. Without force it refuses when the customer owns
// any bookings, quotes or invoices; with force the dependents are removed in
// referential order (invoices, quotes, bookings) before the customer.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID, force bool) error {
	if _, err := s.customers.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.New(domain.CodeNotFound, "customer not found")
		}
		return domain.Dependency("customer lookup", err)
	}

	dependents, err := s.customers.CountDependents(ctx, id)
	if err != nil {
		return domain.Dependency("dependent count", err)
	}

	if dependents == 0 {
		if err := s.customers.Delete(ctx, id); err != nil {
			return domain.Dependency("customer delete", err)
		}
		return nil
	}

	if !force {
		return domain.New(domain.CodeInvalidState, "customer owns dependent records; set force to cascade").
			WithDetail("dependents", dependents)
	}

	if err := s.customers.DeleteCascade(ctx, id); err != nil {
		return domain.Dependency("customer cascade delete", err)
	}
	s.logger.Info("customer force-deleted",
		zap.String("customer_id", id.String()),
		zap.Int64("dependents", dependents),
	)
	return nil
}
