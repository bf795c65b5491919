package customers

import (
	"context"
	"fmt"
)

// RepositoryPort defines data access used by the service.
type RepositoryPort interface {
	Create(ctx context.Context, input CreateCustomerRequest) (*Customer, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error)
	ListActive(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, id int64, input UpdateCustomerRequest) (*Customer, error)
}

// Service handles customer registration business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Register creates a new customer.
func (s *Service) Register(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	customer, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register customer: %w", err)
	}
	return customer, nil
}

// Get fetches a customer by id.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// List returns customers matching the filter plus the total count.
func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	return s.repo.List(ctx, req)
}

// ListActive returns all active customers for billing runs.
func (s *Service) ListActive(ctx context.Context) ([]Customer, error) {
	return s.repo.ListActive(ctx)
}

// Update applies partial changes to a customer. Deactivation goes through
// here too; customers are never deleted so billing history stays intact.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	customer, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update customer %d: %w", id, err)
	}
	return customer, nil
}
