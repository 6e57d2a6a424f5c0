package application

import (
	"context"

	"github.com/masayahak/go-order-app/internal/domains/customers/domain"
	"github.com/masayahak/go-order-app/internal/domains/customers/ports"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

// Service orchestrates customer use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListCustomersPage(ctx context.Context, query pagination.Query) (pagination.Page[*domain.Customer], error) {
	return s.repo.ListPage(ctx, query.Normalize())
}

func (s *Service) GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) SearchCustomers(ctx context.Context, keyword string) ([]*domain.Customer, error) {
	return s.repo.Search(ctx, keyword)
}

func (s *Service) CreateCustomer(ctx context.Context, name string, phone *string) (*domain.Customer, error) {
	customer, err := domain.New(name, phone)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, customer)
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, changes domain.Changes) (*domain.Customer, error) {
	if err := changes.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Update(ctx, id, changes)
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) (bool, error) {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
