package application

import (
	"context"
	"errors"

	"github.com/masayahak/go-order-app/internal/domains/orders/domain"
	"github.com/masayahak/go-order-app/internal/domains/orders/ports"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

// Service orchestrates order use cases. Validation happens here, before the
// repository; the repository enforces the transactional and version rules.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListOrdersPage(ctx context.Context, query pagination.Query, dates ports.DateRange) (pagination.Page[*domain.Order], error) {
	return s.repo.ListPage(ctx, query.Normalize(), dates)
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) SearchOrders(ctx context.Context, keyword string) ([]*domain.Order, error) {
	return s.repo.Search(ctx, keyword)
}

func (s *Service) CreateOrder(ctx context.Context, order *domain.Order, details []domain.Detail) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	fresh := *order
	fresh.Details = details
	if err := fresh.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, &fresh, details)
}

func (s *Service) UpdateOrder(ctx context.Context, id int64, changes domain.Changes, details []domain.Detail) (*domain.Order, error) {
	if err := changes.Validate(); err != nil {
		return nil, mapError(err)
	}
	if details != nil {
		if err := domain.ValidateDetails(details); err != nil {
			return nil, mapError(err)
		}
	}
	return s.repo.Update(ctx, id, changes, details)
}

func (s *Service) DeleteOrder(ctx context.Context, id int64, version int64) (bool, error) {
	return s.repo.Delete(ctx, id, version)
}

var _ ports.Service = (*Service)(nil)
