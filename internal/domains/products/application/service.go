package application

import (
	"context"

	"github.com/masayahak/go-order-app/internal/domains/products/domain"
	"github.com/masayahak/go-order-app/internal/domains/products/ports"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

// Service orchestrates product use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListProductsPage(ctx context.Context, query pagination.Query) (pagination.Page[*domain.Product], error) {
	return s.repo.ListPage(ctx, query.Normalize())
}

func (s *Service) GetProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) SearchProducts(ctx context.Context, keyword string) ([]*domain.Product, error) {
	return s.repo.Search(ctx, keyword)
}

func (s *Service) CreateProduct(ctx context.Context, code, name string, unitPrice int64) (*domain.Product, error) {
	product, err := domain.New(code, name, unitPrice)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) UpdateProduct(ctx context.Context, code string, changes domain.Changes) (*domain.Product, error) {
	if err := changes.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Update(ctx, code, changes)
}

func (s *Service) DeleteProduct(ctx context.Context, code string) (bool, error) {
	return s.repo.Delete(ctx, code)
}

var _ ports.Service = (*Service)(nil)
