package ports

import (
	"context"

	"github.com/masayahak/go-order-app/internal/domains/products/domain"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

// Service exposes product use cases to adapters.
type Service interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	ListProductsPage(ctx context.Context, query pagination.Query) (pagination.Page[*domain.Product], error)
	GetProductByCode(ctx context.Context, code string) (*domain.Product, error)
	SearchProducts(ctx context.Context, keyword string) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, code, name string, unitPrice int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, code string, changes domain.Changes) (*domain.Product, error)
	DeleteProduct(ctx context.Context, code string) (bool, error)
}
