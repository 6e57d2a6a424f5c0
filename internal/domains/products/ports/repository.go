package ports

import (
	"context"
	"errors"

	"github.com/masayahak/go-order-app/internal/domains/products/domain"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateCode = errors.New("product code already exists")
)

// Repository persists products. List and Search order by code ascending;
// Search matches the keyword as a substring of code or name.
type Repository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	ListPage(ctx context.Context, query pagination.Query) (pagination.Page[*domain.Product], error)
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	Search(ctx context.Context, keyword string) ([]*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, code string, changes domain.Changes) (*domain.Product, error)
	Delete(ctx context.Context, code string) (bool, error)
}
