package ports

import (
	"context"
	"errors"

	"github.com/masayahak/go-order-app/internal/domains/customers/domain"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

var ErrNotFound = errors.New("customer not found")

// Repository persists customers. List and Search order by name ascending;
// Search matches the keyword as a substring of name or phone.
type Repository interface {
	List(ctx context.Context) ([]*domain.Customer, error)
	ListPage(ctx context.Context, query pagination.Query) (pagination.Page[*domain.Customer], error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	Search(ctx context.Context, keyword string) ([]*domain.Customer, error)
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, id int64, changes domain.Changes) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
