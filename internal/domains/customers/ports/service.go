package ports

import (
	"context"

	"github.com/masayahak/go-order-app/internal/domains/customers/domain"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

// Service exposes customer use cases to adapters. Callers are expected to
// have passed the authorization gate before invoking mutations.
type Service interface {
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	ListCustomersPage(ctx context.Context, query pagination.Query) (pagination.Page[*domain.Customer], error)
	GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	SearchCustomers(ctx context.Context, keyword string) ([]*domain.Customer, error)
	CreateCustomer(ctx context.Context, name string, phone *string) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, changes domain.Changes) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) (bool, error)
}
