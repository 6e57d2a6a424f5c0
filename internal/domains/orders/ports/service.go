package ports

import (
	"context"

	"github.com/masayahak/go-order-app/internal/domains/orders/domain"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

// Service exposes order use cases to adapters.
type Service interface {
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ListOrdersPage(ctx context.Context, query pagination.Query, dates DateRange) (pagination.Page[*domain.Order], error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	SearchOrders(ctx context.Context, keyword string) ([]*domain.Order, error)
	CreateOrder(ctx context.Context, order *domain.Order, details []domain.Detail) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, changes domain.Changes, details []domain.Detail) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64, version int64) (bool, error)
}
