package ports

import (
	"context"
	"errors"
	"time"

	"github.com/masayahak/go-order-app/internal/domains/orders/domain"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrVersionConflict signals the order changed since the caller last read
	// it. Distinct from ErrNotFound so callers can offer reload-and-retry.
	ErrVersionConflict = errors.New("order was modified by another user")
)

// DateRange bounds the order_date filter; nil ends are unbounded. Both
// bounds are inclusive and combine conjunctively with the keyword filter.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Repository persists the order aggregate. Listing orders most-recent-first
// (order_date desc, id desc); the pagination keyword matches customer_name
// as a substring. GetByID returns details in insertion order.
//
// Create writes the order row and every detail row in one all-or-nothing
// transaction. Update performs the version compare-and-swap and, when a
// detail slice is supplied (non-nil), replaces the whole detail set in the
// same transaction; version increments by exactly 1 on every successful
// update. Delete removes the order and cascades its details only when the
// stored version matches; a false return does not distinguish a missing
// order from a stale version.
type Repository interface {
	List(ctx context.Context) ([]*domain.Order, error)
	ListPage(ctx context.Context, query pagination.Query, dates DateRange) (pagination.Page[*domain.Order], error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Search(ctx context.Context, keyword string) ([]*domain.Order, error)
	Create(ctx context.Context, order *domain.Order, details []domain.Detail) (*domain.Order, error)
	Update(ctx context.Context, id int64, changes domain.Changes, details []domain.Detail) (*domain.Order, error)
	Delete(ctx context.Context, id int64, version int64) (bool, error)
}
