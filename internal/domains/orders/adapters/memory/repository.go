package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/masayahak/go-order-app/internal/domains/orders/domain"
	"github.com/masayahak/go-order-app/internal/domains/orders/ports"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter with the same
// observable semantics as the postgres adapter: version compare-and-swap on
// update/delete, whole-set detail replacement, cascade on delete. The mutex
// stands in for the store transaction, so every mutation is all-or-nothing
// here too: validation happens before any state changes.
type Repository struct {
	mu           sync.RWMutex
	orders       map[int64]*domain.Order
	nextOrderID  int64
	nextDetailID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(*domain.Order) bool { return true }), nil
}

func (r *Repository) ListPage(_ context.Context, query pagination.Query, dates ports.DateRange) (pagination.Page[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.sorted(matches(query.Keyword, dates))
	return pagination.NewPage(slice(matched, query), int64(len(matched)), query), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(order), nil
}

func (r *Repository) Search(_ context.Context, keyword string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(matches(keyword, ports.DateRange{})), nil
}

func (r *Repository) Create(_ context.Context, order *domain.Order, details []domain.Detail) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	fresh := *order
	fresh.Details = append([]domain.Detail(nil), details...)
	if err := fresh.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextOrderID++
	fresh.ID = r.nextOrderID
	fresh.Version = 1
	now := time.Now()
	fresh.CreatedAt = now
	fresh.UpdatedAt = now
	for i := range fresh.Details {
		r.nextDetailID++
		fresh.Details[i].ID = r.nextDetailID
		fresh.Details[i].OrderID = fresh.ID
	}
	r.orders[fresh.ID] = &fresh
	return clone(&fresh), nil
}

func (r *Repository) Update(_ context.Context, id int64, changes domain.Changes, details []domain.Detail) (*domain.Order, error) {
	if err := changes.Validate(); err != nil {
		return nil, err
	}
	if details != nil {
		if err := domain.ValidateDetails(details); err != nil {
			return nil, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if expected, ok := changes.Version.Get(); ok && expected != order.Version {
		return nil, ports.ErrVersionConflict
	}
	if changes.Empty() && details == nil {
		return clone(order), nil
	}
	if customerID, ok := changes.CustomerID.Get(); ok {
		order.CustomerID = customerID
	}
	if customerName, ok := changes.CustomerName.Get(); ok {
		order.CustomerName = customerName
	}
	if orderDate, ok := changes.OrderDate.Get(); ok {
		order.OrderDate = orderDate
	}
	if totalAmount, ok := changes.TotalAmount.Get(); ok {
		order.TotalAmount = totalAmount
	}
	if details != nil {
		replaced := make([]domain.Detail, 0, len(details))
		for i := range details {
			r.nextDetailID++
			detail := details[i]
			detail.ID = r.nextDetailID
			detail.OrderID = id
			replaced = append(replaced, detail)
		}
		order.Details = replaced
	}
	order.Version++
	order.UpdatedAt = time.Now()
	return clone(order), nil
}

func (r *Repository) Delete(_ context.Context, id int64, version int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.Version != version {
		return false, nil
	}
	delete(r.orders, id)
	return true, nil
}

func (r *Repository) sorted(keep func(*domain.Order) bool) []*domain.Order {
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if keep(order) {
			summary := clone(order)
			summary.Details = nil
			list = append(list, summary)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].OrderDate.Equal(list[j].OrderDate) {
			return list[i].OrderDate.After(list[j].OrderDate)
		}
		return list[i].ID > list[j].ID
	})
	return list
}

func matches(keyword string, dates ports.DateRange) func(*domain.Order) bool {
	return func(o *domain.Order) bool {
		if keyword != "" && !strings.Contains(o.CustomerName, keyword) {
			return false
		}
		if dates.From != nil && o.OrderDate.Before(*dates.From) {
			return false
		}
		if dates.To != nil && o.OrderDate.After(*dates.To) {
			return false
		}
		return true
	}
}

func slice(list []*domain.Order, query pagination.Query) []*domain.Order {
	start := query.Offset()
	if start >= len(list) {
		return nil
	}
	end := start + query.PageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

func clone(order *domain.Order) *domain.Order {
	fresh := *order
	fresh.Details = append([]domain.Detail(nil), order.Details...)
	if order.CreatedBy != nil {
		createdBy := *order.CreatedBy
		fresh.CreatedBy = &createdBy
	}
	return &fresh
}
