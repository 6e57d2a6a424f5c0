package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/masayahak/go-order-app/internal/domains/customers/domain"
	"github.com/masayahak/go-order-app/internal/domains/customers/ports"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory customer persistence adapter with the same
// observable semantics as the postgres adapter.
type Repository struct {
	mu        sync.RWMutex
	customers map[int64]*domain.Customer
	nextID    int64
}

func NewRepository() *Repository {
	return &Repository{customers: map[int64]*domain.Customer{}}
}

func (r *Repository) List(_ context.Context) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(*domain.Customer) bool { return true }), nil
}

func (r *Repository) ListPage(_ context.Context, query pagination.Query) (pagination.Page[*domain.Customer], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.sorted(matches(query.Keyword))
	return pagination.NewPage(slice(matched, query), int64(len(matched)), query), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(customer), nil
}

func (r *Repository) Search(_ context.Context, keyword string) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(matches(keyword)), nil
}

func (r *Repository) Create(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	fresh := *customer
	if err := fresh.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	fresh.ID = r.nextID
	now := time.Now()
	fresh.CreatedAt = now
	fresh.UpdatedAt = now
	r.customers[fresh.ID] = &fresh
	return clone(&fresh), nil
}

func (r *Repository) Update(_ context.Context, id int64, changes domain.Changes) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if changes.Empty() {
		return clone(customer), nil
	}
	// Apply to a copy first so a rejected field leaves the stored customer
	// untouched, matching the single-UPDATE semantics of the postgres adapter.
	updated := *customer
	if name, ok := changes.Name.Get(); ok {
		if err := updated.SetName(name); err != nil {
			return nil, err
		}
	}
	if phone, ok := changes.Phone.Get(); ok {
		updated.Phone = phone
	}
	updated.UpdatedAt = time.Now()
	r.customers[id] = &updated
	return clone(&updated), nil
}

func (r *Repository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return false, nil
	}
	delete(r.customers, id)
	return true, nil
}

func (r *Repository) sorted(keep func(*domain.Customer) bool) []*domain.Customer {
	list := make([]*domain.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		if keep(customer) {
			list = append(list, clone(customer))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func matches(keyword string) func(*domain.Customer) bool {
	if keyword == "" {
		return func(*domain.Customer) bool { return true }
	}
	return func(c *domain.Customer) bool {
		if strings.Contains(c.Name, keyword) {
			return true
		}
		return c.Phone != nil && strings.Contains(*c.Phone, keyword)
	}
}

func slice(list []*domain.Customer, query pagination.Query) []*domain.Customer {
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

func clone(customer *domain.Customer) *domain.Customer {
	fresh := *customer
	if customer.Phone != nil {
		phone := *customer.Phone
		fresh.Phone = &phone
	}
	return &fresh
}
