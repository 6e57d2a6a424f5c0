package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/masayahak/go-order-app/internal/domains/products/domain"
	"github.com/masayahak/go-order-app/internal/domains/products/ports"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewRepository() *Repository {
	return &Repository{products: map[string]*domain.Product{}}
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(*domain.Product) bool { return true }), nil
}

func (r *Repository) ListPage(_ context.Context, query pagination.Query) (pagination.Page[*domain.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.sorted(matches(query.Keyword))
	return pagination.NewPage(slice(matched, query), int64(len(matched)), query), nil
}

func (r *Repository) GetByCode(_ context.Context, code string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[code]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) Search(_ context.Context, keyword string) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(matches(keyword)), nil
}

func (r *Repository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	fresh := *product
	if err := fresh.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.products[fresh.Code]; exists {
		return nil, ports.ErrDuplicateCode
	}
	now := time.Now()
	fresh.CreatedAt = now
	fresh.UpdatedAt = now
	r.products[fresh.Code] = &fresh
	clone := fresh
	return &clone, nil
}

func (r *Repository) Update(_ context.Context, code string, changes domain.Changes) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[code]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if changes.Empty() {
		clone := *product
		return &clone, nil
	}
	// Apply to a copy first so a rejected field leaves the stored product
	// untouched, matching the single-UPDATE semantics of the postgres adapter.
	updated := *product
	if name, ok := changes.Name.Get(); ok {
		if err := updated.SetName(name); err != nil {
			return nil, err
		}
	}
	if price, ok := changes.UnitPrice.Get(); ok {
		if err := updated.SetUnitPrice(price); err != nil {
			return nil, err
		}
	}
	updated.UpdatedAt = time.Now()
	r.products[code] = &updated
	clone := updated
	return &clone, nil
}

func (r *Repository) Delete(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[code]; !ok {
		return false, nil
	}
	delete(r.products, code)
	return true, nil
}

func (r *Repository) sorted(keep func(*domain.Product) bool) []*domain.Product {
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if keep(product) {
			clone := *product
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

func matches(keyword string) func(*domain.Product) bool {
	if keyword == "" {
		return func(*domain.Product) bool { return true }
	}
	return func(p *domain.Product) bool {
		return strings.Contains(p.Code, keyword) || strings.Contains(p.Name, keyword)
	}
}

func slice(list []*domain.Product, query pagination.Query) []*domain.Product {
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
