package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/masayahak/go-order-app/internal/domains/products/domain"
	"github.com/masayahak/go-order-app/internal/domains/products/ports"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	Code      string    `gorm:"primaryKey;column:code;size:64"`
	Name      string    `gorm:"column:name;index"`
	UnitPrice int64     `gorm:"column:unit_price"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("code").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return toDomainList(records), nil
}

func (r *Repository) ListPage(ctx context.Context, query pagination.Query) (pagination.Page[*domain.Product], error) {
	var empty pagination.Page[*domain.Product]
	if err := r.ensureDB(); err != nil {
		return empty, err
	}
	scope := applyKeyword(r.db.WithContext(ctx).Model(&productRecord{}), query.Keyword)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return empty, fmt.Errorf("count products: %w", err)
	}
	var records []productRecord
	if err := scope.
		Order("code").
		Limit(query.PageSize).
		Offset(query.Offset()).
		Find(&records).Error; err != nil {
		return empty, fmt.Errorf("page products: %w", err)
	}
	return pagination.NewPage(toDomainList(records), total, query), nil
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("get product %s: %w", code, err)
	}
	return record.toDomain(), nil
}

func (r *Repository) Search(ctx context.Context, keyword string) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := applyKeyword(r.db.WithContext(ctx), keyword).
		Order("code").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return toDomainList(records), nil
}

func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := productRecord{Code: product.Code, Name: product.Name, UnitPrice: product.UnitPrice}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateCode
		}
		return nil, fmt.Errorf("create product %s: %w", product.Code, err)
	}
	return r.GetByCode(ctx, record.Code)
}

func (r *Repository) Update(ctx context.Context, code string, changes domain.Changes) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if name, ok := changes.Name.Get(); ok {
		updates["name"] = name
	}
	if price, ok := changes.UnitPrice.Get(); ok {
		updates["unit_price"] = price
	}
	if len(updates) == 0 {
		return r.GetByCode(ctx, code)
	}
	updates["updated_at"] = gorm.Expr("NOW()")
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("code = ?", code).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("update product %s: %w", code, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByCode(ctx, code)
}

func (r *Repository) Delete(ctx context.Context, code string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, "code = ?", code)
	if result.Error != nil {
		return false, fmt.Errorf("delete product %s: %w", code, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func applyKeyword(scope *gorm.DB, keyword string) *gorm.DB {
	if keyword == "" {
		return scope
	}
	pattern := "%" + keyword + "%"
	return scope.Where("code LIKE ? OR name LIKE ?", pattern, pattern)
}

func toDomainList(records []productRecord) []*domain.Product {
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		Code:      r.Code,
		Name:      r.Name,
		UnitPrice: r.UnitPrice,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
