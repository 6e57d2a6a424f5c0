package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/masayahak/go-order-app/internal/domains/customers/domain"
	"github.com/masayahak/go-order-app/internal/domains/customers/ports"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type customerRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;index"`
	Phone     *string   `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

func (r *Repository) List(ctx context.Context) ([]*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []customerRecord
	if err := r.db.WithContext(ctx).Order("name, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return toDomainList(records), nil
}

func (r *Repository) ListPage(ctx context.Context, query pagination.Query) (pagination.Page[*domain.Customer], error) {
	var empty pagination.Page[*domain.Customer]
	if err := r.ensureDB(); err != nil {
		return empty, err
	}
	scope := r.db.WithContext(ctx).Model(&customerRecord{})
	scope = applyKeyword(scope, query.Keyword)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return empty, fmt.Errorf("count customers: %w", err)
	}
	var records []customerRecord
	if err := scope.
		Order("name, id").
		Limit(query.PageSize).
		Offset(query.Offset()).
		Find(&records).Error; err != nil {
		return empty, fmt.Errorf("page customers: %w", err)
	}
	return pagination.NewPage(toDomainList(records), total, query), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return record.toDomain(), nil
}

func (r *Repository) Search(ctx context.Context, keyword string) ([]*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []customerRecord
	scope := applyKeyword(r.db.WithContext(ctx), keyword)
	if err := scope.Order("name, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return toDomainList(records), nil
}

func (r *Repository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	record := customerRecord{Name: customer.Name, Phone: customer.Phone}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) Update(ctx context.Context, id int64, changes domain.Changes) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if name, ok := changes.Name.Get(); ok {
		updates["name"] = name
	}
	if phone, ok := changes.Phone.Get(); ok {
		updates["phone"] = phone
	}
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}
	updates["updated_at"] = gorm.Expr("NOW()")
	result := r.db.WithContext(ctx).
		Model(&customerRecord{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("update customer %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).Delete(&customerRecord{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete customer %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres customer repository not configured")
	}
	return nil
}

func applyKeyword(scope *gorm.DB, keyword string) *gorm.DB {
	if keyword == "" {
		return scope
	}
	pattern := "%" + keyword + "%"
	return scope.Where("name LIKE ? OR phone LIKE ?", pattern, pattern)
}

func toDomainList(records []customerRecord) []*domain.Customer {
	customers := make([]*domain.Customer, 0, len(records))
	for i := range records {
		customers = append(customers, records[i].toDomain())
	}
	return customers
}

func (r customerRecord) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
