package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/masayahak/go-order-app/internal/domains/orders/domain"
	"github.com/masayahak/go-order-app/internal/domains/orders/ports"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the order aggregate in PostgreSQL using GORM. The
// order row and its detail rows are written inside a single transaction;
// the version column is the only cross-request serialization point.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	CustomerID   int64     `gorm:"column:customer_id;index"`
	CustomerName string    `gorm:"column:customer_name;index"`
	OrderDate    time.Time `gorm:"column:order_date;type:date;index"`
	TotalAmount  int64     `gorm:"column:total_amount"`
	Version      int64     `gorm:"column:version;default:1"`
	CreatedBy    *int64    `gorm:"column:created_by"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderDetailRecord struct {
	ID          int64  `gorm:"primaryKey;column:id"`
	OrderID     int64  `gorm:"column:order_id;index"`
	ProductCode string `gorm:"column:product_code;size:64"`
	ProductName string `gorm:"column:product_name"`
	Quantity    int64  `gorm:"column:quantity;check:quantity > 0"`
	UnitPrice   int64  `gorm:"column:unit_price"`
	Amount      int64  `gorm:"column:amount"`
}

func (orderDetailRecord) TableName() string { return "order_details" }

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Order("order_date DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return toDomainList(records), nil
}

func (r *Repository) ListPage(ctx context.Context, query pagination.Query, dates ports.DateRange) (pagination.Page[*domain.Order], error) {
	var empty pagination.Page[*domain.Order]
	if err := r.ensureDB(); err != nil {
		return empty, err
	}
	scope := applyFilters(r.db.WithContext(ctx).Model(&orderRecord{}), query.Keyword, dates)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return empty, fmt.Errorf("count orders: %w", err)
	}
	var records []orderRecord
	if err := scope.
		Order("order_date DESC, id DESC").
		Limit(query.PageSize).
		Offset(query.Offset()).
		Find(&records).Error; err != nil {
		return empty, fmt.Errorf("page orders: %w", err)
	}
	return pagination.NewPage(toDomainList(records), total, query), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.getByID(ctx, r.db, id)
}

func (r *Repository) getByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Order, error) {
	var record orderRecord
	if err := db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	var detailRecords []orderDetailRecord
	if err := db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("id").
		Find(&detailRecords).Error; err != nil {
		return nil, fmt.Errorf("get order %d details: %w", id, err)
	}
	order := record.toDomain()
	order.Details = make([]domain.Detail, 0, len(detailRecords))
	for i := range detailRecords {
		order.Details = append(order.Details, detailRecords[i].toDomain())
	}
	return order, nil
}

func (r *Repository) Search(ctx context.Context, keyword string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	scope := applyFilters(r.db.WithContext(ctx), keyword, ports.DateRange{})
	if err := scope.Order("order_date DESC, id DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("search orders: %w", err)
	}
	return toDomainList(records), nil
}

// Create inserts the order row and all detail rows as one unit. A failing
// detail insert rolls back the order row, so a half-written aggregate is
// never observable.
func (r *Repository) Create(ctx context.Context, order *domain.Order, details []domain.Detail) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	var orderID int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := toRecord(order)
		record.ID = 0
		record.Version = 1
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if err := insertDetails(tx, record.ID, details); err != nil {
			return err
		}
		orderID = record.ID
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return r.GetByID(ctx, orderID)
}

// Update applies the partial field changes under the version compare-and-swap
// and, when details is non-nil, swaps the whole detail set in the same
// transaction. The row lock on the initial read makes the version check
// race-free; the loser of a concurrent update fails with ErrVersionConflict
// instead of blocking past commit.
func (r *Repository) Update(ctx context.Context, id int64, changes domain.Changes, details []domain.Detail) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		if expected, ok := changes.Version.Get(); ok && expected != current.Version {
			return ports.ErrVersionConflict
		}
		// Nothing to write: keep the row (and its version) as-is. The guard
		// above has already run, so a stale caller still conflicts.
		if changes.Empty() && details == nil {
			return nil
		}

		updates := map[string]any{
			"version":    current.Version + 1,
			"updated_at": gorm.Expr("NOW()"),
		}
		if customerID, ok := changes.CustomerID.Get(); ok {
			updates["customer_id"] = customerID
		}
		if customerName, ok := changes.CustomerName.Get(); ok {
			updates["customer_name"] = customerName
		}
		if orderDate, ok := changes.OrderDate.Get(); ok {
			updates["order_date"] = orderDate
		}
		if totalAmount, ok := changes.TotalAmount.Get(); ok {
			updates["total_amount"] = totalAmount
		}
		if err := tx.Model(&orderRecord{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if details != nil {
			if err := tx.Delete(&orderDetailRecord{}, "order_id = ?", id).Error; err != nil {
				return err
			}
			if err := insertDetails(tx, id, details); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) || errors.Is(err, ports.ErrVersionConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes the order only when the stored version matches, cascading
// its details in the same transaction. Missing order and stale version both
// come back as false; callers that need to tell them apart must re-read.
func (r *Repository) Delete(ctx context.Context, id int64, version int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&orderRecord{}, "id = ? AND version = ?", id, version)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Delete(&orderDetailRecord{}, "order_id = ?", id).Error
	})
	if err != nil {
		return false, fmt.Errorf("delete order %d: %w", id, err)
	}
	return removed, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func insertDetails(tx *gorm.DB, orderID int64, details []domain.Detail) error {
	if len(details) == 0 {
		return nil
	}
	records := make([]orderDetailRecord, 0, len(details))
	for i := range details {
		records = append(records, orderDetailRecord{
			OrderID:     orderID,
			ProductCode: details[i].ProductCode,
			ProductName: details[i].ProductName,
			Quantity:    details[i].Quantity,
			UnitPrice:   details[i].UnitPrice,
			Amount:      details[i].Amount,
		})
	}
	return tx.Create(&records).Error
}

func applyFilters(scope *gorm.DB, keyword string, dates ports.DateRange) *gorm.DB {
	if keyword != "" {
		scope = scope.Where("customer_name LIKE ?", "%"+keyword+"%")
	}
	if dates.From != nil {
		scope = scope.Where("order_date >= ?", *dates.From)
	}
	if dates.To != nil {
		scope = scope.Where("order_date <= ?", *dates.To)
	}
	return scope
}

func toDomainList(records []orderRecord) []*domain.Order {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		CustomerName: order.CustomerName,
		OrderDate:    order.OrderDate,
		TotalAmount:  order.TotalAmount,
		Version:      order.Version,
		CreatedBy:    order.CreatedBy,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:           r.ID,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		OrderDate:    r.OrderDate,
		TotalAmount:  r.TotalAmount,
		Version:      r.Version,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r orderDetailRecord) toDomain() domain.Detail {
	return domain.Detail{
		ID:          r.ID,
		OrderID:     r.OrderID,
		ProductCode: r.ProductCode,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Amount:      r.Amount,
	}
}
