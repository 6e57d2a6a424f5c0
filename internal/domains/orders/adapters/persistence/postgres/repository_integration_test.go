//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/masayahak/go-order-app/internal/domains/orders/domain"
	"github.com/masayahak/go-order-app/internal/domains/orders/ports"
	"github.com/masayahak/go-order-app/internal/platform/migrations"
	"github.com/masayahak/go-order-app/internal/shared/optional"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

func setupOrderPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orderapp_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func orderDate(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleOrder(date string) (*domain.Order, []domain.Detail) {
	order := &domain.Order{
		CustomerID:   1,
		CustomerName: "Acme",
		OrderDate:    orderDate(date),
		TotalAmount:  3200,
	}
	details := []domain.Detail{
		{ProductCode: "P-001", ProductName: "Widget", Quantity: 2, UnitPrice: 1000, Amount: 2000},
		{ProductCode: "P-002", ProductName: "Gadget", Quantity: 3, UnitPrice: 400, Amount: 1200},
	}
	return order, details
}

func TestOrderRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, details := sampleOrder("2026-04-01")
	saved, err := repo.Create(ctx, order, details)
	require.NoError(t, err)
	assert.Positive(t, saved.ID)
	assert.Equal(t, int64(1), saved.Version)
	assert.Equal(t, int64(3200), saved.TotalAmount)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", fetched.CustomerName)
	require.Len(t, fetched.Details, 2)
	assert.Equal(t, "P-001", fetched.Details[0].ProductCode)
	assert.Equal(t, "P-002", fetched.Details[1].ProductCode)
	assert.Equal(t, saved.ID, fetched.Details[0].OrderID)
}

func TestOrderRepository_CreateRollsBackOnDetailFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, details := sampleOrder("2026-04-01")
	// Zero quantity violates the check constraint on order_details, so the
	// second insert fails after the order row was written in the same tx.
	details[1].Quantity = 0
	details[1].Amount = 0

	_, err := repo.Create(ctx, order, details)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Table("orders").Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Table("order_details").Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderRepository_UpdateBumpsVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, details := sampleOrder("2026-04-01")
	saved, err := repo.Create(ctx, order, details)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, saved.ID, domain.Changes{
		CustomerName: optional.Of("Acme Trading"),
		TotalAmount:  optional.Of[int64](2000),
		Version:      optional.Of[int64](1),
	}, []domain.Detail{
		{ProductCode: "P-001", ProductName: "Widget", Quantity: 2, UnitPrice: 1000, Amount: 2000},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, "Acme Trading", updated.CustomerName)
	require.Len(t, updated.Details, 1)

	// Detail rows are replaced wholesale, not patched in place.
	var detailCount int64
	require.NoError(t, db.Table("order_details").Where("order_id = ?", saved.ID).Count(&detailCount).Error)
	assert.Equal(t, int64(1), detailCount)
}

func TestOrderRepository_UpdateStaleVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, details := sampleOrder("2026-04-01")
	saved, err := repo.Create(ctx, order, details)
	require.NoError(t, err)

	_, err = repo.Update(ctx, saved.ID, domain.Changes{
		CustomerName: optional.Of("First"),
		Version:      optional.Of[int64](1),
	}, nil)
	require.NoError(t, err)

	_, err = repo.Update(ctx, saved.ID, domain.Changes{
		CustomerName: optional.Of("Second"),
		Version:      optional.Of[int64](1),
	}, nil)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)

	current, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", current.CustomerName)
	assert.Equal(t, int64(2), current.Version)

	_, err = repo.Update(ctx, saved.ID+1000, domain.Changes{
		CustomerName: optional.Of("x"),
		Version:      optional.Of[int64](1),
	}, nil)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestOrderRepository_DeleteVersionGate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, details := sampleOrder("2026-04-01")
	saved, err := repo.Create(ctx, order, details)
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, saved.ID, saved.Version+1)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = repo.Delete(ctx, saved.ID, saved.Version)
	require.NoError(t, err)
	assert.True(t, removed)

	var detailCount int64
	require.NoError(t, db.Table("order_details").Where("order_id = ?", saved.ID).Count(&detailCount).Error)
	assert.Zero(t, detailCount)

	removed, err = repo.Delete(ctx, saved.ID, saved.Version)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestOrderRepository_ListPageFilters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		date string
	}{
		{"Acme", "2026-04-01"},
		{"Beta Works", "2026-04-02"},
		{"Acme", "2026-04-03"},
	} {
		order, details := sampleOrder(tc.date)
		order.CustomerName = tc.name
		_, err := repo.Create(ctx, order, details)
		require.NoError(t, err)
	}

	page, err := repo.ListPage(ctx, pagination.Query{Page: 1, PageSize: 10, Keyword: "Acme"}, ports.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
	// Newest order date first.
	assert.Equal(t, "2026-04-03", page.Data[0].OrderDate.Format("2006-01-02"))

	from := orderDate("2026-04-02")
	to := orderDate("2026-04-02")
	page, err = repo.ListPage(ctx, pagination.Query{Page: 1, PageSize: 10}, ports.DateRange{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Beta Works", page.Data[0].CustomerName)
}
