package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masayahak/go-order-app/internal/domains/orders/domain"
	"github.com/masayahak/go-order-app/internal/domains/orders/ports"
	"github.com/masayahak/go-order-app/internal/shared/optional"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func widget(qty int64) domain.Detail {
	return domain.Detail{
		ProductCode: "P1",
		ProductName: "Widget",
		Quantity:    qty,
		UnitPrice:   100,
		Amount:      domain.Amount(qty, 100),
	}
}

func newOrder(name string, day time.Time, total int64) *domain.Order {
	return &domain.Order{
		CustomerID:   1,
		CustomerName: name,
		OrderDate:    day,
		TotalAmount:  total,
	}
}

func TestRepository_CreateAssignsIDsAndVersion(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("Acme", date(2024, 4, 1), 300), []domain.Detail{widget(3)})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, int64(1), created.Version)
	require.Len(t, created.Details, 1)
	assert.Equal(t, created.ID, created.Details[0].OrderID)
	assert.Equal(t, int64(300), created.Details[0].Amount)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetched.Version)
	require.Len(t, fetched.Details, 1)
}

func TestRepository_CreateInvalidDetailPersistsNothing(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	bad := widget(3)
	bad.Quantity = 0
	_, err := repo.Create(ctx, newOrder("Acme", date(2024, 4, 1), 300), []domain.Detail{widget(3), bad})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_UpdateBumpsVersionByOne(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("Acme", date(2024, 4, 1), 300), []domain.Detail{widget(3)})
	require.NoError(t, err)

	previous := created.Version
	for i := 0; i < 3; i++ {
		updated, err := repo.Update(ctx, created.ID, domain.Changes{
			TotalAmount: optional.Of(int64(300 + i)),
			Version:     optional.Of(previous),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, previous+1, updated.Version)
		previous = updated.Version
	}
}

func TestRepository_UpdateWithoutChangesKeepsVersion(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("Acme", date(2024, 4, 1), 300), []domain.Detail{widget(3)})
	require.NoError(t, err)

	// Only the guard was supplied, so nothing is written and the version
	// stays put.
	updated, err := repo.Update(ctx, created.ID, domain.Changes{
		Version: optional.Of(int64(1)),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Version)
	require.Len(t, updated.Details, 1)

	// The guard still applies to a no-op update.
	_, err = repo.Update(ctx, created.ID, domain.Changes{
		Version: optional.Of(int64(9)),
	}, nil)
	require.ErrorIs(t, err, ports.ErrVersionConflict)
}

func TestRepository_UpdateStaleVersionConflicts(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("Acme", date(2024, 4, 1), 300), []domain.Detail{widget(3)})
	require.NoError(t, err)

	// bring the order to version 2
	updated, err := repo.Update(ctx, created.ID, domain.Changes{
		TotalAmount: optional.Of(int64(400)),
		Version:     optional.Of(int64(1)),
	}, []domain.Detail{widget(2), widget(2)})
	require.NoError(t, err)
	require.Equal(t, int64(2), updated.Version)
	require.Len(t, updated.Details, 2)

	// a writer still holding version 1 loses
	_, err = repo.Update(ctx, created.ID, domain.Changes{
		TotalAmount: optional.Of(int64(999)),
		Version:     optional.Of(int64(1)),
	}, nil)
	require.ErrorIs(t, err, ports.ErrVersionConflict)

	// and the stored row is untouched
	current, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), current.Version)
	assert.Equal(t, int64(400), current.TotalAmount)
}

func TestRepository_UpdateMissingOrderIsNotFound(t *testing.T) {
	repo := NewRepository()

	_, err := repo.Update(context.Background(), 42, domain.Changes{
		TotalAmount: optional.Of(int64(1)),
	}, nil)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.NotErrorIs(t, err, ports.ErrVersionConflict)
}

func TestRepository_UpdateReplacesDetailSetWhole(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("Acme", date(2024, 4, 1), 300), []domain.Detail{widget(3)})
	require.NoError(t, err)
	oldDetailID := created.Details[0].ID

	replacement := []domain.Detail{
		widget(1),
		{ProductCode: "P2", ProductName: "Gadget", Quantity: 5, UnitPrice: 40, Amount: 200},
	}
	updated, err := repo.Update(ctx, created.ID, domain.Changes{Version: optional.Of(int64(1))}, replacement)
	require.NoError(t, err)
	require.Len(t, updated.Details, 2)
	for _, detail := range updated.Details {
		assert.NotEqual(t, oldDetailID, detail.ID, "old detail rows must not survive")
		assert.Equal(t, created.ID, detail.OrderID)
	}
	assert.Equal(t, "P1", updated.Details[0].ProductCode)
	assert.Equal(t, "P2", updated.Details[1].ProductCode)

	// replace with empty set removes every line
	cleared, err := repo.Update(ctx, created.ID, domain.Changes{Version: optional.Of(updated.Version)}, []domain.Detail{})
	require.NoError(t, err)
	assert.Empty(t, cleared.Details)

	// nil means keep
	kept, err := repo.Update(ctx, created.ID, domain.Changes{
		TotalAmount: optional.Of(int64(0)),
		Version:     optional.Of(cleared.Version),
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, kept.Details)
}

func TestRepository_UpdateWithoutVersionSkipsCheck(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("Acme", date(2024, 4, 1), 300), []domain.Detail{widget(3)})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, domain.Changes{TotalAmount: optional.Of(int64(500))}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
}

func TestRepository_DeleteMatchingVersionCascades(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("Acme", date(2024, 4, 1), 300), []domain.Detail{widget(3), widget(1)})
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, created.ID, created.Version)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_DeleteStaleVersion(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("Acme", date(2024, 4, 1), 300), []domain.Detail{widget(3)})
	require.NoError(t, err)

	// stale version and missing order both collapse to false by design
	removed, err := repo.Delete(ctx, created.ID, created.Version+5)
	require.NoError(t, err)
	assert.False(t, removed)

	still, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Version, still.Version)
}

func TestRepository_DeleteMissing(t *testing.T) {
	repo := NewRepository()

	removed, err := repo.Delete(context.Background(), 404, 1)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepository_ListOrderedMostRecentFirst(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, newOrder("Acme", date(2024, 4, 2), 100), nil)
	require.NoError(t, err)
	second, err := repo.Create(ctx, newOrder("Beta", date(2024, 4, 2), 200), nil)
	require.NoError(t, err)
	older, err := repo.Create(ctx, newOrder("Acme", date(2024, 3, 30), 300), nil)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// same date ties break by id descending
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, older.ID, list[2].ID)
}

func TestRepository_ListPageFiltersAreConjunctive(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, newOrder("Acme", date(2024, 4, 1), 100), nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("Acme", date(2024, 5, 1), 200), nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("Beta", date(2024, 4, 15), 300), nil)
	require.NoError(t, err)

	from := date(2024, 3, 15)
	to := date(2024, 4, 30)
	page, err := repo.ListPage(ctx,
		pagination.Query{Page: 1, PageSize: 10, Keyword: "Acme"},
		ports.DateRange{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Acme", page.Data[0].CustomerName)
	assert.Equal(t, date(2024, 4, 1), page.Data[0].OrderDate)

	// bounds are inclusive
	fromExact := date(2024, 4, 15)
	toExact := date(2024, 4, 15)
	page, err = repo.ListPage(ctx,
		pagination.Query{Page: 1, PageSize: 10},
		ports.DateRange{From: &fromExact, To: &toExact})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}

// The repository persists the caller-supplied total; the sum of detail
// amounts matching it is an external invariant checked on the round trip.
func TestRepository_TotalAmountRoundTrip(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	details := []domain.Detail{widget(3), {ProductCode: "P2", ProductName: "Gadget", Quantity: 2, UnitPrice: 50, Amount: 100}}
	var total int64
	for _, detail := range details {
		total += detail.Amount
	}

	created, err := repo.Create(ctx, newOrder("Acme", date(2024, 4, 1), total), details)
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	var sum int64
	for _, detail := range fetched.Details {
		sum += detail.Amount
	}
	assert.Equal(t, fetched.TotalAmount, sum)
}
