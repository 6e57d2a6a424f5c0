package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masayahak/go-order-app/internal/domains/products/adapters/memory"
	"github.com/masayahak/go-order-app/internal/domains/products/domain"
	"github.com/masayahak/go-order-app/internal/domains/products/ports"
	"github.com/masayahak/go-order-app/internal/shared/optional"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

func TestCreateProduct_ValidatesAndPersists(t *testing.T) {
	svc := NewService(memory.NewRepository())

	created, err := svc.CreateProduct(context.Background(), "P1", "Widget", 100)
	require.NoError(t, err)
	assert.Equal(t, "P1", created.Code)
	assert.Equal(t, int64(100), created.UnitPrice)
}

func TestCreateProduct_Invalid(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, "", "Widget", 100)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyCode)

	_, err = svc.CreateProduct(ctx, "P1", "", 100)
	require.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = svc.CreateProduct(ctx, "P1", "Widget", -1)
	require.ErrorIs(t, err, domain.ErrNegativePrice)
}

func TestCreateProduct_DuplicateCode(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, "P1", "Widget", 100)
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, "P1", "Other", 200)
	require.ErrorIs(t, err, ports.ErrDuplicateCode)
}

func TestUpdateProduct_PartialAndPriceGuard(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, "P1", "Widget", 100)
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, "P1", domain.Changes{UnitPrice: optional.Of(int64(250))})
	require.NoError(t, err)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, int64(250), updated.UnitPrice)

	_, err = svc.UpdateProduct(ctx, "P1", domain.Changes{UnitPrice: optional.Of(int64(-5))})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateProduct(ctx, "NOPE", domain.Changes{Name: optional.Of("x")})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSearchProducts_CodeAndName(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, "P1", "Widget", 100)
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, "Q7", "Gadget", 300)
	require.NoError(t, err)

	byCode, err := svc.SearchProducts(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, "Widget", byCode[0].Name)

	byName, err := svc.SearchProducts(ctx, "adge")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Q7", byName[0].Code)
}

func TestListProductsPage_OrderedByCode(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	for _, code := range []string{"C3", "A1", "B2"} {
		_, err := svc.CreateProduct(ctx, code, "Item "+code, 10)
		require.NoError(t, err)
	}

	page, err := svc.ListProductsPage(ctx, pagination.Query{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "A1", page.Data[0].Code)
	assert.Equal(t, "B2", page.Data[1].Code)
}

func TestDeleteProduct(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, "P1", "Widget", 100)
	require.NoError(t, err)

	removed, err := svc.DeleteProduct(ctx, "P1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.DeleteProduct(ctx, "P1")
	require.NoError(t, err)
	assert.False(t, removed)
}
