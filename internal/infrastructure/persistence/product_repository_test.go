package persistence

import (
	"context"
	"testing"

	"github.com/facturio/backend/internal/domain/catalog"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, code string) *catalog.Product {
	t.Helper()
	rate, err := valueobject.NewRate(decimal.NewFromFloat(0.20))
	require.NoError(t, err)
	product, err := catalog.NewProduct(code, "Licence logicielle", valueobject.NewMoneyEURFromFloat(99.90), rate)
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := newTestProduct(t, "PRD-001")
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "PRD-001", found.Code)
	assert.Equal(t, "99.90", found.UnitPriceHT.StringFixed(2))
	assert.True(t, found.Active)

	byCode, err := repo.FindByCode(ctx, "prd-001")
	require.NoError(t, err)
	assert.Equal(t, product.ID, byCode.ID)
}

func TestGormProductRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_ExistsByCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestProduct(t, "PRD-002")))

	exists, err := repo.ExistsByCode(ctx, "PRD-002")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCode(ctx, "PRD-404")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormProductRepository_FindAll_ActiveFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	active := newTestProduct(t, "PRD-010")
	require.NoError(t, repo.Save(ctx, active))

	inactive := newTestProduct(t, "PRD-011")
	inactive.Deactivate()
	require.NoError(t, repo.Save(ctx, inactive))

	filter := shared.DefaultFilter()
	filter.OrderBy = "code"
	filter.OrderDir = "asc"
	filter.Filters["active"] = true

	products, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "PRD-010", products[0].Code)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormProductRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := newTestProduct(t, "PRD-020")
	require.NoError(t, repo.Save(ctx, product))

	require.NoError(t, repo.Delete(ctx, product.ID))
	assert.ErrorIs(t, repo.Delete(ctx, product.ID), shared.ErrNotFound)
}
