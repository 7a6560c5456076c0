package persistence

import (
	"context"
	"testing"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormQuoteRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db, testAllocator(db))
	ctx := context.Background()

	quote := draftQuote(t, uuid.New())
	require.NoError(t, repo.Create(ctx, quote))

	assert.NotEmpty(t, quote.Number)
	assert.Contains(t, quote.Number, "DEV-")

	found, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, quote.Number, found.Number)
	assert.Equal(t, billing.QuoteStatusDraft, found.Status)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "Audit réseau", found.Lines[0].Designation)
	assert.Equal(t, "200.00", found.TotalHT.StringFixed(2))
	assert.Equal(t, "40.00", found.TotalTVA.StringFixed(2))
	assert.Equal(t, "240.00", found.TotalTTC.StringFixed(2))
}

func TestGormQuoteRepository_Create_SequentialNumbers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db, testAllocator(db))
	ctx := context.Background()

	first := draftQuote(t, uuid.New())
	second := draftQuote(t, uuid.New())
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.NotEqual(t, first.Number, second.Number)
}

func TestGormQuoteRepository_FindByNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db, testAllocator(db))
	ctx := context.Background()

	quote := draftQuote(t, uuid.New())
	require.NoError(t, repo.Create(ctx, quote))

	found, err := repo.FindByNumber(ctx, quote.Number)
	require.NoError(t, err)
	assert.Equal(t, quote.ID, found.ID)

	_, err = repo.FindByNumber(ctx, "DEV-2026-99999")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormQuoteRepository_Save_ReplacesLines(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db, testAllocator(db))
	ctx := context.Background()

	quote := draftQuote(t, uuid.New())
	require.NoError(t, repo.Create(ctx, quote))

	require.NoError(t, quote.ReplaceLines([]billing.LineSnapshot{
		manualSnapshot(t, "Maintenance", 50, 1),
		manualSnapshot(t, "Formation", 300, 1),
	}))
	require.NoError(t, repo.Save(ctx, quote))

	found, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, "Maintenance", found.Lines[0].Designation)
	assert.Equal(t, "Formation", found.Lines[1].Designation)
	assert.Equal(t, "350.00", found.TotalHT.StringFixed(2))
}

func TestGormQuoteRepository_Save_StatusChange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db, testAllocator(db))
	ctx := context.Background()

	quote := draftQuote(t, uuid.New())
	require.NoError(t, repo.Create(ctx, quote))
	require.NoError(t, quote.Send())
	require.NoError(t, repo.Save(ctx, quote))

	found, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.QuoteStatusSent, found.Status)
}

func TestGormQuoteRepository_Save_StaleVersionConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db, testAllocator(db))
	ctx := context.Background()

	quote := draftQuote(t, uuid.New())
	require.NoError(t, repo.Create(ctx, quote))

	// Two copies of the same aggregate
	copyA, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)
	copyB, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)

	require.NoError(t, copyA.Send())
	require.NoError(t, repo.Save(ctx, copyA))

	require.NoError(t, copyB.Send())
	err = repo.Save(ctx, copyB)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormQuoteRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db, testAllocator(db))
	ctx := context.Background()

	quote := draftQuote(t, uuid.New())
	require.NoError(t, repo.Create(ctx, quote))

	require.NoError(t, repo.Delete(ctx, quote.ID))

	_, err := repo.FindByID(ctx, quote.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, quote.ID), shared.ErrNotFound)
}

func TestGormQuoteRepository_FindAll_StatusFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db, testAllocator(db))
	ctx := context.Background()

	draft := draftQuote(t, uuid.New())
	require.NoError(t, repo.Create(ctx, draft))

	sent := draftQuote(t, uuid.New())
	require.NoError(t, repo.Create(ctx, sent))
	require.NoError(t, sent.Send())
	require.NoError(t, repo.Save(ctx, sent))

	filter := shared.DefaultFilter()
	filter.OrderBy = "number"
	filter.OrderDir = "asc"
	filter.Filters["status"] = "sent"

	quotes, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, sent.ID, quotes[0].ID)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormQuoteRepository_CountByClient(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db, testAllocator(db))
	ctx := context.Background()

	clientID := uuid.New()
	require.NoError(t, repo.Create(ctx, draftQuote(t, clientID)))
	require.NoError(t, repo.Create(ctx, draftQuote(t, clientID)))
	require.NoError(t, repo.Create(ctx, draftQuote(t, uuid.New())))

	count, err := repo.CountByClient(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
