package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/identity"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormInvoiceRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db, testAllocator(db))
	ctx := context.Background()

	invoice := draftInvoice(t, uuid.New())
	require.NoError(t, repo.Create(ctx, invoice))

	assert.Contains(t, invoice.Number, "FAC-")

	found, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.Number, found.Number)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "200.00", found.TotalHT.StringFixed(2))
	assert.Equal(t, "240.00", found.TotalTTC.StringFixed(2))
	assert.Equal(t, "240.00", found.OutstandingAmount().StringFixed(2))
}

func TestGormInvoiceRepository_PaymentsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db, testAllocator(db))
	ctx := context.Background()
	roles := identity.NewRoleSet("USER")

	invoice := draftInvoice(t, uuid.New())
	require.NoError(t, repo.Create(ctx, invoice))
	require.NoError(t, invoice.Send(roles))
	require.NoError(t, repo.Save(ctx, invoice))

	require.NoError(t, invoice.RecordPayment(
		valueobject.NewMoneyEURFromFloat(120),
		billing.PaymentMethodTransfer,
		"VIR-88412",
		time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		roles,
	))
	require.NoError(t, repo.Save(ctx, invoice))

	found, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPartiallyPaid, found.Status)
	assert.Equal(t, "120.00", found.PaidAmount.StringFixed(2))
	require.Len(t, found.Payments, 1)
	assert.Equal(t, "VIR-88412", found.Payments[0].Reference)
	assert.Equal(t, "120.00", found.OutstandingAmount().StringFixed(2))
}

func TestGormInvoiceRepository_FindByNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db, testAllocator(db))
	ctx := context.Background()

	invoice := draftInvoice(t, uuid.New())
	require.NoError(t, repo.Create(ctx, invoice))

	found, err := repo.FindByNumber(ctx, invoice.Number)
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, found.ID)

	_, err = repo.FindByNumber(ctx, "FAC-2026-99999")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvoiceRepository_Save_StaleVersionConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db, testAllocator(db))
	ctx := context.Background()
	roles := identity.NewRoleSet("USER")

	invoice := draftInvoice(t, uuid.New())
	require.NoError(t, repo.Create(ctx, invoice))

	copyA, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	copyB, err := repo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)

	require.NoError(t, copyA.Send(roles))
	require.NoError(t, repo.Save(ctx, copyA))

	require.NoError(t, copyB.Send(roles))
	assert.ErrorIs(t, repo.Save(ctx, copyB), shared.ErrConcurrencyConflict)
}

func TestGormInvoiceRepository_FindAll_ClientFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db, testAllocator(db))
	ctx := context.Background()

	clientID := uuid.New()
	require.NoError(t, repo.Create(ctx, draftInvoice(t, clientID)))
	require.NoError(t, repo.Create(ctx, draftInvoice(t, uuid.New())))

	filter := shared.DefaultFilter()
	filter.OrderBy = "number"
	filter.OrderDir = "asc"
	filter.Filters["client_id"] = clientID

	invoices, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, clientID, invoices[0].ClientID)

	count, err := repo.CountByClient(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db, testAllocator(db))
	ctx := context.Background()

	invoice := draftInvoice(t, uuid.New())
	require.NoError(t, repo.Create(ctx, invoice))

	require.NoError(t, repo.Delete(ctx, invoice.ID))
	_, err := repo.FindByID(ctx, invoice.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
