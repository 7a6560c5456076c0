package persistence

import (
	"testing"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/catalog"
	"github.com/facturio/backend/internal/domain/partner"
	"github.com/facturio/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/facturio/backend/internal/domain/shared/valueobject"
)

// setupTestDB opens a fresh in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&NumberSequence{},
		&partner.Client{},
		&catalog.Product{},
		&billing.Quote{},
		&billing.QuoteLine{},
		&billing.Invoice{},
		&billing.InvoiceLine{},
	))

	return db
}

func testBillingConfig() config.BillingConfig {
	return config.BillingConfig{
		QuotePrefix:       "DEV",
		InvoicePrefix:     "FAC",
		NumberPadding:     5,
		YearlyReset:       true,
		SequenceRetries:   3,
		QuoteValidityDays: 30,
		InvoiceDueDays:    30,
	}
}

func testAllocator(db *gorm.DB) *SequenceAllocator {
	return NewSequenceAllocator(db, testBillingConfig())
}

func manualSnapshot(t *testing.T, designation string, price float64, qty int64) billing.LineSnapshot {
	t.Helper()
	rate, err := valueobject.NewRate(decimal.NewFromFloat(0.20))
	require.NoError(t, err)
	snapshot, err := billing.NewManualLineSnapshot(
		designation,
		valueobject.NewMoneyEURFromFloat(price),
		rate,
		decimal.NewFromInt(qty),
		valueobject.ZeroRate(),
	)
	require.NoError(t, err)
	return snapshot
}

func draftQuote(t *testing.T, clientID uuid.UUID) *billing.Quote {
	t.Helper()
	issue := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	quote, err := billing.NewQuote(clientID, "Acme SARL", issue, issue.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, quote.AddLine(manualSnapshot(t, "Audit réseau", 100, 2)))
	quote.ClearDomainEvents()
	return quote
}

func draftInvoice(t *testing.T, clientID uuid.UUID) *billing.Invoice {
	t.Helper()
	issue := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	invoice, err := billing.NewInvoice(clientID, "Acme SARL", issue, issue.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, invoice.AddLine(manualSnapshot(t, "Audit réseau", 100, 2)))
	invoice.ClearDomainEvents()
	return invoice
}
