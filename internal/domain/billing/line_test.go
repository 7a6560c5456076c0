package billing

import (
	"testing"

	"github.com/facturio/backend/internal/domain/catalog"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, price float64, rate string) *catalog.Product {
	t.Helper()
	r, err := valueobject.NewRateFromString(rate)
	require.NoError(t, err)
	p, err := catalog.NewProduct("SVC-001", "Consulting day",
		valueobject.NewMoneyEURFromFloat(price), r)
	require.NoError(t, err)
	return p
}

func mustSnapshot(t *testing.T, price float64, rate string, qty float64, discount string) LineSnapshot {
	t.Helper()
	r, err := valueobject.NewRateFromString(rate)
	require.NoError(t, err)
	d, err := valueobject.NewRateFromString(discount)
	require.NoError(t, err)
	s, err := NewManualLineSnapshot("Line", valueobject.NewMoneyEURFromFloat(price), r,
		decimal.NewFromFloat(qty), d)
	require.NoError(t, err)
	return s
}

func TestNewLineSnapshot_FreezesProductValues(t *testing.T) {
	product := newTestProduct(t, 100, "0.20")

	line, err := NewLineSnapshot(product, decimal.NewFromInt(2), valueobject.ZeroRate())
	require.NoError(t, err)

	assert.Equal(t, "Consulting day", line.Designation)
	assert.Equal(t, "100.00", line.UnitPriceHT.StringFixed(2))
	assert.Equal(t, "200.00", line.TotalHT.StringFixed(2))
	assert.Equal(t, "40.00", line.TaxAmount.StringFixed(2))
	assert.Equal(t, "240.00", line.TotalTTC.StringFixed(2))

	// later catalog changes must not leak into the snapshot
	require.NoError(t, product.ChangePrice(valueobject.NewMoneyEURFromFloat(999),
		valueobject.MustNewRate(decimal.NewFromFloat(0.10))))
	assert.Equal(t, "100.00", line.UnitPriceHT.StringFixed(2))
	assert.Equal(t, "200.00", line.TotalHT.StringFixed(2))
	assert.Equal(t, "0.2", line.TaxRate.Fraction().String())
}

func TestNewLineSnapshot_Validation(t *testing.T) {
	product := newTestProduct(t, 100, "0.20")

	_, err := NewLineSnapshot(nil, decimal.NewFromInt(1), valueobject.ZeroRate())
	assert.Error(t, err)

	_, err = NewLineSnapshot(product, decimal.Zero, valueobject.ZeroRate())
	assert.Error(t, err)

	_, err = NewLineSnapshot(product, decimal.NewFromInt(-1), valueobject.ZeroRate())
	assert.Error(t, err)

	product.Deactivate()
	_, err = NewLineSnapshot(product, decimal.NewFromInt(1), valueobject.ZeroRate())
	assert.Error(t, err)
}

func TestLineSnapshot_RoundingAtLineLevel(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		rate     string
		qty      float64
		discount string
		wantHT   string
		wantTax  string
		wantTTC  string
	}{
		{"plain", 100, "0.20", 2, "0", "200.00", "40.00", "240.00"},
		{"reduced rate", 50, "0.10", 1, "0", "50.00", "5.00", "55.00"},
		{"fractional tax rounds half up", 10.05, "0.055", 1, "0", "10.05", "0.55", "10.60"},
		{"discount applied before rounding", 99.99, "0.20", 1, "0.15", "84.99", "17.00", "101.99"},
		{"fractional quantity", 3.333, "0.20", 3, "0", "10.00", "2.00", "12.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := mustSnapshot(t, tt.price, tt.rate, tt.qty, tt.discount)
			assert.Equal(t, tt.wantHT, line.TotalHT.StringFixed(2))
			assert.Equal(t, tt.wantTax, line.TaxAmount.StringFixed(2))
			assert.Equal(t, tt.wantTTC, line.TotalTTC.StringFixed(2))
			// TTC is HT plus tax exactly, never re-rounded
			assert.True(t, line.TotalTTC.Equals(line.TotalHT.MustAdd(line.TaxAmount)))
		})
	}
}

func TestLineSnapshot_CopyWithoutDiscount(t *testing.T) {
	line := mustSnapshot(t, 100, "0.20", 2, "0.50")
	assert.Equal(t, "100.00", line.TotalHT.StringFixed(2))

	copied, err := line.CopyWithoutDiscount()
	require.NoError(t, err)
	assert.True(t, copied.DiscountRate.IsZero())
	assert.Equal(t, "200.00", copied.TotalHT.StringFixed(2))
	assert.Equal(t, "40.00", copied.TaxAmount.StringFixed(2))
	// the source line is untouched
	assert.Equal(t, "100.00", line.TotalHT.StringFixed(2))
}
