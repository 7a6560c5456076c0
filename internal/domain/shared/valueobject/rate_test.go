package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"standard VAT", "0.20", false},
		{"reduced VAT", "0.055", false},
		{"zero", "0", false},
		{"full", "1", false},
		{"negative", "-0.1", true},
		{"above one", "1.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRateFromString(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			want, _ := decimal.NewFromString(tt.value)
			assert.True(t, r.Fraction().Equal(want))
		})
	}
}

func TestRate_Percent(t *testing.T) {
	r := MustNewRate(decimal.NewFromFloat(0.20))
	assert.True(t, r.Percent().Equal(decimal.NewFromInt(20)))
}

func TestRate_Complement(t *testing.T) {
	r := MustNewRate(decimal.NewFromFloat(0.25))
	assert.True(t, r.Complement().Equal(decimal.NewFromFloat(0.75)))

	assert.True(t, ZeroRate().Complement().Equal(decimal.NewFromInt(1)))
}

func TestNewRateFromPercent(t *testing.T) {
	r, err := NewRateFromPercent(decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, r.Fraction().Equal(decimal.NewFromFloat(0.1)))

	_, err = NewRateFromPercent(decimal.NewFromInt(120))
	assert.Error(t, err)
}

func TestRate_Scan(t *testing.T) {
	var r Rate
	require.NoError(t, r.Scan("0.20"))
	assert.True(t, r.Fraction().Equal(decimal.NewFromFloat(0.2)))

	var zero Rate
	require.NoError(t, zero.Scan(nil))
	assert.True(t, zero.IsZero())
}
