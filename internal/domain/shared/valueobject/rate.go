package valueobject

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Rate is a value object for tax and discount rates, stored as a fraction
// (0.20 for 20%). It is immutable.
type Rate struct {
	value decimal.Decimal
}

// NewRate creates a Rate from a fraction in [0, 1]
func NewRate(value decimal.Decimal) (Rate, error) {
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(1)) {
		return Rate{}, fmt.Errorf("rate must be between 0 and 1, got %s", value)
	}
	return Rate{value: value}, nil
}

// NewRateFromString creates a Rate from its decimal string form ("0.20")
func NewRateFromString(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("invalid rate string: %w", err)
	}
	return NewRate(d)
}

// NewRateFromPercent creates a Rate from a percentage value (20 for 20%)
func NewRateFromPercent(percent decimal.Decimal) (Rate, error) {
	return NewRate(percent.Div(decimal.NewFromInt(100)))
}

// MustNewRate creates a Rate, panics on error
func MustNewRate(value decimal.Decimal) Rate {
	r, err := NewRate(value)
	if err != nil {
		panic(err)
	}
	return r
}

// ZeroRate returns a zero rate
func ZeroRate() Rate {
	return Rate{value: decimal.Zero}
}

// Fraction returns the rate as a fraction
func (r Rate) Fraction() decimal.Decimal {
	return r.value
}

// Percent returns the rate as a percentage value
func (r Rate) Percent() decimal.Decimal {
	return r.value.Mul(decimal.NewFromInt(100))
}

// IsZero returns true if the rate is zero
func (r Rate) IsZero() bool {
	return r.value.IsZero()
}

// Complement returns 1 - rate, the multiplier left after a discount
func (r Rate) Complement() decimal.Decimal {
	return decimal.NewFromInt(1).Sub(r.value)
}

// Equals returns true if both rates are equal
func (r Rate) Equals(other Rate) bool {
	return r.value.Equal(other.value)
}

// String returns the fraction form ("0.2")
func (r Rate) String() string {
	return r.value.String()
}

// MarshalJSON implements json.Marshaler
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.value.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Rate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := NewRateFromString(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (r Rate) Value() (driver.Value, error) {
	return r.value.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (r *Rate) Scan(value any) error {
	if value == nil {
		r.value = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	case int64:
		strVal = decimal.NewFromInt(v).String()
	case float64:
		strVal = decimal.NewFromFloat(v).String()
	default:
		return fmt.Errorf("cannot scan %T into Rate", value)
	}

	d, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	r.value = d
	return nil
}
