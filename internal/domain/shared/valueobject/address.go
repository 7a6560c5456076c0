package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a postal address.
// It is immutable - all operations return new Address instances.
type Address struct {
	street     string
	complement string
	postalCode string
	city       string
	country    string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithComplement sets the second address line (building, suite)
func WithComplement(complement string) AddressOption {
	return func(a *Address) {
		a.complement = strings.TrimSpace(complement)
	}
}

// WithCountry sets the country for the address
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.TrimSpace(country)
	}
}

// NewAddress creates a new Address. Street, postal code, and city are
// required; complement and country are optional (country defaults to France).
func NewAddress(street, postalCode, city string, opts ...AddressOption) (Address, error) {
	street = strings.TrimSpace(street)
	postalCode = strings.TrimSpace(postalCode)
	city = strings.TrimSpace(city)

	if street == "" {
		return Address{}, fmt.Errorf("street cannot be empty")
	}
	if len(street) > 200 {
		return Address{}, fmt.Errorf("street cannot exceed 200 characters")
	}
	if postalCode == "" {
		return Address{}, fmt.Errorf("postal code cannot be empty")
	}
	if len(postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}

	addr := Address{
		street:     street,
		postalCode: postalCode,
		city:       city,
		country:    "France",
	}

	for _, opt := range opts {
		opt(&addr)
	}

	if len(addr.country) > 100 {
		return Address{}, fmt.Errorf("country cannot exceed 100 characters")
	}
	if len(addr.complement) > 200 {
		return Address{}, fmt.Errorf("complement cannot exceed 200 characters")
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(street, postalCode, city string, opts ...AddressOption) Address {
	addr, err := NewAddress(street, postalCode, city, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// Complement returns the second address line
func (a Address) Complement() string {
	return a.complement
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address is empty (all fields are blank)
func (a Address) IsEmpty() bool {
	return a.street == "" && a.postalCode == "" && a.city == ""
}

// FullAddress returns the complete formatted address string
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, 4)
	if a.street != "" {
		parts = append(parts, a.street)
	}
	if a.complement != "" {
		parts = append(parts, a.complement)
	}
	if a.postalCode != "" || a.city != "" {
		parts = append(parts, strings.TrimSpace(a.postalCode+" "+a.city))
	}
	if a.country != "" {
		parts = append(parts, a.country)
	}
	return strings.Join(parts, ", ")
}

// String returns a string representation of the address
func (a Address) String() string {
	return a.FullAddress()
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a.street == other.street &&
		a.complement == other.complement &&
		a.postalCode == other.postalCode &&
		a.city == other.city &&
		a.country == other.country
}

// addressJSON is used for JSON marshaling/unmarshaling
type addressJSON struct {
	Street     string `json:"street"`
	Complement string `json:"complement,omitempty"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `json:"country,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:     a.street,
		Complement: a.complement,
		PostalCode: a.postalCode,
		City:       a.city,
		Country:    a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler, delegating to the factory so
// validation rules apply consistently
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	if v.Street == "" && v.PostalCode == "" && v.City == "" {
		*a = EmptyAddress()
		return nil
	}

	addr, err := NewAddress(v.Street, v.PostalCode, v.City,
		WithComplement(v.Complement), WithCountry(v.Country))
	if err != nil {
		return err
	}
	if v.Country == "" {
		addr.country = ""
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer for database storage, stored as JSON
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}

	return json.Unmarshal(data, a)
}
