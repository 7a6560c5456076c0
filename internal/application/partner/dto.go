package partner

import (
	"time"

	"github.com/facturio/backend/internal/domain/partner"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AddressRequest is the postal address input
type AddressRequest struct {
	Street     string `json:"street"`
	Complement string `json:"complement"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// CreateClientRequest is the input for creating a client
type CreateClientRequest struct {
	LegalName   string          `json:"legal_name"`
	ContactName string          `json:"contact_name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Siren       string          `json:"siren"`
	VATNumber   string          `json:"vat_number"`
	Address     *AddressRequest `json:"address"`
	TaxSubject  *bool           `json:"tax_subject"`
}

// UpdateClientRequest is the input for updating a client
type UpdateClientRequest struct {
	LegalName   *string         `json:"legal_name"`
	ContactName *string         `json:"contact_name"`
	Email       *string         `json:"email"`
	Phone       *string         `json:"phone"`
	Siren       *string         `json:"siren"`
	VATNumber   *string         `json:"vat_number"`
	Address     *AddressRequest `json:"address"`
	TaxSubject  *bool           `json:"tax_subject"`
}

// ListFilter is the list query for clients
type ListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// AddressResponse is the API view of a postal address
type AddressResponse struct {
	Street     string `json:"street,omitempty"`
	Complement string `json:"complement,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
}

// ClientResponse is the API view of a client
type ClientResponse struct {
	ID          uuid.UUID       `json:"id"`
	LegalName   string          `json:"legal_name"`
	ContactName string          `json:"contact_name,omitempty"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Siren       string          `json:"siren,omitempty"`
	VATNumber   string          `json:"vat_number,omitempty"`
	Address     AddressResponse `json:"address"`
	TaxSubject  bool            `json:"tax_subject"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToClientResponse maps a client aggregate to its API view
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:          c.ID,
		LegalName:   c.LegalName,
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Siren:       c.Siren,
		VATNumber:   c.VATNumber,
		Address: AddressResponse{
			Street:     c.Address.Street(),
			Complement: c.Address.Complement(),
			PostalCode: c.Address.PostalCode(),
			City:       c.Address.City(),
			Country:    c.Address.Country(),
		},
		TaxSubject: c.TaxSubject,
		Version:    c.Version,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// toDomainFilter converts a ListFilter to the repository filter
func (f ListFilter) toDomainFilter() shared.Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.OrderBy == "" {
		f.OrderBy = "legal_name"
	}
	if f.OrderDir == "" {
		f.OrderDir = "asc"
	}
	return shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  make(map[string]interface{}),
	}
}
