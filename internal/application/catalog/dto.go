package catalog

import (
	"time"

	"github.com/facturio/backend/internal/domain/catalog"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the input for creating a product
type CreateProductRequest struct {
	Code        string          `json:"code"`
	Designation string          `json:"designation"`
	Description string          `json:"description"`
	UnitPriceHT decimal.Decimal `json:"unit_price_ht"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// UpdateProductRequest is the input for updating a product
type UpdateProductRequest struct {
	Designation *string          `json:"designation"`
	Description *string          `json:"description"`
	UnitPriceHT *decimal.Decimal `json:"unit_price_ht"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

// ListFilter is the list query for products
type ListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Active   *bool
}

// ProductResponse is the API view of a product
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Designation string    `json:"designation"`
	Description string    `json:"description,omitempty"`
	UnitPriceHT string    `json:"unit_price_ht"`
	TaxRate     string    `json:"tax_rate"`
	Active      bool      `json:"active"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse maps a product aggregate to its API view
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Designation: p.Designation,
		Description: p.Description,
		UnitPriceHT: p.UnitPriceHT.StringFixed(2),
		TaxRate:     p.TaxRate.String(),
		Active:      p.Active,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
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
		f.OrderBy = "code"
	}
	if f.OrderDir == "" {
		f.OrderDir = "asc"
	}
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  make(map[string]interface{}),
	}
	if f.Active != nil {
		filter.Filters["active"] = *f.Active
	}
	return filter
}
