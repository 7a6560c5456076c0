package catalog

import (
	"strings"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
)

// Product is a catalog entry. Documents never reference product pricing
// directly: line snapshots copy the designation, unit price, and tax rate at
// creation time, so later catalog changes leave existing documents untouched.
type Product struct {
	shared.BaseAggregateRoot
	Code        string            `gorm:"type:varchar(64);not null;uniqueIndex"`
	Designation string            `gorm:"type:varchar(255);not null"`
	Description string            `gorm:"type:text"`
	UnitPriceHT valueobject.Money `gorm:"type:decimal(12,2);not null"`
	TaxRate     valueobject.Rate  `gorm:"type:decimal(5,4);not null"`
	Active      bool              `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with validation
func NewProduct(code, designation string, unitPriceHT valueobject.Money, taxRate valueobject.Rate) (*Product, error) {
	code = strings.TrimSpace(code)
	designation = strings.TrimSpace(designation)

	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product code is required")
	}
	if len(code) > 64 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product code cannot exceed 64 characters")
	}
	if designation == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product designation is required")
	}
	if unitPriceHT.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Designation:       designation,
		UnitPriceHT:       unitPriceHT,
		TaxRate:           taxRate,
		Active:            true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))
	return product, nil
}

// UpdateDesignation changes the catalog designation. Existing document lines
// keep the designation they snapshotted.
func (p *Product) UpdateDesignation(designation string) error {
	designation = strings.TrimSpace(designation)
	if designation == "" {
		return shared.NewDomainError("INVALID_INPUT", "Product designation is required")
	}
	p.Designation = designation
	return nil
}

// UpdateDescription changes the free-form description
func (p *Product) UpdateDescription(description string) {
	p.Description = description
}

// ChangePrice updates the catalog price and tax rate going forward
func (p *Product) ChangePrice(unitPriceHT valueobject.Money, taxRate valueobject.Rate) error {
	if unitPriceHT.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}
	previous := p.UnitPriceHT
	p.UnitPriceHT = unitPriceHT
	p.TaxRate = taxRate
	p.AddDomainEvent(NewProductPriceChangedEvent(p, previous))
	return nil
}

// Deactivate removes the product from new documents without deleting it
func (p *Product) Deactivate() {
	p.Active = false
}

// Activate makes the product available again
func (p *Product) Activate() {
	p.Active = true
}
