package catalog

import (
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
)

// Event types
const (
	EventTypeProductCreated      = "catalog.product.created"
	EventTypeProductPriceChanged = "catalog.product.price_changed"
)

// ProductCreatedEvent is raised when a product enters the catalog
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Code        string `json:"code"`
	Designation string `json:"designation"`
}

// NewProductCreatedEvent creates a product created event
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", p.ID),
		Code:            p.Code,
		Designation:     p.Designation,
	}
}

// ProductPriceChangedEvent is raised when the catalog price changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	Code          string            `json:"code"`
	PreviousPrice valueobject.Money `json:"previous_price"`
	NewPrice      valueobject.Money `json:"new_price"`
}

// NewProductPriceChangedEvent creates a price changed event
func NewProductPriceChangedEvent(p *Product, previous valueobject.Money) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, "Product", p.ID),
		Code:            p.Code,
		PreviousPrice:   previous,
		NewPrice:        p.UnitPriceHT,
	}
}
