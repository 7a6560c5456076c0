package billing

import (
	"github.com/facturio/backend/internal/domain/catalog"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineSnapshot holds the pricing data frozen onto a document line when it is
// created. The product reference is kept for traceability only: designation,
// unit price, and tax rate are copied, so later catalog changes never alter
// an existing line.
//
// Amounts are rounded half-up to 2 decimals at the line level. Document
// totals are plain sums of these rounded values.
type LineSnapshot struct {
	ProductID    *uuid.UUID        `gorm:"type:uuid;index"`
	Designation  string            `gorm:"type:varchar(255);not null"`
	UnitPriceHT  valueobject.Money `gorm:"type:decimal(12,2);not null"`
	TaxRate      valueobject.Rate  `gorm:"type:decimal(5,4);not null"`
	Quantity     decimal.Decimal   `gorm:"type:decimal(12,3);not null"`
	DiscountRate valueobject.Rate  `gorm:"type:decimal(5,4);not null"`
	TotalHT      valueobject.Money `gorm:"type:decimal(12,2);not null"`
	TaxAmount    valueobject.Money `gorm:"type:decimal(12,2);not null"`
	TotalTTC     valueobject.Money `gorm:"type:decimal(12,2);not null"`
}

// NewLineSnapshot freezes the product's current designation, unit price, and
// tax rate into a line snapshot. The product itself is not modified.
func NewLineSnapshot(product *catalog.Product, quantity decimal.Decimal, discount valueobject.Rate) (LineSnapshot, error) {
	if product == nil {
		return LineSnapshot{}, shared.NewDomainError("INVALID_INPUT", "Product is required")
	}
	if !product.Active {
		return LineSnapshot{}, shared.NewDomainError("INVALID_INPUT", "Product is not active")
	}
	productID := product.ID
	return newLineSnapshot(&productID, product.Designation, product.UnitPriceHT, product.TaxRate, quantity, discount)
}

// NewManualLineSnapshot creates a snapshot for a free-form line that has no
// catalog product behind it
func NewManualLineSnapshot(designation string, unitPriceHT valueobject.Money, taxRate valueobject.Rate, quantity decimal.Decimal, discount valueobject.Rate) (LineSnapshot, error) {
	return newLineSnapshot(nil, designation, unitPriceHT, taxRate, quantity, discount)
}

// CopyWithoutDiscount rebuilds a snapshot from this line's frozen values with
// the discount cleared. Amounts are recomputed from the snapshot, never from
// the catalog.
func (s LineSnapshot) CopyWithoutDiscount() (LineSnapshot, error) {
	return newLineSnapshot(s.ProductID, s.Designation, s.UnitPriceHT, s.TaxRate, s.Quantity, valueobject.ZeroRate())
}

func newLineSnapshot(productID *uuid.UUID, designation string, unitPriceHT valueobject.Money, taxRate valueobject.Rate, quantity decimal.Decimal, discount valueobject.Rate) (LineSnapshot, error) {
	if designation == "" {
		return LineSnapshot{}, shared.NewDomainError("INVALID_INPUT", "Line designation is required")
	}
	if unitPriceHT.IsNegative() {
		return LineSnapshot{}, shared.NewDomainError("INVALID_INPUT", "Unit price cannot be negative")
	}
	if !quantity.IsPositive() {
		return LineSnapshot{}, shared.NewDomainError("INVALID_INPUT", "Quantity must be positive")
	}

	line := LineSnapshot{
		ProductID:    productID,
		Designation:  designation,
		UnitPriceHT:  unitPriceHT,
		TaxRate:      taxRate,
		Quantity:     quantity,
		DiscountRate: discount,
	}
	line.compute()
	return line, nil
}

// compute derives the rounded amounts from the snapshot fields
func (s *LineSnapshot) compute() {
	gross := s.UnitPriceHT.Multiply(s.Quantity).Multiply(s.DiscountRate.Complement())
	s.TotalHT = gross.Round(2)
	s.TaxAmount = s.TotalHT.Multiply(s.TaxRate.Fraction()).Round(2)
	s.TotalTTC = s.TotalHT.MustAdd(s.TaxAmount)
}
