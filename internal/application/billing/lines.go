package billing

import (
	"context"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/catalog"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
)

// DocumentDefaults are the configurable date defaults for new documents
type DocumentDefaults struct {
	QuoteValidityDays int
	InvoiceDueDays    int
}

// buildSnapshots resolves line requests into frozen snapshots. Product-backed
// lines read the catalog once, at this moment; manual lines carry their own
// values.
func buildSnapshots(ctx context.Context, productRepo catalog.ProductRepository, requests []LineRequest) ([]billing.LineSnapshot, error) {
	snapshots := make([]billing.LineSnapshot, 0, len(requests))
	for _, req := range requests {
		discount, err := valueobject.NewRate(req.DiscountRate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Discount rate must be between 0 and 1")
		}

		if req.ProductID != nil {
			product, err := productRepo.FindByID(ctx, *req.ProductID)
			if err != nil {
				return nil, err
			}
			snapshot, err := billing.NewLineSnapshot(product, req.Quantity, discount)
			if err != nil {
				return nil, err
			}
			snapshots = append(snapshots, snapshot)
			continue
		}

		if req.UnitPriceHT == nil || req.TaxRate == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Manual lines require a unit price and a tax rate")
		}
		taxRate, err := valueobject.NewRate(*req.TaxRate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Tax rate must be between 0 and 1")
		}
		price, err := valueobject.NewMoney(*req.UnitPriceHT, valueobject.DefaultCurrency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid unit price")
		}
		snapshot, err := billing.NewManualLineSnapshot(req.Designation, price, taxRate, req.Quantity, discount)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}
