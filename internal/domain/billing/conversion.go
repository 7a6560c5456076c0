package billing

import (
	"time"

	"github.com/facturio/backend/internal/domain/shared"
)

// ConvertQuoteToInvoice builds a draft invoice from an accepted quote. Lines
// are copied from the quote's frozen snapshots with discounts cleared, so the
// invoice amounts derive from what was quoted, never from the current
// catalog. The quote itself is not modified; the invoice number is assigned
// when the invoice is persisted, in the same transaction.
func ConvertQuoteToInvoice(quote *Quote, issueDate, dueDate time.Time) (*Invoice, error) {
	if quote == nil {
		return nil, shared.ErrNotFound
	}
	if !quote.IsConvertible() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only accepted quotes can be converted to invoices")
	}
	if len(quote.Lines) == 0 {
		return nil, ErrMissingSourceData
	}

	invoice, err := NewInvoice(quote.ClientID, quote.ClientName, issueDate, dueDate)
	if err != nil {
		return nil, err
	}
	quoteID := quote.ID
	invoice.SourceQuoteID = &quoteID
	invoice.Notes = quote.Notes
	invoice.Terms = quote.Terms

	for _, snapshot := range quote.Snapshots() {
		copied, err := snapshot.CopyWithoutDiscount()
		if err != nil {
			return nil, err
		}
		if err := invoice.AddLine(copied); err != nil {
			return nil, err
		}
	}

	invoice.AddDomainEvent(NewInvoiceConvertedEvent(invoice, quote))
	return invoice, nil
}
