package billing

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ConversionService turns accepted quotes into draft invoices
type ConversionService struct {
	quoteRepo      billing.QuoteRepository
	invoiceRepo    billing.InvoiceRepository
	defaults       DocumentDefaults
	eventPublisher shared.EventPublisher
}

// NewConversionService creates a new ConversionService
func NewConversionService(quoteRepo billing.QuoteRepository, invoiceRepo billing.InvoiceRepository, defaults DocumentDefaults) *ConversionService {
	return &ConversionService{
		quoteRepo:   quoteRepo,
		invoiceRepo: invoiceRepo,
		defaults:    defaults,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ConversionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Convert builds a draft invoice from an accepted quote. The invoice copies
// the quote's frozen line snapshots with discounts cleared; the quote is then
// marked converted and keeps a reference to the invoice. Converting the same
// quote twice is refused by the quote's own state.
func (s *ConversionService) Convert(ctx context.Context, quoteID uuid.UUID, req ConvertQuoteRequest) (*InvoiceResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	issueDate := time.Now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}
	dueDate := issueDate.AddDate(0, 0, s.defaults.InvoiceDueDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	invoice, err := billing.ConvertQuoteToInvoice(quote, issueDate, dueDate)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	if err := quote.MarkConverted(invoice.ID); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, invoice.GetDomainEvents()...)
		_ = s.eventPublisher.Publish(ctx, quote.GetDomainEvents()...)
		invoice.ClearDomainEvents()
		quote.ClearDomainEvents()
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}
