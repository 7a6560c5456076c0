package billing

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/catalog"
	"github.com/facturio/backend/internal/domain/identity"
	"github.com/facturio/backend/internal/domain/partner"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	clientRepo     partner.ClientRepository
	productRepo    catalog.ProductRepository
	defaults       DocumentDefaults
	eventPublisher shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, clientRepo partner.ClientRepository, productRepo catalog.ProductRepository, defaults DocumentDefaults) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		defaults:    defaults,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InvoiceService) publishEvents(ctx context.Context, invoice *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, invoice.GetDomainEvents()...)
	invoice.ClearDomainEvents()
}

// Create creates a new draft invoice. The invoice number is allocated from
// the invoice sequence in the same transaction that inserts the invoice.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
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

	invoice, err := billing.NewInvoice(client.ID, client.DisplayName(), issueDate, dueDate)
	if err != nil {
		return nil, err
	}
	invoice.Notes = req.Notes
	invoice.Terms = req.Terms

	snapshots, err := buildSnapshots(ctx, s.productRepo, req.Lines)
	if err != nil {
		return nil, err
	}
	for _, snapshot := range snapshots {
		if err := invoice.AddLine(snapshot); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByNumber retrieves an invoice by document number
func (s *InvoiceService) GetByNumber(ctx context.Context, number string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, filter ListFilter) (shared.Paginated[InvoiceResponse], error) {
	domainFilter := filter.toDomainFilter()

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[InvoiceResponse]{}, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[InvoiceResponse]{}, err
	}

	items := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		items[i] = ToInvoiceResponse(&invoices[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// UpdateDraft updates a draft invoice's lines and free-form fields
func (s *InvoiceService) UpdateDraft(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	notes := invoice.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	internalNotes := invoice.InternalNotes
	if req.InternalNotes != nil {
		internalNotes = *req.InternalNotes
	}
	terms := invoice.Terms
	if req.Terms != nil {
		terms = *req.Terms
	}
	dueDate := invoice.DueDate
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}
	if err := invoice.UpdateDetails(notes, internalNotes, terms, dueDate); err != nil {
		return nil, err
	}

	if req.Lines != nil {
		snapshots, err := buildSnapshots(ctx, s.productRepo, req.Lines)
		if err != nil {
			return nil, err
		}
		if err := invoice.ReplaceLines(snapshots); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Send marks the invoice as sent to the client
func (s *InvoiceService) Send(ctx context.Context, id uuid.UUID, roles identity.RoleSet) (*InvoiceResponse, error) {
	return s.applyTransition(ctx, id, roles, (*billing.Invoice).Send)
}

// Issue finalizes the invoice for accounting purposes
func (s *InvoiceService) Issue(ctx context.Context, id uuid.UUID, roles identity.RoleSet) (*InvoiceResponse, error) {
	return s.applyTransition(ctx, id, roles, (*billing.Invoice).Issue)
}

// Cancel voids the invoice before settlement
func (s *InvoiceService) Cancel(ctx context.Context, id uuid.UUID, roles identity.RoleSet) (*InvoiceResponse, error) {
	return s.applyTransition(ctx, id, roles, (*billing.Invoice).Cancel)
}

// Refund marks a paid invoice as refunded
func (s *InvoiceService) Refund(ctx context.Context, id uuid.UUID, roles identity.RoleSet) (*InvoiceResponse, error) {
	return s.applyTransition(ctx, id, roles, (*billing.Invoice).Refund)
}

// Reopen returns a refunded invoice to draft. Reserved for elevated roles.
func (s *InvoiceService) Reopen(ctx context.Context, id uuid.UUID, roles identity.RoleSet) (*InvoiceResponse, error) {
	return s.applyTransition(ctx, id, roles, (*billing.Invoice).Reopen)
}

// RecordPayment applies a settlement to the invoice
func (s *InvoiceService) RecordPayment(ctx context.Context, id uuid.UUID, req RecordPaymentRequest, roles identity.RoleSet) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoney(req.Amount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid payment amount")
	}
	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	if err := invoice.RecordPayment(amount, billing.PaymentMethod(req.Method), req.Reference, paidAt, roles); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// DeleteDraft removes an invoice that never left draft
func (s *InvoiceService) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !invoice.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, id)
}

func (s *InvoiceService) applyTransition(ctx context.Context, id uuid.UUID, roles identity.RoleSet, transition func(*billing.Invoice, identity.RoleSet) error) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := transition(invoice, roles); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)
	response := ToInvoiceResponse(invoice)
	return &response, nil
}
