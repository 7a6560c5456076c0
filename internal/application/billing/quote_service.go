package billing

import (
	"context"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/catalog"
	"github.com/facturio/backend/internal/domain/partner"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// QuoteService handles quote business operations
type QuoteService struct {
	quoteRepo      billing.QuoteRepository
	clientRepo     partner.ClientRepository
	productRepo    catalog.ProductRepository
	defaults       DocumentDefaults
	eventPublisher shared.EventPublisher
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(quoteRepo billing.QuoteRepository, clientRepo partner.ClientRepository, productRepo catalog.ProductRepository, defaults DocumentDefaults) *QuoteService {
	return &QuoteService{
		quoteRepo:   quoteRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		defaults:    defaults,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *QuoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *QuoteService) publishEvents(ctx context.Context, quote *billing.Quote) {
	if s.eventPublisher == nil {
		return
	}
	// best effort: the state change is already committed
	_ = s.eventPublisher.Publish(ctx, quote.GetDomainEvents()...)
	quote.ClearDomainEvents()
}

// Create creates a new draft quote. The quote number is allocated from the
// quote sequence in the same transaction that inserts the quote.
func (s *QuoteService) Create(ctx context.Context, req CreateQuoteRequest) (*QuoteResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	issueDate := time.Now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}
	validUntil := issueDate.AddDate(0, 0, s.defaults.QuoteValidityDays)
	if req.ValidUntil != nil {
		validUntil = *req.ValidUntil
	}

	quote, err := billing.NewQuote(client.ID, client.DisplayName(), issueDate, validUntil)
	if err != nil {
		return nil, err
	}
	quote.Notes = req.Notes
	quote.Terms = req.Terms

	snapshots, err := buildSnapshots(ctx, s.productRepo, req.Lines)
	if err != nil {
		return nil, err
	}
	for _, snapshot := range snapshots {
		if err := quote.AddLine(snapshot); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quote)
	response := ToQuoteResponse(quote)
	return &response, nil
}

// GetByID retrieves a quote by ID
func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// GetByNumber retrieves a quote by document number
func (s *QuoteService) GetByNumber(ctx context.Context, number string) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// List retrieves quotes with filtering and pagination
func (s *QuoteService) List(ctx context.Context, filter ListFilter) (shared.Paginated[QuoteResponse], error) {
	domainFilter := filter.toDomainFilter()

	quotes, err := s.quoteRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[QuoteResponse]{}, err
	}
	total, err := s.quoteRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[QuoteResponse]{}, err
	}

	items := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		items[i] = ToQuoteResponse(&quotes[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// UpdateDraft updates a draft quote's lines and free-form fields
func (s *QuoteService) UpdateDraft(ctx context.Context, id uuid.UUID, req UpdateQuoteRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	notes := quote.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	terms := quote.Terms
	if req.Terms != nil {
		terms = *req.Terms
	}
	validUntil := quote.ValidUntil
	if req.ValidUntil != nil {
		validUntil = *req.ValidUntil
	}
	if err := quote.UpdateDetails(notes, terms, validUntil); err != nil {
		return nil, err
	}

	if req.Lines != nil {
		snapshots, err := buildSnapshots(ctx, s.productRepo, req.Lines)
		if err != nil {
			return nil, err
		}
		if err := quote.ReplaceLines(snapshots); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// Send marks a quote as sent
func (s *QuoteService) Send(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	return s.applyTransition(ctx, id, (*billing.Quote).Send)
}

// Accept records the client's acceptance
func (s *QuoteService) Accept(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	return s.applyTransition(ctx, id, (*billing.Quote).Accept)
}

// Reject records the client's refusal
func (s *QuoteService) Reject(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	return s.applyTransition(ctx, id, (*billing.Quote).Reject)
}

// Expire expires a sent quote explicitly
func (s *QuoteService) Expire(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	return s.applyTransition(ctx, id, (*billing.Quote).MarkExpired)
}

// ExpireDue expires the quote if its validity date has passed. A no-op
// otherwise.
func (s *QuoteService) ExpireDue(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.ExpireIfDue(time.Now()) {
		if err := s.quoteRepo.Save(ctx, quote); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, quote)
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// MarkConverted records the invoice produced from the quote. This is the
// explicit second step after a conversion.
func (s *QuoteService) MarkConverted(ctx context.Context, id, invoiceID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := quote.MarkConverted(invoiceID); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, quote)
	response := ToQuoteResponse(quote)
	return &response, nil
}

// DeleteDraft removes a quote that never left draft
func (s *QuoteService) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !quote.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft quotes can be deleted")
	}
	return s.quoteRepo.Delete(ctx, id)
}

func (s *QuoteService) applyTransition(ctx context.Context, id uuid.UUID, transition func(*billing.Quote) error) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := transition(quote); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, quote)
	response := ToQuoteResponse(quote)
	return &response, nil
}
