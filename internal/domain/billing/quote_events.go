package billing

import (
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Quote event types
const (
	EventTypeQuoteCreated   = "billing.quote.created"
	EventTypeQuoteSent      = "billing.quote.sent"
	EventTypeQuoteAccepted  = "billing.quote.accepted"
	EventTypeQuoteRejected  = "billing.quote.rejected"
	EventTypeQuoteExpired   = "billing.quote.expired"
	EventTypeQuoteConverted = "billing.quote.converted"
)

// QuoteCreatedEvent is raised when a draft quote is created. The document
// number is not part of this event: it is only assigned when the quote is
// first persisted.
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID   uuid.UUID `json:"client_id"`
	ClientName string    `json:"client_name"`
}

// NewQuoteCreatedEvent creates a quote created event
func NewQuoteCreatedEvent(q *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, "Quote", q.ID),
		ClientID:        q.ClientID,
		ClientName:      q.ClientName,
	}
}

// QuoteSentEvent is raised when a quote is sent to the client
type QuoteSentEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewQuoteSentEvent creates a quote sent event
func NewQuoteSentEvent(q *Quote) *QuoteSentEvent {
	return &QuoteSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteSent, "Quote", q.ID),
		Number:          q.Number,
	}
}

// QuoteAcceptedEvent is raised when the client accepts the quote
type QuoteAcceptedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewQuoteAcceptedEvent creates a quote accepted event
func NewQuoteAcceptedEvent(q *Quote) *QuoteAcceptedEvent {
	return &QuoteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteAccepted, "Quote", q.ID),
		Number:          q.Number,
	}
}

// QuoteRejectedEvent is raised when the client refuses the quote
type QuoteRejectedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewQuoteRejectedEvent creates a quote rejected event
func NewQuoteRejectedEvent(q *Quote) *QuoteRejectedEvent {
	return &QuoteRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteRejected, "Quote", q.ID),
		Number:          q.Number,
	}
}

// QuoteExpiredEvent is raised when a sent quote passes its validity date
type QuoteExpiredEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewQuoteExpiredEvent creates a quote expired event
func NewQuoteExpiredEvent(q *Quote) *QuoteExpiredEvent {
	return &QuoteExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteExpired, "Quote", q.ID),
		Number:          q.Number,
	}
}

// QuoteConvertedEvent is raised when the quote is marked converted
type QuoteConvertedEvent struct {
	shared.BaseDomainEvent
	Number    string    `json:"number"`
	InvoiceID uuid.UUID `json:"invoice_id"`
}

// NewQuoteConvertedEvent creates a quote converted event
func NewQuoteConvertedEvent(q *Quote, invoiceID uuid.UUID) *QuoteConvertedEvent {
	return &QuoteConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteConverted, "Quote", q.ID),
		Number:          q.Number,
		InvoiceID:       invoiceID,
	}
}
