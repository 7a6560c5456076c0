package billing

import (
	"github.com/facturio/backend/internal/domain/identity"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Invoice event types
const (
	EventTypeInvoiceCreated         = "billing.invoice.created"
	EventTypeInvoiceStatusChanged   = "billing.invoice.status_changed"
	EventTypeInvoicePaymentRecorded = "billing.invoice.payment_recorded"
	EventTypeInvoiceReopened        = "billing.invoice.reopened"
	EventTypeInvoiceConverted       = "billing.invoice.converted_from_quote"
)

// InvoiceCreatedEvent is raised when a draft invoice is created. The document
// number is not part of this event: it is only assigned when the invoice is
// first persisted.
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID   uuid.UUID `json:"client_id"`
	ClientName string    `json:"client_name"`
}

// NewInvoiceCreatedEvent creates an invoice created event
func NewInvoiceCreatedEvent(i *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, "Invoice", i.ID),
		ClientID:        i.ClientID,
		ClientName:      i.ClientName,
	}
}

// InvoiceStatusChangedEvent is raised on every accepted status transition
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	Number     string        `json:"number"`
	FromStatus InvoiceStatus `json:"from_status"`
	ToStatus   InvoiceStatus `json:"to_status"`
}

// NewInvoiceStatusChangedEvent creates a status changed event
func NewInvoiceStatusChangedEvent(i *Invoice, from InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, "Invoice", i.ID),
		Number:          i.Number,
		FromStatus:      from,
		ToStatus:        i.Status,
	}
}

// InvoicePaymentRecordedEvent is raised when a settlement is applied
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Number      string            `json:"number"`
	PaymentID   uuid.UUID         `json:"payment_id"`
	Amount      valueobject.Money `json:"amount"`
	PaidAmount  valueobject.Money `json:"paid_amount"`
	Status      InvoiceStatus     `json:"status"`
	Outstanding valueobject.Money `json:"outstanding"`
}

// NewInvoicePaymentRecordedEvent creates a payment recorded event
func NewInvoicePaymentRecordedEvent(i *Invoice, record PaymentRecord) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentRecorded, "Invoice", i.ID),
		Number:          i.Number,
		PaymentID:       record.ID,
		Amount:          record.Amount,
		PaidAmount:      i.PaidAmount,
		Status:          i.Status,
		Outstanding:     i.OutstandingAmount(),
	}
}

// InvoiceReopenedEvent is raised when a refunded invoice is returned to
// draft. The acting roles are kept for the audit trail.
type InvoiceReopenedEvent struct {
	shared.BaseDomainEvent
	Number     string        `json:"number"`
	FromStatus InvoiceStatus `json:"from_status"`
	ActorRoles []string      `json:"actor_roles"`
}

// NewInvoiceReopenedEvent creates a reopened event
func NewInvoiceReopenedEvent(i *Invoice, from InvoiceStatus, roles identity.RoleSet) *InvoiceReopenedEvent {
	return &InvoiceReopenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceReopened, "Invoice", i.ID),
		Number:          i.Number,
		FromStatus:      from,
		ActorRoles:      roles.Strings(),
	}
}

// InvoiceConvertedEvent is raised on the invoice produced by a quote
// conversion
type InvoiceConvertedEvent struct {
	shared.BaseDomainEvent
	QuoteID     uuid.UUID `json:"quote_id"`
	QuoteNumber string    `json:"quote_number"`
}

// NewInvoiceConvertedEvent creates a converted event
func NewInvoiceConvertedEvent(i *Invoice, quote *Quote) *InvoiceConvertedEvent {
	return &InvoiceConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceConverted, "Invoice", i.ID),
		QuoteID:         quote.ID,
		QuoteNumber:     quote.Number,
	}
}
