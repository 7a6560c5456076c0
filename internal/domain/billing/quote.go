package billing

import (
	"strings"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// QuoteStatus represents the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusSent      QuoteStatus = "sent"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusExpired   QuoteStatus = "expired"
	QuoteStatusConverted QuoteStatus = "converted"
)

// IsValid checks if the status is a known quote status
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted,
		QuoteStatusRejected, QuoteStatusExpired, QuoteStatusConverted:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s QuoteStatus) String() string {
	return string(s)
}

// ValidTransitions returns the statuses reachable from this one
func (s QuoteStatus) ValidTransitions() []QuoteStatus {
	switch s {
	case QuoteStatusDraft:
		return []QuoteStatus{QuoteStatusSent}
	case QuoteStatusSent:
		return []QuoteStatus{QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired}
	case QuoteStatusAccepted:
		return []QuoteStatus{QuoteStatusConverted}
	default:
		return nil
	}
}

// CanTransitionTo checks if the status graph allows the given transition
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	for _, t := range s.ValidTransitions() {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s QuoteStatus) IsTerminal() bool {
	return len(s.ValidTransitions()) == 0
}

// QuoteLine is one line of a quote, owned by the quote
type QuoteLine struct {
	shared.BaseEntity
	QuoteID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Position     int       `gorm:"not null"`
	LineSnapshot `gorm:"embedded"`
}

// TableName returns the database table name
func (QuoteLine) TableName() string {
	return "quote_lines"
}

// Quote is a priced proposal sent to a client. Once it leaves draft its lines
// are frozen; acceptance makes it convertible into an invoice.
type Quote struct {
	shared.BaseAggregateRoot
	Number             string      `gorm:"type:varchar(32);not null;uniqueIndex"`
	ClientID           uuid.UUID   `gorm:"type:uuid;not null;index"`
	ClientName         string      `gorm:"type:varchar(255);not null"`
	Status             QuoteStatus `gorm:"type:varchar(16);not null;default:'draft'"`
	IssueDate          time.Time   `gorm:"not null"`
	ValidUntil         time.Time   `gorm:"not null"`
	Lines              []QuoteLine `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	TotalHT            valueobject.Money `gorm:"type:decimal(12,2);not null"`
	TotalTVA           valueobject.Money `gorm:"type:decimal(12,2);not null"`
	TotalTTC           valueobject.Money `gorm:"type:decimal(12,2);not null"`
	Notes              string     `gorm:"type:text"`
	Terms              string     `gorm:"type:text"`
	ConvertedInvoiceID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the database table name
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a new draft quote. The number is assigned from the quote
// sequence inside the transaction that first persists the document.
func NewQuote(clientID uuid.UUID, clientName string, issueDate, validUntil time.Time) (*Quote, error) {
	clientName = strings.TrimSpace(clientName)

	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Client is required")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Client name is required")
	}
	if validUntil.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Validity date cannot be before issue date")
	}

	quote := &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		ClientName:        clientName,
		Status:            QuoteStatusDraft,
		IssueDate:         issueDate,
		ValidUntil:        validUntil,
		Lines:             make([]QuoteLine, 0),
		TotalHT:           valueobject.ZeroEUR(),
		TotalTVA:          valueobject.ZeroEUR(),
		TotalTTC:          valueobject.ZeroEUR(),
	}

	quote.AddDomainEvent(NewQuoteCreatedEvent(quote))
	return quote, nil
}

// AssignNumber sets the document number allocated by the sequence. A number
// is assigned exactly once.
func (q *Quote) AssignNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return shared.NewDomainError("INVALID_INPUT", "Quote number is required")
	}
	if q.Number != "" {
		return shared.NewDomainError("INVALID_STATE", "Quote number is already assigned")
	}
	q.Number = number
	return nil
}

// CanModify returns true while lines and content may still change
func (q *Quote) CanModify() bool {
	return q.Status == QuoteStatusDraft
}

// IsDraft returns true if the quote is still a draft
func (q *Quote) IsDraft() bool {
	return q.Status == QuoteStatusDraft
}

// AddLine appends a snapshot line to a draft quote
func (q *Quote) AddLine(snapshot LineSnapshot) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a quote that is no longer draft")
	}
	q.Lines = append(q.Lines, QuoteLine{
		BaseEntity:   shared.NewBaseEntity(),
		QuoteID:      q.ID,
		Position:     len(q.Lines) + 1,
		LineSnapshot: snapshot,
	})
	q.recalculateTotals()
	return nil
}

// ReplaceLines swaps the full line set of a draft quote
func (q *Quote) ReplaceLines(snapshots []LineSnapshot) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a quote that is no longer draft")
	}
	lines := make([]QuoteLine, 0, len(snapshots))
	for i, s := range snapshots {
		lines = append(lines, QuoteLine{
			BaseEntity:   shared.NewBaseEntity(),
			QuoteID:      q.ID,
			Position:     i + 1,
			LineSnapshot: s,
		})
	}
	q.Lines = lines
	q.recalculateTotals()
	return nil
}

// RemoveLine removes a line from a draft quote
func (q *Quote) RemoveLine(lineID uuid.UUID) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a quote that is no longer draft")
	}
	for i, line := range q.Lines {
		if line.ID == lineID {
			q.Lines = append(q.Lines[:i], q.Lines[i+1:]...)
			for j := range q.Lines {
				q.Lines[j].Position = j + 1
			}
			q.recalculateTotals()
			return nil
		}
	}
	return shared.ErrNotFound
}

// UpdateDetails changes the free-form fields of a draft quote
func (q *Quote) UpdateDetails(notes, terms string, validUntil time.Time) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a quote that is no longer draft")
	}
	if validUntil.Before(q.IssueDate) {
		return shared.NewDomainError("INVALID_INPUT", "Validity date cannot be before issue date")
	}
	q.Notes = notes
	q.Terms = terms
	q.ValidUntil = validUntil
	return nil
}

// Snapshots returns the line snapshots in position order
func (q *Quote) Snapshots() []LineSnapshot {
	snapshots := make([]LineSnapshot, len(q.Lines))
	for i, line := range q.Lines {
		snapshots[i] = line.LineSnapshot
	}
	return snapshots
}

// Totals returns the current document totals
func (q *Quote) Totals() Totals {
	return Totals{HT: q.TotalHT, TVA: q.TotalTVA, TTC: q.TotalTTC}
}

func (q *Quote) recalculateTotals() {
	totals := ComputeTotals(q.Snapshots())
	q.TotalHT = totals.HT
	q.TotalTVA = totals.TVA
	q.TotalTTC = totals.TTC
}

// transitionTo applies a status change, rejecting edges outside the graph.
// The stored status is untouched when the transition is refused.
func (q *Quote) transitionTo(target QuoteStatus) error {
	if !q.Status.CanTransitionTo(target) {
		valid := q.Status.ValidTransitions()
		targets := make([]string, len(valid))
		for i, v := range valid {
			targets[i] = v.String()
		}
		return NewTransitionError(DocumentTypeQuote, q.Status.String(), target.String(), targets)
	}
	q.Status = target
	return nil
}

// Send marks the quote as sent to the client
func (q *Quote) Send() error {
	if len(q.Lines) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot send a quote without lines")
	}
	if err := q.transitionTo(QuoteStatusSent); err != nil {
		return err
	}
	q.AddDomainEvent(NewQuoteSentEvent(q))
	return nil
}

// Accept records the client's acceptance
func (q *Quote) Accept() error {
	if err := q.transitionTo(QuoteStatusAccepted); err != nil {
		return err
	}
	q.AddDomainEvent(NewQuoteAcceptedEvent(q))
	return nil
}

// Reject records the client's refusal
func (q *Quote) Reject() error {
	if err := q.transitionTo(QuoteStatusRejected); err != nil {
		return err
	}
	q.AddDomainEvent(NewQuoteRejectedEvent(q))
	return nil
}

// MarkExpired expires a sent quote regardless of its validity date
func (q *Quote) MarkExpired() error {
	if err := q.transitionTo(QuoteStatusExpired); err != nil {
		return err
	}
	q.AddDomainEvent(NewQuoteExpiredEvent(q))
	return nil
}

// ExpireIfDue expires the quote when its validity date has passed. Returns
// true if the status changed.
func (q *Quote) ExpireIfDue(now time.Time) bool {
	if q.Status != QuoteStatusSent || !now.After(q.ValidUntil) {
		return false
	}
	q.Status = QuoteStatusExpired
	q.AddDomainEvent(NewQuoteExpiredEvent(q))
	return true
}

// IsConvertible returns true when the quote may become an invoice
func (q *Quote) IsConvertible() bool {
	return q.Status == QuoteStatusAccepted
}

// MarkConverted records the invoice produced from this quote. Conversion
// itself never touches the quote; this is a separate, explicit step.
func (q *Quote) MarkConverted(invoiceID uuid.UUID) error {
	if err := q.transitionTo(QuoteStatusConverted); err != nil {
		return err
	}
	q.ConvertedInvoiceID = &invoiceID
	q.AddDomainEvent(NewQuoteConvertedEvent(q, invoiceID))
	return nil
}
