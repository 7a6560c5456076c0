package billing

import (
	"strings"
	"time"

	"github.com/facturio/backend/internal/domain/identity"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusIssued        InvoiceStatus = "issued"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
	InvoiceStatusRefunded      InvoiceStatus = "refunded"
)

// IsValid checks if the status is a known invoice status
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusIssued,
		InvoiceStatusPartiallyPaid, InvoiceStatusPaid,
		InvoiceStatusCancelled, InvoiceStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s InvoiceStatus) String() string {
	return string(s)
}

// ValidTransitions returns the statuses reachable from this one. The role
// gate is separate: an edge listed here may still require an elevated actor.
func (s InvoiceStatus) ValidTransitions() []InvoiceStatus {
	switch s {
	case InvoiceStatusDraft:
		return []InvoiceStatus{InvoiceStatusSent, InvoiceStatusIssued, InvoiceStatusCancelled}
	case InvoiceStatusSent:
		return []InvoiceStatus{InvoiceStatusIssued, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled}
	case InvoiceStatusIssued:
		return []InvoiceStatus{InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled}
	case InvoiceStatusPartiallyPaid:
		return []InvoiceStatus{InvoiceStatusPaid, InvoiceStatusCancelled}
	case InvoiceStatusPaid:
		return []InvoiceStatus{InvoiceStatusPartiallyPaid, InvoiceStatusRefunded}
	case InvoiceStatusRefunded:
		return []InvoiceStatus{InvoiceStatusDraft}
	default:
		return nil
	}
}

// CanTransitionTo checks if the status graph allows the given transition
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	for _, t := range s.ValidTransitions() {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s InvoiceStatus) IsTerminal() bool {
	return len(s.ValidTransitions()) == 0
}

// transitionRequiresElevation marks the edges reserved for elevated roles.
// Reopening a refunded invoice rewrites issued accounting data, so it is
// limited to administrators.
func transitionRequiresElevation(from, to InvoiceStatus) bool {
	return from == InvoiceStatusRefunded && to == InvoiceStatusDraft
}

// CanTransitionInvoice checks both the status graph and the role gate for an
// invoice transition. The two checks are independent: a graph-legal edge can
// still be refused for lack of elevation.
func CanTransitionInvoice(from, to InvoiceStatus, roles identity.RoleSet) bool {
	if !from.CanTransitionTo(to) {
		return false
	}
	if transitionRequiresElevation(from, to) && !roles.HasElevated() {
		return false
	}
	return true
}

// InvoiceLine is one line of an invoice, owned by the invoice
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Position     int       `gorm:"not null"`
	LineSnapshot `gorm:"embedded"`
}

// TableName returns the database table name
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// Invoice is a billable document. Its lines carry frozen snapshots; payments
// drive the partially_paid and paid states.
type Invoice struct {
	shared.BaseAggregateRoot
	Number        string        `gorm:"type:varchar(32);not null;uniqueIndex"`
	ClientID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	ClientName    string        `gorm:"type:varchar(255);not null"`
	SourceQuoteID *uuid.UUID    `gorm:"type:uuid"`
	Status        InvoiceStatus `gorm:"type:varchar(16);not null;default:'draft'"`
	IssueDate     time.Time     `gorm:"not null"`
	DueDate       time.Time     `gorm:"not null"`
	Lines         []InvoiceLine `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	TotalHT       valueobject.Money `gorm:"type:decimal(12,2);not null"`
	TotalTVA      valueobject.Money `gorm:"type:decimal(12,2);not null"`
	TotalTTC      valueobject.Money `gorm:"type:decimal(12,2);not null"`
	PaidAmount    valueobject.Money `gorm:"type:decimal(12,2);not null"`
	Payments      PaymentRecords    `gorm:"type:jsonb"`
	Notes         string `gorm:"type:text"`
	InternalNotes string `gorm:"type:text"`
	Terms         string `gorm:"type:text"`
}

// TableName returns the database table name
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new draft invoice. The number is assigned from the
// invoice sequence inside the transaction that first persists the document.
func NewInvoice(clientID uuid.UUID, clientName string, issueDate, dueDate time.Time) (*Invoice, error) {
	clientName = strings.TrimSpace(clientName)

	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Client is required")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Client name is required")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Due date cannot be before issue date")
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		ClientName:        clientName,
		Status:            InvoiceStatusDraft,
		IssueDate:         issueDate,
		DueDate:           dueDate,
		Lines:             make([]InvoiceLine, 0),
		TotalHT:           valueobject.ZeroEUR(),
		TotalTVA:          valueobject.ZeroEUR(),
		TotalTTC:          valueobject.ZeroEUR(),
		PaidAmount:        valueobject.ZeroEUR(),
		Payments:          PaymentRecords{},
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))
	return invoice, nil
}

// AssignNumber sets the document number allocated by the sequence. A number
// is assigned exactly once.
func (i *Invoice) AssignNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return shared.NewDomainError("INVALID_INPUT", "Invoice number is required")
	}
	if i.Number != "" {
		return shared.NewDomainError("INVALID_STATE", "Invoice number is already assigned")
	}
	i.Number = number
	return nil
}

// CanModify returns true while lines and content may still change
func (i *Invoice) CanModify() bool {
	return i.Status == InvoiceStatusDraft
}

// IsDraft returns true if the invoice is still a draft
func (i *Invoice) IsDraft() bool {
	return i.Status == InvoiceStatusDraft
}

// AddLine appends a snapshot line to a draft invoice
func (i *Invoice) AddLine(snapshot LineSnapshot) error {
	if !i.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify an invoice that is no longer draft")
	}
	i.Lines = append(i.Lines, InvoiceLine{
		BaseEntity:   shared.NewBaseEntity(),
		InvoiceID:    i.ID,
		Position:     len(i.Lines) + 1,
		LineSnapshot: snapshot,
	})
	i.recalculateTotals()
	return nil
}

// ReplaceLines swaps the full line set of a draft invoice
func (i *Invoice) ReplaceLines(snapshots []LineSnapshot) error {
	if !i.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify an invoice that is no longer draft")
	}
	lines := make([]InvoiceLine, 0, len(snapshots))
	for pos, s := range snapshots {
		lines = append(lines, InvoiceLine{
			BaseEntity:   shared.NewBaseEntity(),
			InvoiceID:    i.ID,
			Position:     pos + 1,
			LineSnapshot: s,
		})
	}
	i.Lines = lines
	i.recalculateTotals()
	return nil
}

// RemoveLine removes a line from a draft invoice
func (i *Invoice) RemoveLine(lineID uuid.UUID) error {
	if !i.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify an invoice that is no longer draft")
	}
	for idx, line := range i.Lines {
		if line.ID == lineID {
			i.Lines = append(i.Lines[:idx], i.Lines[idx+1:]...)
			for j := range i.Lines {
				i.Lines[j].Position = j + 1
			}
			i.recalculateTotals()
			return nil
		}
	}
	return shared.ErrNotFound
}

// UpdateDetails changes the free-form fields of a draft invoice
func (i *Invoice) UpdateDetails(notes, internalNotes, terms string, dueDate time.Time) error {
	if !i.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify an invoice that is no longer draft")
	}
	if dueDate.Before(i.IssueDate) {
		return shared.NewDomainError("INVALID_INPUT", "Due date cannot be before issue date")
	}
	i.Notes = notes
	i.InternalNotes = internalNotes
	i.Terms = terms
	i.DueDate = dueDate
	return nil
}

// Snapshots returns the line snapshots in position order
func (i *Invoice) Snapshots() []LineSnapshot {
	snapshots := make([]LineSnapshot, len(i.Lines))
	for idx, line := range i.Lines {
		snapshots[idx] = line.LineSnapshot
	}
	return snapshots
}

// Totals returns the current document totals
func (i *Invoice) Totals() Totals {
	return Totals{HT: i.TotalHT, TVA: i.TotalTVA, TTC: i.TotalTTC}
}

func (i *Invoice) recalculateTotals() {
	totals := ComputeTotals(i.Snapshots())
	i.TotalHT = totals.HT
	i.TotalTVA = totals.TVA
	i.TotalTTC = totals.TTC
}

// CanTransition checks whether the given actor may move this invoice to the
// target status
func (i *Invoice) CanTransition(target InvoiceStatus, roles identity.RoleSet) bool {
	return CanTransitionInvoice(i.Status, target, roles)
}

// Transition applies a status change. The state graph is checked first and
// yields a TransitionError; the role gate is checked second and yields an
// UNAUTHORIZED error. On any refusal the stored status is untouched.
func (i *Invoice) Transition(target InvoiceStatus, roles identity.RoleSet) error {
	if !i.Status.CanTransitionTo(target) {
		valid := i.Status.ValidTransitions()
		targets := make([]string, len(valid))
		for idx, v := range valid {
			targets[idx] = v.String()
		}
		return NewTransitionError(DocumentTypeInvoice, i.Status.String(), target.String(), targets)
	}
	if transitionRequiresElevation(i.Status, target) && !roles.HasElevated() {
		return shared.ErrUnauthorized
	}
	i.Status = target
	return nil
}

// Send marks the invoice as sent to the client
func (i *Invoice) Send(roles identity.RoleSet) error {
	if len(i.Lines) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot send an invoice without lines")
	}
	if err := i.Transition(InvoiceStatusSent, roles); err != nil {
		return err
	}
	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, InvoiceStatusDraft))
	return nil
}

// Issue finalizes the invoice for accounting purposes
func (i *Invoice) Issue(roles identity.RoleSet) error {
	if len(i.Lines) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot issue an invoice without lines")
	}
	previous := i.Status
	if err := i.Transition(InvoiceStatusIssued, roles); err != nil {
		return err
	}
	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, previous))
	return nil
}

// Cancel voids the invoice before settlement
func (i *Invoice) Cancel(roles identity.RoleSet) error {
	previous := i.Status
	if err := i.Transition(InvoiceStatusCancelled, roles); err != nil {
		return err
	}
	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, previous))
	return nil
}

// Refund marks a paid invoice as refunded
func (i *Invoice) Refund(roles identity.RoleSet) error {
	previous := i.Status
	if err := i.Transition(InvoiceStatusRefunded, roles); err != nil {
		return err
	}
	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, previous))
	return nil
}

// Reopen returns a refunded invoice to draft for correction. Requires an
// elevated role; payment history is kept but the paid amount is cleared.
func (i *Invoice) Reopen(roles identity.RoleSet) error {
	previous := i.Status
	if err := i.Transition(InvoiceStatusDraft, roles); err != nil {
		return err
	}
	i.PaidAmount = valueobject.ZeroEUR()
	i.AddDomainEvent(NewInvoiceReopenedEvent(i, previous, roles))
	return nil
}

// OutstandingAmount returns the remaining amount due
func (i *Invoice) OutstandingAmount() valueobject.Money {
	return i.TotalTTC.MustSubtract(i.PaidAmount)
}

// RecordPayment applies a settlement and moves the invoice to partially_paid
// or paid depending on the outstanding amount
func (i *Invoice) RecordPayment(amount valueobject.Money, method PaymentMethod, reference string, paidAt time.Time, roles identity.RoleSet) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown payment method")
	}

	newPaid, err := i.PaidAmount.Add(amount)
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", "Payment currency does not match invoice currency")
	}
	covered, err := newPaid.GreaterThanOrEqual(i.TotalTTC)
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", "Payment currency does not match invoice currency")
	}

	target := InvoiceStatusPartiallyPaid
	if covered {
		target = InvoiceStatusPaid
	}
	// a further partial payment keeps the status as is
	if target != i.Status {
		if err := i.Transition(target, roles); err != nil {
			return err
		}
	}

	i.PaidAmount = newPaid
	record := PaymentRecord{
		ID:        uuid.New(),
		Amount:    amount,
		Method:    method,
		Reference: reference,
		PaidAt:    paidAt,
	}
	i.Payments = append(i.Payments, record)
	i.AddDomainEvent(NewInvoicePaymentRecordedEvent(i, record))
	return nil
}
