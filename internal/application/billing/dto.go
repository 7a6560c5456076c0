package billing

import (
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineRequest describes one document line to create. Product-backed lines
// name a product and snapshot its catalog data; manual lines carry their own
// designation, price, and tax rate.
type LineRequest struct {
	ProductID    *uuid.UUID       `json:"product_id"`
	Designation  string           `json:"designation"`
	UnitPriceHT  *decimal.Decimal `json:"unit_price_ht"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
	Quantity     decimal.Decimal  `json:"quantity"`
	DiscountRate decimal.Decimal  `json:"discount_rate"`
}

// CreateQuoteRequest is the input for creating a quote
type CreateQuoteRequest struct {
	ClientID   uuid.UUID     `json:"client_id"`
	IssueDate  *time.Time    `json:"issue_date"`
	ValidUntil *time.Time    `json:"valid_until"`
	Notes      string        `json:"notes"`
	Terms      string        `json:"terms"`
	Lines      []LineRequest `json:"lines"`
}

// UpdateQuoteRequest is the input for updating a draft quote
type UpdateQuoteRequest struct {
	ValidUntil *time.Time    `json:"valid_until"`
	Notes      *string       `json:"notes"`
	Terms      *string       `json:"terms"`
	Lines      []LineRequest `json:"lines"`
}

// CreateInvoiceRequest is the input for creating an invoice directly
type CreateInvoiceRequest struct {
	ClientID  uuid.UUID     `json:"client_id"`
	IssueDate *time.Time    `json:"issue_date"`
	DueDate   *time.Time    `json:"due_date"`
	Notes     string        `json:"notes"`
	Terms     string        `json:"terms"`
	Lines     []LineRequest `json:"lines"`
}

// UpdateInvoiceRequest is the input for updating a draft invoice
type UpdateInvoiceRequest struct {
	DueDate       *time.Time    `json:"due_date"`
	Notes         *string       `json:"notes"`
	InternalNotes *string       `json:"internal_notes"`
	Terms         *string       `json:"terms"`
	Lines         []LineRequest `json:"lines"`
}

// ConvertQuoteRequest carries the optional overrides for a conversion
type ConvertQuoteRequest struct {
	IssueDate *time.Time `json:"issue_date"`
	DueDate   *time.Time `json:"due_date"`
}

// RecordPaymentRequest is the input for applying a settlement
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
	PaidAt    *time.Time      `json:"paid_at"`
}

// ListFilter is the common list query for documents
type ListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
	ClientID *uuid.UUID
}

// LineResponse is the API view of a document line
type LineResponse struct {
	ID           uuid.UUID  `json:"id"`
	Position     int        `json:"position"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	Designation  string     `json:"designation"`
	UnitPriceHT  string     `json:"unit_price_ht"`
	TaxRate      string     `json:"tax_rate"`
	Quantity     string     `json:"quantity"`
	DiscountRate string     `json:"discount_rate"`
	TotalHT      string     `json:"total_ht"`
	TaxAmount    string     `json:"tax_amount"`
	TotalTTC     string     `json:"total_ttc"`
}

// PaymentResponse is the API view of a payment record
type PaymentResponse struct {
	ID        uuid.UUID `json:"id"`
	Amount    string    `json:"amount"`
	Method    string    `json:"method"`
	Reference string    `json:"reference,omitempty"`
	PaidAt    time.Time `json:"paid_at"`
}

// QuoteResponse is the API view of a quote
type QuoteResponse struct {
	ID                 uuid.UUID      `json:"id"`
	Number             string         `json:"number"`
	ClientID           uuid.UUID      `json:"client_id"`
	ClientName         string         `json:"client_name"`
	Status             string         `json:"status"`
	IssueDate          time.Time      `json:"issue_date"`
	ValidUntil         time.Time      `json:"valid_until"`
	Lines              []LineResponse `json:"lines"`
	TotalHT            string         `json:"total_ht"`
	TotalTVA           string         `json:"total_tva"`
	TotalTTC           string         `json:"total_ttc"`
	Notes              string         `json:"notes,omitempty"`
	Terms              string         `json:"terms,omitempty"`
	ConvertedInvoiceID *uuid.UUID     `json:"converted_invoice_id,omitempty"`
	Version            int            `json:"version"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// InvoiceResponse is the API view of an invoice
type InvoiceResponse struct {
	ID            uuid.UUID         `json:"id"`
	Number        string            `json:"number"`
	ClientID      uuid.UUID         `json:"client_id"`
	ClientName    string            `json:"client_name"`
	SourceQuoteID *uuid.UUID        `json:"source_quote_id,omitempty"`
	Status        string            `json:"status"`
	IssueDate     time.Time         `json:"issue_date"`
	DueDate       time.Time         `json:"due_date"`
	Lines         []LineResponse    `json:"lines"`
	TotalHT       string            `json:"total_ht"`
	TotalTVA      string            `json:"total_tva"`
	TotalTTC      string            `json:"total_ttc"`
	PaidAmount    string            `json:"paid_amount"`
	Outstanding   string            `json:"outstanding"`
	Payments      []PaymentResponse `json:"payments"`
	Notes         string            `json:"notes,omitempty"`
	InternalNotes string            `json:"internal_notes,omitempty"`
	Terms         string            `json:"terms,omitempty"`
	Version       int               `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func toLineResponse(position int, line billing.LineSnapshot, id uuid.UUID) LineResponse {
	return LineResponse{
		ID:           id,
		Position:     position,
		ProductID:    line.ProductID,
		Designation:  line.Designation,
		UnitPriceHT:  line.UnitPriceHT.StringFixed(2),
		TaxRate:      line.TaxRate.String(),
		Quantity:     line.Quantity.String(),
		DiscountRate: line.DiscountRate.String(),
		TotalHT:      line.TotalHT.StringFixed(2),
		TaxAmount:    line.TaxAmount.StringFixed(2),
		TotalTTC:     line.TotalTTC.StringFixed(2),
	}
}

// ToQuoteResponse maps a quote aggregate to its API view
func ToQuoteResponse(q *billing.Quote) QuoteResponse {
	lines := make([]LineResponse, len(q.Lines))
	for i, line := range q.Lines {
		lines[i] = toLineResponse(line.Position, line.LineSnapshot, line.ID)
	}
	return QuoteResponse{
		ID:                 q.ID,
		Number:             q.Number,
		ClientID:           q.ClientID,
		ClientName:         q.ClientName,
		Status:             q.Status.String(),
		IssueDate:          q.IssueDate,
		ValidUntil:         q.ValidUntil,
		Lines:              lines,
		TotalHT:            q.TotalHT.StringFixed(2),
		TotalTVA:           q.TotalTVA.StringFixed(2),
		TotalTTC:           q.TotalTTC.StringFixed(2),
		Notes:              q.Notes,
		Terms:              q.Terms,
		ConvertedInvoiceID: q.ConvertedInvoiceID,
		Version:            q.Version,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}

// ToInvoiceResponse maps an invoice aggregate to its API view
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	lines := make([]LineResponse, len(inv.Lines))
	for i, line := range inv.Lines {
		lines[i] = toLineResponse(line.Position, line.LineSnapshot, line.ID)
	}
	payments := make([]PaymentResponse, len(inv.Payments))
	for i, p := range inv.Payments {
		payments[i] = PaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount.StringFixed(2),
			Method:    string(p.Method),
			Reference: p.Reference,
			PaidAt:    p.PaidAt,
		}
	}
	return InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		ClientID:      inv.ClientID,
		ClientName:    inv.ClientName,
		SourceQuoteID: inv.SourceQuoteID,
		Status:        inv.Status.String(),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Lines:         lines,
		TotalHT:       inv.TotalHT.StringFixed(2),
		TotalTVA:      inv.TotalTVA.StringFixed(2),
		TotalTTC:      inv.TotalTTC.StringFixed(2),
		PaidAmount:    inv.PaidAmount.StringFixed(2),
		Outstanding:   inv.OutstandingAmount().StringFixed(2),
		Payments:      payments,
		Notes:         inv.Notes,
		InternalNotes: inv.InternalNotes,
		Terms:         inv.Terms,
		Version:       inv.Version,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

// toDomainFilter converts a ListFilter to the repository filter
func (f ListFilter) toDomainFilter() shared.Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}
	if f.OrderDir == "" {
		f.OrderDir = "desc"
	}
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  make(map[string]interface{}),
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.ClientID != nil {
		filter.Filters["client_id"] = *f.ClientID
	}
	return filter
}
