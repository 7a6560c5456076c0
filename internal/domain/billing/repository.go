package billing

import (
	"context"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NumberGenerator allocates collision-free document numbers. Implementations
// must serialize concurrent calls per document type so two documents can
// never share a number.
type NumberGenerator interface {
	NextNumber(ctx context.Context, docType DocumentType) (string, error)
}

// QuoteRepository defines the persistence interface for quotes
type QuoteRepository interface {
	// Create allocates a number from the quote sequence and inserts the
	// quote with its lines in one transaction
	Create(ctx context.Context, quote *Quote) error
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	FindByNumber(ctx context.Context, number string) (*Quote, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Quote, error)
	Save(ctx context.Context, quote *Quote) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
}

// InvoiceRepository defines the persistence interface for invoices
type InvoiceRepository interface {
	// Create allocates a number from the invoice sequence and inserts the
	// invoice with its lines in one transaction
	Create(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
}
