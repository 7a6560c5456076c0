package billing

import (
	"github.com/facturio/backend/internal/domain/shared"
)

// DocumentType identifies a numbered document series. Each type draws from
// its own sequence.
type DocumentType string

const (
	DocumentTypeQuote   DocumentType = "quote"
	DocumentTypeInvoice DocumentType = "invoice"
)

// IsValid checks if the document type is known
func (t DocumentType) IsValid() bool {
	return t == DocumentTypeQuote || t == DocumentTypeInvoice
}

// String returns the string representation
func (t DocumentType) String() string {
	return string(t)
}

// Billing error codes
const (
	ErrCodeNumberGenerationFailed = "NUMBER_GENERATION_FAILED"
	ErrCodeIllegalTransition      = "ILLEGAL_TRANSITION"
	ErrCodeMissingSourceData      = "MISSING_SOURCE_DATA"
)

// Billing errors
var (
	ErrNumberGenerationFailed = shared.NewDomainError(ErrCodeNumberGenerationFailed, "Could not allocate a document number")
	ErrMissingSourceData      = shared.NewDomainError(ErrCodeMissingSourceData, "Source document lines could not be loaded")
)
