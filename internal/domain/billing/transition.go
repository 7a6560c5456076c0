package billing

import (
	"fmt"
	"strings"

	"github.com/facturio/backend/internal/domain/shared"
)

// TransitionError reports a status change rejected by the document state
// graph. It carries the transitions that would have been legal so callers can
// surface them.
type TransitionError struct {
	DocumentType DocumentType
	From         string
	To           string
	ValidTargets []string
	inner        *shared.DomainError
}

// NewTransitionError creates a transition error for the given edge
func NewTransitionError(docType DocumentType, from, to string, validTargets []string) *TransitionError {
	msg := fmt.Sprintf("Cannot transition %s from %s to %s", docType, from, to)
	if len(validTargets) > 0 {
		msg += fmt.Sprintf(" (valid: %s)", strings.Join(validTargets, ", "))
	}
	return &TransitionError{
		DocumentType: docType,
		From:         from,
		To:           to,
		ValidTargets: validTargets,
		inner:        shared.NewDomainError(ErrCodeIllegalTransition, msg),
	}
}

// Error implements the error interface
func (e *TransitionError) Error() string {
	return e.inner.Message
}

// Unwrap exposes the underlying domain error so errors.As can map it to the
// ILLEGAL_TRANSITION code
func (e *TransitionError) Unwrap() error {
	return e.inner
}
