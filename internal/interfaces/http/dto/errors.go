package dto

import "net/http"

// Error codes used by the HTTP layer itself. Domain errors carry their own
// codes (see the status map below).
const (
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeDuplicateRequest is used when an idempotency key is replayed
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
//
// Role-gate refusals (UNAUTHORIZED, FORBIDDEN) map to 403: the caller is
// authenticated but lacks the role. Missing or invalid credentials are
// rejected with 401 by the auth middleware before a handler runs.
var ErrorCodeHTTPStatus = map[string]int{
	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,
	"INVALID_INPUT":  http.StatusBadRequest,
	"UNAUTHORIZED":   http.StatusForbidden,
	"FORBIDDEN":      http.StatusForbidden,

	// State conflicts
	"INVALID_STATE":        http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"CLIENT_IN_USE":        http.StatusConflict,

	// Business rule violations
	"ILLEGAL_TRANSITION":  http.StatusUnprocessableEntity,
	"MISSING_SOURCE_DATA": http.StatusUnprocessableEntity,

	// The sequence allocator exhausted its retries; the request can be retried
	"NUMBER_GENERATION_FAILED": http.StatusServiceUnavailable,

	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeDuplicateRequest: http.StatusConflict,
	ErrCodeInternal:         http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
