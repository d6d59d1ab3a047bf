package dto

import "net/http"

// Error codes exposed on the wire. Domain error codes pass through unchanged;
// the transport layer adds only the codes for failures that never reach the
// domain.
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"

	// ErrCodeValidation mirrors shared.CodeValidation
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeNotFound mirrors shared.CodeNotFound
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists mirrors shared.CodeAlreadyExists
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeInvalidTransition mirrors shared.CodeInvalidTransition
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	// ErrCodeOverpayment mirrors shared.CodeOverpayment
	ErrCodeOverpayment = "OVERPAYMENT"
	// ErrCodeAmountMismatch mirrors shared.CodeAmountMismatch
	ErrCodeAmountMismatch = "AMOUNT_MISMATCH"
	// ErrCodeConcurrencyConflict mirrors shared.CodeConcurrencyConflict
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeNotFound: http.StatusNotFound,

	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,
	ErrCodeOverpayment:       http.StatusUnprocessableEntity,
	ErrCodeAmountMismatch:    http.StatusUnprocessableEntity,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
