package dto

import "net/http"

// Ledger error codes. Domain errors keep the code they were raised with.
const (
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeItemNotFound          = "ITEM_NOT_FOUND"
	ErrCodeBatchNotFound         = "BATCH_NOT_FOUND"
	ErrCodeInvalidTransition     = "INVALID_TRANSITION"
	ErrCodeInsufficientStock     = "INSUFFICIENT_STOCK"
	ErrCodeInvalidReturnQuantity = "INVALID_RETURN_QUANTITY"
	ErrCodeInvalidQuantity       = "INVALID_QUANTITY"
	ErrCodeInvalidState          = "INVALID_STATE"
	ErrCodeDuplicateReceiptBatch = "DUPLICATE_RECEIPT_BATCH"
	ErrCodeAlreadyExists         = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict   = "CONCURRENCY_CONFLICT"
)

// Request error codes
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeItemNotFound:  http.StatusNotFound,
	ErrCodeBatchNotFound: http.StatusNotFound,

	// Business rule violations -> 422 Unprocessable Entity
	ErrCodeInvalidTransition:     http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:     http.StatusUnprocessableEntity,
	ErrCodeInvalidReturnQuantity: http.StatusUnprocessableEntity,
	ErrCodeInvalidQuantity:       http.StatusUnprocessableEntity,
	ErrCodeInvalidState:          http.StatusUnprocessableEntity,

	ErrCodeDuplicateReceiptBatch: http.StatusConflict,
	ErrCodeAlreadyExists:         http.StatusConflict,
	ErrCodeConcurrencyConflict:   http.StatusConflict,
	ErrCodeDuplicateRequest:      http.StatusConflict,

	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,

	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
