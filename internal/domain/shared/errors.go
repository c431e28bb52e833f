package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so a specific error built
// with Errorf still matches its sentinel through errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a domain error with the code of base and a formatted message.
func Errorf(base *DomainError, format string, args ...any) *DomainError {
	return &DomainError{
		Code:    base.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Ledger errors. All of them are recoverable: a command that fails with one of
// these leaves inventory, documents and the audit log untouched.
var (
	ErrInvalidTransition     = NewDomainError("INVALID_TRANSITION", "Transition not allowed from the current status")
	ErrBatchNotFound         = NewDomainError("BATCH_NOT_FOUND", "Stock batch not found")
	ErrItemNotFound          = NewDomainError("ITEM_NOT_FOUND", "Inventory item not found")
	ErrInsufficientStock     = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInvalidReturnQuantity = NewDomainError("INVALID_RETURN_QUANTITY", "Invalid return quantity")
	ErrDuplicateReceiptBatch = NewDomainError("DUPLICATE_RECEIPT_BATCH", "Goods receipt has already been merged")
	ErrInvalidQuantity       = NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
)
