package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrMaterialNotFound  = NewDomainError("MATERIAL_NOT_FOUND", "Material not found")
	ErrRequestNotFound   = NewDomainError("REQUEST_NOT_FOUND", "Material request not found")
	ErrSupplierNotFound  = NewDomainError("SUPPLIER_NOT_FOUND", "Supplier not found")
	ErrDuplicateCode     = NewDomainError("DUPLICATE_CODE", "A record with this code already exists")
	ErrHasDependents     = NewDomainError("HAS_DEPENDENTS", "Record is referenced by other records and cannot be deleted")
	ErrInvalidInput      = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrUnauthorized      = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
