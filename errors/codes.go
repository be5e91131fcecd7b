package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Lookup errors
const (
	// ErrCodeNotFound indicates no entry is stored for a key.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeTypeMismatch indicates a stored entry does not hold the key's value type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
