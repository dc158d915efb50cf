package domain

import "errors"

var (
	ErrInvalidPrice        = errors.New("Invalid price")
	ErrInvalidQuantity     = errors.New("Invalid quantity")
	ErrCapacityExceeded    = errors.New("Booked slots exceed capacity")
	ErrAccessDenied        = errors.New("Access denied")
	ErrNotFound            = errors.New("Listing not found")
	ErrValidationFailed    = errors.New("Validation failed")
	ErrConcurrencyConflict = errors.New("Listing was modified concurrently")
	ErrStorageUnavailable  = errors.New("Storage unavailable")
)

// Kind names the error taxonomy entry err belongs to, or "" for unclassified errors.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidPrice):
		return "InvalidPrice"
	case errors.Is(err, ErrInvalidQuantity):
		return "InvalidQuantity"
	case errors.Is(err, ErrCapacityExceeded):
		return "CapacityExceeded"
	case errors.Is(err, ErrAccessDenied):
		return "AccessDenied"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrValidationFailed):
		return "ValidationFailed"
	case errors.Is(err, ErrConcurrencyConflict):
		return "ConcurrencyConflict"
	case errors.Is(err, ErrStorageUnavailable):
		return "StorageUnavailable"
	default:
		return ""
	}
}
