package domain

import "errors"

var (
	ErrItemNotFound        = errors.New("item not found")
	ErrCheckoutNotFound    = errors.New("checkout not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidWindow       = errors.New("invalid time window")
	ErrAlreadyClosed       = errors.New("already closed")
	ErrForbidden           = errors.New("forbidden")
	ErrHolderRequired      = errors.New("holder id required")
	ErrItemNameRequired    = errors.New("item name required")
	ErrInvalidStock        = errors.New("invalid stock")
	ErrInvalidID           = errors.New("invalid id")
	// ErrConcurrencyConflict is an internal retry signal; callers of the
	// booking services never see it.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrUnavailable         = errors.New("temporarily unavailable")
)

// InsufficientStockError names the first item that failed admission so
// clients can tell which item lacks capacity.
type InsufficientStockError struct {
	ItemID string
}

func (e *InsufficientStockError) Error() string {
	return "insufficient stock for item " + e.ItemID
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
