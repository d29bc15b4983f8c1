package booking

import "errors"

var (
	ErrNotFound          = errors.New("not_found")
	ErrForbidden         = errors.New("forbidden")
	ErrSlotUnavailable   = errors.New("slot_unavailable")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrNotCancellable    = errors.New("not_cancellable")
	ErrInvalidTransition = errors.New("invalid_status_transition")
)
