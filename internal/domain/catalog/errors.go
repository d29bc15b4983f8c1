package catalog

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrSlotBooked       = errors.New("slot is booked")
	ErrInvalidReference = errors.New("specialist or service does not belong to the salon")
)
