package booking

import (
	"context"
	"time"

	"beautybook/internal/domain"
	"beautybook/internal/domain/notification"
)

// ListFilter narrows the admin listing. Zero values mean "any".
type ListFilter struct {
	Status  domain.BookingStatus
	SalonID int64
	UserID  int64
	Date    string
	Limit   int
	Offset  int
}

// Repository is the storage the workflow needs. Every mutating method is a
// single conditional statement; InTx groups them atomically.
type Repository interface {
	InTx(ctx context.Context, fn func(tx Repository) error) error

	ClaimSlot(ctx context.Context, slotID int64) (*domain.Slot, error)
	LinkSlot(ctx context.Context, slotID, bookingID int64) error
	ReleaseSlot(ctx context.Context, slotID, bookingID int64) error

	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetSalonOwner(ctx context.Context, salonID int64) (int64, error)

	TakeVisit(ctx context.Context, userID int64) (*domain.Purchase, error)
	ReturnVisit(ctx context.Context, userID int64, purchaseID *int64) (*domain.Purchase, error)
	DebitBalance(ctx context.Context, userID, amount int64) (bool, error)
	CreditBalance(ctx context.Context, userID, amount int64) error

	CreateBooking(ctx context.Context, b *domain.Booking, newCode func() (string, error)) error
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	SetStatus(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus, at time.Time) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListBySalon(ctx context.Context, salonID int64) ([]domain.Booking, error)
	List(ctx context.Context, f ListFilter) ([]domain.Booking, int64, error)
}

// Notifier receives booking events. Dispatch must not block.
type Notifier interface {
	Dispatch(ev notification.Event)
}

// SlotInvalidator drops cached availability after a slot flips.
type SlotInvalidator interface {
	Invalidate(ctx context.Context)
}
