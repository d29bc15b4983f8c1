package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"beautybook/internal/domain"
	"beautybook/internal/domain/notification"
	"beautybook/internal/pkg/logger"
	"beautybook/internal/pkg/metrics"
)

type Service struct {
	repo     Repository
	slots    SlotInvalidator
	notifier Notifier
	log      *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	newCode  func() (string, error)
}

// NewService wires the workflow. slots and notifier may be nil.
func NewService(repo Repository, slots SlotInvalidator, notifier Notifier, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		slots:    slots,
		notifier: notifier,
		log:      log,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
		newCode:  generateBookingCode,
	}
}

// Refund describes what a cancellation gave back.
type Refund struct {
	Method     domain.PaymentMethod `json:"method"`
	Visits     int                  `json:"visits,omitempty"`
	Points     int64                `json:"points,omitempty"`
	PurchaseID *int64               `json:"purchase_id,omitempty"`
	// NoTarget is set when a visit-paid booking had no purchase left to credit.
	NoTarget bool `json:"no_target,omitempty"`
}

type CancelResult struct {
	Booking *domain.Booking `json:"booking"`
	Refund  Refund          `json:"refund"`
}

// ReserveSlot claims the slot, charges the client and creates a scheduled booking,
// all in one transaction. Package visits are spent before points.
func (s *Service) ReserveSlot(ctx context.Context, userID, slotID int64) (*domain.Booking, error) {
	var (
		booking *domain.Booking
		ownerID int64
	)

	err := s.repo.InTx(ctx, func(tx Repository) error {
		slot, err := tx.ClaimSlot(ctx, slotID)
		if err != nil {
			return err
		}
		user, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}

		b := &domain.Booking{
			UserID:          user.ID,
			SalonID:         slot.SalonID,
			SalonName:       slot.SalonName,
			SpecialistID:    slot.SpecialistID,
			SpecialistName:  slot.SpecialistName,
			SlotID:          slot.ID,
			ServiceID:       slot.ServiceID,
			ServiceName:     slot.ServiceName,
			ServiceCategory: slot.ServiceCategory,
			Date:            slot.Date,
			Time:            slot.Time,
			DurationMinutes: slot.DurationMinutes,
			Price:           slot.Price,
			ClientName:      user.Name,
			ClientEmail:     user.Login,
			ClientPhone:     user.Phone,
			Status:          domain.BookingScheduled,
		}

		purchase, err := tx.TakeVisit(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("take visit: %w", err)
		}
		if purchase != nil {
			b.PaymentMethod = domain.PaymentVisit
			b.PurchaseID = &purchase.ID
		} else {
			ok, err := tx.DebitBalance(ctx, user.ID, slot.Price)
			if err != nil {
				return fmt.Errorf("debit balance: %w", err)
			}
			if !ok {
				return ErrInsufficientFunds
			}
			b.PaymentMethod = domain.PaymentPoints
		}

		if err := tx.CreateBooking(ctx, b, s.newCode); err != nil {
			return err
		}
		if err := tx.LinkSlot(ctx, slot.ID, b.ID); err != nil {
			return fmt.Errorf("link slot: %w", err)
		}

		ownerID, err = tx.GetSalonOwner(ctx, slot.SalonID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		booking = b
		return nil
	})
	s.metrics.ObserveBooking("reserve", resultLabel(err))
	if err != nil {
		return nil, err
	}

	s.invalidateSlots(ctx)
	s.log.Info("slot reserved",
		"booking_id", booking.ID,
		"slot_id", slotID,
		"user_id", userID,
		"payment", string(booking.PaymentMethod),
	)
	s.dispatch(notification.TypeBookingCreated, booking, ownerID, "")
	return booking, nil
}

// authorizeSalon allows the salon's owner and admins.
func (s *Service) authorizeSalon(ctx context.Context, actor domain.Actor, b *domain.Booking) (int64, error) {
	ownerID, err := s.repo.GetSalonOwner(ctx, b.SalonID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	if actor.IsAdmin() || (ownerID != 0 && ownerID == actor.UserID) {
		return ownerID, nil
	}
	return 0, ErrForbidden
}

// AcceptBooking is the salon acknowledging a scheduled booking.
func (s *Service) AcceptBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	return s.transition(ctx, actor, bookingID, "accept",
		[]domain.BookingStatus{domain.BookingScheduled}, domain.BookingConfirmed, notification.TypeBookingConfirmed)
}

// ConfirmCompletion marks the visit as fulfilled. The charge taken at reservation
// becomes final, so a repeated call fails instead of charging again.
func (s *Service) ConfirmCompletion(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	return s.transition(ctx, actor, bookingID, "complete",
		[]domain.BookingStatus{domain.BookingScheduled, domain.BookingConfirmed}, domain.BookingCompleted, notification.TypeBookingCompleted)
}

func (s *Service) transition(
	ctx context.Context,
	actor domain.Actor,
	bookingID int64,
	op string,
	from []domain.BookingStatus,
	to domain.BookingStatus,
	event notification.Type,
) (*domain.Booking, error) {
	b, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	ownerID, err := s.authorizeSalon(ctx, actor, b)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.SetStatus(ctx, bookingID, from, to, s.now())
	if err != nil {
		s.metrics.ObserveBooking(op, "error")
		return nil, fmt.Errorf("%s booking: %w", op, err)
	}
	if !ok {
		s.metrics.ObserveBooking(op, "rejected")
		return nil, ErrInvalidTransition
	}
	s.metrics.ObserveBooking(op, "ok")

	b, err = s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.log.Info("booking status changed", "booking_id", b.ID, "status", string(b.Status), "actor_id", actor.UserID)
	s.dispatch(event, b, ownerID, "")
	return b, nil
}

// CancelBooking cancels a scheduled booking for its client, the salon owner or an admin.
func (s *Service) CancelBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*CancelResult, error) {
	return s.cancel(ctx, actor, bookingID, []domain.BookingStatus{domain.BookingScheduled})
}

// ForceCancel is the admin override: confirmed bookings can be cancelled too.
func (s *Service) ForceCancel(ctx context.Context, actor domain.Actor, bookingID int64) (*CancelResult, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.cancel(ctx, actor, bookingID, []domain.BookingStatus{domain.BookingScheduled, domain.BookingConfirmed})
}

func (s *Service) cancel(ctx context.Context, actor domain.Actor, bookingID int64, from []domain.BookingStatus) (*CancelResult, error) {
	b, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var ownerID int64
	if b.UserID == actor.UserID {
		ownerID, err = s.repo.GetSalonOwner(ctx, b.SalonID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	} else if ownerID, err = s.authorizeSalon(ctx, actor, b); err != nil {
		return nil, err
	}

	refund := Refund{Method: b.PaymentMethod}
	err = s.repo.InTx(ctx, func(tx Repository) error {
		ok, err := tx.SetStatus(ctx, b.ID, from, domain.BookingCancelled, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotCancellable
		}

		switch b.PaymentMethod {
		case domain.PaymentVisit:
			p, err := tx.ReturnVisit(ctx, b.UserID, b.PurchaseID)
			if err != nil {
				return fmt.Errorf("return visit: %w", err)
			}
			if p == nil {
				refund.NoTarget = true
			} else {
				refund.Visits = 1
				refund.PurchaseID = &p.ID
			}
		case domain.PaymentPoints:
			if err := tx.CreditBalance(ctx, b.UserID, b.Price); err != nil {
				return fmt.Errorf("refund points: %w", err)
			}
			refund.Points = b.Price
		}

		return tx.ReleaseSlot(ctx, b.SlotID, b.ID)
	})
	s.metrics.ObserveBooking("cancel", resultLabel(err))
	if err != nil {
		return nil, err
	}

	if refund.NoTarget {
		s.log.Warn("cancelled visit-paid booking has no purchase to refund", "booking_id", b.ID, "user_id", b.UserID)
	}
	s.invalidateSlots(ctx)

	b, err = s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.dispatch(notification.TypeBookingCancelled, b, ownerID, refundNote(refund))
	return &CancelResult{Booking: b, Refund: refund}, nil
}

/* ---------- READS ---------- */

func (s *Service) ListMyBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetBooking is visible to the client, the salon owner and admins.
func (s *Service) GetBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	b, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID == actor.UserID {
		return b, nil
	}
	if _, err := s.authorizeSalon(ctx, actor, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) ListSalonBookings(ctx context.Context, actor domain.Actor, salonID int64) ([]domain.Booking, error) {
	ownerID, err := s.repo.GetSalonOwner(ctx, salonID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && ownerID != actor.UserID {
		return nil, ErrForbidden
	}
	return s.repo.ListBySalon(ctx, salonID)
}

func (s *Service) ListAll(ctx context.Context, f ListFilter) ([]domain.Booking, int64, error) {
	return s.repo.List(ctx, f)
}

/* ---------- HELPERS ---------- */

func (s *Service) invalidateSlots(ctx context.Context) {
	if s.slots != nil {
		s.slots.Invalidate(ctx)
	}
}

func (s *Service) dispatch(t notification.Type, b *domain.Booking, ownerID int64, note string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Dispatch(notification.Event{
		Type:           t,
		BookingID:      b.ID,
		BookingCode:    b.BookingCode,
		Status:         string(b.Status),
		ClientID:       b.UserID,
		ClientName:     b.ClientName,
		ClientEmail:    b.ClientEmail,
		OwnerID:        ownerID,
		SalonID:        b.SalonID,
		SalonName:      b.SalonName,
		ServiceName:    b.ServiceName,
		SpecialistName: b.SpecialistName,
		Date:           b.Date,
		Time:           b.Time,
		Price:          b.Price,
		PaymentMethod:  string(b.PaymentMethod),
		RefundNote:     note,
		OccurredAt:     s.now(),
	})
}

func refundNote(r Refund) string {
	switch {
	case r.NoTarget:
		return "no purchase available to return the visit to"
	case r.Visits > 0:
		return fmt.Sprintf("%d visit returned to your package", r.Visits)
	case r.Points > 0:
		return fmt.Sprintf("%d BP returned to your balance", r.Points)
	}
	return ""
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrNotCancellable):
		return "not_cancellable"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "error"
}
