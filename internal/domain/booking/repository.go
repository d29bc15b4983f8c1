package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"beautybook/internal/database"
	"beautybook/internal/domain"
)

const maxCodeAttempts = 5

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) Repository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) InTx(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&bookingRepository{db: tx})
	})
}

/* ---------- SLOTS ---------- */

// ClaimSlot flips is_booked false -> true. Losing the race yields ErrSlotUnavailable.
func (r *bookingRepository) ClaimSlot(ctx context.Context, slotID int64) (*domain.Slot, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Slot{}).
		Where("id = ? AND is_booked = ?", slotID, false).
		Updates(map[string]any{"is_booked": true, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, fmt.Errorf("claim slot: %w", res.Error)
	}

	var slot domain.Slot
	if err := r.db.WithContext(ctx).First(&slot, slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, ErrSlotUnavailable
	}
	return &slot, nil
}

func (r *bookingRepository) LinkSlot(ctx context.Context, slotID, bookingID int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Slot{}).
		Where("id = ?", slotID).
		Update("booking_id", bookingID).Error
}

// ReleaseSlot reopens the slot, but only if it still belongs to bookingID.
func (r *bookingRepository) ReleaseSlot(ctx context.Context, slotID, bookingID int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Slot{}).
		Where("id = ? AND booking_id = ?", slotID, bookingID).
		Updates(map[string]any{"is_booked": false, "booking_id": nil, "updated_at": time.Now().UTC()}).Error
}

/* ---------- USERS / WALLET ---------- */

func (r *bookingRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *bookingRepository) GetSalonOwner(ctx context.Context, salonID int64) (int64, error) {
	var ownerIDs []int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Salon{}).
		Where("id = ?", salonID).
		Pluck("owner_id", &ownerIDs).Error; err != nil {
		return 0, err
	}
	if len(ownerIDs) == 0 {
		return 0, ErrNotFound
	}
	return ownerIDs[0], nil
}

// TakeVisit spends one visit from the oldest purchase that still has any.
// Returns nil when the user has none left.
func (r *bookingRepository) TakeVisit(ctx context.Context, userID int64) (*domain.Purchase, error) {
	for {
		var p domain.Purchase
		err := r.db.WithContext(ctx).
			Where("user_id = ? AND visits_left > 0", userID).
			Order("purchased_at ASC, id ASC").
			First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		res := r.db.WithContext(ctx).
			Model(&domain.Purchase{}).
			Where("id = ? AND visits_left > 0", p.ID).
			UpdateColumn("visits_left", gorm.Expr("visits_left - 1"))
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			p.VisitsLeft--
			return &p, nil
		}
		// someone else took the last visit of p; look again
	}
}

// ReturnVisit gives one visit back: to the charged purchase when it still exists,
// otherwise to the most recently bought one. Returns nil when there is no target.
func (r *bookingRepository) ReturnVisit(ctx context.Context, userID int64, purchaseID *int64) (*domain.Purchase, error) {
	var target domain.Purchase
	found := false

	if purchaseID != nil {
		err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", *purchaseID, userID).First(&target).Error
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	if !found {
		err := r.db.WithContext(ctx).
			Where("user_id = ? AND visits_left >= 0", userID).
			Order("purchased_at DESC, id DESC").
			First(&target).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}

	if err := r.db.WithContext(ctx).
		Model(&domain.Purchase{}).
		Where("id = ?", target.ID).
		UpdateColumn("visits_left", gorm.Expr("visits_left + 1")).Error; err != nil {
		return nil, err
	}
	target.VisitsLeft++
	return &target, nil
}

// DebitBalance subtracts amount only when the balance covers it.
func (r *bookingRepository) DebitBalance(ctx context.Context, userID, amount int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	return res.RowsAffected == 1, res.Error
}

func (r *bookingRepository) CreditBalance(ctx context.Context, userID, amount int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error
}

/* ---------- BOOKINGS ---------- */

// CreateBooking inserts b with a fresh code, retrying on a code collision. Each
// attempt runs in a savepoint so a failed insert does not poison the outer tx.
func (r *bookingRepository) CreateBooking(ctx context.Context, b *domain.Booking, newCode func() (string, error)) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := newCode()
		if err != nil {
			return fmt.Errorf("generate booking code: %w", err)
		}
		b.BookingCode = code

		err = r.db.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
			return sp.Create(b).Error
		})
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) {
			return fmt.Errorf("create booking: %w", err)
		}
		b.ID = 0
	}
	return fmt.Errorf("create booking: no free booking code after %d attempts", maxCodeAttempts)
}

func (r *bookingRepository) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// SetStatus moves the booking to `to` only if it is currently in one of `from`.
func (r *bookingRepository) SetStatus(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus, at time.Time) (bool, error) {
	updates := map[string]any{"status": to, "updated_at": at}
	switch to {
	case domain.BookingCompleted:
		updates["completed_at"] = at
	case domain.BookingCancelled:
		updates["cancelled_at"] = at
	}

	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	list := []domain.Booking{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, time DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *bookingRepository) ListBySalon(ctx context.Context, salonID int64) ([]domain.Booking, error) {
	list := []domain.Booking{}
	err := r.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Order("date ASC, time ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *bookingRepository) List(ctx context.Context, f ListFilter) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.SalonID != 0 {
		q = q.Where("salon_id = ?", f.SalonID)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	list := []domain.Booking{}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}
