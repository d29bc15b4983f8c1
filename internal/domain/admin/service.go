package admin

import (
	"context"

	"gorm.io/gorm"

	"beautybook/internal/domain"
	"beautybook/internal/domain/booking"
)

// Stats is the dashboard summary.
type Stats struct {
	Users            int64            `json:"users"`
	UnverifiedUsers  int64            `json:"unverified_users"`
	Salons           int64            `json:"salons"`
	FreeSlots        int64            `json:"free_slots"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	PendingTopUps    int64            `json:"pending_top_ups"`
}

type Service struct {
	db       *gorm.DB
	bookings *booking.Service
}

func NewService(db *gorm.DB, bookings *booking.Service) *Service {
	return &Service{db: db, bookings: bookings}
}

func (s *Service) ListBookings(ctx context.Context, f booking.ListFilter) ([]domain.Booking, int64, error) {
	return s.bookings.ListAll(ctx, f)
}

// ForceCancel cancels on the client's behalf, also from confirmed. The refund is the same as a client cancel.
func (s *Service) ForceCancel(ctx context.Context, actor domain.Actor, bookingID int64) (*booking.CancelResult, error) {
	return s.bookings.ForceCancel(ctx, actor, bookingID)
}

func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	st := &Stats{BookingsByStatus: map[string]int64{}}

	if err := db.Model(&domain.User{}).Count(&st.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.User{}).Where("email_verified = ?", false).Count(&st.UnverifiedUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Salon{}).Count(&st.Salons).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Slot{}).Where("is_booked = ?", false).Count(&st.FreeSlots).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Transaction{}).Where("status = ?", domain.TransactionPending).Count(&st.PendingTopUps).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		Total  int64
	}
	if err := db.Model(&domain.Booking{}).Select("status, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		st.BookingsByStatus[r.Status] = r.Total
	}
	return st, nil
}
