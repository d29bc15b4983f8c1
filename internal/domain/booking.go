package domain

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"beautybook/internal/pkg/validator"
)

type BookingStatus string

const (
	BookingScheduled BookingStatus = "scheduled"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type PaymentMethod string

const (
	PaymentVisit  PaymentMethod = "visit"
	PaymentPoints PaymentMethod = "points"
)

type Booking struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	UserID          int64  `json:"user_id" gorm:"index;not null" validate:"required"`
	SalonID         int64  `json:"salon_id" gorm:"index;not null" validate:"required"`
	SalonName       string `json:"salon_name"`
	SpecialistID    *int64 `json:"specialist_id,omitempty"`
	SpecialistName  string `json:"specialist_name,omitempty"`
	SlotID          int64  `json:"slot_id" gorm:"index;not null" validate:"required"`
	ServiceID       int64  `json:"service_id" validate:"required"`
	ServiceName     string `json:"service_name"`
	ServiceCategory string `json:"service_category,omitempty"`
	Date            string `json:"date" gorm:"type:varchar(10);not null" validate:"required,date_ymd"`
	Time            string `json:"time" gorm:"type:varchar(5);not null" validate:"required,time_hm"`
	DurationMinutes int    `json:"duration_minutes" validate:"gt=0"`
	Price           int64  `json:"price" gorm:"not null" validate:"gte=0"`

	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email" validate:"omitempty,email"`
	ClientPhone string `json:"client_phone,omitempty"`

	BookingCode   string        `json:"booking_code" gorm:"type:varchar(16);uniqueIndex;not null" validate:"required"`
	Status        BookingStatus `json:"status" gorm:"type:varchar(16);index;not null" validate:"required,oneof=scheduled confirmed completed cancelled"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"type:varchar(16);not null" validate:"required,oneof=visit points"`
	PurchaseID    *int64        `json:"purchase_id,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) BeforeCreate(_ *gorm.DB) error { return validator.Struct(b) }

// MarshalJSON also emits the older name/email/phone keys that mobile clients still read.
func (b Booking) MarshalJSON() ([]byte, error) {
	type plain Booking
	return json.Marshal(struct {
		plain
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone,omitempty"`
	}{
		plain: plain(b),
		Name:  b.ClientName,
		Email: b.ClientEmail,
		Phone: b.ClientPhone,
	})
}
