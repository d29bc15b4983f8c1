package domain

import (
	"time"

	"gorm.io/gorm"

	"beautybook/internal/pkg/validator"
)

// Slot is one bookable time window. Salon, specialist and service names are
// copied in at creation so listings need no joins.
type Slot struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	SalonID         int64  `json:"salon_id" gorm:"index:idx_slots_lookup,priority:1;not null" validate:"required"`
	SalonName       string `json:"salon_name"`
	SpecialistID    *int64 `json:"specialist_id,omitempty" gorm:"index"`
	SpecialistName  string `json:"specialist_name,omitempty"`
	ServiceID       int64  `json:"service_id" gorm:"not null" validate:"required"`
	ServiceName     string `json:"service_name"`
	ServiceCategory string `json:"service_category,omitempty"`
	Date            string `json:"date" gorm:"type:varchar(10);index:idx_slots_lookup,priority:2;not null" validate:"required,date_ymd"`
	Time            string `json:"time" gorm:"type:varchar(5);not null" validate:"required,time_hm"`
	DurationMinutes int    `json:"duration_minutes" gorm:"not null;default:60" validate:"gt=0,lte=1440"`
	Price           int64  `json:"price" gorm:"not null" validate:"gte=0"`
	IsBooked        bool   `json:"is_booked" gorm:"index;not null;default:false"`
	BookingID       *int64 `json:"booking_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Slot) TableName() string { return "slots" }

func (s *Slot) BeforeCreate(_ *gorm.DB) error { return validator.Struct(s) }
