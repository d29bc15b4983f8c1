package domain

import (
	"time"

	"gorm.io/gorm"

	"beautybook/internal/pkg/validator"
)

type Salon struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	OwnerID     int64     `json:"owner_id" gorm:"index;not null" validate:"required"`
	Name        string    `json:"name" gorm:"not null" validate:"required,max=255"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty" gorm:"index"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Salon) TableName() string { return "salons" }

func (s *Salon) BeforeCreate(_ *gorm.DB) error { return validator.Struct(s) }

type Specialist struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	SalonID   int64     `json:"salon_id" gorm:"index;not null" validate:"required"`
	Name      string    `json:"name" gorm:"not null" validate:"required,max=255"`
	Position  string    `json:"position,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Specialist) TableName() string { return "specialists" }

func (s *Specialist) BeforeCreate(_ *gorm.DB) error { return validator.Struct(s) }

// Service is something a salon sells: a haircut, a manicure.
type Service struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	SalonID   int64     `json:"salon_id" gorm:"index;not null" validate:"required"`
	Name      string    `json:"name" gorm:"not null" validate:"required,max=255"`
	Category  string    `json:"category" gorm:"index" validate:"max=64"`
	CreatedAt time.Time `json:"created_at"`
}

func (Service) TableName() string { return "services" }

func (s *Service) BeforeCreate(_ *gorm.DB) error { return validator.Struct(s) }
