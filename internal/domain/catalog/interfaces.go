package catalog

import (
	"context"

	"beautybook/internal/domain"
)

// SlotFilter narrows ListAvailableSlots. Zero values mean "any".
type SlotFilter struct {
	SalonID      int64
	Date         string
	SpecialistID int64
}

type Repository interface {
	CreateSalon(ctx context.Context, s *domain.Salon) error
	GetSalon(ctx context.Context, id int64) (*domain.Salon, error)
	ListSalons(ctx context.Context, city string) ([]domain.Salon, error)

	CreateSpecialist(ctx context.Context, s *domain.Specialist) error
	GetSpecialist(ctx context.Context, id int64) (*domain.Specialist, error)
	ListSpecialists(ctx context.Context, salonID int64) ([]domain.Specialist, error)

	CreateService(ctx context.Context, s *domain.Service) error
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	ListServices(ctx context.Context, salonID int64) ([]domain.Service, error)

	CreateSlot(ctx context.Context, s *domain.Slot) error
	GetSlot(ctx context.Context, id int64) (*domain.Slot, error)
	ListAvailableSlots(ctx context.Context, f SlotFilter) ([]domain.Slot, error)
	UpdateFreeSlot(ctx context.Context, s *domain.Slot) error
	DeleteFreeSlot(ctx context.Context, id int64) error
}
