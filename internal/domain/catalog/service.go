package catalog

import (
	"context"
	"errors"
	"fmt"

	"beautybook/internal/domain"
	"beautybook/internal/pkg/logger"
	"beautybook/internal/pkg/validator"
)

type Service struct {
	repo  Repository
	cache *SlotCache
	log   *logger.Logger
}

// NewService wires the catalog. slots may be nil, listings then always hit the database.
func NewService(repo Repository, slots *SlotCache, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: slots, log: log}
}

type SalonDetails struct {
	domain.Salon
	Specialists []domain.Specialist `json:"specialists"`
	Services    []domain.Service    `json:"services"`
}

/* ---------- SALONS ---------- */

func (s *Service) CreateSalon(ctx context.Context, ownerID int64, in CreateSalonRequest) (*domain.Salon, error) {
	salon := &domain.Salon{
		OwnerID:     ownerID,
		Name:        in.Name,
		Address:     in.Address,
		City:        in.City,
		Description: in.Description,
	}
	if err := s.repo.CreateSalon(ctx, salon); err != nil {
		return nil, fmt.Errorf("create salon: %w", err)
	}
	s.log.Info("salon created", "salon_id", salon.ID, "owner_id", ownerID)
	return salon, nil
}

func (s *Service) ListSalons(ctx context.Context, city string) ([]domain.Salon, error) {
	return s.repo.ListSalons(ctx, city)
}

func (s *Service) GetSalon(ctx context.Context, id int64) (*SalonDetails, error) {
	salon, err := s.repo.GetSalon(ctx, id)
	if err != nil {
		return nil, err
	}
	specialists, err := s.repo.ListSpecialists(ctx, id)
	if err != nil {
		return nil, err
	}
	services, err := s.repo.ListServices(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SalonDetails{Salon: *salon, Specialists: specialists, Services: services}, nil
}

// ownedSalon loads the salon and checks the actor may manage it.
func (s *Service) ownedSalon(ctx context.Context, actor domain.Actor, salonID int64) (*domain.Salon, error) {
	salon, err := s.repo.GetSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && salon.OwnerID != actor.UserID {
		return nil, ErrForbidden
	}
	return salon, nil
}

func (s *Service) AddSpecialist(ctx context.Context, actor domain.Actor, salonID int64, in CreateSpecialistRequest) (*domain.Specialist, error) {
	if _, err := s.ownedSalon(ctx, actor, salonID); err != nil {
		return nil, err
	}
	sp := &domain.Specialist{SalonID: salonID, Name: in.Name, Position: in.Position}
	if err := s.repo.CreateSpecialist(ctx, sp); err != nil {
		return nil, fmt.Errorf("create specialist: %w", err)
	}
	return sp, nil
}

func (s *Service) AddService(ctx context.Context, actor domain.Actor, salonID int64, in CreateServiceRequest) (*domain.Service, error) {
	if _, err := s.ownedSalon(ctx, actor, salonID); err != nil {
		return nil, err
	}
	svc := &domain.Service{SalonID: salonID, Name: in.Name, Category: in.Category}
	if err := s.repo.CreateService(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

/* ---------- SLOTS ---------- */

// ListAvailableSlots returns free slots ordered by date, time, id.
func (s *Service) ListAvailableSlots(ctx context.Context, f SlotFilter) ([]domain.Slot, error) {
	cached, key, ok := s.cache.Get(ctx, f)
	if ok {
		return cached, nil
	}
	slots, err := s.repo.ListAvailableSlots(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	s.cache.Set(ctx, key, slots)
	return slots, nil
}

func (s *Service) GetSlot(ctx context.Context, id int64) (*domain.Slot, error) {
	return s.repo.GetSlot(ctx, id)
}

func (s *Service) specialistFor(ctx context.Context, salonID int64, id *int64) (*domain.Specialist, error) {
	if id == nil {
		return nil, nil
	}
	sp, err := s.repo.GetSpecialist(ctx, *id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}
	if sp.SalonID != salonID {
		return nil, ErrInvalidReference
	}
	return sp, nil
}

func (s *Service) CreateSlot(ctx context.Context, actor domain.Actor, in CreateSlotRequest) (*domain.Slot, error) {
	salon, err := s.ownedSalon(ctx, actor, in.SalonID)
	if err != nil {
		return nil, err
	}

	svc, err := s.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidReference
		}
		return nil, err
	}
	if svc.SalonID != salon.ID {
		return nil, ErrInvalidReference
	}
	sp, err := s.specialistFor(ctx, salon.ID, in.SpecialistID)
	if err != nil {
		return nil, err
	}

	slot := &domain.Slot{
		SalonID:         salon.ID,
		SalonName:       salon.Name,
		ServiceID:       svc.ID,
		ServiceName:     svc.Name,
		ServiceCategory: svc.Category,
		Date:            in.Date,
		Time:            in.Time,
		DurationMinutes: in.DurationMinutes,
		Price:           in.Price,
	}
	if slot.DurationMinutes == 0 {
		slot.DurationMinutes = 60
	}
	if sp != nil {
		slot.SpecialistID = &sp.ID
		slot.SpecialistName = sp.Name
	}

	if err := s.repo.CreateSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	s.cache.Invalidate(ctx)
	return slot, nil
}

// UpdateSlot reschedules or reprices a free slot. Booked slots are rejected.
func (s *Service) UpdateSlot(ctx context.Context, actor domain.Actor, id int64, in UpdateSlotRequest) (*domain.Slot, error) {
	slot, err := s.repo.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedSalon(ctx, actor, slot.SalonID); err != nil {
		return nil, err
	}
	if slot.IsBooked {
		return nil, ErrSlotBooked
	}

	if in.Date != nil {
		slot.Date = *in.Date
	}
	if in.Time != nil {
		slot.Time = *in.Time
	}
	if in.DurationMinutes != nil {
		slot.DurationMinutes = *in.DurationMinutes
	}
	if in.Price != nil {
		slot.Price = *in.Price
	}
	if in.SpecialistID != nil {
		sp, err := s.specialistFor(ctx, slot.SalonID, in.SpecialistID)
		if err != nil {
			return nil, err
		}
		slot.SpecialistID = &sp.ID
		slot.SpecialistName = sp.Name
	}
	if err := validator.Struct(slot); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFreeSlot(ctx, slot); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return slot, nil
}

func (s *Service) DeleteSlot(ctx context.Context, actor domain.Actor, id int64) error {
	slot, err := s.repo.GetSlot(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.ownedSalon(ctx, actor, slot.SalonID); err != nil {
		return err
	}
	if err := s.repo.DeleteFreeSlot(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}
