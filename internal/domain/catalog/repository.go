package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"beautybook/internal/domain"
)

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

/* ---------- SALONS ---------- */

func (r *gormRepository) CreateSalon(ctx context.Context, s *domain.Salon) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *gormRepository) GetSalon(ctx context.Context, id int64) (*domain.Salon, error) {
	var s domain.Salon
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *gormRepository) ListSalons(ctx context.Context, city string) ([]domain.Salon, error) {
	var salons []domain.Salon
	q := r.db.WithContext(ctx).Model(&domain.Salon{})
	if city != "" {
		q = q.Where("city = ?", city)
	}
	err := q.Order("name ASC, id ASC").Find(&salons).Error
	return salons, err
}

/* ---------- SPECIALISTS / SERVICES ---------- */

func (r *gormRepository) CreateSpecialist(ctx context.Context, s *domain.Specialist) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *gormRepository) GetSpecialist(ctx context.Context, id int64) (*domain.Specialist, error) {
	var s domain.Specialist
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *gormRepository) ListSpecialists(ctx context.Context, salonID int64) ([]domain.Specialist, error) {
	var list []domain.Specialist
	err := r.db.WithContext(ctx).Where("salon_id = ?", salonID).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *gormRepository) CreateService(ctx context.Context, s *domain.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *gormRepository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *gormRepository) ListServices(ctx context.Context, salonID int64) ([]domain.Service, error) {
	var list []domain.Service
	err := r.db.WithContext(ctx).Where("salon_id = ?", salonID).Order("id ASC").Find(&list).Error
	return list, err
}

/* ---------- SLOTS ---------- */

func (r *gormRepository) CreateSlot(ctx context.Context, s *domain.Slot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *gormRepository) GetSlot(ctx context.Context, id int64) (*domain.Slot, error) {
	var s domain.Slot
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *gormRepository) ListAvailableSlots(ctx context.Context, f SlotFilter) ([]domain.Slot, error) {
	q := r.db.WithContext(ctx).Model(&domain.Slot{}).Where("is_booked = ?", false)
	if f.SalonID != 0 {
		q = q.Where("salon_id = ?", f.SalonID)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.SpecialistID != 0 {
		q = q.Where("specialist_id = ?", f.SpecialistID)
	}

	slots := []domain.Slot{}
	err := q.Order("date ASC, time ASC, id ASC").Find(&slots).Error
	return slots, err
}

// UpdateFreeSlot writes the schedule fields only while the slot is still free.
func (r *gormRepository) UpdateFreeSlot(ctx context.Context, s *domain.Slot) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Slot{}).
		Where("id = ? AND is_booked = ?", s.ID, false).
		Updates(map[string]any{
			"specialist_id":    s.SpecialistID,
			"specialist_name":  s.SpecialistName,
			"date":             s.Date,
			"time":             s.Time,
			"duration_minutes": s.DurationMinutes,
			"price":            s.Price,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOrBooked(ctx, s.ID)
	}
	return nil
}

func (r *gormRepository) DeleteFreeSlot(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND is_booked = ?", id, false).
		Delete(&domain.Slot{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOrBooked(ctx, id)
	}
	return nil
}

func (r *gormRepository) missingOrBooked(ctx context.Context, id int64) error {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&domain.Slot{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return ErrNotFound
	}
	return ErrSlotBooked
}
