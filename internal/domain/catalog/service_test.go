package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"beautybook/internal/database"
	"beautybook/internal/domain"
	"beautybook/internal/pkg/cache"
	"beautybook/internal/pkg/logger"
	"beautybook/internal/pkg/validator"
)

const ownerID int64 = 7

var owner = domain.Actor{UserID: ownerID, Role: domain.RoleSalon}

type fixture struct {
	svc     *Service
	db      *gorm.DB
	salon   *domain.Salon
	service *domain.Service
	master  *domain.Specialist
	cache   *SlotCache
}

func setup(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenInMemory("catalog_" + name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	slots := NewSlotCache(cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, logger.Nop(), nil)
	svc := NewService(NewRepository(db), slots, logger.Nop())

	ctx := context.Background()
	salon, err := svc.CreateSalon(ctx, ownerID, CreateSalonRequest{Name: "Lotus", City: "Almaty"})
	require.NoError(t, err)
	service, err := svc.AddService(ctx, owner, salon.ID, CreateServiceRequest{Name: "Manicure", Category: "nails"})
	require.NoError(t, err)
	master, err := svc.AddSpecialist(ctx, owner, salon.ID, CreateSpecialistRequest{Name: "Dana", Position: "master"})
	require.NoError(t, err)

	return &fixture{svc: svc, db: db, salon: salon, service: service, master: master, cache: slots}
}

func (f *fixture) slot(t *testing.T, date, hm string, specialist *int64) *domain.Slot {
	t.Helper()
	s, err := f.svc.CreateSlot(context.Background(), owner, CreateSlotRequest{
		SalonID:      f.salon.ID,
		ServiceID:    f.service.ID,
		SpecialistID: specialist,
		Date:         date,
		Time:         hm,
		Price:        20,
	})
	require.NoError(t, err)
	return s
}

func TestCreateSlot_SnapshotsNames(t *testing.T) {
	f := setup(t)
	s := f.slot(t, "2026-05-01", "10:00", &f.master.ID)

	assert.Equal(t, "Lotus", s.SalonName)
	assert.Equal(t, "Manicure", s.ServiceName)
	assert.Equal(t, "nails", s.ServiceCategory)
	assert.Equal(t, "Dana", s.SpecialistName)
	assert.Equal(t, 60, s.DurationMinutes)
	assert.False(t, s.IsBooked)
}

func TestCreateSlot_Rejections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	stranger := domain.Actor{UserID: 99, Role: domain.RoleSalon}
	_, err := f.svc.CreateSlot(ctx, stranger, CreateSlotRequest{
		SalonID: f.salon.ID, ServiceID: f.service.ID, Date: "2026-05-01", Time: "10:00",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	_, err = f.svc.CreateSlot(ctx, admin, CreateSlotRequest{
		SalonID: f.salon.ID, ServiceID: f.service.ID, Date: "2026-05-01", Time: "10:00",
	})
	assert.NoError(t, err)

	_, err = f.svc.CreateSlot(ctx, owner, CreateSlotRequest{
		SalonID: f.salon.ID, ServiceID: 12345, Date: "2026-05-01", Time: "10:00",
	})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = f.svc.CreateSlot(ctx, owner, CreateSlotRequest{
		SalonID: 555, ServiceID: f.service.ID, Date: "2026-05-01", Time: "10:00",
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.CreateSlot(ctx, owner, CreateSlotRequest{
		SalonID: f.salon.ID, ServiceID: f.service.ID, Date: "01.05.2026", Time: "10:00",
	})
	assert.ErrorIs(t, err, validator.ErrValidation)
}

func TestListAvailableSlots_FilterAndOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	late := f.slot(t, "2026-05-02", "09:00", nil)
	b := f.slot(t, "2026-05-01", "12:00", &f.master.ID)
	a := f.slot(t, "2026-05-01", "10:00", nil)
	booked := f.slot(t, "2026-05-01", "08:00", nil)
	require.NoError(t, f.db.Model(&domain.Slot{}).Where("id = ?", booked.ID).Update("is_booked", true).Error)

	all, err := f.svc.ListAvailableSlots(ctx, SlotFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{a.ID, b.ID, late.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	byDate, err := f.svc.ListAvailableSlots(ctx, SlotFilter{SalonID: f.salon.ID, Date: "2026-05-01"})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	bySpecialist, err := f.svc.ListAvailableSlots(ctx, SlotFilter{SpecialistID: f.master.ID})
	require.NoError(t, err)
	require.Len(t, bySpecialist, 1)
	assert.Equal(t, b.ID, bySpecialist[0].ID)

	none, err := f.svc.ListAvailableSlots(ctx, SlotFilter{Date: "2030-01-01"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListAvailableSlots_CacheInvalidatedOnMutation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first := f.slot(t, "2026-05-01", "10:00", nil)
	list, err := f.svc.ListAvailableSlots(ctx, SlotFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	// a write behind the service's back is not visible until something invalidates
	require.NoError(t, f.db.Model(&domain.Slot{}).Where("id = ?", first.ID).Update("is_booked", true).Error)
	list, err = f.svc.ListAvailableSlots(ctx, SlotFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	f.slot(t, "2026-05-01", "11:00", nil)
	list, err = f.svc.ListAvailableSlots(ctx, SlotFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "11:00", list[0].Time)
}

// afterListRepo runs hook once, right after the first availability read.
type afterListRepo struct {
	Repository
	hook func()
}

func (r *afterListRepo) ListAvailableSlots(ctx context.Context, f SlotFilter) ([]domain.Slot, error) {
	slots, err := r.Repository.ListAvailableSlots(ctx, f)
	if r.hook != nil {
		r.hook()
		r.hook = nil
	}
	return slots, err
}

func TestListAvailableSlots_BookingDuringReadIsNotCached(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	s := f.slot(t, "2026-05-01", "10:00", nil)

	repo := &afterListRepo{Repository: NewRepository(f.db)}
	repo.hook = func() {
		require.NoError(t, f.db.Model(&domain.Slot{}).Where("id = ?", s.ID).Update("is_booked", true).Error)
		f.cache.Invalidate(ctx)
	}
	svc := NewService(repo, f.cache, logger.Nop())

	// the first read still sees the slot free
	list, err := svc.ListAvailableSlots(ctx, SlotFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = svc.ListAvailableSlots(ctx, SlotFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateSlot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	s := f.slot(t, "2026-05-01", "10:00", nil)

	newTime := "15:30"
	price := int64(35)
	updated, err := f.svc.UpdateSlot(ctx, owner, s.ID, UpdateSlotRequest{Time: &newTime, Price: &price, SpecialistID: &f.master.ID})
	require.NoError(t, err)
	assert.Equal(t, "15:30", updated.Time)
	assert.Equal(t, int64(35), updated.Price)
	assert.Equal(t, "Dana", updated.SpecialistName)

	stored, err := f.svc.GetSlot(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "15:30", stored.Time)

	bad := "25:99"
	_, err = f.svc.UpdateSlot(ctx, owner, s.ID, UpdateSlotRequest{Time: &bad})
	assert.ErrorIs(t, err, validator.ErrValidation)

	_, err = f.svc.UpdateSlot(ctx, domain.Actor{UserID: 99, Role: domain.RoleSalon}, s.ID, UpdateSlotRequest{Time: &newTime})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateAndDeleteBookedSlot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	s := f.slot(t, "2026-05-01", "10:00", nil)
	require.NoError(t, f.db.Model(&domain.Slot{}).Where("id = ?", s.ID).Update("is_booked", true).Error)

	newTime := "11:00"
	_, err := f.svc.UpdateSlot(ctx, owner, s.ID, UpdateSlotRequest{Time: &newTime})
	assert.ErrorIs(t, err, ErrSlotBooked)
	assert.ErrorIs(t, f.svc.DeleteSlot(ctx, owner, s.ID), ErrSlotBooked)
}

func TestDeleteSlot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	s := f.slot(t, "2026-05-01", "10:00", nil)

	require.NoError(t, f.svc.DeleteSlot(ctx, owner, s.ID))
	_, err := f.svc.GetSlot(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteSlot(ctx, owner, s.ID), ErrNotFound)
}

func TestGetSalonDetails(t *testing.T) {
	f := setup(t)

	details, err := f.svc.GetSalon(context.Background(), f.salon.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lotus", details.Name)
	require.Len(t, details.Services, 1)
	require.Len(t, details.Specialists, 1)

	_, err = f.svc.AddService(context.Background(), domain.Actor{UserID: 99, Role: domain.RoleSalon}, f.salon.ID, CreateServiceRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrForbidden)
}
