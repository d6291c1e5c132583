package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/pkg/cache"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
)

type fakeHoursRepo struct {
	barberDays   map[uuid.UUID]map[int]*model.WorkingHours
	businessDays map[int]*model.WorkingHours
	err          error
}

func (f *fakeHoursRepo) Upsert(ctx context.Context, hours *model.WorkingHours) error { return nil }

func (f *fakeHoursRepo) GetBarberDay(ctx context.Context, barberID uuid.UUID, dayOfWeek int) (*model.WorkingHours, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.barberDays[barberID][dayOfWeek], nil
}

func (f *fakeHoursRepo) GetBusinessDay(ctx context.Context, barbershopID uuid.UUID, dayOfWeek int) (*model.WorkingHours, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.businessDays[dayOfWeek], nil
}

func (f *fakeHoursRepo) ListForBarber(ctx context.Context, barberID uuid.UUID) ([]*model.WorkingHours, error) {
	return nil, nil
}

func (f *fakeHoursRepo) ListForBarbershop(ctx context.Context, barbershopID uuid.UUID) ([]*model.WorkingHours, error) {
	return nil, nil
}

func (f *fakeHoursRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeApptRepo struct {
	appointments map[uuid.UUID][]*model.Appointment
	fetchCount   int
	err          error
}

func (f *fakeApptRepo) Create(ctx context.Context, appointment *model.Appointment) error { return nil }

func (f *fakeApptRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, nil
}

func (f *fakeApptRepo) Update(ctx context.Context, appointment *model.Appointment) error { return nil }
func (f *fakeApptRepo) Delete(ctx context.Context, id uuid.UUID) error                   { return nil }

func (f *fakeApptRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

func (f *fakeApptRepo) GetBarberAppointments(ctx context.Context, barberID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	f.fetchCount++
	if f.err != nil {
		return nil, f.err
	}
	return f.appointments[barberID], nil
}

func (f *fakeApptRepo) CheckConflict(ctx context.Context, barberID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	return false, nil
}

type fakeUserRepo struct {
	barbers []*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error          { return nil }
func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error)  { return nil, nil }
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	return nil
}
func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) ListBarbers(ctx context.Context, barbershopID uuid.UUID) ([]*model.User, error) {
	return f.barbers, nil
}

// monday is a fixed reference date; time.Monday == 1.
var monday = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

func mondayAt(t *testing.T, clock string) time.Time {
	t.Helper()
	m, err := model.ParseClock(clock)
	require.NoError(t, err)
	return monday.Add(time.Duration(m) * time.Minute)
}

func businessWeek(open, close, breakStart, breakEnd string) *fakeHoursRepo {
	repo := &fakeHoursRepo{
		barberDays:   map[uuid.UUID]map[int]*model.WorkingHours{},
		businessDays: map[int]*model.WorkingHours{},
	}
	for day := 0; day < 7; day++ {
		repo.businessDays[day] = openDayWithBreak(open, close, breakStart, breakEnd)
	}
	return repo
}

func newTestService(hours *fakeHoursRepo, appts *fakeApptRepo, users *fakeUserRepo) *Service {
	return NewService(hours, appts, users, cache.NewDayCache(time.Minute, time.Minute))
}

func TestGetAvailableTimeSlots(t *testing.T) {
	shopID := uuid.New()
	barberID := uuid.New()

	t.Run("standard day", func(t *testing.T) {
		svc := newTestService(
			businessWeek("09:00", "18:00", "12:00", "13:00"),
			&fakeApptRepo{},
			&fakeUserRepo{},
		)

		slots, err := svc.GetAvailableTimeSlots(context.Background(), shopID, barberID, monday, 30, 30)
		require.NoError(t, err)
		assert.Contains(t, slots, "09:00")
		assert.Contains(t, slots, "17:30")
		assert.NotContains(t, slots, "12:00")
		assert.NotContains(t, slots, "12:30")
	})

	t.Run("booked appointment blocks its window", func(t *testing.T) {
		appts := &fakeApptRepo{appointments: map[uuid.UUID][]*model.Appointment{
			barberID: {{
				BarberID:  barberID,
				StartTime: mondayAt(t, "14:00"),
				EndTime:   mondayAt(t, "14:45"),
				Status:    model.AppointmentStatusScheduled,
			}},
		}}
		svc := newTestService(businessWeek("09:00", "18:00", "12:00", "13:00"), appts, &fakeUserRepo{})

		slots, err := svc.GetAvailableTimeSlots(context.Background(), shopID, barberID, monday, 30, 15)
		require.NoError(t, err)
		assert.NotContains(t, slots, "14:00")
		assert.NotContains(t, slots, "14:30")
		assert.Contains(t, slots, "14:45")
	})

	t.Run("cancelled appointments do not block", func(t *testing.T) {
		appts := &fakeApptRepo{appointments: map[uuid.UUID][]*model.Appointment{
			barberID: {{
				BarberID:  barberID,
				StartTime: mondayAt(t, "14:00"),
				EndTime:   mondayAt(t, "14:45"),
				Status:    model.AppointmentStatusCancelled,
			}},
		}}
		svc := newTestService(businessWeek("09:00", "18:00", "12:00", "13:00"), appts, &fakeUserRepo{})

		slots, err := svc.GetAvailableTimeSlots(context.Background(), shopID, barberID, monday, 30, 30)
		require.NoError(t, err)
		assert.Contains(t, slots, "14:00")
	})

	t.Run("closed day yields no slots", func(t *testing.T) {
		hours := businessWeek("09:00", "18:00", "12:00", "13:00")
		hours.businessDays[int(monday.Weekday())] = &model.WorkingHours{IsOpen: false}
		svc := newTestService(hours, &fakeApptRepo{}, &fakeUserRepo{})

		slots, err := svc.GetAvailableTimeSlots(context.Background(), shopID, barberID, monday, 30, 30)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("non positive duration is rejected", func(t *testing.T) {
		svc := newTestService(businessWeek("09:00", "18:00", "12:00", "13:00"), &fakeApptRepo{}, &fakeUserRepo{})

		_, err := svc.GetAvailableTimeSlots(context.Background(), shopID, barberID, monday, 0, 30)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
	})

	t.Run("appointment fetch failure propagates", func(t *testing.T) {
		appts := &fakeApptRepo{err: errors.New("connection refused")}
		svc := newTestService(businessWeek("09:00", "18:00", "12:00", "13:00"), appts, &fakeUserRepo{})

		_, err := svc.GetAvailableTimeSlots(context.Background(), shopID, barberID, monday, 30, 30)
		assert.Error(t, err)
	})

	t.Run("second query hits the day cache", func(t *testing.T) {
		appts := &fakeApptRepo{}
		svc := newTestService(businessWeek("09:00", "18:00", "12:00", "13:00"), appts, &fakeUserRepo{})

		_, err := svc.GetAvailableTimeSlots(context.Background(), shopID, barberID, monday, 30, 30)
		require.NoError(t, err)
		_, err = svc.GetAvailableTimeSlots(context.Background(), shopID, barberID, monday, 30, 30)
		require.NoError(t, err)
		assert.Equal(t, 1, appts.fetchCount)

		svc.InvalidateDay(barberID, monday)
		_, err = svc.GetAvailableTimeSlots(context.Background(), shopID, barberID, monday, 30, 30)
		require.NoError(t, err)
		assert.Equal(t, 2, appts.fetchCount)
	})
}

func TestCheckAvailabilityMatchesSlotList(t *testing.T) {
	shopID := uuid.New()
	barberID := uuid.New()
	appts := &fakeApptRepo{appointments: map[uuid.UUID][]*model.Appointment{
		barberID: {{
			BarberID:  barberID,
			StartTime: mondayAt(t, "14:00"),
			EndTime:   mondayAt(t, "14:45"),
			Status:    model.AppointmentStatusConfirmed,
		}},
	}}
	svc := newTestService(businessWeek("09:00", "18:00", "12:00", "13:00"), appts, &fakeUserRepo{})

	slots, err := svc.GetAvailableTimeSlots(context.Background(), shopID, barberID, monday, 30, 30)
	require.NoError(t, err)
	listed := make(map[string]bool, len(slots))
	for _, slot := range slots {
		listed[slot] = true
	}

	for _, clock := range []string{"08:30", "09:00", "11:30", "12:00", "13:00", "14:00", "14:30", "17:30", "18:00"} {
		result, err := svc.CheckAvailability(context.Background(), shopID, barberID, monday, clock, 30)
		require.NoError(t, err)
		assert.Equal(t, listed[clock], result.Available, "point check disagrees with list at %s", clock)
	}
}

func TestGetAvailabilityBatch(t *testing.T) {
	shopID := uuid.New()
	barberID := uuid.New()
	svc := newTestService(businessWeek("09:00", "18:00", "12:00", "13:00"), &fakeApptRepo{}, &fakeUserRepo{})

	times := []string{"08:00", "09:00", "12:15", "17:30", "17:45"}
	batch, err := svc.GetAvailabilityBatch(context.Background(), shopID, barberID, monday, times, 30)
	require.NoError(t, err)
	require.Len(t, batch, len(times))

	for _, clock := range times {
		single, err := svc.CheckAvailability(context.Background(), shopID, barberID, monday, clock, 30)
		require.NoError(t, err)
		assert.Equal(t, single, batch[clock], "batch result diverges at %s", clock)
	}

	_, err = svc.GetAvailabilityBatch(context.Background(), shopID, barberID, monday, []string{"25:00"}, 30)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestGetAvailableTimeSlotsAnyBarber(t *testing.T) {
	shopID := uuid.New()
	barberA := uuid.New()
	barberB := uuid.New()
	users := &fakeUserRepo{barbers: []*model.User{
		{Base: model.Base{ID: barberA}},
		{Base: model.Base{ID: barberB}},
	}}

	// A is booked at 09:00, B at 09:30; the union keeps both times.
	appts := &fakeApptRepo{appointments: map[uuid.UUID][]*model.Appointment{
		barberA: {{
			StartTime: mondayAt(t, "09:00"),
			EndTime:   mondayAt(t, "09:30"),
			Status:    model.AppointmentStatusScheduled,
		}},
		barberB: {{
			StartTime: mondayAt(t, "09:30"),
			EndTime:   mondayAt(t, "10:00"),
			Status:    model.AppointmentStatusScheduled,
		}},
	}}
	svc := newTestService(businessWeek("09:00", "18:00", "12:00", "13:00"), appts, users)

	slots, err := svc.GetAvailableTimeSlotsAnyBarber(context.Background(), shopID, monday, 30, 30)
	require.NoError(t, err)
	assert.Contains(t, slots, "09:00")
	assert.Contains(t, slots, "09:30")
	for i := 1; i < len(slots); i++ {
		assert.Less(t, slots[i-1], slots[i])
	}
}
