package appointment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/repository"
	"github.com/styllobarber/styllobarber-api/internal/service/availability"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
)

type fakeApptRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	createErr    error
	conflict     bool
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeApptRepo) Create(_ context.Context, appt *model.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.appointments[appt.ID] = appt
	return nil
}

func (r *fakeApptRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, ok := r.appointments[id]
	if !ok {
		return nil, fmt.Errorf("appointment not found")
	}
	return appt, nil
}

func (r *fakeApptRepo) Update(_ context.Context, appt *model.Appointment) error {
	r.appointments[appt.ID] = appt
	return nil
}

func (r *fakeApptRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.appointments, id)
	return nil
}

func (r *fakeApptRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeApptRepo) GetBarberAppointments(_ context.Context, barberID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, appt := range r.appointments {
		if appt.BarberID == barberID && appt.StartTime.Before(end) && appt.EndTime.After(start) {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (r *fakeApptRepo) CheckConflict(_ context.Context, _ uuid.UUID, _, _ time.Time, _ *uuid.UUID) (bool, error) {
	return r.conflict, nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func (r *fakeServiceRepo) Create(_ context.Context, _ *model.Service) error { return nil }

func (r *fakeServiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, fmt.Errorf("service not found")
	}
	return svc, nil
}

func (r *fakeServiceRepo) Update(_ context.Context, _ *model.Service) error { return nil }
func (r *fakeServiceRepo) Delete(_ context.Context, _ uuid.UUID) error      { return nil }
func (r *fakeServiceRepo) List(_ context.Context, _ uuid.UUID, _ bool) ([]*model.Service, error) {
	return nil, nil
}

// fakeHoursRepo keeps the shop open every day so booking tests can use any
// future date.
type fakeHoursRepo struct {
	shopID uuid.UUID
}

func (r *fakeHoursRepo) Upsert(_ context.Context, _ *model.WorkingHours) error { return nil }

func (r *fakeHoursRepo) GetBarberDay(_ context.Context, _ uuid.UUID, _ int) (*model.WorkingHours, error) {
	return nil, nil
}

func (r *fakeHoursRepo) GetBusinessDay(_ context.Context, _ uuid.UUID, dayOfWeek int) (*model.WorkingHours, error) {
	return &model.WorkingHours{
		BarbershopID: r.shopID,
		DayOfWeek:    dayOfWeek,
		IsOpen:       true,
		OpenTime:     "00:00",
		CloseTime:    "23:59",
		Source:       model.HoursSourceBusiness,
	}, nil
}

func (r *fakeHoursRepo) ListForBarber(_ context.Context, _ uuid.UUID) ([]*model.WorkingHours, error) {
	return nil, nil
}

func (r *fakeHoursRepo) ListForBarbershop(_ context.Context, _ uuid.UUID) ([]*model.WorkingHours, error) {
	return nil, nil
}

func (r *fakeHoursRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type fakeUserRepo struct{}

func (fakeUserRepo) Create(_ context.Context, _ *model.User) error          { return nil }
func (fakeUserRepo) Get(_ context.Context, _ uuid.UUID) (*model.User, error) { return nil, nil }
func (fakeUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}
func (fakeUserRepo) Update(_ context.Context, _ *model.User) error                  { return nil }
func (fakeUserRepo) UpdateRole(_ context.Context, _ uuid.UUID, _ model.Role) error  { return nil }
func (fakeUserRepo) Delete(_ context.Context, _ uuid.UUID) error                    { return nil }
func (fakeUserRepo) List(_ context.Context, _ *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}
func (fakeUserRepo) ListBarbers(_ context.Context, _ uuid.UUID) ([]*model.User, error) {
	return nil, nil
}

type fixture struct {
	svc       *Service
	apptRepo  *fakeApptRepo
	shopID    uuid.UUID
	barberID  uuid.UUID
	clientID  uuid.UUID
	serviceID uuid.UUID
}

func newFixture() *fixture {
	shopID := uuid.New()
	serviceID := uuid.New()

	apptRepo := newFakeApptRepo()
	serviceRepo := &fakeServiceRepo{services: map[uuid.UUID]*model.Service{
		serviceID: {
			Base:            model.Base{ID: serviceID},
			BarbershopID:    shopID,
			Name:            "Haircut",
			DurationMinutes: 30,
			PriceCents:      4500,
			Active:          true,
		},
	}}

	availSvc := availability.NewService(&fakeHoursRepo{shopID: shopID}, apptRepo, fakeUserRepo{}, nil)

	return &fixture{
		svc:       NewService(apptRepo, serviceRepo, availSvc, nil, nil),
		apptRepo:  apptRepo,
		shopID:    shopID,
		barberID:  uuid.New(),
		clientID:  uuid.New(),
		serviceID: serviceID,
	}
}

// tomorrowAt avoids flaking near midnight by always landing on a future day.
func tomorrowAt(hour int) time.Time {
	t := time.Now().AddDate(0, 0, 1)
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}

func (f *fixture) bookRequest(start time.Time) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		BarbershopID: f.shopID.String(),
		BarberID:     f.barberID.String(),
		ServiceID:    f.serviceID.String(),
		StartTime:    start,
	}
}

func TestBook(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a scheduled appointment with the service duration", func(t *testing.T) {
		f := newFixture()
		start := tomorrowAt(10)

		appt, err := f.svc.Book(ctx, f.clientID, f.bookRequest(start))
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
		assert.Equal(t, start, appt.StartTime)
		assert.Equal(t, start.Add(30*time.Minute), appt.EndTime)
		assert.Len(t, f.apptRepo.appointments, 1)
	})

	t.Run("past start time is rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Book(ctx, f.clientID, f.bookRequest(time.Now().Add(-time.Hour)))
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
	})

	t.Run("too far in the future is rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Book(ctx, f.clientID, f.bookRequest(time.Now().Add(MaxAdvanceBooking+24*time.Hour)))
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
	})

	t.Run("occupied slot is rejected before hitting the store", func(t *testing.T) {
		f := newFixture()
		start := tomorrowAt(10)

		_, err := f.svc.Book(ctx, f.clientID, f.bookRequest(start))
		require.NoError(t, err)

		// Second client wants the same slot.
		_, err = f.svc.Book(ctx, uuid.New(), f.bookRequest(start))
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
		assert.Len(t, f.apptRepo.appointments, 1)
	})

	t.Run("lost race at the store surfaces as a conflict", func(t *testing.T) {
		f := newFixture()
		f.apptRepo.createErr = repository.ErrSlotTaken

		_, err := f.svc.Book(ctx, f.clientID, f.bookRequest(tomorrowAt(10)))
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	})

	t.Run("inactive service cannot be booked", func(t *testing.T) {
		f := newFixture()
		svc := &model.Service{
			Base:            model.Base{ID: uuid.New()},
			BarbershopID:    f.shopID,
			Name:            "Retired package",
			DurationMinutes: 60,
			Active:          false,
		}
		f.svc.serviceRepo.(*fakeServiceRepo).services[svc.ID] = svc

		req := f.bookRequest(tomorrowAt(10))
		req.ServiceID = svc.ID.String()
		_, err := f.svc.Book(ctx, f.clientID, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	appt, err := f.svc.Book(ctx, f.clientID, f.bookRequest(tomorrowAt(10)))
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, appt.ID, "client asked")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "client asked", *cancelled.CancelReason)

	// The slot opens up again.
	_, err = f.svc.Book(ctx, uuid.New(), f.bookRequest(tomorrowAt(10)))
	assert.NoError(t, err)

	// A cancelled appointment cannot be cancelled twice.
	_, err = f.svc.Cancel(ctx, appt.ID, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	appt, err := f.svc.Book(ctx, f.clientID, f.bookRequest(tomorrowAt(10)))
	require.NoError(t, err)

	confirmed, err := f.svc.Confirm(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)

	// Confirm is only valid from scheduled.
	_, err = f.svc.Confirm(ctx, appt.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestReschedule(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the appointment and keeps the duration", func(t *testing.T) {
		f := newFixture()
		appt, err := f.svc.Book(ctx, f.clientID, f.bookRequest(tomorrowAt(10)))
		require.NoError(t, err)

		newStart := tomorrowAt(15)
		moved, err := f.svc.Reschedule(ctx, appt.ID, newStart)
		require.NoError(t, err)
		assert.Equal(t, newStart, moved.StartTime)
		assert.Equal(t, newStart.Add(30*time.Minute), moved.EndTime)
	})

	t.Run("conflicting target slot is rejected", func(t *testing.T) {
		f := newFixture()
		appt, err := f.svc.Book(ctx, f.clientID, f.bookRequest(tomorrowAt(10)))
		require.NoError(t, err)

		f.apptRepo.conflict = true
		_, err = f.svc.Reschedule(ctx, appt.ID, tomorrowAt(15))
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	})

	t.Run("cancelled appointment cannot be moved", func(t *testing.T) {
		f := newFixture()
		appt, err := f.svc.Book(ctx, f.clientID, f.bookRequest(tomorrowAt(10)))
		require.NoError(t, err)
		_, err = f.svc.Cancel(ctx, appt.ID, "")
		require.NoError(t, err)

		_, err = f.svc.Reschedule(ctx, appt.ID, tomorrowAt(15))
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	})
}
