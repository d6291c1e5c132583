package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/repository"
	"github.com/styllobarber/styllobarber-api/internal/service/availability"
	"github.com/styllobarber/styllobarber-api/internal/service/notification"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
	"github.com/styllobarber/styllobarber-api/pkg/metrics"
)

const (
	// MaxAdvanceBooking bounds how far into the future a client may book.
	MaxAdvanceBooking = 90 * 24 * time.Hour
)

type Service struct {
	repo        repository.AppointmentRepository
	serviceRepo repository.ServiceRepository
	availSvc    *availability.Service
	notifSvc    *notification.Service
	metrics     *metrics.Metrics
}

func NewService(
	repo repository.AppointmentRepository,
	serviceRepo repository.ServiceRepository,
	availSvc *availability.Service,
	notifSvc *notification.Service,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		repo:        repo,
		serviceRepo: serviceRepo,
		availSvc:    availSvc,
		notifSvc:    notifSvc,
		metrics:     metrics,
	}
}

// Book creates an appointment for the client. The availability check here
// is advisory; the store runs the authoritative overlap check inside the
// insert transaction, so two clients racing for the same slot cannot both
// win. A lost race surfaces as a conflict error and the client must pick a
// fresh slot.
func (s *Service) Book(ctx context.Context, clientID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	barbershopID, err := uuid.Parse(req.BarbershopID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid barbershop id", err)
	}
	barberID, err := uuid.Parse(req.BarberID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid barber id", err)
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid service id", err)
	}

	now := time.Now()
	if req.StartTime.Before(now) {
		return nil, apperrors.BadRequest("appointment cannot be scheduled in the past", nil)
	}
	if req.StartTime.After(now.Add(MaxAdvanceBooking)) {
		return nil, apperrors.BadRequest("appointment is too far in the future", nil)
	}

	svc, err := s.serviceRepo.Get(ctx, serviceID)
	if err != nil {
		return nil, apperrors.NotFound("service", err)
	}
	if !svc.Active {
		return nil, apperrors.BadRequest("service is not available", nil)
	}

	result, err := s.availSvc.CheckAvailability(ctx, barbershopID, barberID,
		req.StartTime, req.StartTime.Format("15:04"), svc.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if !result.Available {
		return nil, apperrors.Conflict(fmt.Sprintf("slot is not available: %s", result.Reason), nil)
	}

	appt := &model.Appointment{
		Base:         model.Base{ID: uuid.New()},
		BarbershopID: barbershopID,
		BarberID:     barberID,
		ClientID:     clientID,
		ServiceID:    serviceID,
		StartTime:    req.StartTime,
		EndTime:      req.StartTime.Add(time.Duration(svc.DurationMinutes) * time.Minute),
		Status:       model.AppointmentStatusScheduled,
		Notes:        req.Notes,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			if s.metrics != nil {
				s.metrics.BookingConflicts.Inc()
			}
			return nil, apperrors.Conflict("time slot was just taken, please pick another", err)
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.availSvc.InvalidateDay(barberID, appt.StartTime)
	s.notifyBoth(ctx, appt, model.NotificationAppointmentCreated,
		"Appointment scheduled",
		fmt.Sprintf("Appointment on %s at %s.", appt.StartTime.Format("2006-01-02"), appt.StartTime.Format("15:04")))

	return appt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	return appt, nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

// Confirm moves a scheduled appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusConfirmed, func(appt *model.Appointment) error {
		if appt.Status != model.AppointmentStatusScheduled {
			return apperrors.Conflict(fmt.Sprintf("cannot confirm a %s appointment", appt.Status), nil)
		}
		return nil
	})
}

// Cancel frees the slot. Allowed from any active status.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if !appt.Status.Active() {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot cancel a %s appointment", appt.Status), nil)
	}

	appt.Status = model.AppointmentStatusCancelled
	if reason != "" {
		appt.CancelReason = &reason
	}
	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.availSvc.InvalidateDay(appt.BarberID, appt.StartTime)
	s.notifyBoth(ctx, appt, model.NotificationAppointmentCancelled,
		"Appointment cancelled",
		fmt.Sprintf("Appointment on %s at %s was cancelled.", appt.StartTime.Format("2006-01-02"), appt.StartTime.Format("15:04")))
	return appt, nil
}

// Complete marks a finished visit; the POS flow records the payment
// separately.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusCompleted, func(appt *model.Appointment) error {
		if !appt.Status.Active() {
			return apperrors.Conflict(fmt.Sprintf("cannot complete a %s appointment", appt.Status), nil)
		}
		return nil
	})
}

// MarkNoShow records that the client never arrived.
func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusNoShow, func(appt *model.Appointment) error {
		if !appt.Status.Active() {
			return apperrors.Conflict(fmt.Sprintf("cannot mark a %s appointment as no-show", appt.Status), nil)
		}
		return nil
	})
}

// Reschedule moves an active appointment to a new start time, re-running
// both the advisory and the authoritative conflict checks.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newStart time.Time) (*model.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if !appt.Status.Active() {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot reschedule a %s appointment", appt.Status), nil)
	}
	if newStart.Before(time.Now()) {
		return nil, apperrors.BadRequest("appointment cannot be moved into the past", nil)
	}

	duration := appt.EndTime.Sub(appt.StartTime)
	newEnd := newStart.Add(duration)

	conflict, err := s.repo.CheckConflict(ctx, appt.BarberID, newStart, newEnd, &appt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}
	if conflict {
		if s.metrics != nil {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, apperrors.Conflict("new time slot is already taken", nil)
	}

	oldStart := appt.StartTime
	appt.StartTime = newStart
	appt.EndTime = newEnd
	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	s.availSvc.InvalidateDay(appt.BarberID, oldStart)
	s.availSvc.InvalidateDay(appt.BarberID, newStart)
	return appt, nil
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to model.AppointmentStatus, check func(*model.Appointment) error) (*model.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err := check(appt); err != nil {
		return nil, err
	}

	appt.Status = to
	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.availSvc.InvalidateDay(appt.BarberID, appt.StartTime)
	if to == model.AppointmentStatusConfirmed {
		s.notifyBoth(ctx, appt, model.NotificationAppointmentConfirmed,
			"Appointment confirmed",
			fmt.Sprintf("Appointment on %s at %s is confirmed.", appt.StartTime.Format("2006-01-02"), appt.StartTime.Format("15:04")))
	}
	return appt, nil
}

func (s *Service) notifyBoth(ctx context.Context, appt *model.Appointment, typ model.NotificationType, subject, body string) {
	if s.notifSvc == nil {
		return
	}
	for _, userID := range []uuid.UUID{appt.ClientID, appt.BarberID} {
		// Notification failures never fail the booking.
		_ = s.notifSvc.Notify(ctx, userID, typ, subject, body)
	}
}
