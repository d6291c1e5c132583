package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/repository"
	"github.com/styllobarber/styllobarber-api/internal/service/availability"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
)

// Service administers working hours: the shop-wide defaults and the
// per-barber overrides that the availability engine resolves against.
type Service struct {
	repo     repository.WorkingHoursRepository
	availSvc *availability.Service
}

func NewService(repo repository.WorkingHoursRepository, availSvc *availability.Service) *Service {
	return &Service{repo: repo, availSvc: availSvc}
}

// UpsertDay writes one day-of-week record. Validation happens here, at
// write time; the availability engine still treats malformed stored
// records as closed rather than trusting this gate.
func (s *Service) UpsertDay(ctx context.Context, req *model.UpsertWorkingHoursRequest) (*model.WorkingHours, error) {
	barbershopID, err := uuid.Parse(req.BarbershopID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid barbershop id", err)
	}

	hours := &model.WorkingHours{
		Base:           model.Base{ID: uuid.New()},
		BarbershopID:   barbershopID,
		DayOfWeek:      req.DayOfWeek,
		IsOpen:         req.IsOpen,
		OpenTime:       req.OpenTime,
		CloseTime:      req.CloseTime,
		BreakStartTime: req.BreakStartTime,
		BreakEndTime:   req.BreakEndTime,
		Source:         model.HoursSourceBusiness,
	}

	if req.BarberID != nil {
		barberID, err := uuid.Parse(*req.BarberID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid barber id", err)
		}
		hours.BarberID = &barberID
		hours.Source = model.HoursSourceBarber
	}

	if err := hours.Validate(); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	if err := s.repo.Upsert(ctx, hours); err != nil {
		return nil, fmt.Errorf("failed to save working hours: %w", err)
	}

	s.invalidate(hours)
	return hours, nil
}

// EffectiveWeek resolves the schedule a barber actually works: their
// override where one exists, the shop default otherwise. The Source field
// tells the caller which record won for each day.
func (s *Service) EffectiveWeek(ctx context.Context, barbershopID, barberID uuid.UUID) ([]*model.WorkingHours, error) {
	overrides, err := s.repo.ListForBarber(ctx, barberID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch barber hours: %w", err)
	}
	defaults, err := s.repo.ListForBarbershop(ctx, barbershopID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch business hours: %w", err)
	}

	byDay := make(map[int]*model.WorkingHours, 7)
	for _, h := range defaults {
		if h.BarberID == nil {
			byDay[h.DayOfWeek] = h
		}
	}
	for _, h := range overrides {
		byDay[h.DayOfWeek] = h
	}

	week := make([]*model.WorkingHours, 0, 7)
	for day := 0; day < 7; day++ {
		if h, ok := byDay[day]; ok {
			week = append(week, h)
			continue
		}
		// No record at all reads as closed.
		week = append(week, &model.WorkingHours{
			BarbershopID: barbershopID,
			DayOfWeek:    day,
			IsOpen:       false,
			Source:       model.HoursSourceBusiness,
		})
	}
	return week, nil
}

// BusinessWeek lists the shop-wide default records.
func (s *Service) BusinessWeek(ctx context.Context, barbershopID uuid.UUID) ([]*model.WorkingHours, error) {
	hours, err := s.repo.ListForBarbershop(ctx, barbershopID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch business hours: %w", err)
	}
	out := make([]*model.WorkingHours, 0, len(hours))
	for _, h := range hours {
		if h.BarberID == nil {
			out = append(out, h)
		}
	}
	return out, nil
}

// DeleteDay removes a record; the barber falls back to the shop default
// for that day, or to closed when no default exists.
func (s *Service) DeleteDay(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete working hours: %w", err)
	}
	return nil
}

func (s *Service) invalidate(hours *model.WorkingHours) {
	if s.availSvc == nil || hours.BarberID == nil {
		return
	}
	// Keeps the common edit-then-recheck flow fresh for today.
	s.availSvc.InvalidateDay(*hours.BarberID, time.Now())
}
