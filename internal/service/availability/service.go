package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/repository"
	"github.com/styllobarber/styllobarber-api/pkg/cache"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
	"github.com/styllobarber/styllobarber-api/pkg/metrics"
)

const minutesPerDay = 24 * 60

// Service answers availability queries for the booking UI. The computation
// itself is pure (see engine.go); this layer fetches working hours and
// appointments, maintains the day cache and records metrics.
type Service struct {
	hoursRepo   repository.WorkingHoursRepository
	apptRepo    repository.AppointmentRepository
	userRepo    repository.UserRepository
	dayCache    *cache.DayCache
	redisCache  *cache.RedisCache
	metrics     *metrics.Metrics
	stepMinutes int
}

type Option func(*Service)

// WithMetrics attaches prometheus counters to the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithRedisInvalidation broadcasts invalidations so other instances drop
// their local day cache entries too.
func WithRedisInvalidation(rc *cache.RedisCache) Option {
	return func(s *Service) { s.redisCache = rc }
}

// WithDefaultStep overrides the 30 minute default slot granularity.
func WithDefaultStep(minutes int) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.stepMinutes = minutes
		}
	}
}

func NewService(
	hoursRepo repository.WorkingHoursRepository,
	apptRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	dayCache *cache.DayCache,
	opts ...Option,
) *Service {
	s := &Service{
		hoursRepo:   hoursRepo,
		apptRepo:    apptRepo,
		userRepo:    userRepo,
		dayCache:    dayCache,
		stepMinutes: 30,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAvailableTimeSlots returns the ascending HH:MM list of bookable start
// times for the barber on the given date. stepMinutes <= 0 selects the
// configured default granularity.
func (s *Service) GetAvailableTimeSlots(ctx context.Context, barbershopID, barberID uuid.UUID, date time.Time, durationMinutes, stepMinutes int) ([]string, error) {
	if durationMinutes <= 0 {
		return nil, apperrors.BadRequest("duration must be positive", nil)
	}
	if stepMinutes <= 0 {
		stepMinutes = s.stepMinutes
	}
	s.countQuery("slots")
	defer s.observeLatency(time.Now())

	sched, err := s.effectiveSchedule(ctx, barbershopID, barberID, date)
	if err != nil {
		return nil, err
	}
	if sched.Closed {
		return nil, nil
	}

	busy, err := s.busyIntervals(ctx, barberID, date)
	if err != nil {
		return nil, err
	}

	slots := sched.GenerateSlots(durationMinutes, stepMinutes, busy)
	if s.metrics != nil {
		s.metrics.SlotsGenerated.Add(float64(len(slots)))
	}
	return slots, nil
}

// CheckAvailability answers the point query for a single candidate start
// time without enumerating the whole day.
func (s *Service) CheckAvailability(ctx context.Context, barbershopID, barberID uuid.UUID, date time.Time, timeOfDay string, durationMinutes int) (model.SlotAvailability, error) {
	if durationMinutes <= 0 {
		return model.SlotAvailability{}, apperrors.BadRequest("duration must be positive", nil)
	}
	start, err := model.ParseClock(timeOfDay)
	if err != nil {
		return model.SlotAvailability{}, apperrors.BadRequest("invalid time of day", err)
	}
	s.countQuery("check")
	defer s.observeLatency(time.Now())

	sched, err := s.effectiveSchedule(ctx, barbershopID, barberID, date)
	if err != nil {
		return model.SlotAvailability{}, err
	}

	busy, err := s.busyIntervals(ctx, barberID, date)
	if err != nil {
		return model.SlotAvailability{}, err
	}

	return sched.CheckSlot(start, durationMinutes, busy), nil
}

// GetAvailabilityBatch applies the single-slot check to every requested
// time. Results are identical to calling CheckAvailability per time; the
// schedule and busy intervals are fetched once as an optimization only.
func (s *Service) GetAvailabilityBatch(ctx context.Context, barbershopID, barberID uuid.UUID, date time.Time, times []string, durationMinutes int) (map[string]model.SlotAvailability, error) {
	if durationMinutes <= 0 {
		return nil, apperrors.BadRequest("duration must be positive", nil)
	}
	s.countQuery("batch")
	defer s.observeLatency(time.Now())

	sched, err := s.effectiveSchedule(ctx, barbershopID, barberID, date)
	if err != nil {
		return nil, err
	}
	busy, err := s.busyIntervals(ctx, barberID, date)
	if err != nil {
		return nil, err
	}

	results := make(map[string]model.SlotAvailability, len(times))
	for _, t := range times {
		start, err := model.ParseClock(t)
		if err != nil {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid time of day: %s", t), err)
		}
		results[t] = sched.CheckSlot(start, durationMinutes, busy)
	}
	return results, nil
}

// GetAvailableTimeSlotsAnyBarber returns slots bookable with at least one
// active barber: the union of the per-barber results, ascending.
func (s *Service) GetAvailableTimeSlotsAnyBarber(ctx context.Context, barbershopID uuid.UUID, date time.Time, durationMinutes, stepMinutes int) ([]string, error) {
	barbers, err := s.userRepo.ListBarbers(ctx, barbershopID)
	if err != nil {
		return nil, fmt.Errorf("failed to list barbers: %w", err)
	}

	union := make(map[string]struct{})
	for _, barber := range barbers {
		slots, err := s.GetAvailableTimeSlots(ctx, barbershopID, barber.ID, date, durationMinutes, stepMinutes)
		if err != nil {
			return nil, err
		}
		for _, slot := range slots {
			union[slot] = struct{}{}
		}
	}

	merged := make([]string, 0, len(union))
	for slot := range union {
		merged = append(merged, slot)
	}
	sort.Strings(merged)
	return merged, nil
}

// InvalidateDay drops the cached appointments for the barber and date.
// Called after bookings and cancellations. With Redis configured the
// invalidation also reaches the other instances.
func (s *Service) InvalidateDay(barberID uuid.UUID, date time.Time) {
	key := dateKey(date)
	if s.dayCache != nil {
		s.dayCache.Invalidate(barberID, key)
	}
	if s.redisCache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.redisCache.Invalidate(ctx, barberID.String()+"|"+key)
	}
}

// effectiveSchedule resolves the working hours that apply to the barber on
// the date's day of week: barber override first, business default second.
func (s *Service) effectiveSchedule(ctx context.Context, barbershopID, barberID uuid.UUID, date time.Time) (DaySchedule, error) {
	dayOfWeek := int(date.Weekday())

	barberHours, err := s.hoursRepo.GetBarberDay(ctx, barberID, dayOfWeek)
	if err != nil {
		return DaySchedule{}, fmt.Errorf("failed to fetch barber hours: %w", err)
	}

	var businessHours *model.WorkingHours
	if barberHours == nil {
		businessHours, err = s.hoursRepo.GetBusinessDay(ctx, barbershopID, dayOfWeek)
		if err != nil {
			return DaySchedule{}, fmt.Errorf("failed to fetch business hours: %w", err)
		}
	}

	return ResolveDaySchedule(barberHours, businessHours), nil
}

// busyIntervals fetches the day's non-cancelled appointments, via the day
// cache when possible. Fetch errors propagate; an empty day is never
// synthesized from a failure.
func (s *Service) busyIntervals(ctx context.Context, barberID uuid.UUID, date time.Time) ([]BusyInterval, error) {
	key := dateKey(date)

	if s.dayCache != nil {
		if slots, ok := s.dayCache.Get(barberID, key); ok {
			s.countCache(true)
			return toBusyIntervals(date, slots), nil
		}
		s.countCache(false)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	appointments, err := s.apptRepo.GetBarberAppointments(ctx, barberID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}

	slots := make([]model.TimeSlot, 0, len(appointments))
	for _, appt := range appointments {
		if !appt.Status.Active() {
			continue
		}
		slots = append(slots, model.TimeSlot{Start: appt.StartTime, End: appt.EndTime})
	}

	if s.dayCache != nil {
		s.dayCache.Set(barberID, key, slots)
	}
	return toBusyIntervals(date, slots), nil
}

// toBusyIntervals projects absolute intervals onto minutes since midnight
// of the query date, clamping anything that spills over the day boundary.
func toBusyIntervals(date time.Time, slots []model.TimeSlot) []BusyInterval {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	busy := make([]BusyInterval, 0, len(slots))
	for _, slot := range slots {
		start := int(slot.Start.Sub(dayStart).Minutes())
		end := int(slot.End.Sub(dayStart).Minutes())
		if end <= 0 || start >= minutesPerDay {
			continue
		}
		if start < 0 {
			start = 0
		}
		if end > minutesPerDay {
			end = minutesPerDay
		}
		busy = append(busy, BusyInterval{Start: start, End: end})
	}
	return busy
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func (s *Service) observeLatency(start time.Time) {
	if s.metrics != nil {
		s.metrics.AvailabilityLatency.Observe(time.Since(start).Seconds())
	}
}

func (s *Service) countQuery(kind string) {
	if s.metrics != nil {
		s.metrics.AvailabilityQueries.WithLabelValues(kind).Inc()
	}
}

func (s *Service) countCache(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.DayCacheHits.Inc()
	} else {
		s.metrics.DayCacheMisses.Inc()
	}
}
