package availability

import (
	"github.com/styllobarber/styllobarber-api/internal/model"
)

// DaySchedule is the effective working window for one barber on one day,
// resolved to minutes since midnight. Closed covers the no-record,
// not-open and malformed-record cases alike: the whole day is unbookable.
type DaySchedule struct {
	Open       int
	Close      int
	BreakStart int
	BreakEnd   int
	HasBreak   bool
	Closed     bool
	Source     model.HoursSource
}

// BusyInterval is an occupied [Start, End) window in minutes since midnight.
type BusyInterval struct {
	Start int
	End   int
}

// ResolveDaySchedule picks the effective hours for a barber: the
// barber-specific override wins over the shop-wide default. A missing or
// closed record yields a Closed schedule. Malformed records (inverted
// open/close, break escaping the window) also resolve to Closed rather than
// producing nonsensical slots; write-time validation should have rejected
// them already.
func ResolveDaySchedule(barberHours, businessHours *model.WorkingHours) DaySchedule {
	hours := barberHours
	if hours == nil {
		hours = businessHours
	}
	if hours == nil || !hours.IsOpen {
		return DaySchedule{Closed: true}
	}

	open, err := model.ParseClock(hours.OpenTime)
	if err != nil {
		return DaySchedule{Closed: true, Source: hours.Source}
	}
	close, err := model.ParseClock(hours.CloseTime)
	if err != nil {
		return DaySchedule{Closed: true, Source: hours.Source}
	}
	if open >= close {
		return DaySchedule{Closed: true, Source: hours.Source}
	}

	sched := DaySchedule{
		Open:   open,
		Close:  close,
		Source: hours.Source,
	}

	if hours.HasBreak() {
		bs, err1 := model.ParseClock(*hours.BreakStartTime)
		be, err2 := model.ParseClock(*hours.BreakEndTime)
		if err1 != nil || err2 != nil || bs >= be || bs < open || be > close {
			return DaySchedule{Closed: true, Source: hours.Source}
		}
		sched.HasBreak = true
		sched.BreakStart = bs
		sched.BreakEnd = be
	}

	return sched
}

// CheckSlot answers the point query: is a slot of durationMinutes starting
// at startMinutes bookable. The rejection rules run in order (closed day,
// outside hours, break overlap, appointment conflict); all interval tests
// are half-open, so a slot ending exactly at close or at break start is
// allowed.
func (s DaySchedule) CheckSlot(startMinutes, durationMinutes int, busy []BusyInterval) model.SlotAvailability {
	result := model.SlotAvailability{Time: model.FormatClock(startMinutes)}

	if s.Closed {
		result.Reason = model.ReasonBarberUnavailable
		return result
	}

	end := startMinutes + durationMinutes
	if startMinutes < s.Open || end > s.Close {
		result.Reason = model.ReasonOutsideHours
		return result
	}

	if s.HasBreak && startMinutes < s.BreakEnd && end > s.BreakStart {
		result.Reason = model.ReasonInBreak
		return result
	}

	for _, b := range busy {
		if startMinutes < b.End && end > b.Start {
			result.Reason = model.ReasonConflict
			return result
		}
	}

	result.Available = true
	return result
}

// GenerateSlots enumerates the bookable HH:MM start times for the day,
// stepping from open by stepMinutes. The returned list is ascending by
// construction.
func (s DaySchedule) GenerateSlots(durationMinutes, stepMinutes int, busy []BusyInterval) []string {
	if s.Closed || durationMinutes <= 0 || stepMinutes <= 0 {
		return nil
	}

	var slots []string
	for t := s.Open; t+durationMinutes <= s.Close; t += stepMinutes {
		if result := s.CheckSlot(t, durationMinutes, busy); result.Available {
			slots = append(slots, result.Time)
		}
	}
	return slots
}
