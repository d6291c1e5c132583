package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HoursSource indicates whether a working-hours record is a barber-specific
// override or the shop-wide default.
type HoursSource string

const (
	HoursSourceBarber   HoursSource = "barber"
	HoursSourceBusiness HoursSource = "business"
)

// WorkingHours is the open/close/break schedule for one day of week, either
// for the whole shop (BarberID nil) or for a single barber. Times are stored
// as HH:MM strings in the shop's local timezone.
type WorkingHours struct {
	Base
	BarbershopID   uuid.UUID   `db:"barbershop_id" json:"barbershop_id"`
	BarberID       *uuid.UUID  `db:"barber_id" json:"barber_id,omitempty"`
	DayOfWeek      int         `db:"day_of_week" json:"day_of_week"` // 0=Sunday .. 6=Saturday
	IsOpen         bool        `db:"is_open" json:"is_open"`
	OpenTime       string      `db:"open_time" json:"open_time"`
	CloseTime      string      `db:"close_time" json:"close_time"`
	BreakStartTime *string     `db:"break_start_time" json:"break_start_time,omitempty"`
	BreakEndTime   *string     `db:"break_end_time" json:"break_end_time,omitempty"`
	Source         HoursSource `db:"source" json:"source"`
}

// HasBreak reports whether a lunch/break window is configured.
func (w *WorkingHours) HasBreak() bool {
	return w.BreakStartTime != nil && w.BreakEndTime != nil
}

// Validate enforces the write-time invariants: open < close when the day is
// open, and the break fully inside the open window with both ends present.
func (w *WorkingHours) Validate() error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be between 0 and 6, got %d", w.DayOfWeek)
	}
	if !w.IsOpen {
		return nil
	}

	open, err := ParseClock(w.OpenTime)
	if err != nil {
		return fmt.Errorf("invalid open_time: %w", err)
	}
	close, err := ParseClock(w.CloseTime)
	if err != nil {
		return fmt.Errorf("invalid close_time: %w", err)
	}
	if open >= close {
		return fmt.Errorf("open_time %s must be before close_time %s", w.OpenTime, w.CloseTime)
	}

	if (w.BreakStartTime == nil) != (w.BreakEndTime == nil) {
		return fmt.Errorf("break_start_time and break_end_time must both be set or both be absent")
	}
	if w.HasBreak() {
		bs, err := ParseClock(*w.BreakStartTime)
		if err != nil {
			return fmt.Errorf("invalid break_start_time: %w", err)
		}
		be, err := ParseClock(*w.BreakEndTime)
		if err != nil {
			return fmt.Errorf("invalid break_end_time: %w", err)
		}
		if bs >= be {
			return fmt.Errorf("break_start_time %s must be before break_end_time %s", *w.BreakStartTime, *w.BreakEndTime)
		}
		if bs < open || be > close {
			return fmt.Errorf("break window %s-%s must be within working hours %s-%s",
				*w.BreakStartTime, *w.BreakEndTime, w.OpenTime, w.CloseTime)
		}
	}
	return nil
}

// ParseClock converts an HH:MM string to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes since midnight back to HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// UpsertWorkingHoursRequest represents a schedule write for one day.
type UpsertWorkingHoursRequest struct {
	BarbershopID   string  `json:"barbershop_id" binding:"required,uuid"`
	BarberID       *string `json:"barber_id" binding:"omitempty,uuid"`
	DayOfWeek      int     `json:"day_of_week" binding:"min=0,max=6"`
	IsOpen         bool    `json:"is_open"`
	OpenTime       string  `json:"open_time"`
	CloseTime      string  `json:"close_time"`
	BreakStartTime *string `json:"break_start_time"`
	BreakEndTime   *string `json:"break_end_time"`
}
