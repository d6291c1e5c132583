package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// Active reports whether the appointment still occupies its time slot.
func (s AppointmentStatus) Active() bool {
	return s == AppointmentStatusScheduled || s == AppointmentStatusConfirmed
}

type Appointment struct {
	Base
	BarbershopID uuid.UUID         `db:"barbershop_id" json:"barbershop_id"`
	BarberID     uuid.UUID         `db:"barber_id" json:"barber_id"`
	ClientID     uuid.UUID         `db:"client_id" json:"client_id"`
	ServiceID    uuid.UUID         `db:"service_id" json:"service_id"`
	StartTime    time.Time         `db:"start_time" json:"start_time"`
	EndTime      time.Time         `db:"end_time" json:"end_time"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        string            `db:"notes" json:"notes,omitempty"`
	CancelReason *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateAppointmentRequest struct {
	BarbershopID string    `json:"barbershop_id" binding:"required,uuid"`
	BarberID     string    `json:"barber_id" binding:"required,uuid"`
	ServiceID    string    `json:"service_id" binding:"required,uuid"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	Notes        string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	StartTime    *time.Time         `json:"start_time"`
	Status       *AppointmentStatus `json:"status"`
	Notes        *string            `json:"notes"`
	CancelReason *string            `json:"cancel_reason"`
}

// TimeSlot is a concrete start/end interval on a calendar day.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps applies the half-open interval rule: [a,b) and [c,d) overlap
// iff a < d && c < b.
func (t TimeSlot) Overlaps(other TimeSlot) bool {
	return t.Start.Before(other.End) && other.Start.Before(t.End)
}

type AppointmentFilters struct {
	BarbershopID uuid.UUID
	BarberID     uuid.UUID
	ClientID     uuid.UUID
	Status       AppointmentStatus
	StartDate    time.Time
	EndDate      time.Time
}
