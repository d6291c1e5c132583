package model

// UnavailableReason explains why a candidate slot was rejected.
type UnavailableReason string

const (
	ReasonNone              UnavailableReason = ""
	ReasonOutsideHours      UnavailableReason = "outside-hours"
	ReasonInBreak           UnavailableReason = "in-break"
	ReasonConflict          UnavailableReason = "conflict"
	ReasonBarberUnavailable UnavailableReason = "barber-unavailable"
)

// SlotAvailability is the answer to a point query: is this HH:MM start
// bookable for the requested duration, and if not, why not.
type SlotAvailability struct {
	Time      string            `json:"time"`
	Available bool              `json:"available"`
	Reason    UnavailableReason `json:"reason,omitempty"`
}

// AvailabilityRequest are the parameters for a day availability query.
type AvailabilityRequest struct {
	BarberID        string `form:"barber_id" binding:"required,uuid"`
	Date            string `form:"date" binding:"required"`
	DurationMinutes int    `form:"duration_minutes" binding:"required,gt=0"`
	StepMinutes     int    `form:"step_minutes" binding:"omitempty,gt=0"`
}

// AvailabilityBatchRequest checks several candidate start times at once.
type AvailabilityBatchRequest struct {
	BarbershopID    string   `json:"barbershop_id" binding:"required,uuid"`
	BarberID        string   `json:"barber_id" binding:"required,uuid"`
	Date            string   `json:"date" binding:"required"`
	Times           []string `json:"times" binding:"required,min=1"`
	DurationMinutes int      `json:"duration_minutes" binding:"required,gt=0"`
}
