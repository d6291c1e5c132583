package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationAppointmentCreated   NotificationType = "appointment_created"
	NotificationAppointmentConfirmed NotificationType = "appointment_confirmed"
	NotificationAppointmentCancelled NotificationType = "appointment_cancelled"
)

type Notification struct {
	Base
	UserID  uuid.UUID        `db:"user_id" json:"user_id"`
	Type    NotificationType `db:"type" json:"type"`
	Subject string           `db:"subject" json:"subject"`
	Body    string           `db:"body" json:"body"`
	Read    bool             `db:"read" json:"read"`
	SentAt  *time.Time       `db:"sent_at" json:"sent_at,omitempty"`
}
