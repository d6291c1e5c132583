package model

import (
	"github.com/google/uuid"
)

// Service is a bookable catalog entry (haircut, beard trim...). Its duration
// drives slot generation in the availability engine.
type Service struct {
	Base
	BarbershopID    uuid.UUID `db:"barbershop_id" json:"barbershop_id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description,omitempty"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	PriceCents      int64     `db:"price_cents" json:"price_cents"`
	Active          bool      `db:"active" json:"active"`
}

type CreateServiceRequest struct {
	BarbershopID    string `json:"barbershop_id" binding:"required,uuid"`
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,gt=0"`
	PriceCents      int64  `json:"price_cents" binding:"required,gte=0"`
}

type UpdateServiceRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,gt=0"`
	PriceCents      *int64  `json:"price_cents" binding:"omitempty,gte=0"`
	Active          *bool   `json:"active"`
}
