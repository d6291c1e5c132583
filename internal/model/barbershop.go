package model

import (
	"github.com/google/uuid"
)

// Barbershop is the tenant. All scheduling and financial records hang off
// one shop.
type Barbershop struct {
	Base
	Name     string  `db:"name" json:"name"`
	Slug     string  `db:"slug" json:"slug"`
	OwnerID  uuid.UUID `db:"owner_id" json:"owner_id"`
	Phone    *string `db:"phone" json:"phone,omitempty"`
	Address  *string `db:"address" json:"address,omitempty"`
	Timezone string  `db:"timezone" json:"timezone"`
	Active   bool    `db:"active" json:"active"`
}

type CreateBarbershopRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required,lowercase"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
}

type UpdateBarbershopRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}
