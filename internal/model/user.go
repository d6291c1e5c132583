package model

import (
	"time"

	"github.com/google/uuid"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
	UserStatusLocked   = "locked"
)

// User represents a system user (admin, barber, client or SaaS owner).
type User struct {
	Base
	BarbershopID     uuid.UUID  `json:"barbershop_id" db:"barbershop_id"`
	Email            string     `json:"email" db:"email"`
	Name             string     `json:"name" db:"name"`
	Password         string     `json:"password,omitempty" db:"-"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Phone            *string    `json:"phone" db:"phone"`
	Role             Role       `json:"role" db:"role"`
	Status           string     `json:"status" db:"status"`
	AvatarURL        *string    `json:"avatar_url" db:"avatar_url"`
	Timezone         string     `json:"timezone" db:"timezone"`
	LastLoginAt      *time.Time `json:"last_login_at" db:"last_login_at"`
	LoginAttempts    int        `json:"-" db:"login_attempts"`
	LastLoginAttempt time.Time  `json:"-" db:"last_login_attempt"`
	Settings         JSONMap    `json:"settings" db:"settings"`
}

// IsBarber reports whether the user can appear in the booking calendar.
func (u *User) IsBarber() bool {
	return u.Role == RoleBarber
}

// CreateUserRequest represents user creation parameters
type CreateUserRequest struct {
	BarbershopID string `json:"barbershop_id" binding:"required,uuid"`
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name" binding:"required"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role" binding:"required,oneof=admin barber client saas_owner"`
	Phone        string `json:"phone"`
}

// UpdateUserRequest represents user update parameters
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Status   *string `json:"status" binding:"omitempty,oneof=active inactive pending locked"`
	Settings JSONMap `json:"settings"`
}

// ChangeRoleRequest is an admin action; the affected user observes the new
// role on their next profile refresh.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin barber client saas_owner"`
}

type UserFilters struct {
	BarbershopID uuid.UUID
	Role         Role
	Status       string
	SearchTerm   string
}
