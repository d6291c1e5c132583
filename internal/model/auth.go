package model

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthRequest types
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	// Redirect preserves the originally requested path so the client can
	// navigate back to it after a successful login.
	Redirect string `json:"redirect"`
}

type RegisterRequest struct {
	BarbershopID string `json:"barbershop_id" binding:"required,uuid"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse types
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Redirect     string `json:"redirect,omitempty"`
}

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TokenClaims represents JWT claims
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID       uuid.UUID `json:"user_id"`
	BarbershopID uuid.UUID `json:"barbershop_id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
}

// Session is the resolved identity handed to the authorization model. It is
// passed explicitly instead of being read from ambient state so the
// availability and authz services stay deterministic under test.
type Session struct {
	UserID       uuid.UUID `json:"user_id"`
	BarbershopID uuid.UUID `json:"barbershop_id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
}
