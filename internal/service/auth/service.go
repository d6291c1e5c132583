package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/email"
	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/repository"
	"github.com/styllobarber/styllobarber-api/pkg/auth"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
	"github.com/styllobarber/styllobarber-api/pkg/logger"
	"github.com/styllobarber/styllobarber-api/pkg/security"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
)

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	emailSvc email.Service
	logger   *logger.Logger
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, emailSvc email.Service, logger *logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		emailSvc: emailSvc,
		logger:   logger,
	}
}

// Login verifies credentials and returns a token pair. Failed attempts
// count toward a temporary lockout. The request's redirect path is echoed
// back untouched so the client can resume where it was interrupted.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same error for unknown email and wrong password.
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}

	if user.Status == model.UserStatusLocked {
		if time.Since(user.LastLoginAttempt) < lockoutDuration {
			return nil, apperrors.Forbidden("account temporarily locked, try again later")
		}
		user.Status = model.UserStatusActive
		user.LoginAttempts = 0
	}

	if user.Status == model.UserStatusInactive {
		return nil, apperrors.Forbidden("account is deactivated")
	}

	if !security.VerifyPassword(user.PasswordHash, req.Password) {
		user.LoginAttempts++
		user.LastLoginAttempt = time.Now()
		if user.LoginAttempts >= maxLoginAttempts {
			user.Status = model.UserStatusLocked
			s.logger.Warn("account locked after repeated failures", "user_id", user.ID)
		}
		if updateErr := s.userRepo.Update(ctx, user); updateErr != nil {
			s.logger.Error(updateErr, "failed to record login attempt", "user_id", user.ID)
		}
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}

	now := time.Now()
	user.LoginAttempts = 0
	user.LastLoginAttempt = now
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error(err, "failed to record login", "user_id", user.ID)
	}

	return s.issueTokens(user, req.Redirect)
}

// Register creates a client account. Staff accounts are created by admins
// through the user service instead.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	barbershopID, err := uuid.Parse(req.BarbershopID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid barbershop id", err)
	}

	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.Conflict("email already registered", nil)
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		BarbershopID: barbershopID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         model.RoleClient,
		Status:       model.UserStatusActive,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.Name); err != nil {
		s.logger.Error(err, "failed to send welcome email", "user_id", user.ID)
	}

	return s.issueTokens(user, "")
}

// Refresh exchanges a valid refresh token for a fresh pair. The user is
// re-fetched so a role change or deactivation since issuance takes effect
// immediately.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	if user.Status != model.UserStatusActive {
		return nil, apperrors.Forbidden("account is not active")
	}

	return s.issueTokens(user, "")
}

// SessionFromToken validates an access token and resolves it into the
// explicit session handed to the authorization checker.
func (s *Service) SessionFromToken(token string) (model.Session, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return model.Session{}, apperrors.Unauthorized(err)
	}
	return model.Session{
		UserID:       claims.UserID,
		BarbershopID: claims.BarbershopID,
		Email:        claims.Email,
		Role:         claims.Role,
	}, nil
}

func (s *Service) issueTokens(user *model.User, redirect string) (*model.TokenResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Redirect:     redirect,
	}, nil
}
