package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/repository"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
	"github.com/styllobarber/styllobarber-api/pkg/security"
)

type Service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

// Create adds a staff or client account on behalf of an admin.
func (s *Service) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	barbershopID, err := uuid.Parse(req.BarbershopID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid barbershop id", err)
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, apperrors.BadRequest("invalid role", err)
	}

	if existing, err := s.repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
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
		Role:         role,
		Status:       model.UserStatusActive,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.Settings != nil {
		user.Settings = req.Settings
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// ChangeRole reassigns the user's single role. The change takes effect on
// the user's next token refresh; outstanding access tokens keep the old
// role until they expire.
func (s *Service) ChangeRole(ctx context.Context, actor model.Session, id uuid.UUID, req *model.ChangeRoleRequest) error {
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return apperrors.BadRequest("invalid role", err)
	}

	// Only the platform owner may mint admins or other owners.
	if (role == model.RoleSaasOwner || role == model.RoleAdmin) && actor.Role != model.RoleSaasOwner {
		return apperrors.Forbidden("only the platform owner can assign this role")
	}
	if actor.UserID == id {
		return apperrors.Forbidden("cannot change your own role")
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return fmt.Errorf("failed to change role: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return s.repo.List(ctx, filters)
}

// ListBarbers returns the active barbers shown in the booking calendar.
func (s *Service) ListBarbers(ctx context.Context, barbershopID uuid.UUID) ([]*model.User, error) {
	return s.repo.ListBarbers(ctx, barbershopID)
}
