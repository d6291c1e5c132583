package barbershop

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/repository"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
)

// Service manages the tenant record and its bookable service catalog.
type Service struct {
	shopRepo    repository.BarbershopRepository
	serviceRepo repository.ServiceRepository
}

func NewService(shopRepo repository.BarbershopRepository, serviceRepo repository.ServiceRepository) *Service {
	return &Service{shopRepo: shopRepo, serviceRepo: serviceRepo}
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *model.CreateBarbershopRequest) (*model.Barbershop, error) {
	if existing, err := s.shopRepo.GetBySlug(ctx, req.Slug); err == nil && existing != nil {
		return nil, apperrors.Conflict("slug already in use", nil)
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "America/Sao_Paulo"
	}

	shop := &model.Barbershop{
		Base:     model.Base{ID: uuid.New()},
		Name:     req.Name,
		Slug:     req.Slug,
		OwnerID:  ownerID,
		Timezone: timezone,
		Active:   true,
	}
	if req.Phone != "" {
		shop.Phone = &req.Phone
	}
	if req.Address != "" {
		shop.Address = &req.Address
	}

	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, fmt.Errorf("failed to create barbershop: %w", err)
	}
	return shop, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Barbershop, error) {
	shop, err := s.shopRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("barbershop", err)
	}
	return shop, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*model.Barbershop, error) {
	shop, err := s.shopRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.NotFound("barbershop", err)
	}
	return shop, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBarbershopRequest) (*model.Barbershop, error) {
	shop, err := s.shopRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("barbershop", err)
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Phone != nil {
		shop.Phone = req.Phone
	}
	if req.Address != nil {
		shop.Address = req.Address
	}
	if req.Active != nil {
		shop.Active = *req.Active
	}

	if err := s.shopRepo.Update(ctx, shop); err != nil {
		return nil, fmt.Errorf("failed to update barbershop: %w", err)
	}
	return shop, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Barbershop, error) {
	return s.shopRepo.List(ctx)
}

func (s *Service) CreateService(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	barbershopID, err := uuid.Parse(req.BarbershopID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid barbershop id", err)
	}

	svc := &model.Service{
		Base:            model.Base{ID: uuid.New()},
		BarbershopID:    barbershopID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Active:          true,
	}
	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return svc, nil
}

func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	svc, err := s.serviceRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("service", err)
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.PriceCents != nil {
		svc.PriceCents = *req.PriceCents
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) error {
	return s.serviceRepo.Delete(ctx, id)
}

func (s *Service) ListServices(ctx context.Context, barbershopID uuid.UUID, activeOnly bool) ([]*model.Service, error) {
	return s.serviceRepo.List(ctx, barbershopID, activeOnly)
}
