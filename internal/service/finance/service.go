package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/repository"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
)

// Service is the POS ledger: it records payments taken at the counter and
// aggregates them into revenue reports.
type Service struct {
	repo     repository.TransactionRepository
	apptRepo repository.AppointmentRepository
}

func NewService(repo repository.TransactionRepository, apptRepo repository.AppointmentRepository) *Service {
	return &Service{repo: repo, apptRepo: apptRepo}
}

// RecordPayment writes a ledger entry. When the payment settles an
// appointment, that appointment must exist and belong to the same shop.
func (s *Service) RecordPayment(ctx context.Context, req *model.RecordTransactionRequest) (*model.Transaction, error) {
	barbershopID, err := uuid.Parse(req.BarbershopID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid barbershop id", err)
	}
	barberID, err := uuid.Parse(req.BarberID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid barber id", err)
	}

	txn := &model.Transaction{
		Base:         model.Base{ID: uuid.New()},
		BarbershopID: barbershopID,
		BarberID:     barberID,
		AmountCents:  req.AmountCents,
		Method:       model.PaymentMethod(req.Method),
		Status:       model.TransactionStatusPaid,
		PaidAt:       time.Now(),
	}

	if req.AppointmentID != nil {
		apptID, err := uuid.Parse(*req.AppointmentID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid appointment id", err)
		}
		appt, err := s.apptRepo.Get(ctx, apptID)
		if err != nil {
			return nil, apperrors.NotFound("appointment", err)
		}
		if appt.BarbershopID != barbershopID {
			return nil, apperrors.BadRequest("appointment belongs to another barbershop", nil)
		}
		txn.AppointmentID = &apptID
	}
	if req.ServiceID != nil {
		serviceID, err := uuid.Parse(*req.ServiceID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid service id", err)
		}
		txn.ServiceID = &serviceID
	}

	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return txn, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, barbershopID uuid.UUID, start, end time.Time) ([]*model.Transaction, error) {
	if !start.Before(end) {
		return nil, apperrors.BadRequest("start must be before end", nil)
	}
	return s.repo.List(ctx, barbershopID, start, end)
}

// RevenueSummary aggregates paid transactions over the period.
func (s *Service) RevenueSummary(ctx context.Context, barbershopID uuid.UUID, start, end time.Time) (*model.RevenueSummary, error) {
	if !start.Before(end) {
		return nil, apperrors.BadRequest("start must be before end", nil)
	}
	return s.repo.RevenueSummary(ctx, barbershopID, start, end)
}

// RevenueByBarber breaks the period's revenue down per barber for
// commission reports.
func (s *Service) RevenueByBarber(ctx context.Context, barbershopID uuid.UUID, start, end time.Time) ([]*model.BarberRevenue, error) {
	if !start.Before(end) {
		return nil, apperrors.BadRequest("start must be before end", nil)
	}
	return s.repo.RevenueByBarber(ctx, barbershopID, start, end)
}
