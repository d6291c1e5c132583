package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/model"
)

// ErrSlotTaken is returned when the store-side conflict check rejects a
// booking. The client-side availability computation is advisory only; this
// is the authoritative answer, and callers must re-fetch and re-validate.
var ErrSlotTaken = errors.New("time slot already taken")

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
		ListBarbers(ctx context.Context, barbershopID uuid.UUID) ([]*model.User, error)
	}

	BarbershopRepository interface {
		Create(ctx context.Context, shop *model.Barbershop) error
		Get(ctx context.Context, id uuid.UUID) (*model.Barbershop, error)
		GetBySlug(ctx context.Context, slug string) (*model.Barbershop, error)
		Update(ctx context.Context, shop *model.Barbershop) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Barbershop, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, svc *model.Service) error
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		Update(ctx context.Context, svc *model.Service) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, barbershopID uuid.UUID, activeOnly bool) ([]*model.Service, error)
	}

	// WorkingHoursRepository stores the shop-wide defaults and per-barber
	// overrides. Day getters return (nil, nil) when no record exists so the
	// availability engine can fall through the resolution order.
	WorkingHoursRepository interface {
		Upsert(ctx context.Context, hours *model.WorkingHours) error
		GetBarberDay(ctx context.Context, barberID uuid.UUID, dayOfWeek int) (*model.WorkingHours, error)
		GetBusinessDay(ctx context.Context, barbershopID uuid.UUID, dayOfWeek int) (*model.WorkingHours, error)
		ListForBarber(ctx context.Context, barberID uuid.UUID) ([]*model.WorkingHours, error)
		ListForBarbershop(ctx context.Context, barbershopID uuid.UUID) ([]*model.WorkingHours, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	AppointmentRepository interface {
		// Create runs the authoritative overlap check and the insert in one
		// transaction; it returns ErrSlotTaken on a lost race.
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		GetBarberAppointments(ctx context.Context, barberID uuid.UUID, start, end time.Time) ([]*model.Appointment, error)
		CheckConflict(ctx context.Context, barberID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)
	}

	TransactionRepository interface {
		Create(ctx context.Context, txn *model.Transaction) error
		Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
		List(ctx context.Context, barbershopID uuid.UUID, start, end time.Time) ([]*model.Transaction, error)
		RevenueSummary(ctx context.Context, barbershopID uuid.UUID, start, end time.Time) (*model.RevenueSummary, error)
		RevenueByBarber(ctx context.Context, barbershopID uuid.UUID, start, end time.Time) ([]*model.BarberRevenue, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, n *model.Notification) error
		ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*model.Notification, error)
		MarkRead(ctx context.Context, id uuid.UUID) error
	}
)
