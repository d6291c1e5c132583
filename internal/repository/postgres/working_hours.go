package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/model"
)

const workingHoursColumns = `
	id, barbershop_id, barber_id, day_of_week, is_open,
	open_time, close_time, break_start_time, break_end_time,
	source, created_at, updated_at
`

// Upsert writes the schedule row for one (shop, barber, day) combination.
// Barber overrides and business defaults live in the same table, keyed on a
// nullable barber_id.
func (r *workingHoursRepository) Upsert(ctx context.Context, hours *model.WorkingHours) error {
	query := `
		INSERT INTO working_hours (
			id, barbershop_id, barber_id, day_of_week, is_open,
			open_time, close_time, break_start_time, break_end_time,
			source, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (barbershop_id, COALESCE(barber_id, '00000000-0000-0000-0000-000000000000'), day_of_week)
		DO UPDATE SET
			is_open = EXCLUDED.is_open,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			break_start_time = EXCLUDED.break_start_time,
			break_end_time = EXCLUDED.break_end_time,
			updated_at = EXCLUDED.updated_at
	`
	if hours.ID == uuid.Nil {
		hours.ID = uuid.New()
	}
	hours.CreatedAt = time.Now()
	hours.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		hours.ID,
		hours.BarbershopID,
		hours.BarberID,
		hours.DayOfWeek,
		hours.IsOpen,
		hours.OpenTime,
		hours.CloseTime,
		hours.BreakStartTime,
		hours.BreakEndTime,
		hours.Source,
		hours.CreatedAt,
		hours.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert working hours: %w", err)
	}
	return nil
}

// GetBarberDay returns the barber-specific override for one day, or
// (nil, nil) when the barber has none and the business default applies.
func (r *workingHoursRepository) GetBarberDay(ctx context.Context, barberID uuid.UUID, dayOfWeek int) (*model.WorkingHours, error) {
	query := `
		SELECT ` + workingHoursColumns + `
		FROM working_hours
		WHERE barber_id = $1 AND day_of_week = $2
	`
	var hours model.WorkingHours
	err := r.db.GetContext(ctx, &hours, query, barberID, dayOfWeek)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get barber working hours: %w", err)
	}
	return &hours, nil
}

// GetBusinessDay returns the shop-wide default for one day, or (nil, nil)
// when none is configured.
func (r *workingHoursRepository) GetBusinessDay(ctx context.Context, barbershopID uuid.UUID, dayOfWeek int) (*model.WorkingHours, error) {
	query := `
		SELECT ` + workingHoursColumns + `
		FROM working_hours
		WHERE barbershop_id = $1 AND barber_id IS NULL AND day_of_week = $2
	`
	var hours model.WorkingHours
	err := r.db.GetContext(ctx, &hours, query, barbershopID, dayOfWeek)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business hours: %w", err)
	}
	return &hours, nil
}

func (r *workingHoursRepository) ListForBarber(ctx context.Context, barberID uuid.UUID) ([]*model.WorkingHours, error) {
	query := `
		SELECT ` + workingHoursColumns + `
		FROM working_hours
		WHERE barber_id = $1
		ORDER BY day_of_week ASC
	`
	var hours []*model.WorkingHours
	if err := r.db.SelectContext(ctx, &hours, query, barberID); err != nil {
		return nil, fmt.Errorf("failed to list barber working hours: %w", err)
	}
	return hours, nil
}

func (r *workingHoursRepository) ListForBarbershop(ctx context.Context, barbershopID uuid.UUID) ([]*model.WorkingHours, error) {
	query := `
		SELECT ` + workingHoursColumns + `
		FROM working_hours
		WHERE barbershop_id = $1 AND barber_id IS NULL
		ORDER BY day_of_week ASC
	`
	var hours []*model.WorkingHours
	if err := r.db.SelectContext(ctx, &hours, query, barbershopID); err != nil {
		return nil, fmt.Errorf("failed to list business hours: %w", err)
	}
	return hours, nil
}

func (r *workingHoursRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM working_hours WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete working hours: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("working hours not found")
	}
	return nil
}
