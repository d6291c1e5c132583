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

const transactionColumns = `
	id, barbershop_id, barber_id, appointment_id, service_id,
	amount_cents, method, status, paid_at, created_at, updated_at
`

func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, barbershop_id, barber_id, appointment_id, service_id,
			amount_cents, method, status, paid_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		txn.ID,
		txn.BarbershopID,
		txn.BarberID,
		txn.AppointmentID,
		txn.ServiceID,
		txn.AmountCents,
		txn.Method,
		txn.Status,
		txn.PaidAt,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	var txn model.Transaction
	err := r.db.GetContext(ctx, &txn, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepository) List(ctx context.Context, barbershopID uuid.UUID, start, end time.Time) ([]*model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE barbershop_id = $1 AND paid_at >= $2 AND paid_at < $3
		ORDER BY paid_at DESC
	`
	var txns []*model.Transaction
	if err := r.db.SelectContext(ctx, &txns, query, barbershopID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (r *transactionRepository) RevenueSummary(ctx context.Context, barbershopID uuid.UUID, start, end time.Time) (*model.RevenueSummary, error) {
	query := `
		SELECT barbershop_id,
			   COALESCE(SUM(amount_cents), 0) AS total_cents,
			   COUNT(*) AS count
		FROM transactions
		WHERE barbershop_id = $1 AND status = 'paid'
		AND paid_at >= $2 AND paid_at < $3
		GROUP BY barbershop_id
	`
	var summary model.RevenueSummary
	err := r.db.GetContext(ctx, &summary, query, barbershopID, start, end)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.RevenueSummary{
			BarbershopID: barbershopID,
			PeriodStart:  start,
			PeriodEnd:    end,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compute revenue summary: %w", err)
	}
	summary.PeriodStart = start
	summary.PeriodEnd = end
	return &summary, nil
}

func (r *transactionRepository) RevenueByBarber(ctx context.Context, barbershopID uuid.UUID, start, end time.Time) ([]*model.BarberRevenue, error) {
	query := `
		SELECT t.barber_id,
			   u.name AS barber_name,
			   COALESCE(SUM(t.amount_cents), 0) AS total_cents,
			   COUNT(*) AS count
		FROM transactions t
		JOIN users u ON u.id = t.barber_id
		WHERE t.barbershop_id = $1 AND t.status = 'paid'
		AND t.paid_at >= $2 AND t.paid_at < $3
		GROUP BY t.barber_id, u.name
		ORDER BY total_cents DESC
	`
	var rows []*model.BarberRevenue
	if err := r.db.SelectContext(ctx, &rows, query, barbershopID, start, end); err != nil {
		return nil, fmt.Errorf("failed to compute barber revenue: %w", err)
	}
	return rows, nil
}
