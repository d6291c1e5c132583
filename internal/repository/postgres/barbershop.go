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

const barbershopColumns = `
	id, name, slug, owner_id, phone, address, timezone, active,
	created_at, updated_at
`

func (r *barbershopRepository) Create(ctx context.Context, shop *model.Barbershop) error {
	query := `
		INSERT INTO barbershops (
			id, name, slug, owner_id, phone, address, timezone, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	shop.CreatedAt = time.Now()
	shop.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		shop.ID,
		shop.Name,
		shop.Slug,
		shop.OwnerID,
		shop.Phone,
		shop.Address,
		shop.Timezone,
		shop.Active,
		shop.CreatedAt,
		shop.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create barbershop: %w", err)
	}
	return nil
}

func (r *barbershopRepository) Get(ctx context.Context, id uuid.UUID) (*model.Barbershop, error) {
	query := `SELECT ` + barbershopColumns + ` FROM barbershops WHERE id = $1`
	var shop model.Barbershop
	err := r.db.GetContext(ctx, &shop, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("barbershop not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get barbershop: %w", err)
	}
	return &shop, nil
}

func (r *barbershopRepository) GetBySlug(ctx context.Context, slug string) (*model.Barbershop, error) {
	query := `SELECT ` + barbershopColumns + ` FROM barbershops WHERE slug = $1`
	var shop model.Barbershop
	err := r.db.GetContext(ctx, &shop, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("barbershop not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get barbershop by slug: %w", err)
	}
	return &shop, nil
}

func (r *barbershopRepository) Update(ctx context.Context, shop *model.Barbershop) error {
	query := `
		UPDATE barbershops
		SET name = $1, phone = $2, address = $3, timezone = $4, active = $5, updated_at = $6
		WHERE id = $7
	`
	shop.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		shop.Name,
		shop.Phone,
		shop.Address,
		shop.Timezone,
		shop.Active,
		shop.UpdatedAt,
		shop.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update barbershop: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("barbershop not found")
	}
	return nil
}

func (r *barbershopRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM barbershops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete barbershop: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("barbershop not found")
	}
	return nil
}

func (r *barbershopRepository) List(ctx context.Context) ([]*model.Barbershop, error) {
	query := `SELECT ` + barbershopColumns + ` FROM barbershops ORDER BY name ASC`
	var shops []*model.Barbershop
	if err := r.db.SelectContext(ctx, &shops, query); err != nil {
		return nil, fmt.Errorf("failed to list barbershops: %w", err)
	}
	return shops, nil
}
