package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing schedule overrides.
type Repository interface {
	// GetForDate returns the override for (staffID, date), or nil when none exists.
	GetForDate(ctx context.Context, staffID string, date time.Time) (*Override, error)
	ListForStaff(ctx context.Context, staffID string, from, to time.Time) ([]*Override, error)
	Create(ctx context.Context, ov *Override) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetForDate(ctx context.Context, staffID string, date time.Time) (*Override, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "salon_id", "staff_id", "date", "is_working", "start_minute", "end_minute", "created_at",
	).
		From("public.schedule_overrides").
		Where(squirrel.Eq{"staff_id": staffID, "date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get override query failed: %w", err)
	}

	var ov Override
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ov.ID, &ov.SalonID, &ov.StaffID, &ov.Date, &ov.IsWorking,
		&ov.StartMinute, &ov.EndMinute, &ov.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get override failed: %w", err)
	}
	return &ov, nil
}

func (r *pgxRepository) ListForStaff(ctx context.Context, staffID string, from, to time.Time) ([]*Override, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "salon_id", "staff_id", "date", "is_working", "start_minute", "end_minute", "created_at",
	).
		From("public.schedule_overrides").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list overrides query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list overrides failed: %w", err)
	}
	defer rows.Close()

	var overrides []*Override
	for rows.Next() {
		var ov Override
		if err := rows.Scan(
			&ov.ID, &ov.SalonID, &ov.StaffID, &ov.Date, &ov.IsWorking,
			&ov.StartMinute, &ov.EndMinute, &ov.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan override failed: %w", err)
		}
		overrides = append(overrides, &ov)
	}
	return overrides, nil
}

func (r *pgxRepository) Create(ctx context.Context, ov *Override) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	// One override per (staff, date): replace any previous row for the date.
	query, args, err := psql.Insert("public.schedule_overrides").
		Columns("salon_id", "staff_id", "date", "is_working", "start_minute", "end_minute").
		Values(ov.SalonID, ov.StaffID, ov.Date, ov.IsWorking, ov.StartMinute, ov.EndMinute).
		Suffix(`ON CONFLICT (staff_id, date) DO UPDATE SET
			is_working = EXCLUDED.is_working,
			start_minute = EXCLUDED.start_minute,
			end_minute = EXCLUDED.end_minute`).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create override query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&ov.ID, &ov.CreatedAt)
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.schedule_overrides").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete override query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete override failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrOverrideNotFound
	}
	return nil
}
