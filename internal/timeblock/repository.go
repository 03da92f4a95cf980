package timeblock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing time blocks.
type Repository interface {
	Create(ctx context.Context, tb *TimeBlock) error
	GetByID(ctx context.Context, id string) (*TimeBlock, error)
	ListForStaff(ctx context.Context, staffID string, from, to time.Time) ([]*TimeBlock, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, tb *TimeBlock) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.time_blocks").
		Columns("salon_id", "staff_id", "date", "start_minute", "end_minute", "title", "kind").
		Values(tb.SalonID, tb.StaffID, tb.Date, tb.StartMinute, tb.EndMinute, tb.Title, tb.Kind).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create time block query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&tb.ID, &tb.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*TimeBlock, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "salon_id", "staff_id", "date", "start_minute", "end_minute", "title", "kind", "created_at",
	).
		From("public.time_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get time block query failed: %w", err)
	}

	var tb TimeBlock
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&tb.ID, &tb.SalonID, &tb.StaffID, &tb.Date, &tb.StartMinute, &tb.EndMinute,
		&tb.Title, &tb.Kind, &tb.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get time block failed: %w", err)
	}
	return &tb, nil
}

func (r *pgxRepository) ListForStaff(ctx context.Context, staffID string, from, to time.Time) ([]*TimeBlock, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "salon_id", "staff_id", "date", "start_minute", "end_minute", "title", "kind", "created_at",
	).
		From("public.time_blocks").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC", "start_minute ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list time blocks query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time blocks failed: %w", err)
	}
	defer rows.Close()

	var blocks []*TimeBlock
	for rows.Next() {
		var tb TimeBlock
		if err := rows.Scan(
			&tb.ID, &tb.SalonID, &tb.StaffID, &tb.Date, &tb.StartMinute, &tb.EndMinute,
			&tb.Title, &tb.Kind, &tb.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan time block failed: %w", err)
		}
		blocks = append(blocks, &tb)
	}
	return blocks, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.time_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete time block query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete time block failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
