package salon

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saloniq/salon-booking-backend/internal/schedule"
)

// Repository defines methods for accessing salon data.
type Repository interface {
	Create(ctx context.Context, s *Salon) error
	GetByID(ctx context.Context, id string) (*Salon, error)
	Update(ctx context.Context, s *Salon) error

	WeekSchedule(ctx context.Context, salonID string) (schedule.WeekSchedule, error)
	SetWeekSchedule(ctx context.Context, salonID string, week schedule.WeekSchedule) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, s *Salon) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.salons").
		Columns("name", "timezone", "slot_step_minutes", "auto_confirm").
		Values(s.Name, s.Timezone, s.SlotStepMinutes, s.AutoConfirm).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create salon query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Salon, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "name", "timezone", "slot_step_minutes", "auto_confirm", "created_at", "updated_at",
	).
		From("public.salons").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get salon query failed: %w", err)
	}

	var s Salon
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.Name, &s.Timezone, &s.SlotStepMinutes, &s.AutoConfirm, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get salon failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) Update(ctx context.Context, s *Salon) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.salons").
		Set("name", s.Name).
		Set("timezone", s.Timezone).
		Set("slot_step_minutes", s.SlotStepMinutes).
		Set("auto_confirm", s.AutoConfirm).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update salon query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update salon failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) WeekSchedule(ctx context.Context, salonID string) (schedule.WeekSchedule, error) {
	var week schedule.WeekSchedule

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("weekday", "enabled", "start_minute", "end_minute").
		From("public.salon_working_days").
		Where(squirrel.Eq{"salon_id": salonID}).
		ToSql()
	if err != nil {
		return week, fmt.Errorf("build salon week query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return week, fmt.Errorf("get salon week failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day schedule.WorkingDay
		if err := rows.Scan(&weekday, &day.Enabled, &day.StartMinute, &day.EndMinute); err != nil {
			return week, fmt.Errorf("scan salon working day failed: %w", err)
		}
		if weekday >= 0 && weekday < 7 {
			week[weekday] = day
		}
	}
	return week, nil
}

func (r *pgxRepository) SetWeekSchedule(ctx context.Context, salonID string, week schedule.WeekSchedule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set salon week failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	del, delArgs, err := psql.Delete("public.salon_working_days").
		Where(squirrel.Eq{"salon_id": salonID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear salon week query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, del, delArgs...); err != nil {
		return fmt.Errorf("clear salon week failed: %w", err)
	}

	ins := psql.Insert("public.salon_working_days").
		Columns("salon_id", "weekday", "enabled", "start_minute", "end_minute")
	for weekday, day := range week {
		ins = ins.Values(salonID, weekday, day.Enabled, day.StartMinute, day.EndMinute)
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build set salon week query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("set salon week failed: %w", err)
	}

	return tx.Commit(ctx)
}
