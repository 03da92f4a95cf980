package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Filter narrows catalog listings. PageSize 0 returns everything.
type Filter struct {
	SalonID    string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// Repository defines methods for accessing the service catalog.
type Repository interface {
	Create(ctx context.Context, svc *Service) error
	GetByID(ctx context.Context, id string) (*Service, error)
	// List returns the matching page and the total match count.
	List(ctx context.Context, filter Filter) ([]*Service, int, error)
	Update(ctx context.Context, svc *Service) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, svc *Service) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.services").
		Columns("salon_id", "name", "duration_minutes", "price_cents", "active").
		Values(svc.SalonID, svc.Name, svc.DurationMinutes, svc.PriceCents, svc.Active).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create service query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&svc.ID, &svc.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Service, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "salon_id", "name", "duration_minutes", "price_cents", "active", "created_at",
	).
		From("public.services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get service query failed: %w", err)
	}

	var svc Service
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&svc.ID, &svc.SalonID, &svc.Name, &svc.DurationMinutes, &svc.PriceCents, &svc.Active, &svc.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service failed: %w", err)
	}
	return &svc, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Service, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	apply := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		q = q.From("public.services").Where(squirrel.Eq{"salon_id": filter.SalonID})
		if filter.ActiveOnly {
			q = q.Where(squirrel.Eq{"active": true})
		}
		return q
	}

	countSQL, countArgs, err := apply(psql.Select("COUNT(*)")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count services query failed: %w", err)
	}
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count services failed: %w", err)
	}

	query := apply(psql.Select(
		"id", "salon_id", "name", "duration_minutes", "price_cents", "active", "created_at",
	)).OrderBy("name ASC")
	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list services query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list services failed: %w", err)
	}
	defer rows.Close()

	var services []*Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(
			&svc.ID, &svc.SalonID, &svc.Name, &svc.DurationMinutes, &svc.PriceCents, &svc.Active, &svc.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan service failed: %w", err)
		}
		services = append(services, &svc)
	}
	return services, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, svc *Service) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.services").
		Set("name", svc.Name).
		Set("duration_minutes", svc.DurationMinutes).
		Set("price_cents", svc.PriceCents).
		Set("active", svc.Active).
		Where(squirrel.Eq{"id": svc.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update service query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update service failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
