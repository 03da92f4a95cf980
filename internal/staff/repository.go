package staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saloniq/salon-booking-backend/internal/schedule"
)

// Repository defines methods for accessing staff data.
type Repository interface {
	Create(ctx context.Context, st *Staff) error
	GetByID(ctx context.Context, id string) (*Staff, error)
	// List returns staff in allocation order (position, created_at, id) and
	// the total match count across all pages.
	List(ctx context.Context, filter Filter) ([]*Staff, int, error)
	Update(ctx context.Context, st *Staff) error

	WeekSchedule(ctx context.Context, staffID string) (schedule.StaffWeek, error)
	SetWeekSchedule(ctx context.Context, staffID string, week schedule.StaffWeek) error

	SetServices(ctx context.Context, staffID string, serviceIDs []string) error
	IsQualified(ctx context.Context, staffID, serviceID string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, st *Staff) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.staff").
		Columns("salon_id", "user_id", "display_name", "position", "active").
		Values(st.SalonID, st.UserID, st.DisplayName, st.Position, st.Active).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create staff query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&st.ID, &st.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Staff, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "salon_id", "user_id", "display_name", "position", "active", "created_at",
	).
		From("public.staff").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get staff query failed: %w", err)
	}

	var st Staff
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&st.ID, &st.SalonID, &st.UserID, &st.DisplayName, &st.Position, &st.Active, &st.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get staff failed: %w", err)
	}
	return &st, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Staff, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	apply := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		q = q.From("public.staff s").Where(squirrel.Eq{"s.salon_id": filter.SalonID})
		if filter.ActiveOnly {
			q = q.Where(squirrel.Eq{"s.active": true})
		}
		if filter.ServiceID != "" {
			q = q.
				Join("public.staff_services ss ON ss.staff_id = s.id").
				Where(squirrel.Eq{"ss.service_id": filter.ServiceID})
		}
		return q
	}

	countSQL, countArgs, err := apply(psql.Select("COUNT(*)")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count staff query failed: %w", err)
	}
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count staff failed: %w", err)
	}

	query := apply(psql.Select(
		"s.id", "s.salon_id", "s.user_id", "s.display_name", "s.position", "s.active", "s.created_at",
	))

	// Allocation order must be stable: UI iteration order is not a contract.
	query = query.OrderBy("s.position ASC", "s.created_at ASC", "s.id ASC")
	if filter.PageSize > 0 {
		query = query.Limit(uint64(filter.PageSize)).Offset(pageOffset(filter.Page, filter.PageSize))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list staff query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff failed: %w", err)
	}
	defer rows.Close()

	var members []*Staff
	for rows.Next() {
		var st Staff
		if err := rows.Scan(
			&st.ID, &st.SalonID, &st.UserID, &st.DisplayName, &st.Position, &st.Active, &st.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan staff failed: %w", err)
		}
		members = append(members, &st)
	}
	return members, total, nil
}

func pageOffset(page, pageSize int) uint64 {
	if page <= 1 {
		return 0
	}
	return uint64((page - 1) * pageSize)
}

func (r *pgxRepository) Update(ctx context.Context, st *Staff) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.staff").
		Set("display_name", st.DisplayName).
		Set("position", st.Position).
		Set("active", st.Active).
		Where(squirrel.Eq{"id": st.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update staff query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update staff failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) WeekSchedule(ctx context.Context, staffID string) (schedule.StaffWeek, error) {
	var week schedule.StaffWeek

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("weekday", "enabled", "start_minute", "end_minute").
		From("public.staff_working_days").
		Where(squirrel.Eq{"staff_id": staffID}).
		ToSql()
	if err != nil {
		return week, fmt.Errorf("build staff week query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return week, fmt.Errorf("get staff week failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day schedule.WorkingDay
		if err := rows.Scan(&weekday, &day.Enabled, &day.StartMinute, &day.EndMinute); err != nil {
			return week, fmt.Errorf("scan staff working day failed: %w", err)
		}
		if weekday >= 0 && weekday < 7 {
			d := day
			week[weekday] = &d
		}
	}
	return week, nil
}

func (r *pgxRepository) SetWeekSchedule(ctx context.Context, staffID string, week schedule.StaffWeek) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set staff week failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	del, delArgs, err := psql.Delete("public.staff_working_days").
		Where(squirrel.Eq{"staff_id": staffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear staff week query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, del, delArgs...); err != nil {
		return fmt.Errorf("clear staff week failed: %w", err)
	}

	ins := psql.Insert("public.staff_working_days").
		Columns("staff_id", "weekday", "enabled", "start_minute", "end_minute")
	rows := 0
	for weekday, day := range week {
		if day == nil {
			continue // weekday falls back to the salon schedule
		}
		ins = ins.Values(staffID, weekday, day.Enabled, day.StartMinute, day.EndMinute)
		rows++
	}
	if rows > 0 {
		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build set staff week query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("set staff week failed: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) SetServices(ctx context.Context, staffID string, serviceIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set staff services failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	del, delArgs, err := psql.Delete("public.staff_services").
		Where(squirrel.Eq{"staff_id": staffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear staff services query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, del, delArgs...); err != nil {
		return fmt.Errorf("clear staff services failed: %w", err)
	}

	if len(serviceIDs) > 0 {
		ins := psql.Insert("public.staff_services").Columns("staff_id", "service_id")
		for _, id := range serviceIDs {
			ins = ins.Values(staffID, id)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build set staff services query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("set staff services failed: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) IsQualified(ctx context.Context, staffID, serviceID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.staff_services").
		Where(squirrel.Eq{"staff_id": staffID, "service_id": serviceID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build staff qualification query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check staff qualification failed: %w", err)
	}
	return exists, nil
}
