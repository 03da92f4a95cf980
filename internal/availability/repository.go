package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IntervalSource supplies the occupied intervals of one staff day. The query
// path reads without locks; allocation re-validates under its shard lock.
type IntervalSource interface {
	DayIntervals(ctx context.Context, staffID string, date time.Time) ([]Interval, error)
}

type pgxIntervalSource struct {
	pool *pgxpool.Pool
}

func NewPgxIntervalSource(pool *pgxpool.Pool) IntervalSource {
	return &pgxIntervalSource{pool: pool}
}

func (r *pgxIntervalSource) DayIntervals(ctx context.Context, staffID string, date time.Time) ([]Interval, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("start_minute", "duration_minutes", "extra_minutes").
		From("public.bookings").
		Where(squirrel.Eq{"staff_id": staffID, "date": date}).
		Where(squirrel.NotEq{"status": []string{"cancelled", "no_show"}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking intervals query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query booking intervals failed: %w", err)
	}
	defer rows.Close()

	var intervals []Interval
	for rows.Next() {
		var start, duration, extra int
		if err := rows.Scan(&start, &duration, &extra); err != nil {
			return nil, fmt.Errorf("scan booking interval failed: %w", err)
		}
		intervals = append(intervals, Interval{Start: start, End: start + duration + extra})
	}
	rows.Close()

	blockQuery, blockArgs, err := psql.Select("start_minute", "end_minute").
		From("public.time_blocks").
		Where(squirrel.Eq{"staff_id": staffID, "date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build time block intervals query failed: %w", err)
	}

	blockRows, err := r.pool.Query(ctx, blockQuery, blockArgs...)
	if err != nil {
		return nil, fmt.Errorf("query time block intervals failed: %w", err)
	}
	defer blockRows.Close()

	for blockRows.Next() {
		var start, end int
		if err := blockRows.Scan(&start, &end); err != nil {
			return nil, fmt.Errorf("scan time block interval failed: %w", err)
		}
		intervals = append(intervals, Interval{Start: start, End: end})
	}
	return intervals, nil
}
