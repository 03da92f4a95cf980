package booking

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saloniq/salon-booking-backend/internal/availability"
	"github.com/saloniq/salon-booking-backend/internal/pkg/apperror"
	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
)

// ShardKey identifies the unit of booking concurrency: one staff member's
// day. Every commit that touches a (staff, date) pair serializes on its key.
type ShardKey struct {
	StaffID string
	Date    time.Time
}

func (k ShardKey) String() string {
	return k.StaffID + ":" + clockwork.FormatDate(k.Date)
}

// LockID hashes the key into the int64 space of pg_advisory_xact_lock.
func (k ShardKey) LockID() int64 {
	h := fnv.New64a()
	h.Write([]byte(k.String()))
	return int64(h.Sum64())
}

// SortKeys deduplicates and orders shard keys so every transaction acquires
// locks in the same global order. Cross-shard moves rely on this to stay
// deadlock-free.
func SortKeys(keys []ShardKey) []ShardKey {
	seen := make(map[string]bool, len(keys))
	out := make([]ShardKey, 0, len(keys))
	for _, k := range keys {
		if !seen[k.String()] {
			seen[k.String()] = true
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// ListFilter narrows booking listings. PageSize 0 returns everything.
type ListFilter struct {
	SalonID  string
	StaffID  string
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// Tx is the view of the store inside a locked transaction. Reads through Tx
// see the shard frozen under its advisory locks.
type Tx interface {
	GetByID(ctx context.Context, id string) (*Booking, error)
	// Intervals returns every occupied interval on the staff member's date:
	// occupying bookings plus time blocks. excludeID omits one booking so a
	// move does not collide with its own old placement.
	Intervals(ctx context.Context, staffID string, date time.Time, excludeID string) ([]availability.Interval, error)
	Insert(ctx context.Context, b *Booking) error
	// UpdatePlacement applies placement fields if the stored version still
	// equals expectedVersion, bumping the version on success.
	UpdatePlacement(ctx context.Context, b *Booking, expectedVersion int) error
	UpdateStatus(ctx context.Context, b *Booking, status Status, expectedVersion int) error
}

// Store persists bookings. Atomic runs fn inside a transaction holding the
// advisory locks for the given shard keys; the commit happens only if fn
// returns nil.
type Store interface {
	GetByID(ctx context.Context, id string) (*Booking, error)
	// List returns the matching page and the total match count.
	List(ctx context.Context, filter ListFilter) ([]*Booking, int, error)
	Atomic(ctx context.Context, keys []ShardKey, fn func(tx Tx) error) error
}

type pgxStore struct {
	pool *pgxpool.Pool
}

func NewPgxStore(pool *pgxpool.Pool) Store {
	return &pgxStore{pool: pool}
}

var bookingColumns = []string{
	"id", "salon_id", "staff_id", "client_id", "service_id", "date",
	"start_minute", "duration_minutes", "extra_minutes", "status", "notes",
	"version", "created_at", "updated_at",
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.SalonID, &b.StaffID, &b.ClientID, &b.ServiceID, &b.Date,
		&b.StartMinute, &b.DurationMinutes, &b.ExtraMinutes, &b.Status, &b.Notes,
		&b.Version, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan booking failed: %w", err)
	}
	return &b, nil
}

func getByID(ctx context.Context, q queryRower, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}
	return scanBooking(q.QueryRow(ctx, query, args...))
}

// queryRower is satisfied by both pgxpool.Pool and pgx.Tx.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *pgxStore) GetByID(ctx context.Context, id string) (*Booking, error) {
	return getByID(ctx, s.pool, id)
}

func (s *pgxStore) List(ctx context.Context, filter ListFilter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	apply := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		q = q.From("public.bookings").Where(squirrel.Eq{"salon_id": filter.SalonID})
		if filter.StaffID != "" {
			q = q.Where(squirrel.Eq{"staff_id": filter.StaffID})
		}
		if !filter.From.IsZero() {
			q = q.Where(squirrel.GtOrEq{"date": filter.From})
		}
		if !filter.To.IsZero() {
			q = q.Where(squirrel.LtOrEq{"date": filter.To})
		}
		return q
	}

	countSQL, countArgs, err := apply(psql.Select("COUNT(*)")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count bookings query failed: %w", err)
	}
	var total int
	if err := s.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings failed: %w", err)
	}

	builder := apply(psql.Select(bookingColumns...)).
		OrderBy("date ASC", "start_minute ASC")
	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		builder = builder.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, total, nil
}

func (s *pgxStore) Atomic(ctx context.Context, keys []ShardKey, fn func(tx Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, k := range SortKeys(keys) {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", k.LockID()); err != nil {
			return fmt.Errorf("acquire shard lock %s failed: %w", k.String(), err)
		}
	}

	if err := fn(&pgxTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking tx failed: %w", err)
	}
	return nil
}

type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) GetByID(ctx context.Context, id string) (*Booking, error) {
	return getByID(ctx, t.tx, id)
}

func (t *pgxTx) Intervals(ctx context.Context, staffID string, date time.Time, excludeID string) ([]availability.Interval, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	builder := psql.Select("start_minute", "duration_minutes", "extra_minutes").
		From("public.bookings").
		Where(squirrel.Eq{"staff_id": staffID, "date": date}).
		Where(squirrel.NotEq{"status": []Status{StatusCancelled, StatusNoShow}})
	if excludeID != "" {
		builder = builder.Where(squirrel.NotEq{"id": excludeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking intervals query failed: %w", err)
	}

	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query booking intervals failed: %w", err)
	}
	defer rows.Close()

	var intervals []availability.Interval
	for rows.Next() {
		var start, duration, extra int
		if err := rows.Scan(&start, &duration, &extra); err != nil {
			return nil, fmt.Errorf("scan booking interval failed: %w", err)
		}
		intervals = append(intervals, availability.Interval{Start: start, End: start + duration + extra})
	}
	rows.Close()

	blockQuery, blockArgs, err := psql.Select("start_minute", "end_minute").
		From("public.time_blocks").
		Where(squirrel.Eq{"staff_id": staffID, "date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build time block intervals query failed: %w", err)
	}

	blockRows, err := t.tx.Query(ctx, blockQuery, blockArgs...)
	if err != nil {
		return nil, fmt.Errorf("query time block intervals failed: %w", err)
	}
	defer blockRows.Close()

	for blockRows.Next() {
		var start, end int
		if err := blockRows.Scan(&start, &end); err != nil {
			return nil, fmt.Errorf("scan time block interval failed: %w", err)
		}
		intervals = append(intervals, availability.Interval{Start: start, End: end})
	}
	return intervals, nil
}

func (t *pgxTx) Insert(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"salon_id", "staff_id", "client_id", "service_id", "date",
			"start_minute", "duration_minutes", "extra_minutes", "status", "notes",
		).
		Values(
			b.SalonID, b.StaffID, b.ClientID, b.ServiceID, b.Date,
			b.StartMinute, b.DurationMinutes, b.ExtraMinutes, b.Status, b.Notes,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert booking query failed: %w", err)
	}

	if err := t.tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.Version, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return apperror.Wrap(err, http.StatusUnprocessableEntity, "invalid_reference", "referenced client, service or staff does not exist")
		}
		return fmt.Errorf("insert booking failed: %w", err)
	}
	return nil
}

func (t *pgxTx) UpdatePlacement(ctx context.Context, b *Booking, expectedVersion int) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("staff_id", b.StaffID).
		Set("date", b.Date).
		Set("start_minute", b.StartMinute).
		Set("duration_minutes", b.DurationMinutes).
		Set("extra_minutes", b.ExtraMinutes).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID, "version": expectedVersion}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update placement query failed: %w", err)
	}

	if err := t.tx.QueryRow(ctx, query, args...).Scan(&b.Version, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("update booking placement failed: %w", err)
	}
	return nil
}

func (t *pgxTx) UpdateStatus(ctx context.Context, b *Booking, status Status, expectedVersion int) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID, "version": expectedVersion}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update status query failed: %w", err)
	}

	if err := t.tx.QueryRow(ctx, query, args...).Scan(&b.Version, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("update booking status failed: %w", err)
	}
	b.Status = status
	return nil
}
