package workinghours

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// GetWeek returns all stored weekday records for the provider, ordered by weekday.
	GetWeek(ctx context.Context, providerID string) ([]*WorkingHours, error)
	GetDay(ctx context.Context, providerID string, weekday time.Weekday) (*WorkingHours, error)

	// UpsertDay inserts or replaces the (provider, weekday) record.
	UpsertDay(ctx context.Context, wh *WorkingHours) error
	// UpsertWeek upserts several weekday records in one transaction.
	UpsertWeek(ctx context.Context, week []*WorkingHours) error

	DeleteDay(ctx context.Context, providerID string, weekday time.Weekday) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const whColumns = "id, provider_id, weekday, active, start_time, end_time, break_start, break_end, timezone, max_bookings_per_day, created_at, updated_at"

func scanWorkingHours(row pgx.Row) (*WorkingHours, error) {
	var w WorkingHours
	var weekday int
	if err := row.Scan(
		&w.ID, &w.ProviderID, &weekday, &w.Active, &w.StartTime, &w.EndTime,
		&w.BreakStart, &w.BreakEnd, &w.Timezone, &w.MaxBookingsPerDay,
		&w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	w.Weekday = time.Weekday(weekday)
	return &w, nil
}

func (r *pgxRepository) GetWeek(ctx context.Context, providerID string) ([]*WorkingHours, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(whColumns).
		From("public.working_hours").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get week query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get week failed: %w", err)
	}
	defer rows.Close()

	var week []*WorkingHours
	for rows.Next() {
		w, err := scanWorkingHours(rows)
		if err != nil {
			return nil, fmt.Errorf("scan working hours failed: %w", err)
		}
		week = append(week, w)
	}
	return week, rows.Err()
}

func (r *pgxRepository) GetDay(ctx context.Context, providerID string, weekday time.Weekday) (*WorkingHours, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(whColumns).
		From("public.working_hours").
		Where(squirrel.Eq{"provider_id": providerID, "weekday": int(weekday)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get day query failed: %w", err)
	}

	w, err := scanWorkingHours(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get day failed: %w", err)
	}
	return w, nil
}

func (r *pgxRepository) UpsertDay(ctx context.Context, wh *WorkingHours) error {
	return r.upsert(ctx, r.pool, wh)
}

func (r *pgxRepository) UpsertWeek(ctx context.Context, week []*WorkingHours) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert week failed: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, wh := range week {
		if err := r.upsert(ctx, tx, wh); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// querier covers both pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *pgxRepository) upsert(ctx context.Context, q querier, wh *WorkingHours) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.working_hours").
		Columns("provider_id", "weekday", "active", "start_time", "end_time",
			"break_start", "break_end", "timezone", "max_bookings_per_day").
		Values(wh.ProviderID, int(wh.Weekday), wh.Active, wh.StartTime, wh.EndTime,
			wh.BreakStart, wh.BreakEnd, wh.Timezone, wh.MaxBookingsPerDay).
		Suffix(`ON CONFLICT (provider_id, weekday) DO UPDATE SET
			active = EXCLUDED.active,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			timezone = EXCLUDED.timezone,
			max_bookings_per_day = EXCLUDED.max_bookings_per_day,
			updated_at = now()
			RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert working hours query failed: %w", err)
	}

	if err := q.QueryRow(ctx, query, args...).Scan(&wh.ID, &wh.CreatedAt, &wh.UpdatedAt); err != nil {
		return fmt.Errorf("upsert working hours failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) DeleteDay(ctx context.Context, providerID string, weekday time.Weekday) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.working_hours").
		Where(squirrel.Eq{"provider_id": providerID, "weekday": int(weekday)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete day query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete day failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
