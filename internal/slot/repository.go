package slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// CreateBatch persists all slots in a single transaction; either every
	// slot lands or none do.
	CreateBatch(ctx context.Context, slots []*TimeSlot) error

	GetByID(ctx context.Context, id string) (*TimeSlot, error)
	ListByDate(ctx context.Context, providerID, date string, serviceID *string) ([]*TimeSlot, error)
	ListByDateRange(ctx context.Context, providerID, fromDate, toDate string, serviceID *string) ([]*TimeSlot, error)

	// UpdateStatus transitions the given slots to status.
	UpdateStatus(ctx context.Context, ids []string, status Status) error

	// DeleteFutureUnbooked removes slots on or after fromDate that carry no
	// bookings, optionally narrowed to one weekday and/or one service.
	DeleteFutureUnbooked(ctx context.Context, providerID, fromDate string, weekday *time.Weekday, serviceID *string) error

	// Delete removes one slot; the service layer guards the zero-bookings invariant.
	Delete(ctx context.Context, id, providerID string) error

	// IncrementBooking atomically bumps current_bookings, rejecting with
	// ErrCapacityFull when the slot is full or not available. This is the
	// only write path booking creation may use.
	IncrementBooking(ctx context.Context, id string) (*TimeSlot, error)
	DecrementBooking(ctx context.Context, id string) (*TimeSlot, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const slotColumns = "id, provider_id, service_id, date, start_time, end_time, duration_minutes, buffer_minutes, status, max_bookings, current_bookings, custom_price, created_at, updated_at"

func scanSlot(row pgx.Row) (*TimeSlot, error) {
	var t TimeSlot
	if err := row.Scan(
		&t.ID, &t.ProviderID, &t.ServiceID, &t.Date, &t.StartTime, &t.EndTime,
		&t.DurationMinutes, &t.BufferMinutes, &t.Status, &t.MaxBookings,
		&t.CurrentBookings, &t.CustomPrice, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *pgxRepository) CreateBatch(ctx context.Context, slots []*TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create batch failed: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	for _, s := range slots {
		query, args, err := psql.Insert("public.time_slots").
			Columns("id", "provider_id", "service_id", "date", "start_time", "end_time",
				"duration_minutes", "buffer_minutes", "status", "max_bookings",
				"current_bookings", "custom_price").
			Values(s.ID, s.ProviderID, s.ServiceID, s.Date, s.StartTime, s.EndTime,
				s.DurationMinutes, s.BufferMinutes, s.Status, s.MaxBookings,
				s.CurrentBookings, s.CustomPrice).
			ToSql()
		if err != nil {
			return fmt.Errorf("build create slot query failed: %w", err)
		}
		batch.Queue(query, args...)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrSlotExists
		}
		return fmt.Errorf("create slot batch failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*TimeSlot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(slotColumns).
		From("public.time_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get slot query failed: %w", err)
	}

	s, err := scanSlot(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get slot failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepository) ListByDate(ctx context.Context, providerID, date string, serviceID *string) ([]*TimeSlot, error) {
	return r.ListByDateRange(ctx, providerID, date, date, serviceID)
}

func (r *pgxRepository) ListByDateRange(ctx context.Context, providerID, fromDate, toDate string, serviceID *string) ([]*TimeSlot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(slotColumns).
		From("public.time_slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.GtOrEq{"date": fromDate}).
		Where(squirrel.LtOrEq{"date": toDate})

	if serviceID != nil {
		query = query.Where(squirrel.Eq{"service_id": *serviceID})
	}

	sql, args, err := query.OrderBy("date ASC", "start_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list slots query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots failed: %w", err)
	}
	defer rows.Close()

	var slots []*TimeSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot failed: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, ids []string, status Status) error {
	if len(ids) == 0 {
		return nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Update("public.time_slots").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update slot status query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update slot status failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) DeleteFutureUnbooked(ctx context.Context, providerID, fromDate string, weekday *time.Weekday, serviceID *string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Delete("public.time_slots").
		Where(squirrel.Eq{"provider_id": providerID, "current_bookings": 0}).
		Where(squirrel.GtOrEq{"date": fromDate})

	if weekday != nil {
		// Postgres DOW matches time.Weekday: Sunday = 0.
		query = query.Where(squirrel.Expr("EXTRACT(DOW FROM date::date) = ?", int(*weekday)))
	}
	if serviceID != nil {
		query = query.Where(squirrel.Eq{"service_id": *serviceID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build delete future unbooked query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete future unbooked slots failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id, providerID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Delete("public.time_slots").
		Where(squirrel.Eq{"id": id, "provider_id": providerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete slot query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete slot failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) IncrementBooking(ctx context.Context, id string) (*TimeSlot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Update("public.time_slots").
		Set("current_bookings", squirrel.Expr("current_bookings + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": StatusAvailable}).
		Where(squirrel.Expr("current_bookings < max_bookings")).
		Suffix("RETURNING " + slotColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build increment booking query failed: %w", err)
	}

	s, err := scanSlot(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the slot is gone or the conditional update rejected it.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrCapacityFull
		}
		return nil, fmt.Errorf("increment booking failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepository) DecrementBooking(ctx context.Context, id string) (*TimeSlot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Update("public.time_slots").
		Set("current_bookings", squirrel.Expr("current_bookings - 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("current_bookings > 0")).
		Suffix("RETURNING " + slotColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build decrement booking query failed: %w", err)
	}

	s, err := scanSlot(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrNoBookings
		}
		return nil, fmt.Errorf("decrement booking failed: %w", err)
	}
	return s, nil
}
