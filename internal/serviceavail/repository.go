package serviceavail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
)

type Repository interface {
	// Get returns the override row, or ErrNotFound when none exists.
	Get(ctx context.Context, providerID, serviceID string) (*Settings, error)
	Upsert(ctx context.Context, s *Settings) error
	Delete(ctx context.Context, providerID, serviceID string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// available_days and custom_hours are stored as JSONB keyed by weekday name.
func marshalDays(days []time.Weekday) ([]byte, error) {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = timeutil.WeekdayName(d)
	}
	return json.Marshal(names)
}

func unmarshalDays(raw []byte) ([]time.Weekday, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, err
	}
	days := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		d, err := timeutil.ParseWeekday(n)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

func marshalHours(hours map[time.Weekday]DayHours) ([]byte, error) {
	named := make(map[string]DayHours, len(hours))
	for d, h := range hours {
		named[timeutil.WeekdayName(d)] = h
	}
	return json.Marshal(named)
}

func unmarshalHours(raw []byte) (map[time.Weekday]DayHours, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var named map[string]DayHours
	if err := json.Unmarshal(raw, &named); err != nil {
		return nil, err
	}
	if len(named) == 0 {
		return nil, nil
	}
	hours := make(map[time.Weekday]DayHours, len(named))
	for n, h := range named {
		d, err := timeutil.ParseWeekday(n)
		if err != nil {
			return nil, err
		}
		hours[d] = h
	}
	return hours, nil
}

const saColumns = `id, provider_id, service_id, custom_duration_minutes, custom_buffer_minutes,
	preparation_minutes, cleanup_minutes, available_days, custom_hours, max_bookings_per_day,
	requires_special_scheduling, unavailable_from, unavailable_until, created_at, updated_at`

func scanSettings(row pgx.Row) (*Settings, error) {
	var s Settings
	var rawDays, rawHours []byte
	if err := row.Scan(
		&s.ID, &s.ProviderID, &s.ServiceID, &s.CustomDurationMinutes, &s.CustomBufferMinutes,
		&s.PreparationMinutes, &s.CleanupMinutes, &rawDays, &rawHours, &s.MaxBookingsPerDay,
		&s.RequiresSpecialScheduling, &s.UnavailableFrom, &s.UnavailableUntil,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if s.AvailableDays, err = unmarshalDays(rawDays); err != nil {
		return nil, fmt.Errorf("decode available_days failed: %w", err)
	}
	if s.CustomHours, err = unmarshalHours(rawHours); err != nil {
		return nil, fmt.Errorf("decode custom_hours failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) Get(ctx context.Context, providerID, serviceID string) (*Settings, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(saColumns).
		From("public.service_availability_settings").
		Where(squirrel.Eq{"provider_id": providerID, "service_id": serviceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get settings query failed: %w", err)
	}

	s, err := scanSettings(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get settings failed: %w", err)
	}
	return s, nil
}

func (r *pgxRepository) Upsert(ctx context.Context, s *Settings) error {
	rawDays, err := marshalDays(s.AvailableDays)
	if err != nil {
		return fmt.Errorf("encode available_days failed: %w", err)
	}
	rawHours, err := marshalHours(s.CustomHours)
	if err != nil {
		return fmt.Errorf("encode custom_hours failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Insert("public.service_availability_settings").
		Columns("provider_id", "service_id", "custom_duration_minutes", "custom_buffer_minutes",
			"preparation_minutes", "cleanup_minutes", "available_days", "custom_hours",
			"max_bookings_per_day", "requires_special_scheduling", "unavailable_from", "unavailable_until").
		Values(s.ProviderID, s.ServiceID, s.CustomDurationMinutes, s.CustomBufferMinutes,
			s.PreparationMinutes, s.CleanupMinutes, rawDays, rawHours,
			s.MaxBookingsPerDay, s.RequiresSpecialScheduling, s.UnavailableFrom, s.UnavailableUntil).
		Suffix(`ON CONFLICT (provider_id, service_id) DO UPDATE SET
			custom_duration_minutes = EXCLUDED.custom_duration_minutes,
			custom_buffer_minutes = EXCLUDED.custom_buffer_minutes,
			preparation_minutes = EXCLUDED.preparation_minutes,
			cleanup_minutes = EXCLUDED.cleanup_minutes,
			available_days = EXCLUDED.available_days,
			custom_hours = EXCLUDED.custom_hours,
			max_bookings_per_day = EXCLUDED.max_bookings_per_day,
			requires_special_scheduling = EXCLUDED.requires_special_scheduling,
			unavailable_from = EXCLUDED.unavailable_from,
			unavailable_until = EXCLUDED.unavailable_until,
			updated_at = now()
			RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert settings query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *pgxRepository) Delete(ctx context.Context, providerID, serviceID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Delete("public.service_availability_settings").
		Where(squirrel.Eq{"provider_id": providerID, "service_id": serviceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete settings query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete settings failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
