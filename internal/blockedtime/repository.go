package blockedtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Filter narrows List results. PageSize 0 disables pagination.
type Filter struct {
	FromDate   string // inclusive, "" = unbounded
	ToDate     string // inclusive, "" = unbounded
	ActiveOnly bool
	Page       int
	PageSize   int
}

type Repository interface {
	List(ctx context.Context, providerID string, filter Filter) ([]*BlockedTime, error)
	Count(ctx context.Context, providerID string, filter Filter) (int, error)
	// ListOnDate returns active blocks recorded for the exact date.
	ListOnDate(ctx context.Context, providerID, date string) ([]*BlockedTime, error)
	GetByID(ctx context.Context, id, providerID string) (*BlockedTime, error)
	Create(ctx context.Context, b *BlockedTime) error
	Update(ctx context.Context, b *BlockedTime) error
	Delete(ctx context.Context, id, providerID string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const btColumns = "id, provider_id, date, start_time, end_time, all_day, block_type, reason, active, recurring_pattern, recurring_end_date, created_at, updated_at"

func scanBlockedTime(row pgx.Row) (*BlockedTime, error) {
	var b BlockedTime
	if err := row.Scan(
		&b.ID, &b.ProviderID, &b.Date, &b.StartTime, &b.EndTime, &b.AllDay,
		&b.Type, &b.Reason, &b.Active, &b.RecurringPattern, &b.RecurringEndDate,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, providerID string, filter Filter) ([]*BlockedTime, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(btColumns).
		From("public.blocked_times").
		Where(squirrel.Eq{"provider_id": providerID})

	if filter.FromDate != "" {
		query = query.Where(squirrel.GtOrEq{"date": filter.FromDate})
	}
	if filter.ToDate != "" {
		query = query.Where(squirrel.LtOrEq{"date": filter.ToDate})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"active": true})
	}

	query = query.OrderBy("date ASC", "start_time ASC NULLS FIRST")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.
			Limit(uint64(filter.PageSize)).
			Offset(uint64((page - 1) * filter.PageSize))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list blocked times query failed: %w", err)
	}

	return r.queryMany(ctx, sql, args)
}

func (r *pgxRepository) Count(ctx context.Context, providerID string, filter Filter) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("COUNT(*)").
		From("public.blocked_times").
		Where(squirrel.Eq{"provider_id": providerID})

	if filter.FromDate != "" {
		query = query.Where(squirrel.GtOrEq{"date": filter.FromDate})
	}
	if filter.ToDate != "" {
		query = query.Where(squirrel.LtOrEq{"date": filter.ToDate})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"active": true})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count blocked times query failed: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count blocked times failed: %w", err)
	}
	return total, nil
}

func (r *pgxRepository) ListOnDate(ctx context.Context, providerID, date string) ([]*BlockedTime, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(btColumns).
		From("public.blocked_times").
		Where(squirrel.Eq{"provider_id": providerID, "date": date, "active": true}).
		OrderBy("start_time ASC NULLS FIRST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list blocked times on date query failed: %w", err)
	}

	return r.queryMany(ctx, sql, args)
}

func (r *pgxRepository) queryMany(ctx context.Context, sql string, args []any) ([]*BlockedTime, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list blocked times failed: %w", err)
	}
	defer rows.Close()

	var blocks []*BlockedTime
	for rows.Next() {
		b, err := scanBlockedTime(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blocked time failed: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (r *pgxRepository) GetByID(ctx context.Context, id, providerID string) (*BlockedTime, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(btColumns).
		From("public.blocked_times").
		Where(squirrel.Eq{"id": id, "provider_id": providerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get blocked time query failed: %w", err)
	}

	b, err := scanBlockedTime(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get blocked time failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *BlockedTime) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Insert("public.blocked_times").
		Columns("provider_id", "date", "start_time", "end_time", "all_day",
			"block_type", "reason", "active", "recurring_pattern", "recurring_end_date").
		Values(b.ProviderID, b.Date, b.StartTime, b.EndTime, b.AllDay,
			b.Type, b.Reason, b.Active, b.RecurringPattern, b.RecurringEndDate).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create blocked time query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, sql, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *pgxRepository) Update(ctx context.Context, b *BlockedTime) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Update("public.blocked_times").
		Set("date", b.Date).
		Set("start_time", b.StartTime).
		Set("end_time", b.EndTime).
		Set("all_day", b.AllDay).
		Set("block_type", b.Type).
		Set("reason", b.Reason).
		Set("active", b.Active).
		Set("recurring_pattern", b.RecurringPattern).
		Set("recurring_end_date", b.RecurringEndDate).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID, "provider_id": b.ProviderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update blocked time query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update blocked time failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id, providerID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Delete("public.blocked_times").
		Where(squirrel.Eq{"id": id, "provider_id": providerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete blocked time query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete blocked time failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
