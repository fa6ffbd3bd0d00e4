package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetProvider(ctx context.Context, id string) (*Provider, error)
	GetService(ctx context.Context, id string) (*Service, error)

	// GetProviderService returns the service only when it belongs to the provider.
	GetProviderService(ctx context.Context, providerID, serviceID string) (*Service, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetProvider(ctx context.Context, id string) (*Provider, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "timezone", "active", "created_at").
		From("public.providers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get provider query failed: %w", err)
	}

	var p Provider
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&p.ID, &p.Name, &p.Timezone, &p.Active, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("get provider failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) GetService(ctx context.Context, id string) (*Service, error) {
	return r.getService(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetProviderService(ctx context.Context, providerID, serviceID string) (*Service, error) {
	return r.getService(ctx, squirrel.Eq{"id": serviceID, "provider_id": providerID})
}

func (r *pgxRepository) getService(ctx context.Context, where squirrel.Eq) (*Service, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "provider_id", "name", "duration_minutes", "buffer_minutes", "price", "active", "created_at",
	).
		From("public.services").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get service query failed: %w", err)
	}

	var s Service
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&s.ID, &s.ProviderID, &s.Name, &s.DurationMinutes, &s.BufferMinutes, &s.Price, &s.Active, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service failed: %w", err)
	}
	return &s, nil
}
