package repository

import (
	"context"
	"fmt"

	"grocery-pos/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type warehouseRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewWarehouseRepository creates a new PostgreSQL-backed warehouse repository.
func NewWarehouseRepository(pool *pgxpool.Pool, logger zerolog.Logger) WarehouseRepository {
	return &warehouseRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "warehouse").Logger(),
	}
}

// ListActive returns active warehouses, oldest first, so the first entry is
// a stable default fulfilment location.
func (r *warehouseRepository) ListActive(ctx context.Context) ([]model.Warehouse, error) {
	query := `
		SELECT id, name, code, is_active, created_at
		FROM warehouses
		WHERE is_active
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query warehouses")
		return nil, fmt.Errorf("failed to query warehouses: %w", err)
	}
	defer rows.Close()

	warehouses := []model.Warehouse{}
	for rows.Next() {
		var w model.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Code, &w.IsActive, &w.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan warehouse row")
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating warehouse rows")
		return nil, fmt.Errorf("error iterating warehouses: %w", err)
	}

	return warehouses, nil
}
