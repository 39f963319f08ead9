package service

import (
	"context"
	"fmt"

	"grocery-pos/internal/cache"
	"grocery-pos/internal/model"
	"grocery-pos/internal/repository"

	"github.com/rs/zerolog"
)

type warehouseService struct {
	warehouseRepo repository.WarehouseRepository
	cache         cache.Store
	logger        zerolog.Logger
}

// NewWarehouseService creates a new warehouse service.
func NewWarehouseService(warehouseRepo repository.WarehouseRepository, store cache.Store, logger zerolog.Logger) WarehouseService {
	return &warehouseService{
		warehouseRepo: warehouseRepo,
		cache:         store,
		logger:        logger.With().Str("service", "warehouse").Logger(),
	}
}

func (s *warehouseService) ListActive(ctx context.Context) ([]model.Warehouse, error) {
	warehouses, err := cache.Fetch(ctx, s.cache, s.logger, cache.EntityWarehouses, []string{"active"},
		func(ctx context.Context) ([]model.Warehouse, error) {
			return s.warehouseRepo.ListActive(ctx)
		})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list warehouses")
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}

	return warehouses, nil
}
