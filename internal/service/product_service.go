package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"grocery-pos/internal/cache"
	"grocery-pos/internal/model"
	"grocery-pos/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService with a read-through cache.
type productService struct {
	productRepo repository.ProductRepository
	cache       cache.Store
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, store cache.Store, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		cache:       store,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves active products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	limit, offset = clampPage(limit, offset)

	products, err := cache.Fetch(ctx, s.cache, s.logger, cache.EntityProducts,
		[]string{"all", strconv.Itoa(limit), strconv.Itoa(offset)},
		func(ctx context.Context) ([]model.Product, error) {
			return s.productRepo.GetAll(ctx, limit, offset)
		})
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := cache.Fetch(ctx, s.cache, s.logger, cache.EntityProducts, []string{"id", id},
		func(ctx context.Context) (*model.Product, error) {
			return s.productRepo.GetByID(ctx, id)
		})
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// FindByBarcode retrieves the product with an exact barcode.
func (s *productService) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := cache.Fetch(ctx, s.cache, s.logger, cache.EntityProducts, []string{"barcode", barcode},
		func(ctx context.Context) (*model.Product, error) {
			return s.productRepo.GetByBarcode(ctx, barcode)
		})
	if err != nil {
		s.logger.Error().Err(err).Str("barcode", barcode).Msg("failed to get product by barcode")
		return nil, fmt.Errorf("failed to get product by barcode: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("barcode", barcode).Msg("product not found for barcode")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Search returns up to MaxPageSize products matching term.
func (s *productService) Search(ctx context.Context, term string) ([]model.Product, error) {
	term = strings.TrimSpace(term)

	products, err := cache.Fetch(ctx, s.cache, s.logger, cache.EntityProducts, []string{"q", strings.ToLower(term)},
		func(ctx context.Context) ([]model.Product, error) {
			return s.productRepo.Search(ctx, term, MaxPageSize)
		})
	if err != nil {
		s.logger.Error().Err(err).Str("term", term).Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}
