package repository

import (
	"context"
	"fmt"
	"strings"

	"grocery-pos/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, sku, barcode, selling_price, tax_rate, status, created_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves active products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE status = 'active'
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return r.collect(rows)
}

// GetByID retrieves a single active product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND status = 'active'`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// GetByBarcode retrieves a single active product by its barcode.
func (r *productRepository) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE barcode = $1 AND status = 'active'`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, barcode))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("barcode", barcode).Msg("no product for barcode")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("barcode", barcode).Msg("failed to query product by barcode")
		return nil, fmt.Errorf("failed to query product by barcode: %w", err)
	}

	return p, nil
}

// Search returns active products matching term in name, SKU or barcode.
func (r *productRepository) Search(ctx context.Context, term string, limit int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE status = 'active'
		  AND (name ILIKE $1 OR sku ILIKE $1 OR barcode ILIKE $1)
		ORDER BY name
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, likePattern(term), limit)
	if err != nil {
		r.logger.Error().Err(err).Str("term", term).Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return r.collect(rows)
}

func (r *productRepository) collect(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p       model.Product
		taxRate decimal.NullDecimal
	)
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Barcode, &p.SellingPrice, &taxRate, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	if taxRate.Valid {
		p.TaxRate = &taxRate.Decimal
	}
	return &p, nil
}

// likePattern turns a free-text term into an ILIKE substring pattern.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(term))
	return "%" + escaped + "%"
}
