package repository

import (
	"context"
	"testing"
	"time"

	"grocery-pos/internal/database"
	"grocery-pos/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the till schema applied.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping repository test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func ptr[T any](v T) *T {
	return &v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	t.Helper()

	query := `
		INSERT INTO products (id, name, sku, barcode, selling_price, tax_rate, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, p := range products {
		status := p.Status
		if status == "" {
			status = model.ProductStatusActive
		}
		_, err := pool.Exec(context.Background(), query, p.ID, p.Name, p.SKU, p.Barcode, p.SellingPrice, p.TaxRate, status)
		require.NoError(t, err)
	}
}

func seedWarehouse(t *testing.T, pool *pgxpool.Pool, id, name, code string, active bool, createdAt time.Time) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO warehouses (id, name, code, is_active, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, name, code, active, createdAt)
	require.NoError(t, err)
}

func seedInventory(t *testing.T, pool *pgxpool.Pool, productID, warehouseID string, quantity int) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO inventory (product_id, warehouse_id, quantity) VALUES ($1, $2, $3)`,
		productID, warehouseID, quantity)
	require.NoError(t, err)
}

func stockLevel(t *testing.T, pool *pgxpool.Pool, productID, warehouseID string) int {
	t.Helper()

	var qty int
	err := pool.QueryRow(context.Background(),
		`SELECT quantity FROM inventory WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID).Scan(&qty)
	require.NoError(t, err)
	return qty
}

var testCatalog = []model.Product{
	{ID: "P001", Name: "Gala Apple", SKU: "FRU-001", Barcode: ptr("4011"), SellingPrice: dec("2.99")},
	{ID: "P002", Name: "Jasmine Rice 1kg", SKU: "GRO-002", Barcode: ptr("8801"), SellingPrice: dec("10.00"), TaxRate: ptr(dec("10"))},
	{ID: "P003", Name: "Whole Milk", SKU: "DAI-003", SellingPrice: dec("1.20"), TaxRate: ptr(dec("0"))},
	{ID: "P004", Name: "Discontinued Soda", SKU: "BEV-004", Barcode: ptr("9990"), SellingPrice: dec("0.99"), Status: model.ProductStatusInactive},
}
