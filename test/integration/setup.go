package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"grocery-pos/internal/config"
	"grocery-pos/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and
// the till schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := database.NewPool(ctx, config.DatabaseConfig{
		URL:             connStr,
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedStore inserts two warehouses, three products and one customer. Only W1
// stocks P001 and P002; P003 has no inventory row anywhere.
func SeedStore(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	statements := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO warehouses (id, name, code) VALUES ($1, $2, $3)`, []any{"W1", "Main Street", "MAIN"}},
		{`INSERT INTO warehouses (id, name, code) VALUES ($1, $2, $3)`, []any{"W2", "Riverside", "RIVER"}},
		{`INSERT INTO warehouses (id, name, code, is_active) VALUES ($1, $2, $3, FALSE)`, []any{"W0", "Closed Store", "CLOSED"}},
		{`INSERT INTO products (id, name, sku, barcode, selling_price, tax_rate) VALUES ($1, $2, $3, $4, $5, $6)`,
			[]any{"P001", "Gala Apple", "FRU-001", "4011", 2.99, nil}},
		{`INSERT INTO products (id, name, sku, barcode, selling_price, tax_rate) VALUES ($1, $2, $3, $4, $5, $6)`,
			[]any{"P002", "Jasmine Rice 1kg", "GRO-001", nil, 10.00, 10.0}},
		{`INSERT INTO products (id, name, sku, barcode, selling_price, tax_rate) VALUES ($1, $2, $3, $4, $5, $6)`,
			[]any{"P003", "Whole Milk 1L", "DAI-001", "8801001", 1.20, 0.0}},
		{`INSERT INTO products (id, name, sku, selling_price, status) VALUES ($1, $2, $3, $4, 'inactive')`,
			[]any{"P009", "Apple Cider", "BEV-009", 4.00}},
		{`INSERT INTO inventory (product_id, warehouse_id, quantity) VALUES ($1, $2, $3)`, []any{"P001", "W1", 100}},
		{`INSERT INTO inventory (product_id, warehouse_id, quantity) VALUES ($1, $2, $3)`, []any{"P002", "W1", 100}},
		{`INSERT INTO customers (id, first_name, last_name, phone, email) VALUES ($1, $2, $3, $4, $5)`,
			[]any{"C001", "Ana", "Ng", "555-0101", "ana.ng@example.com"}},
	}

	for _, s := range statements {
		if _, err := pool.Exec(ctx, s.query, s.args...); err != nil {
			t.Fatalf("failed to seed %q: %v", s.query, err)
		}
	}
}

// StockOf returns the quantity on hand, or -1 when there is no inventory row.
func StockOf(t *testing.T, pool *pgxpool.Pool, productID, warehouseID string) int {
	t.Helper()

	var qty int
	err := pool.QueryRow(context.Background(),
		`SELECT quantity FROM inventory WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID,
	).Scan(&qty)
	if err != nil {
		return -1
	}
	return qty
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "inventory", "customers", "products", "warehouses"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
