// Command seed prepares a development till: it applies the schema, loads a
// small grocery catalogue with stock and writes sample coupon files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"grocery-pos/internal/config"
	"grocery-pos/internal/coupon"
	"grocery-pos/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func main() {
	couponDir := flag.String("coupons", "data/coupons", "directory for the sample coupon files")
	skipDB := flag.Bool("skip-db", false, "only write coupon files")
	stock := flag.Int("stock", 100, "units of each product stocked at every warehouse")
	flag.Parse()

	if err := run(*couponDir, *skipDB, *stock); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(couponDir string, skipDB bool, stock int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	if err := writeCouponFiles(couponDir, time.Now(), logger); err != nil {
		return err
	}
	if skipDB {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("failed to query database name: %w", err)
	}
	logger.Info().Str("database", dbName).Msg("connected")

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}

	if err := seed(ctx, pool, stock); err != nil {
		return err
	}

	logger.Info().
		Int("products", len(sampleProducts)).
		Int("warehouses", len(sampleWarehouses)).
		Int("customers", len(sampleCustomers)).
		Msg("sample data seeded")
	return nil
}

// seed inserts the sample rows in one transaction. Existing rows are left
// untouched so the command can be re-run.
func seed(ctx context.Context, pool *pgxpool.Pool, stock int) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, w := range sampleWarehouses {
		batch.Queue(`INSERT INTO warehouses (id, name, code) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			w.ID, w.Name, w.Code)
	}
	for _, p := range sampleProducts {
		batch.Queue(`INSERT INTO products (id, name, sku, barcode, selling_price, tax_rate) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING`,
			p.ID, p.Name, p.SKU, p.Barcode, p.SellingPrice, p.TaxRate)
		for _, w := range sampleWarehouses {
			batch.Queue(`INSERT INTO inventory (product_id, warehouse_id, quantity) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				p.ID, w.ID, stock)
		}
	}
	for _, c := range sampleCustomers {
		batch.Queue(`INSERT INTO customers (id, first_name, last_name, phone, email) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			c.ID, c.FirstName, c.LastName, c.Phone, c.Email)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert sample data: %w", err)
	}

	return tx.Commit(ctx)
}

func writeCouponFiles(dir string, now time.Time, logger zerolog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	for name, coupons := range sampleCoupons(now) {
		path := filepath.Join(dir, name)

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := coupon.WriteFile(f, coupons); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}

		logger.Info().Str("file", path).Int("coupons", len(coupons)).Msg("coupon file written")
	}

	return nil
}
