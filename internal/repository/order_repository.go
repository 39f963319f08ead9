package repository

import (
	"context"
	"fmt"

	"grocery-pos/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, order_number, customer_id, warehouse_id,
			subtotal, tax_amount, shipping_amount, discount_amount,
			coupon_code, coupon_discount, total_amount,
			payment_status, status, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.OrderNumber, order.CustomerID, order.WarehouseID,
		order.Subtotal, order.TaxAmount, order.ShippingAmount, order.DiscountAmount,
		order.CouponCode, order.CouponDiscount, order.TotalAmount,
		order.PaymentStatus, order.Status, order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("order_number", order.OrderNumber).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// DecrementInventory subtracts sold quantities from the warehouse stock.
func (r *orderRepository) DecrementInventory(ctx context.Context, tx pgx.Tx, warehouseID string, items []model.OrderItem) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	query := `
		UPDATE inventory
		SET quantity = quantity - $1, updated_at = NOW()
		WHERE product_id = $2 AND warehouse_id = $3
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.Quantity, item.ProductID, warehouseID)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	var missing []string
	for i := 0; i < len(items); i++ {
		tag, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("warehouse_id", warehouseID).
				Str("product_id", items[i].ProductID).
				Msg("failed to decrement inventory")
			return nil, fmt.Errorf("failed to decrement inventory: %w", err)
		}
		if tag.RowsAffected() == 0 {
			missing = append(missing, items[i].ProductID)
		}
	}

	return missing, nil
}

// GetInvoice retrieves an order by its ID with its customer and items.
func (r *orderRepository) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	orderQuery := `
		SELECT id, order_number, customer_id, warehouse_id,
		       subtotal, tax_amount, shipping_amount, discount_amount,
		       coupon_code, coupon_discount, total_amount,
		       payment_status, status, COALESCE(notes, ''), created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var inv model.Invoice
	o := &inv.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.WarehouseID,
		&o.Subtotal, &o.TaxAmount, &o.ShippingAmount, &o.DiscountAmount,
		&o.CouponCode, &o.CouponDiscount, &o.TotalAmount,
		&o.PaymentStatus, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if o.CustomerID != nil {
		var c model.Customer
		err := r.pool.QueryRow(ctx,
			`SELECT `+customerColumns+` FROM customers WHERE id = $1`, *o.CustomerID,
		).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email, &c.CreatedAt)
		switch {
		case err == nil:
			inv.Customer = &c
		case err != pgx.ErrNoRows:
			r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query invoice customer")
			return nil, fmt.Errorf("failed to query invoice customer: %w", err)
		}
	}

	itemsQuery := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.total_price,
		       p.name, p.sku, p.barcode
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY p.name, oi.id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	inv.Items = []model.InvoiceItem{}
	for rows.Next() {
		var item model.InvoiceItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.TotalPrice,
			&item.ProductName, &item.SKU, &item.Barcode,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		inv.Items = append(inv.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &inv, nil
}
