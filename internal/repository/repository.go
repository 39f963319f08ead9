package repository

import (
	"context"

	"grocery-pos/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves active products ordered by name with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single active product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByBarcode retrieves a single active product by its exact barcode.
	GetByBarcode(ctx context.Context, barcode string) (*model.Product, error)

	// Search returns active products whose name, SKU or barcode contains term.
	Search(ctx context.Context, term string, limit int) ([]model.Product, error)
}

// CustomerRepository defines the interface for customer data access operations.
type CustomerRepository interface {
	// Search returns active customers whose name, phone or email contains term.
	Search(ctx context.Context, term string, limit int) ([]model.Customer, error)

	// GetByID retrieves a single active customer by its ID.
	GetByID(ctx context.Context, id string) (*model.Customer, error)

	// Create inserts a customer and fills in its ID and CreatedAt.
	Create(ctx context.Context, customer *model.Customer) error
}

// WarehouseRepository defines the interface for warehouse data access operations.
type WarehouseRepository interface {
	// ListActive returns active warehouses, oldest first.
	ListActive(ctx context.Context) ([]model.Warehouse, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// DecrementInventory takes the sold quantities out of a warehouse's stock
	// and returns the product IDs that had no inventory row there.
	DecrementInventory(ctx context.Context, tx pgx.Tx, warehouseID string, items []model.OrderItem) ([]string, error)

	// GetInvoice retrieves an order with its customer and item details.
	GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
}
