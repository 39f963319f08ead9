package service

import (
	"context"

	"grocery-pos/internal/model"

	"github.com/google/uuid"
)

// Defaults for list and search endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ProductService defines catalogue lookups used by the till.
type ProductService interface {
	// GetAll retrieves active products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// FindByBarcode retrieves the product with an exact barcode.
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)

	// Search returns products whose name, SKU or barcode contains term.
	Search(ctx context.Context, term string) ([]model.Product, error)
}

// CustomerService defines customer lookup and registration.
type CustomerService interface {
	// Search returns customers whose name, phone or email contains term.
	Search(ctx context.Context, term string) ([]model.Customer, error)

	// GetByID retrieves a single customer by ID.
	GetByID(ctx context.Context, id string) (*model.Customer, error)

	// Create registers a customer after validating the names.
	Create(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error)
}

// WarehouseService lists the locations a sale can be fulfilled from.
type WarehouseService interface {
	// ListActive returns active warehouses, oldest first.
	ListActive(ctx context.Context) ([]model.Warehouse, error)
}

// OrderService persists finalised sales and reads them back as invoices.
type OrderService interface {
	// CreateOrderWithItems writes the order, its items and the stock
	// movement in one transaction and returns the order ID.
	CreateOrderWithItems(ctx context.Context, order *model.Order, items []model.OrderItem) (uuid.UUID, error)

	// GetInvoice retrieves an order with its customer and item details.
	GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
