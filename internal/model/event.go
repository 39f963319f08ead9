package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleCompletedEvent is published after a till sale has been committed.
type SaleCompletedEvent struct {
	OrderID     uuid.UUID       `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	WarehouseID string          `json:"warehouseId"`
	CustomerID  *string         `json:"customerId,omitempty"`
	Items       []SaleItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CompletedAt time.Time       `json:"completedAt"`
}

// SaleItem is the stock movement of one product in a sale.
type SaleItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
