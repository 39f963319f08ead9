package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment and fulfilment statuses written by the till.
const (
	PaymentStatusPaid    = "paid"
	OrderStatusDelivered = "delivered"

	// POSSaleNote is stored in Order.Notes for every till sale.
	POSSaleNote = "POS Sale"
)

// Order represents a finalised sale.
type Order struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrderNumber    string          `json:"orderNumber" db:"order_number"`
	CustomerID     *string         `json:"customerId,omitempty" db:"customer_id"`
	WarehouseID    string          `json:"warehouseId" db:"warehouse_id"`
	Subtotal       decimal.Decimal `json:"subtotal" db:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount" db:"tax_amount"`
	ShippingAmount decimal.Decimal `json:"shippingAmount" db:"shipping_amount"`
	DiscountAmount decimal.Decimal `json:"discountAmount" db:"discount_amount"`
	CouponCode     *string         `json:"couponCode,omitempty" db:"coupon_code"`
	CouponDiscount decimal.Decimal `json:"couponDiscount" db:"coupon_discount"`
	TotalAmount    decimal.Decimal `json:"totalAmount" db:"total_amount"`
	PaymentStatus  string          `json:"paymentStatus" db:"payment_status"`
	Status         string          `json:"status" db:"status"`
	Notes          string          `json:"notes" db:"notes"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	OrderID    uuid.UUID       `json:"orderId" db:"order_id"`
	ProductID  string          `json:"productId" db:"product_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice" db:"unit_price"`
	TotalPrice decimal.Decimal `json:"totalPrice" db:"total_price"`
}

// InvoiceItem is an order item joined with the product details printed on an invoice.
type InvoiceItem struct {
	OrderItem
	ProductName string  `json:"productName"`
	SKU         string  `json:"sku"`
	Barcode     *string `json:"barcode,omitempty"`
}

// Invoice is everything needed to render a receipt for a completed order.
type Invoice struct {
	Order    Order         `json:"order"`
	Customer *Customer     `json:"customer,omitempty"`
	Items    []InvoiceItem `json:"items"`
}
