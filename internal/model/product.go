package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalogue item as seen by the till.
type Product struct {
	ID           string           `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	SKU          string           `json:"sku" db:"sku"`
	Barcode      *string          `json:"barcode,omitempty" db:"barcode"`
	SellingPrice decimal.Decimal  `json:"sellingPrice" db:"selling_price"`
	TaxRate      *decimal.Decimal `json:"taxRate,omitempty" db:"tax_rate"`
	Status       string           `json:"status" db:"status"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
}

// Product statuses.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)
