package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon discount types.
const (
	CouponPercentage  = "percentage"
	CouponFixedAmount = "fixed_amount"
)

// Coupon is a promotional discount that can be attached to a cart.
type Coupon struct {
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	DiscountType    string           `json:"discountType"`
	DiscountValue   decimal.Decimal  `json:"discountValue"`
	MinimumAmount   *decimal.Decimal `json:"minimumAmount,omitempty"`
	MaximumDiscount *decimal.Decimal `json:"maximumDiscount,omitempty"`
	ValidFrom       time.Time        `json:"validFrom"`
	ValidUntil      *time.Time       `json:"validUntil,omitempty"`
	IsActive        bool             `json:"isActive"`
}

// ValidAt reports whether the coupon is active and inside its validity window at t.
func (c *Coupon) ValidAt(t time.Time) bool {
	if !c.IsActive {
		return false
	}
	if t.Before(c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && t.After(*c.ValidUntil) {
		return false
	}
	return true
}
