// Package pricing derives sale totals from a cart snapshot.
//
// All arithmetic is exact decimal. Values are only rounded to two places
// when formatted for display.
package pricing

import (
	"grocery-pos/internal/cart"
	"grocery-pos/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineTotal is the priced view of a single cart line.
type LineTotal struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
	Tax       decimal.Decimal `json:"tax"`
}

// Totals is the full price breakdown of a cart.
//
// DiscountAmount is PercentDiscount + CouponDiscount and GrandTotal is always
// Subtotal + TaxAmount - DiscountAmount.
type Totals struct {
	Lines           []LineTotal     `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	PercentDiscount decimal.Decimal `json:"percentDiscount"`
	CouponDiscount  decimal.Decimal `json:"couponDiscount"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
}

// Calculate prices a cart snapshot. It is pure: the same snapshot always
// yields the same totals.
//
// Tax is charged on the pre-discount subtotal. The discount percent is
// clamped to [0, 100].
func Calculate(s cart.Snapshot) Totals {
	t := Totals{
		Lines:           make([]LineTotal, 0, len(s.Lines)),
		Subtotal:        decimal.Zero,
		TaxAmount:       decimal.Zero,
		DiscountPercent: ClampPercent(s.DiscountPercent),
	}

	for _, l := range s.Lines {
		total := l.Total()
		tax := LineTax(total, l.TaxRate)
		t.Lines = append(t.Lines, LineTotal{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     total,
			Tax:       tax,
		})
		t.Subtotal = t.Subtotal.Add(total)
		t.TaxAmount = t.TaxAmount.Add(tax)
	}

	t.PercentDiscount = t.Subtotal.Mul(t.DiscountPercent).Div(hundred)
	t.CouponDiscount = CouponDiscount(s.Coupon, t.Subtotal, t.Subtotal.Sub(t.PercentDiscount))
	t.DiscountAmount = t.PercentDiscount.Add(t.CouponDiscount)
	t.GrandTotal = t.Subtotal.Add(t.TaxAmount).Sub(t.DiscountAmount)

	return t
}

// LineTax returns lineTotal x rate / 100. A nil rate is zero tax.
func LineTax(lineTotal decimal.Decimal, rate *decimal.Decimal) decimal.Decimal {
	if rate == nil {
		return decimal.Zero
	}
	return lineTotal.Mul(*rate).Div(hundred)
}

// ClampPercent limits a discount percent to [0, 100].
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// CouponDiscount returns what the coupon takes off the subtotal.
//
// A coupon whose minimum amount is not met contributes nothing. The result
// is capped by the coupon's maximum discount and by remaining, the part of
// the subtotal not already discounted.
func CouponDiscount(c *model.Coupon, subtotal, remaining decimal.Decimal) decimal.Decimal {
	if c == nil || subtotal.IsZero() {
		return decimal.Zero
	}
	if c.MinimumAmount != nil && subtotal.LessThan(*c.MinimumAmount) {
		return decimal.Zero
	}

	var d decimal.Decimal
	switch c.DiscountType {
	case model.CouponPercentage:
		d = subtotal.Mul(ClampPercent(c.DiscountValue)).Div(hundred)
	case model.CouponFixedAmount:
		d = c.DiscountValue
	default:
		return decimal.Zero
	}

	if d.IsNegative() {
		return decimal.Zero
	}
	if c.MaximumDiscount != nil && d.GreaterThan(*c.MaximumDiscount) {
		d = *c.MaximumDiscount
	}
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	if d.GreaterThan(remaining) {
		d = remaining
	}
	return d
}

// Display formats a monetary amount with two decimal places.
func Display(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Summary is Totals rounded for display.
type Summary struct {
	Subtotal       string `json:"subtotal"`
	TaxAmount      string `json:"taxAmount"`
	DiscountAmount string `json:"discountAmount"`
	CouponDiscount string `json:"couponDiscount"`
	GrandTotal     string `json:"grandTotal"`
}

// Summary rounds the totals for display.
func (t Totals) Summary() Summary {
	return Summary{
		Subtotal:       Display(t.Subtotal),
		TaxAmount:      Display(t.TaxAmount),
		DiscountAmount: Display(t.DiscountAmount),
		CouponDiscount: Display(t.CouponDiscount),
		GrandTotal:     Display(t.GrandTotal),
	}
}
