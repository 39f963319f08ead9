// Package cart holds the in-progress sale of a single till: ordered lines,
// the selected customer, the discount percent and an optional coupon.
//
// A Cart makes no external calls and never fails. It is not safe for
// concurrent use; callers serialise access.
package cart

import (
	"grocery-pos/internal/model"

	"github.com/shopspring/decimal"
)

// Line is one product in the cart. UnitPrice is the selling price captured
// when the product was first added and is not refreshed afterwards.
type Line struct {
	ProductID string           `json:"productId"`
	Name      string           `json:"name"`
	SKU       string           `json:"sku"`
	Barcode   *string          `json:"barcode,omitempty"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
	TaxRate   *decimal.Decimal `json:"taxRate,omitempty"`
	Quantity  int              `json:"quantity"`
}

// Total returns UnitPrice x Quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is an immutable copy of the cart contents.
type Snapshot struct {
	Lines           []Line          `json:"lines"`
	Customer        *model.Customer `json:"customer,omitempty"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Coupon          *model.Coupon   `json:"coupon,omitempty"`
}

// IsEmpty reports whether the snapshot has no lines.
func (s Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// ItemCount returns the sum of all line quantities.
func (s Snapshot) ItemCount() int {
	n := 0
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}

// Cart is the mutable sale being built at the till.
type Cart struct {
	lines           []Line
	index           map[string]int
	customer        *model.Customer
	discountPercent decimal.Decimal
	coupon          *model.Coupon
}

// New returns an empty cart for a walk-in customer with no discount.
func New() *Cart {
	return &Cart{
		index:           make(map[string]int),
		discountPercent: decimal.Zero,
	}
}

// AddLine adds one unit of the product. A product already in the cart has
// its quantity incremented and keeps its original unit price.
func (c *Cart) AddLine(p model.Product) {
	if i, ok := c.index[p.ID]; ok {
		c.lines[i].Quantity++
		return
	}

	line := Line{
		ProductID: p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		UnitPrice: p.SellingPrice,
		Quantity:  1,
	}
	if p.Barcode != nil {
		b := *p.Barcode
		line.Barcode = &b
	}
	if p.TaxRate != nil {
		r := *p.TaxRate
		line.TaxRate = &r
	}

	c.index[p.ID] = len(c.lines)
	c.lines = append(c.lines, line)
}

// SetQuantity replaces the quantity of a line. A quantity of zero or less
// removes the line. Unknown products are ignored.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveLine(productID)
		return
	}
	if i, ok := c.index[productID]; ok {
		c.lines[i].Quantity = quantity
	}
}

// RemoveLine deletes the line for the product, if present.
func (c *Cart) RemoveLine(productID string) {
	i, ok := c.index[productID]
	if !ok {
		return
	}

	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ProductID] = j
	}
}

// SelectCustomer sets the customer for the sale. nil means walk-in.
func (c *Cart) SelectCustomer(customer *model.Customer) {
	if customer == nil {
		c.customer = nil
		return
	}
	cp := *customer
	c.customer = &cp
}

// SetDiscountPercent stores the raw percent as given. Clamping is left to pricing.
func (c *Cart) SetDiscountPercent(percent decimal.Decimal) {
	c.discountPercent = percent
}

// ApplyCoupon attaches a coupon, replacing any previous one.
func (c *Cart) ApplyCoupon(coupon *model.Coupon) {
	if coupon == nil {
		c.coupon = nil
		return
	}
	cp := *coupon
	c.coupon = &cp
}

// RemoveCoupon detaches the coupon.
func (c *Cart) RemoveCoupon() {
	c.coupon = nil
}

// Clear resets the cart to empty, walk-in, zero discount and no coupon.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
	c.customer = nil
	c.discountPercent = decimal.Zero
	c.coupon = nil
}

// Line returns the line for a product.
func (c *Cart) Line(productID string) (Line, bool) {
	i, ok := c.index[productID]
	if !ok {
		return Line{}, false
	}
	return c.lines[i], true
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Customer returns the selected customer or nil for walk-in.
func (c *Cart) Customer() *model.Customer {
	return c.customer
}

// DiscountPercent returns the raw discount percent.
func (c *Cart) DiscountPercent() decimal.Decimal {
	return c.discountPercent
}

// Coupon returns the attached coupon or nil.
func (c *Cart) Coupon() *model.Coupon {
	return c.coupon
}

// Snapshot returns a deep copy of the cart that later mutations do not affect.
func (c *Cart) Snapshot() Snapshot {
	s := Snapshot{
		Lines:           c.Lines(),
		DiscountPercent: c.discountPercent,
	}
	if c.customer != nil {
		cp := *c.customer
		s.Customer = &cp
	}
	if c.coupon != nil {
		cp := *c.coupon
		s.Coupon = &cp
	}
	return s
}
