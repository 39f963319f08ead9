package coupon

import (
	"strings"

	"grocery-pos/internal/model"
)

// mapCouponSet implements CouponSet on a map.
type mapCouponSet struct {
	coupons map[string]model.Coupon
}

// NewMapCouponSet creates a new map-based coupon set.
func NewMapCouponSet(capacity int) CouponSet {
	return newMapCouponSet(capacity)
}

func newMapCouponSet(capacity int) *mapCouponSet {
	return &mapCouponSet{
		coupons: make(map[string]model.Coupon, capacity),
	}
}

// Get returns the coupon for code.
func (s *mapCouponSet) Get(code string) (model.Coupon, bool) {
	c, ok := s.coupons[code]
	return c, ok
}

// All returns every coupon in the set, in no particular order.
func (s *mapCouponSet) All() []model.Coupon {
	out := make([]model.Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		out = append(out, c)
	}
	return out
}

// Size returns the number of coupons in the set.
func (s *mapCouponSet) Size() int {
	return len(s.coupons)
}

// Add stores c under its normalised code, replacing any previous entry.
func (s *mapCouponSet) Add(c model.Coupon) {
	c.Code = NormaliseCode(c.Code)
	s.coupons[c.Code] = c
}

// NormaliseCode trims and upper-cases a coupon code.
func NormaliseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
