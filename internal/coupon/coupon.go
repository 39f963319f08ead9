// Package coupon loads promotional coupons from gzipped CSV files, locally
// or from S3, and answers lookups for the till.
package coupon

import (
	"context"
	"time"

	"grocery-pos/internal/model"
)

// Registry resolves coupon codes entered at the till.
type Registry interface {
	// Lookup returns the coupon for code if it is usable at the given time.
	// Unknown codes return model.ErrInvalidCoupon; inactive or out-of-window
	// coupons return model.ErrCouponExpired.
	Lookup(ctx context.Context, code string, at time.Time) (*model.Coupon, error)

	// Size returns the number of coupons loaded.
	Size() int

	// Close releases resources held by the registry.
	Close() error
}

// CouponSet is a read-only set of coupons keyed by normalised code.
type CouponSet interface {
	// Get returns the coupon for a normalised code.
	Get(code string) (model.Coupon, bool)

	// All returns every coupon in the set.
	All() []model.Coupon

	// Size returns the number of coupons in the set.
	Size() int
}

// Loader defines the interface for loading coupon files.
type Loader interface {
	// Load reads a gzipped CSV coupon file and returns a CouponSet.
	Load(ctx context.Context, filePath string) (CouponSet, error)
}
