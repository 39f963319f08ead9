package pos

import (
	"context"
	"strings"
	"time"

	"grocery-pos/internal/model"
)

// Catalog looks up sellable products.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	Search(ctx context.Context, term string) ([]model.Product, error)
}

// CustomerDirectory looks up registered customers.
type CustomerDirectory interface {
	GetByID(ctx context.Context, id string) (*model.Customer, error)
}

// CouponRegistry resolves coupon codes.
type CouponRegistry interface {
	Lookup(ctx context.Context, code string, at time.Time) (*model.Coupon, error)
}

// MatchProducts keeps the products whose name, SKU or barcode contains term,
// ignoring case. An empty term matches everything. Order is preserved.
func MatchProducts(products []model.Product, term string) []model.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}

	matches := make([]model.Product, 0, len(products))
	for _, p := range products {
		if containsFold(p.Name, term) || containsFold(p.SKU, term) ||
			(p.Barcode != nil && containsFold(*p.Barcode, term)) {
			matches = append(matches, p)
		}
	}
	return matches
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}
