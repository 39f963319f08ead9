package coupon

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"grocery-pos/internal/model"

	"github.com/shopspring/decimal"
)

// Header is the column row of a coupon file.
var Header = []string{
	"code", "name", "discount_type", "discount_value", "minimum_amount",
	"maximum_discount", "valid_from", "valid_until", "is_active",
}

// WriteFile writes coupons as a gzip-compressed CSV file with a header row,
// in the format the loaders read.
func WriteFile(w io.Writer, coupons []model.Coupon) error {
	gz := gzip.NewWriter(w)
	cw := csv.NewWriter(gz)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write coupon header: %w", err)
	}

	for _, c := range coupons {
		record := []string{
			NormaliseCode(c.Code),
			c.Name,
			c.DiscountType,
			c.DiscountValue.String(),
			optionalString(c.MinimumAmount),
			optionalString(c.MaximumDiscount),
			"",
			"",
			strconv.FormatBool(c.IsActive),
		}
		if !c.ValidFrom.IsZero() {
			record[6] = c.ValidFrom.UTC().Format(time.RFC3339)
		}
		if c.ValidUntil != nil {
			record[7] = c.ValidUntil.UTC().Format(time.RFC3339)
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write coupon %s: %w", c.Code, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush coupon file: %w", err)
	}

	return gz.Close()
}

func optionalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
