package coupon

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"grocery-pos/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Columns of a coupon file, in order. The header row is optional.
var csvColumns = []string{
	"code",
	"name",
	"discount_type",
	"discount_value",
	"minimum_amount",
	"maximum_discount",
	"valid_from",
	"valid_until",
	"is_active",
}

const cancelCheckInterval = 10_000

// fileLoader implements Loader for reading gzipped coupon files from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based coupon loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-loader").Logger(),
	}
}

// Load reads a gzipped coupon file and returns a CouponSet.
func (l *fileLoader) Load(ctx context.Context, filePath string) (CouponSet, error) {
	l.logger.Info().Str("file", filePath).Msg("loading coupon file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open coupon file")
		return nil, fmt.Errorf("failed to open coupon file %s: %w", filePath, err)
	}
	defer file.Close()

	set, err := readCouponSet(ctx, file, filePath, l.logger)
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("coupons_loaded", set.Size()).
		Msg("coupon file loaded successfully")

	return set, nil
}

// readCouponSet decodes a gzipped CSV stream. Malformed rows are skipped and
// logged; a broken stream fails the whole file.
func readCouponSet(ctx context.Context, r io.Reader, source string, logger zerolog.Logger) (*mapCouponSet, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		logger.Error().Err(err).Str("source", source).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	reader := csv.NewReader(gzipReader)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	set := newMapCouponSet(1024)
	row, skipped := 0, 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				logger.Warn().Err(err).Str("source", source).Msg("skipping malformed coupon row")
				continue
			}
			return nil, fmt.Errorf("error reading coupon file %s: %w", source, err)
		}
		row++

		if row%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Str("source", source).Msg("coupon loading cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		if row == 1 && strings.EqualFold(strings.TrimSpace(record[0]), csvColumns[0]) {
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		c, err := parseCoupon(record)
		if err != nil {
			skipped++
			logger.Warn().Err(err).Str("source", source).Int("row", row).Msg("skipping invalid coupon row")
			continue
		}
		set.Add(c)
	}

	if skipped > 0 {
		logger.Warn().Str("source", source).Int("skipped", skipped).Msg("coupon file had invalid rows")
	}

	return set, nil
}

func parseCoupon(record []string) (model.Coupon, error) {
	if len(record) < 4 {
		return model.Coupon{}, fmt.Errorf("expected at least 4 columns, got %d", len(record))
	}

	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	c := model.Coupon{
		Code:         NormaliseCode(field(0)),
		Name:         field(1),
		DiscountType: strings.ToLower(field(2)),
		IsActive:     true,
	}
	if c.Code == "" {
		return model.Coupon{}, errors.New("empty coupon code")
	}

	switch c.DiscountType {
	case model.CouponPercentage, model.CouponFixedAmount:
	default:
		return model.Coupon{}, fmt.Errorf("unknown discount type %q", c.DiscountType)
	}

	value, err := decimal.NewFromString(field(3))
	if err != nil {
		return model.Coupon{}, fmt.Errorf("invalid discount_value: %w", err)
	}
	if value.IsNegative() {
		return model.Coupon{}, errors.New("discount_value must not be negative")
	}
	c.DiscountValue = value

	if c.MinimumAmount, err = optionalDecimal(field(4)); err != nil {
		return model.Coupon{}, fmt.Errorf("invalid minimum_amount: %w", err)
	}
	if c.MaximumDiscount, err = optionalDecimal(field(5)); err != nil {
		return model.Coupon{}, fmt.Errorf("invalid maximum_discount: %w", err)
	}

	if s := field(6); s != "" {
		if c.ValidFrom, err = parseTime(s); err != nil {
			return model.Coupon{}, fmt.Errorf("invalid valid_from: %w", err)
		}
	}
	if s := field(7); s != "" {
		until, err := parseTime(s)
		if err != nil {
			return model.Coupon{}, fmt.Errorf("invalid valid_until: %w", err)
		}
		if len(s) == len(time.DateOnly) {
			// a bare end date covers the whole day
			until = until.Add(24*time.Hour - time.Nanosecond)
		}
		c.ValidUntil = &until
	}

	if s := field(8); s != "" {
		if c.IsActive, err = strconv.ParseBool(s); err != nil {
			return model.Coupon{}, fmt.Errorf("invalid is_active: %w", err)
		}
	}

	return c, nil
}

func optionalDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseTime accepts RFC 3339 timestamps or bare dates (UTC midnight).
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
