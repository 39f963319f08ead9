package coupon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"grocery-pos/internal/model"

	"github.com/rs/zerolog"
)

// registry implements Registry over coupon files merged at start-up.
type registry struct {
	mu     sync.RWMutex
	set    *mapCouponSet
	logger zerolog.Logger
}

// RegistryConfig holds configuration for the coupon registry.
type RegistryConfig struct {
	// FilePaths is the list of coupon files to load. When a code appears in
	// more than one file the later file wins.
	FilePaths []string
}

// NewRegistry loads every coupon file concurrently and merges them.
func NewRegistry(ctx context.Context, cfg *RegistryConfig, loader Loader, logger zerolog.Logger) (Registry, error) {
	if cfg == nil {
		cfg = &RegistryConfig{}
	}

	logger = logger.With().Str("component", "coupon-registry").Logger()
	logger.Info().Int("file_count", len(cfg.FilePaths)).Msg("initialising coupon registry")

	type loadResult struct {
		index int
		set   CouponSet
		err   error
	}

	resultChan := make(chan loadResult, len(cfg.FilePaths))
	var wg sync.WaitGroup

	for i, filePath := range cfg.FilePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			set, err := loader.Load(ctx, path)
			resultChan <- loadResult{index: index, set: set, err: err}
		}(i, filePath)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(cfg.FilePaths))
	for result := range resultChan {
		results[result.index] = result
	}

	merged := newMapCouponSet(0)
	for i, result := range results {
		if result.err != nil {
			logger.Error().Err(result.err).Str("file", cfg.FilePaths[i]).Msg("failed to load coupon file")
			return nil, fmt.Errorf("failed to load coupon file %s: %w", cfg.FilePaths[i], result.err)
		}
		mergeInto(merged, result.set)
	}

	logger.Info().Int("total_coupons", merged.Size()).Msg("coupon registry initialised")

	return &registry{set: merged, logger: logger}, nil
}

func mergeInto(dst *mapCouponSet, src CouponSet) {
	for _, c := range src.All() {
		dst.Add(c)
	}
}

// Lookup returns a copy of the coupon for code if it is usable at time at.
func (r *registry) Lookup(ctx context.Context, code string, at time.Time) (*model.Coupon, error) {
	code = NormaliseCode(code)
	if code == "" {
		return nil, model.ErrInvalidCoupon
	}

	r.mu.RLock()
	var (
		c  model.Coupon
		ok bool
	)
	if r.set != nil {
		c, ok = r.set.Get(code)
	}
	r.mu.RUnlock()

	if !ok {
		r.logger.Debug().Str("coupon_code", code).Msg("coupon not found")
		return nil, model.ErrInvalidCoupon
	}
	if !c.ValidAt(at) {
		r.logger.Debug().Str("coupon_code", code).Time("at", at).Msg("coupon not valid")
		return nil, model.ErrCouponExpired
	}

	return &c, nil
}

// Size returns the number of coupons loaded.
func (r *registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.set == nil {
		return 0
	}
	return r.set.Size()
}

// Close releases resources held by the registry.
func (r *registry) Close() error {
	r.mu.Lock()
	r.set = nil
	r.mu.Unlock()

	r.logger.Info().Msg("coupon registry closed")
	return nil
}
