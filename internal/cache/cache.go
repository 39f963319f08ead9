// Package cache keeps read-mostly lookups (catalogue, customers, warehouses)
// keyed by entity type and filter parameters. Invalidating an entity bumps
// its version, which orphans every key cached under the previous version.
package cache

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
)

// Cached entity types.
const (
	EntityProducts   = "products"
	EntityCustomers  = "customers"
	EntityWarehouses = "warehouses"
)

// Store is a versioned key/value cache.
type Store interface {
	// Version returns the current version of an entity type.
	Version(ctx context.Context, entity string) (int64, error)

	// Get decodes the value under key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value under key.
	Set(ctx context.Context, key string, value any) error

	// Invalidate drops every cached value of an entity type.
	Invalidate(ctx context.Context, entity string) error
}

// Key builds the cache key for an entity, its version and the filter parameters.
func Key(entity string, version int64, params ...string) string {
	return fmt.Sprintf("cache:%s:v%d:%s", entity, version, strings.Join(params, ":"))
}

func versionKey(entity string) string {
	return "cache:" + entity + ":version"
}

// Fetch returns the cached value for entity+params or calls load and caches
// the result. Cache failures are logged and fall through to load. Load
// errors and nil pointer results (not found) are never cached.
func Fetch[T any](
	ctx context.Context,
	store Store,
	logger zerolog.Logger,
	entity string,
	params []string,
	load func(ctx context.Context) (T, error),
) (T, error) {
	version, err := store.Version(ctx, entity)
	if err != nil {
		logger.Warn().Err(err).Str("entity", entity).Msg("cache version lookup failed")
		return load(ctx)
	}

	key := Key(entity, version, params...)

	var cached T
	hit, err := store.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if hit {
		logger.Debug().Str("key", key).Msg("cache hit")
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if isNilPointer(value) {
		return value, nil
	}

	if err := store.Set(ctx, key, value); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}

	return value, nil
}

func isNilPointer(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
