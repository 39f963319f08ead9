package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grocery-pos/internal/cache"
	"grocery-pos/internal/checkout"
	"grocery-pos/internal/config"
	"grocery-pos/internal/coupon"
	"grocery-pos/internal/database"
	"grocery-pos/internal/events"
	"grocery-pos/internal/handler"
	"grocery-pos/internal/middleware"
	"grocery-pos/internal/pos"
	"grocery-pos/internal/repository"
	"grocery-pos/internal/router"
	"grocery-pos/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting grocery-pos API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info().Msg("database schema applied")
	}

	store, closeCache, err := newCacheStore(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer closeCache()

	productRepo := repository.NewProductRepository(pool, logger)
	customerRepo := repository.NewCustomerRepository(pool, logger)
	warehouseRepo := repository.NewWarehouseRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	productService := service.NewProductService(productRepo, store, logger)
	customerService := service.NewCustomerService(customerRepo, store, logger)
	warehouseService := service.NewWarehouseService(warehouseRepo, store, logger)
	orderService := service.NewOrderService(orderRepo, logger)

	registry, err := newCouponRegistry(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize coupon registry: %w", err)
	}
	defer registry.Close()

	publisher := events.NewNopPublisher()
	if cfg.Kafka.Enabled {
		writer := events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		publisher = events.NewKafkaPublisher(writer, logger)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("publishing sale events to kafka")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	manager := pos.NewManager(pos.Dependencies{
		Catalog:   productService,
		Customers: customerService,
		Coupons:   registry,
		Checkout: checkout.Config{
			Locations:     warehouseService,
			Store:         orderService,
			Coupons:       registry,
			Publisher:     publisher,
			Selector:      checkout.NewLocationSelector(cfg.Checkout.WarehouseID),
			SubmitTimeout: cfg.Checkout.SubmitTimeout,
		},
	}, logger)

	go manager.RunReaper(ctx, cfg.Checkout.ReaperInterval, cfg.Checkout.SessionIdle)

	var rateLimit *middleware.RateLimitConfig
	if cfg.RateLimit.Enabled {
		rateLimit = &middleware.RateLimitConfig{
			Rate:      cfg.RateLimit.Rate,
			Burst:     cfg.RateLimit.Burst,
			ExpiresIn: cfg.RateLimit.ExpiresIn,
		}
	}

	mux := router.New(router.Handlers{
		Products:   handler.NewProductHandler(productService, logger),
		Customers:  handler.NewCustomerHandler(customerService, logger),
		Warehouses: handler.NewWarehouseHandler(warehouseService, logger),
		Orders:     handler.NewOrderHandler(orderService, logger),
		Sessions:   handler.NewSessionHandler(manager, logger),
	}, router.Options{
		APIKey:    cfg.Auth.APIKey,
		RateLimit: rateLimit,
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Checkout.SubmitTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Int("open_sessions", manager.Len()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newCacheStore returns the redis-backed cache when enabled and an
// in-process one otherwise.
func newCacheStore(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (cache.Store, func(), error) {
	if !cfg.Enabled {
		logger.Info().Dur("ttl", cfg.TTL).Msg("using in-memory lookup cache")
		return cache.NewMemoryStore(cfg.TTL), func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, nil, err
	}

	logger.Info().Str("addr", cfg.Addr).Dur("ttl", cfg.TTL).Msg("using redis lookup cache")
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close redis client")
		}
	}
	return cache.NewRedisStore(client, cfg.TTL, logger), closeFn, nil
}

// newCouponRegistry loads the configured coupon files, from S3 first when
// enabled and the local file system otherwise.
func newCouponRegistry(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (coupon.Registry, error) {
	fileLoader := coupon.NewFileLoader(logger)

	var s3Loader coupon.Loader
	if cfg.S3.Enabled {
		var err error
		s3Loader, err = coupon.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			s3Loader = nil
		}
	} else {
		logger.Info().Msg("using local file system for coupon files (S3 disabled)")
	}

	loader := coupon.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)

	return coupon.NewRegistry(ctx, &coupon.RegistryConfig{FilePaths: cfg.Checkout.CouponFiles}, loader, logger)
}
