package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/shopmate/storefront/internal/catalog"
	"github.com/shopmate/storefront/internal/catalog/fakestore"
	catalogcache "github.com/shopmate/storefront/internal/catalog/redis"
	"github.com/shopmate/storefront/internal/config"
	"github.com/shopmate/storefront/internal/domain"
	handler "github.com/shopmate/storefront/internal/handler/http"
	"github.com/shopmate/storefront/internal/repository/memory"
	"github.com/shopmate/storefront/internal/service"
	"github.com/shopmate/storefront/internal/store"
	"github.com/shopmate/storefront/pkg/health"
	"github.com/shopmate/storefront/pkg/httpclient"
	"github.com/shopmate/storefront/pkg/middleware"
	"github.com/shopmate/storefront/pkg/tracing"
)

const serviceName = "storefront"

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	store          *store.Store
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
// The cart/wishlist store is created here exactly once and injected.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Catalog client behind a circuit breaker.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.CatalogTimeout
	cbCfg := httpclient.DefaultCircuitBreakerConfig("catalog")
	cbCfg.Timeout = cfg.CBTimeout
	cbCfg.FailureRatio = cfg.CBFailureRatio
	cbCfg.MinRequests = cfg.CBMinRequests
	breaker := httpclient.NewCircuitBreakerClient(httpclient.New(httpCfg), cbCfg, logger)

	var cat catalog.Catalog = fakestore.NewClient(breaker, cfg.CatalogBaseURL, logger)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("catalog", func(context.Context) error {
		if breaker.State() == gobreaker.StateOpen {
			return fmt.Errorf("circuit breaker %q is open", breaker.Name())
		}
		return nil
	})

	// Optional Redis cache in front of the catalog.
	var rdb *redis.Client
	if cfg.CacheEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable at startup, catalog cache will retry per request",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("connected to Redis",
				slog.String("addr", cfg.RedisAddr),
				slog.Int("db", cfg.RedisDB),
			)
		}
		cached := catalogcache.NewCachedCatalog(cat, rdb, cfg.CatalogCacheTTL, logger)
		healthHandler.RegisterNonCritical("redis", cached.Ping)
		cat = cached
	}

	// Build the dependency graph.
	st := store.New(logger)
	registry := prometheus.NewRegistry()
	st.Subscribe(store.NewMetrics(registry).Observe)

	svc := service.NewStorefrontService(cat, st, memory.NewReviewRepository(domain.StarterReviews(time.Now().UTC())...), logger)

	streamsDone := make(chan struct{})
	router := handler.NewRouter(svc, healthHandler, logger, handler.RouterConfig{
		RequestTimeout:  cfg.RequestTimeout,
		CatalogCacheAge: cfg.CatalogCacheAge,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			ExposedHeaders: []string{middleware.CorrelationIDHeader},
		},
		PprofCIDRs:  cfg.PprofAllowedCIDRs,
		Heartbeat:   cfg.SSEHeartbeat,
		StreamsDone: streamsDone,
		Gatherer:    prometheus.Gatherers{prometheus.DefaultGatherer, registry},
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer.RegisterOnShutdown(func() { close(streamsDone) })

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		store:          st,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Handler returns the fully wired HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// Graceful HTTP server shutdown with a 10-second deadline. Open event
	// streams are told to finish when shutdown starts.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
