package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopmate/storefront/internal/service"
	"github.com/shopmate/storefront/pkg/health"
	"github.com/shopmate/storefront/pkg/middleware"
)

const serviceName = "storefront"

// RouterConfig carries the HTTP settings the router needs.
type RouterConfig struct {
	RequestTimeout  time.Duration
	CatalogCacheAge int // seconds; Cache-Control max-age on product reads
	CORS            middleware.CORSConfig
	PprofCIDRs      []string
	Heartbeat       time.Duration
	// StreamsDone, when closed, ends open event streams so the server can
	// drain.
	StreamsDone <-chan struct{}
	// Gatherer serves /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svc *service.StorefrontService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	h := NewStorefrontHandler(svc, logger)
	events := NewEventsHandler(svc, cfg.Heartbeat, logger)
	events.done = cfg.StreamsDone

	r.Route("/api/v1", func(r chi.Router) {
		// The event stream is long-lived and must not be compressed or timed out.
		r.Method(http.MethodGet, "/store/events", events)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Compress(5))
			r.Use(chimw.Timeout(cfg.RequestTimeout))
			r.Use(ContentTypeJSON)

			r.Route("/products", func(r chi.Router) {
				r.With(middleware.CacheControl(cfg.CatalogCacheAge)).Get("/", h.ListProducts)
				r.Get("/{id}", h.GetProduct)
				r.Post("/{id}/reviews", h.AddReview)
				r.Post("/{id}/buy-now", h.BuyNow)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Use(middleware.CacheControl(0))
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)

				r.Post("/items", h.AddItem)
				r.Put("/items/{id}", h.UpdateItemQuantity)
				r.Post("/items/{id}/increase", h.IncreaseItemQuantity)
				r.Post("/items/{id}/decrease", h.DecreaseItemQuantity)
				r.Delete("/items/{id}", h.RemoveItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Use(middleware.CacheControl(0))
				r.Get("/", h.GetWishlist)
				r.Post("/{id}/toggle", h.ToggleWishlist)
			})

			r.Post("/checkout", h.Checkout)
		})
	})

	return r
}
