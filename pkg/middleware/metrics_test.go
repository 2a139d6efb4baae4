package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics_UsesRoutePattern(t *testing.T) {
	const svc = "metrics-test-route"

	r := chi.NewRouter()
	r.Use(PrometheusMetrics(svc))
	r.Get("/api/v1/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id, nil))
	}

	counter := httpRequestsTotal.WithLabelValues(svc, http.MethodGet, "/api/v1/products/{id}", "200")
	assert.Equal(t, float64(3), testutil.ToFloat64(counter))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight.WithLabelValues(svc)))
}

func TestPrometheusMetrics_RecordsStatus(t *testing.T) {
	const svc = "metrics-test-status"

	r := chi.NewRouter()
	r.Use(PrometheusMetrics(svc))
	r.Delete("/api/v1/cart/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/9", nil))

	counter := httpRequestsTotal.WithLabelValues(svc, http.MethodDelete, "/api/v1/cart/items/{id}", "404")
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
}
