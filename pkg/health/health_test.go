package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveReady(t *testing.T, h *Handler) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)

	h.ReadinessHandler().ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestLivenessHandler_AlwaysReturns200(t *testing.T) {
	h := NewHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)

	h.LivenessHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, StatusUp, resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestReadinessHandler_AllHealthy(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("catalog", func(ctx context.Context) error { return nil })
	h.RegisterNonCritical("catalog_cache", func(ctx context.Context) error { return nil })

	code, resp := serveReady(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Equal(t, StatusUp, resp.Checks["catalog"].Status)
	assert.True(t, resp.Checks["catalog"].Critical)
	assert.False(t, resp.Checks["catalog_cache"].Critical)
}

func TestReadinessHandler_NoCheckers(t *testing.T) {
	code, resp := serveReady(t, NewHandler())

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
}

func TestReadinessHandler_CriticalDown_Returns503(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("catalog", func(ctx context.Context) error { return fmt.Errorf("circuit breaker is open") })
	h.RegisterNonCritical("catalog_cache", func(ctx context.Context) error { return nil })

	code, resp := serveReady(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusDown, resp.Status)
	assert.Equal(t, "circuit breaker is open", resp.Checks["catalog"].Error)
}

func TestReadinessHandler_NonCriticalDown_ReturnsDegraded200(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("catalog", func(ctx context.Context) error { return nil })
	h.RegisterNonCritical("catalog_cache", func(ctx context.Context) error { return fmt.Errorf("connection refused") })

	code, resp := serveReady(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Equal(t, StatusDown, resp.Checks["catalog_cache"].Status)
	assert.Equal(t, "connection refused", resp.Checks["catalog_cache"].Error)
}

func TestReadinessHandler_CriticalWinsOverDegraded(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("catalog", func(ctx context.Context) error { return fmt.Errorf("down") })
	h.RegisterNonCritical("catalog_cache", func(ctx context.Context) error { return fmt.Errorf("down") })

	code, resp := serveReady(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusDown, resp.Status)
}

func TestRegister_IsCriticalAndOverwrites(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", func(ctx context.Context) error { return fmt.Errorf("fail") })

	code, resp := serveReady(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.True(t, resp.Checks["catalog"].Critical)

	h.Register("catalog", func(ctx context.Context) error { return nil })

	code, _ = serveReady(t, h)
	assert.Equal(t, http.StatusOK, code)
}
