package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestIPAllowlist(t *testing.T) {
	h := IPAllowlist([]string{"127.0.0.0/8", "not-a-cidr", "10.0.0.0/8"}, slog.Default())(okHandler())

	tests := []struct {
		name       string
		remoteAddr string
		want       int
	}{
		{name: "loopback", remoteAddr: "127.0.0.1:5555", want: http.StatusOK},
		{name: "private", remoteAddr: "10.1.2.3:80", want: http.StatusOK},
		{name: "public", remoteAddr: "203.0.113.7:443", want: http.StatusForbidden},
		{name: "garbage", remoteAddr: "nonsense", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
			req.RemoteAddr = tt.remoteAddr
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestRegisterPprof_EmptyAllowlistDeniesAll(t *testing.T) {
	r := chi.NewRouter()
	RegisterPprof(r, nil, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	req.RemoteAddr = "127.0.0.1:1234"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "FORBIDDEN")
}

func TestRegisterPprof_Allowed(t *testing.T) {
	r := chi.NewRouter()
	RegisterPprof(r, []string{"127.0.0.1/32"}, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	req.RemoteAddr = "127.0.0.1:1234"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
