package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeJSON(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := ContentTypeJSON(next)

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{name: "json post", method: http.MethodPost, contentType: "application/json", wantStatus: http.StatusNoContent},
		{name: "json with charset", method: http.MethodPut, contentType: "application/json; charset=utf-8", wantStatus: http.StatusNoContent},
		{name: "no content type", method: http.MethodPost, wantStatus: http.StatusNoContent},
		{name: "form post", method: http.MethodPost, contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusUnsupportedMediaType},
		{name: "malformed", method: http.MethodPut, contentType: "application/json; =", wantStatus: http.StatusUnsupportedMediaType},
		{name: "get ignores header", method: http.MethodGet, contentType: "text/plain", wantStatus: http.StatusNoContent},
		{name: "delete ignores header", method: http.MethodDelete, contentType: "text/plain", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/cart/items", strings.NewReader(`{}`))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnsupportedMediaType {
				assert.Contains(t, rec.Body.String(), "UNSUPPORTED_MEDIA_TYPE")
			}
		})
	}
}
