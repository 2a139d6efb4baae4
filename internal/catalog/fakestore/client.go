// Package fakestore implements catalog.Catalog against the fakestoreapi.com
// REST API.
package fakestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/shopmate/storefront/internal/domain"
	apperrors "github.com/shopmate/storefront/pkg/errors"
	"github.com/shopmate/storefront/pkg/httpclient"
	"github.com/shopmate/storefront/pkg/tracing"
)

// DefaultBaseURL is the public catalog endpoint.
const DefaultBaseURL = "https://fakestoreapi.com"

const (
	upstreamName = "catalog"
	maxBodyBytes = 4 << 20
)

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client reads products from the fakestore API.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(doer HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		tracer:  tracing.Tracer("catalog"),
	}
}

// ListProducts returns every product in catalog order.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	found, err := c.get(ctx, "catalog.ListProducts", "/products", &products)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if !found || products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// GetProduct returns a single product. The API answers unknown ids with 200
// and an empty body, which is reported as NotFound.
func (c *Client) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	var product domain.Product
	found, err := c.get(ctx, "catalog.GetProduct", "/products/"+url.PathEscape(id.String()), &product)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	if !found || product.ID == "" {
		return nil, apperrors.NotFound("product", id.String())
	}
	return &product, nil
}

// get fetches path and decodes the body into dst. found is false when the
// body is empty or JSON null.
func (c *Client) get(ctx context.Context, spanName, path string, dst any) (found bool, err error) {
	target := c.baseURL + path

	ctx, span := c.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPMethod(http.MethodGet),
			attribute.String("http.url", target),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return false, c.unavailable(ctx, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(semconv.HTTPStatusCode(resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, httpclient.ParseResponseError(resp, upstreamName)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return false, c.unavailable(ctx, path, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return false, nil
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return false, fmt.Errorf("decode %s response: %w", upstreamName, err)
	}
	return true, nil
}

func (c *Client) unavailable(ctx context.Context, path string, err error) error {
	msg := "catalog is unreachable"
	var statusErr *httpclient.StatusError
	switch {
	case errors.Is(err, httpclient.ErrCircuitOpen):
		msg = "catalog is temporarily unavailable, please retry later"
	case errors.As(err, &statusErr):
		msg = fmt.Sprintf("catalog returned status %d", statusErr.StatusCode)
	case ctx.Err() != nil:
		return fmt.Errorf("catalog request canceled: %w", ctx.Err())
	}

	c.logger.WarnContext(ctx, "catalog request failed",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
	return apperrors.ServiceUnavailable(msg, err)
}
