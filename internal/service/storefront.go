package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopmate/storefront/internal/catalog"
	"github.com/shopmate/storefront/internal/domain"
	"github.com/shopmate/storefront/internal/repository"
	"github.com/shopmate/storefront/internal/store"
	apperrors "github.com/shopmate/storefront/pkg/errors"
	"github.com/shopmate/storefront/pkg/pagination"
)

// CheckoutRoute is where the client navigates after buy-now.
const CheckoutRoute = "/checkout"

// StorefrontService backs every storefront screen. The store is injected so
// all screens share one cart and wishlist.
type StorefrontService struct {
	catalog catalog.Catalog
	store   *store.Store
	reviews repository.ReviewRepository
	logger  *slog.Logger
	now     func() time.Time
}

// NewStorefrontService creates a new storefront service.
func NewStorefrontService(cat catalog.Catalog, st *store.Store, reviews repository.ReviewRepository, logger *slog.Logger) *StorefrontService {
	return &StorefrontService{
		catalog: cat,
		store:   st,
		reviews: reviews,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ListQuery filters the home listing.
type ListQuery struct {
	// Search matches product titles case-insensitively.
	Search   string
	Category string
	Page     pagination.Params
}

// ProductDetail is the product screen view model.
type ProductDetail struct {
	Product      domain.Product  `json:"product"`
	CartQuantity int             `json:"cart_quantity"`
	Wishlisted   bool            `json:"wishlisted"`
	Reviews      []domain.Review `json:"reviews"`
	CartBadge    int             `json:"cart_badge"`
}

// ListProducts returns one page of catalog products matching q.
func (s *StorefrontService) ListProducts(ctx context.Context, q ListQuery) (pagination.Result[domain.Product], error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return pagination.Result[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}
	return pagination.Paginate(filterProducts(products, q.Search, q.Category), q.Page), nil
}

func filterProducts(products []domain.Product, search, category string) []domain.Product {
	search = strings.ToLower(strings.TrimSpace(search))
	category = strings.TrimSpace(category)
	if search == "" && category == "" {
		return products
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// GetProductDetail returns a product with its cart, wishlist and review
// state.
func (s *StorefrontService) GetProductDetail(ctx context.Context, rawID string) (*ProductDetail, error) {
	p, err := s.fetchProduct(ctx, rawID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	snap := s.store.Snapshot()
	return &ProductDetail{
		Product:      *p,
		CartQuantity: snap.Quantity(p.ID),
		Wishlisted:   snap.Wishlisted(p.ID),
		Reviews:      reviews,
		CartBadge:    snap.ItemCount,
	}, nil
}

// fetchProduct normalises rawID and loads the product from the catalog.
func (s *StorefrontService) fetchProduct(ctx context.Context, rawID string) (*domain.Product, error) {
	id, err := domain.NewProductID(rawID)
	if err != nil {
		return nil, err
	}
	p, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch product: %w", err)
	}
	return p, nil
}

// absorbNotFound maps a store NotFound to a no-op. Any other error is
// returned unchanged.
func absorbNotFound(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

// Subscribe registers fn for store snapshots. See store.Store.Subscribe.
func (s *StorefrontService) Subscribe(fn store.Observer) (unsubscribe func()) {
	return s.store.Subscribe(fn)
}
