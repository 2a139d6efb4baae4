package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopmate/storefront/internal/domain"
	"github.com/shopmate/storefront/internal/store"
	apperrors "github.com/shopmate/storefront/pkg/errors"
)

// WishlistToggle reports the outcome of a wishlist toggle.
type WishlistToggle struct {
	ProductID  domain.ProductID `json:"product_id"`
	Wishlisted bool             `json:"wishlisted"`
	Wishlist   []domain.Product `json:"wishlist"`
}

// Wishlist returns the wishlisted products in insertion order.
func (s *StorefrontService) Wishlist(_ context.Context) []domain.Product {
	return s.store.Snapshot().WishlistItems
}

// ToggleWishlist flips wishlist membership for the product. Ids already held
// in the cart or wishlist are resolved locally; anything else is fetched from
// the catalog first.
func (s *StorefrontService) ToggleWishlist(ctx context.Context, rawID string) (*WishlistToggle, error) {
	id, err := domain.NewProductID(rawID)
	if err != nil {
		return nil, err
	}

	snap, err := s.store.Apply(ctx, store.ToggleWishlistByIDOp(id))
	if errors.Is(err, apperrors.ErrNotFound) {
		p, fetchErr := s.catalog.GetProduct(ctx, id)
		if fetchErr != nil {
			return nil, fetchErr
		}
		snap, err = s.store.Apply(ctx, store.ToggleWishlistOp(*p))
	}
	if err != nil {
		return nil, err
	}
	wishlisted := snap.Wishlisted(id)

	s.logger.InfoContext(ctx, "wishlist toggled",
		slog.String("product_id", id.String()),
		slog.Bool("wishlisted", wishlisted),
	)

	return &WishlistToggle{
		ProductID:  id,
		Wishlisted: wishlisted,
		Wishlist:   snap.WishlistItems,
	}, nil
}
