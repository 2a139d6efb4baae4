package service

import (
	"context"
	"log/slog"

	"github.com/shopmate/storefront/internal/domain"
	"github.com/shopmate/storefront/internal/store"
)

// AddToCartInput is the body of an add-to-cart request. ProductID accepts
// JSON numbers and strings.
type AddToCartInput struct {
	ProductID domain.ProductID `json:"product_id" validate:"required"`
}

// UpdateQuantityInput sets an absolute quantity. Zero or less removes the
// line.
type UpdateQuantityInput struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// BuyNowResult points the client at checkout after the product was added.
type BuyNowResult struct {
	Cart domain.Snapshot `json:"cart"`
	Next string          `json:"next"`
}

// Cart returns the current cart and wishlist snapshot.
func (s *StorefrontService) Cart(_ context.Context) domain.Snapshot {
	return s.store.Snapshot()
}

// AddToCart fetches the product and adds one unit to the cart.
func (s *StorefrontService) AddToCart(ctx context.Context, rawID string) (domain.Snapshot, error) {
	p, err := s.fetchProduct(ctx, rawID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap, err := s.store.Apply(ctx, store.AddToCartOp(*p))
	if err != nil {
		return domain.Snapshot{}, err
	}

	s.logger.InfoContext(ctx, "product added to cart",
		slog.String("product_id", p.ID.String()),
	)
	return snap, nil
}

// BuyNow adds the product to the cart and returns the checkout route.
func (s *StorefrontService) BuyNow(ctx context.Context, rawID string) (*BuyNowResult, error) {
	snap, err := s.AddToCart(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return &BuyNowResult{Cart: snap, Next: CheckoutRoute}, nil
}

// UpdateQuantity sets the line quantity. Unknown products leave the cart
// unchanged.
func (s *StorefrontService) UpdateQuantity(ctx context.Context, rawID string, quantity int) (domain.Snapshot, error) {
	return s.cartOp(ctx, rawID, func(id domain.ProductID) store.Op {
		return store.UpdateQuantityOp(id, quantity)
	})
}

// IncreaseQuantity adds one unit.
func (s *StorefrontService) IncreaseQuantity(ctx context.Context, rawID string) (domain.Snapshot, error) {
	return s.cartOp(ctx, rawID, func(id domain.ProductID) store.Op {
		return store.IncreaseQuantityOp(id)
	})
}

// DecreaseQuantity removes one unit, dropping the line at zero.
func (s *StorefrontService) DecreaseQuantity(ctx context.Context, rawID string) (domain.Snapshot, error) {
	return s.cartOp(ctx, rawID, func(id domain.ProductID) store.Op {
		return store.DecreaseQuantityOp(id)
	})
}

// RemoveFromCart drops the line.
func (s *StorefrontService) RemoveFromCart(ctx context.Context, rawID string) (domain.Snapshot, error) {
	return s.cartOp(ctx, rawID, func(id domain.ProductID) store.Op {
		return store.RemoveFromCartOp(id)
	})
}

// ClearCart empties the cart.
func (s *StorefrontService) ClearCart(ctx context.Context) domain.Snapshot {
	snap, _ := s.store.Apply(ctx, store.ClearCartOp())
	s.logger.InfoContext(ctx, "cart cleared",
		slog.Uint64("version", snap.Version),
	)
	return snap
}

// cartOp applies the op built for rawID. A NotFound leaves the cart as is
// and answers with the unchanged snapshot.
func (s *StorefrontService) cartOp(ctx context.Context, rawID string, build func(domain.ProductID) store.Op) (domain.Snapshot, error) {
	id, err := domain.NewProductID(rawID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap, err := s.store.Apply(ctx, build(id))
	if err := absorbNotFound(err); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}
