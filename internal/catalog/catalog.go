// Package catalog defines the remote product source the storefront reads
// from. The store never calls it; the service layer fetches products and
// hands them to the store.
package catalog

import (
	"context"

	"github.com/shopmate/storefront/internal/domain"
)

// Catalog fetches product records. Unknown ids return an error wrapping
// apperrors.ErrNotFound; transport failures wrap apperrors.ErrServiceUnavail.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error)
}
