package repository

import (
	"context"

	"github.com/shopmate/storefront/internal/domain"
)

// ReviewRepository defines storage for locally posted product reviews.
type ReviewRepository interface {
	// Add appends a review to its product's list.
	Add(ctx context.Context, review domain.Review) error

	// ListByProduct returns reviews for a product, oldest first. An unknown
	// product yields an empty slice.
	ListByProduct(ctx context.Context, productID domain.ProductID) ([]domain.Review, error)
}
