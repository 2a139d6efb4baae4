// Package memory keeps repository data in process memory. Nothing survives
// a restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/shopmate/storefront/internal/domain"
)

// ReviewRepository implements repository.ReviewRepository with a map guarded
// by a RWMutex.
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews map[domain.ProductID][]domain.Review
	// seed is listed ahead of posted reviews for every product.
	seed []domain.Review
}

// NewReviewRepository creates a review repository. Seed reviews appear on
// every product, before the ones added later.
func NewReviewRepository(seed ...domain.Review) *ReviewRepository {
	return &ReviewRepository{
		reviews: make(map[domain.ProductID][]domain.Review),
		seed:    slices.Clone(seed),
	}
}

// Add appends review to its product's list.
func (r *ReviewRepository) Add(_ context.Context, review domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews[review.ProductID] = append(r.reviews[review.ProductID], review)
	return nil
}

// ListByProduct returns a copy of the product's reviews, oldest first.
func (r *ReviewRepository) ListByProduct(_ context.Context, productID domain.ProductID) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	posted := r.reviews[productID]
	out := make([]domain.Review, 0, len(r.seed)+len(posted))
	for _, review := range r.seed {
		review.ProductID = productID
		out = append(out, review)
	}
	return append(out, posted...), nil
}
