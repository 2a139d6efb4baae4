package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/shopmate/storefront/internal/domain"
	apperrors "github.com/shopmate/storefront/pkg/errors"
)

// MaxReviewLength bounds review text in characters.
const MaxReviewLength = 1000

// AddReviewInput is the body of a review submission.
type AddReviewInput struct {
	Author string `json:"author" validate:"max=100"`
	Text   string `json:"text" validate:"required,max=1000"`
}

// AddReview stores a review for an existing product. A blank author is
// recorded as "You".
func (s *StorefrontService) AddReview(ctx context.Context, rawID string, input AddReviewInput) (*domain.Review, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, apperrors.InvalidInput("review text is required")
	}
	if len([]rune(text)) > MaxReviewLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("review text must not exceed %d characters", MaxReviewLength))
	}
	author := strings.TrimSpace(input.Author)
	if author == "" {
		author = domain.DefaultReviewAuthor
	}

	p, err := s.fetchProduct(ctx, rawID)
	if err != nil {
		return nil, err
	}

	review := domain.Review{
		ID:        uuid.New().String(),
		ProductID: p.ID,
		Author:    author,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.reviews.Add(ctx, review); err != nil {
		return nil, fmt.Errorf("add review: %w", err)
	}

	s.logger.InfoContext(ctx, "review added",
		slog.String("product_id", p.ID.String()),
		slog.String("review_id", review.ID),
	)
	return &review, nil
}
