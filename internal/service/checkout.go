package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/shopmate/storefront/internal/domain"
	apperrors "github.com/shopmate/storefront/pkg/errors"
	"github.com/shopmate/storefront/pkg/validator"
)

// Checkout validates the delivery form, empties the cart and returns an
// order confirmation. No order is sent anywhere.
func (s *StorefrontService) Checkout(ctx context.Context, details domain.DeliveryDetails) (*domain.OrderConfirmation, error) {
	details.Name = strings.TrimSpace(details.Name)
	details.Address = strings.TrimSpace(details.Address)
	details.Phone = strings.TrimSpace(details.Phone)
	if err := validator.Validate(details); err != nil {
		return nil, err
	}

	lines := s.store.ClearCart(ctx)
	if len(lines) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	confirmation := &domain.OrderConfirmation{
		OrderRef:   uuid.New().String(),
		Title:      domain.OrderPlacedTitle,
		Message:    domain.OrderPlacedMessage,
		TotalPrice: domain.FormatPrice(domain.TotalPrice(lines)),
		ItemCount:  len(lines),
		UnitCount:  domain.UnitCount(lines),
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_ref", confirmation.OrderRef),
		slog.Int("item_count", confirmation.ItemCount),
		slog.String("total_price", confirmation.TotalPrice),
	)
	return confirmation, nil
}
