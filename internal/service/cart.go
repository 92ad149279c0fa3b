package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bally3399/chord001-monograms/internal/checkout"
	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/internal/event"
	"github.com/bally3399/chord001-monograms/internal/repository"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
)

// MaxQuantityPerItem is the maximum quantity allowed for a single cart item.
const MaxQuantityPerItem = 100

// CartView is the viewer's cart with its aggregates.
type CartView struct {
	Items      []domain.CartItem `json:"items"`
	ItemCount  int               `json:"item_count"`
	TotalCents int64             `json:"total_cents"`
}

// NewCartView computes aggregates for items.
func NewCartView(items []domain.CartItem) *CartView {
	if items == nil {
		items = []domain.CartItem{}
	}
	return &CartView{
		Items:      items,
		ItemCount:  domain.ItemCount(items),
		TotalCents: domain.TotalCents(items),
	}
}

// CartService implements the viewer's cart. Every call is scoped to the
// authenticated viewer.
type CartService struct {
	repo     repository.CartRepository
	handoff  *checkout.Handoff
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, handoff *checkout.Handoff, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		handoff:  handoff,
		producer: producer,
		logger:   logger,
	}
}

// GetCart returns the viewer's cart, newest first, with item count and total.
func (s *CartService) GetCart(ctx context.Context, viewerID string) (*CartView, error) {
	if viewerID == "" {
		return nil, apperrors.NotAuthenticated()
	}
	items, err := s.repo.List(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return NewCartView(items), nil
}

// AddToCart inserts a design into the cart. quantity 0 means 1. A design
// that is already in the cart yields ErrAlreadyExists.
func (s *CartService) AddToCart(ctx context.Context, viewerID, designID string, quantity int) (*domain.CartItem, error) {
	if viewerID == "" {
		return nil, apperrors.NotAuthenticated()
	}
	if quantity == 0 {
		quantity = 1
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &domain.CartItem{
		ID:        uuid.NewString(),
		UserID:    viewerID,
		DesignID:  designID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			relationConflicts.WithLabelValues("cart").Inc()
		}
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	relationMutations.WithLabelValues("cart", "add").Inc()
	s.publish(ctx, event.CartUpdatedData{ViewerID: viewerID, DesignID: designID, ItemID: item.ID, Action: "added", Quantity: quantity})
	s.logger.InfoContext(ctx, "design added to cart",
		slog.String("design_id", designID),
		slog.Int("quantity", quantity),
	)
	return item, nil
}

// GetCartItemByDesign returns the viewer's cart row for a design, or ErrNotFound.
func (s *CartService) GetCartItemByDesign(ctx context.Context, viewerID, designID string) (*domain.CartItem, error) {
	if viewerID == "" {
		return nil, apperrors.NotAuthenticated()
	}
	item, err := s.repo.GetByDesign(ctx, viewerID, designID)
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return item, nil
}

// RemoveByDesign removes a design from the cart.
func (s *CartService) RemoveByDesign(ctx context.Context, viewerID, designID string) error {
	if viewerID == "" {
		return apperrors.NotAuthenticated()
	}
	if err := s.repo.DeleteByDesign(ctx, viewerID, designID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}

	relationMutations.WithLabelValues("cart", "remove").Inc()
	s.publish(ctx, event.CartUpdatedData{ViewerID: viewerID, DesignID: designID, Action: "removed"})
	s.logger.InfoContext(ctx, "design removed from cart", slog.String("design_id", designID))
	return nil
}

// UpdateQuantity sets the quantity of a cart row.
func (s *CartService) UpdateQuantity(ctx context.Context, viewerID, itemID string, quantity int) (*domain.CartItem, error) {
	if viewerID == "" {
		return nil, apperrors.NotAuthenticated()
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	item, err := s.repo.UpdateQuantity(ctx, viewerID, itemID, quantity)
	if err != nil {
		return nil, fmt.Errorf("update quantity: %w", err)
	}

	relationMutations.WithLabelValues("cart", "quantity").Inc()
	s.publish(ctx, event.CartUpdatedData{ViewerID: viewerID, DesignID: item.DesignID, ItemID: itemID, Action: "quantity_changed", Quantity: quantity})
	s.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("item_id", itemID),
		slog.Int("quantity", quantity),
	)
	return item, nil
}

// RemoveItem deletes a cart row regardless of its quantity.
func (s *CartService) RemoveItem(ctx context.Context, viewerID, itemID string) error {
	if viewerID == "" {
		return apperrors.NotAuthenticated()
	}
	if err := s.repo.Delete(ctx, viewerID, itemID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	relationMutations.WithLabelValues("cart", "remove").Inc()
	s.publish(ctx, event.CartUpdatedData{ViewerID: viewerID, ItemID: itemID, Action: "removed"})
	s.logger.InfoContext(ctx, "cart item removed", slog.String("item_id", itemID))
	return nil
}

// Checkout builds the WhatsApp handoff link for the viewer's cart.
func (s *CartService) Checkout(ctx context.Context, viewerID string) (checkout.Link, error) {
	view, err := s.GetCart(ctx, viewerID)
	if err != nil {
		return checkout.Link{}, err
	}
	return s.handoff.Link(view.Items)
}

func checkQuantity(q int) error {
	if q < 1 {
		return apperrors.InvalidInput("quantity must be at least 1")
	}
	if q > MaxQuantityPerItem {
		return apperrors.InvalidInput(fmt.Sprintf("quantity must be at most %d", MaxQuantityPerItem))
	}
	return nil
}

func (s *CartService) publish(ctx context.Context, data event.CartUpdatedData) {
	if err := s.producer.PublishCartUpdated(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("action", data.Action),
			slog.String("error", err.Error()),
		)
	}
}
