package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/internal/event"
	"github.com/bally3399/chord001-monograms/internal/repository"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
)

// FavoriteService implements the viewer's favorites. Every call is scoped
// to the authenticated viewer.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	cart      repository.CartRepository
	producer  *event.Producer
	logger    *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(favorites repository.FavoriteRepository, cart repository.CartRepository, producer *event.Producer, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		cart:      cart,
		producer:  producer,
		logger:    logger,
	}
}

// ListFavorites returns the viewer's favorites with their designs, newest first.
func (s *FavoriteService) ListFavorites(ctx context.Context, viewerID string) ([]domain.Favorite, error) {
	if viewerID == "" {
		return nil, apperrors.NotAuthenticated()
	}
	favs, err := s.favorites.List(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favs, nil
}

// AddFavorite favorites a design. A design that is already favorited
// yields ErrAlreadyExists.
func (s *FavoriteService) AddFavorite(ctx context.Context, viewerID, designID string) (*domain.Favorite, error) {
	if viewerID == "" {
		return nil, apperrors.NotAuthenticated()
	}

	f := &domain.Favorite{
		ID:        uuid.NewString(),
		UserID:    viewerID,
		DesignID:  designID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.favorites.Create(ctx, f); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			relationConflicts.WithLabelValues("favorites").Inc()
		}
		return nil, fmt.Errorf("add favorite: %w", err)
	}

	relationMutations.WithLabelValues("favorites", "add").Inc()
	s.publish(ctx, event.FavoriteAdded, viewerID, designID)
	s.logger.InfoContext(ctx, "favorite added", slog.String("design_id", designID))
	return f, nil
}

// GetFavoriteByDesign returns the viewer's favorite for a design, or ErrNotFound.
func (s *FavoriteService) GetFavoriteByDesign(ctx context.Context, viewerID, designID string) (*domain.Favorite, error) {
	if viewerID == "" {
		return nil, apperrors.NotAuthenticated()
	}
	f, err := s.favorites.GetByDesign(ctx, viewerID, designID)
	if err != nil {
		return nil, fmt.Errorf("get favorite: %w", err)
	}
	return f, nil
}

// RemoveFavoriteByDesign unfavorites a design.
func (s *FavoriteService) RemoveFavoriteByDesign(ctx context.Context, viewerID, designID string) error {
	if viewerID == "" {
		return apperrors.NotAuthenticated()
	}
	if err := s.favorites.DeleteByDesign(ctx, viewerID, designID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	relationMutations.WithLabelValues("favorites", "remove").Inc()
	s.publish(ctx, event.FavoriteRemoved, viewerID, designID)
	s.logger.InfoContext(ctx, "favorite removed", slog.String("design_id", designID))
	return nil
}

// RemoveFavorite deletes a favorite by row ID.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, viewerID, id string) error {
	if viewerID == "" {
		return apperrors.NotAuthenticated()
	}
	if err := s.favorites.Delete(ctx, viewerID, id); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	relationMutations.WithLabelValues("favorites", "remove").Inc()
	s.publish(ctx, event.FavoriteRemoved, viewerID, "")
	s.logger.InfoContext(ctx, "favorite removed", slog.String("favorite_id", id))
	return nil
}

// MoveToCart moves a favorite into the cart atomically. When the design is
// already in the cart the cart is left unchanged, the favorite is still
// removed, and the result reports AlreadyInCart.
func (s *FavoriteService) MoveToCart(ctx context.Context, viewerID, favoriteID string) (repository.MoveResult, error) {
	if viewerID == "" {
		return repository.MoveResult{}, apperrors.NotAuthenticated()
	}

	res, err := s.cart.MoveFromFavorite(ctx, viewerID, favoriteID)
	if err != nil {
		return repository.MoveResult{}, fmt.Errorf("move favorite to cart: %w", err)
	}

	relationMutations.WithLabelValues("favorites", "move").Inc()
	if res.AlreadyInCart {
		relationConflicts.WithLabelValues("cart").Inc()
	}
	s.publish(ctx, event.FavoriteRemoved, viewerID, res.DesignID)
	if !res.AlreadyInCart {
		if err := s.producer.PublishCartUpdated(ctx, event.CartUpdatedData{
			ViewerID: viewerID,
			DesignID: res.DesignID,
			Action:   "moved_from_favorites",
			Quantity: 1,
		}); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish cart.updated event", slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "favorite moved to cart",
		slog.String("favorite_id", favoriteID),
		slog.String("design_id", res.DesignID),
		slog.Bool("already_in_cart", res.AlreadyInCart),
	)
	return res, nil
}

func (s *FavoriteService) publish(ctx context.Context, eventType, viewerID, designID string) {
	if err := s.producer.PublishFavorite(ctx, eventType, viewerID, designID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish favorite event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
