package repository

import (
	"context"

	"github.com/bally3399/chord001-monograms/internal/domain"
)

// DesignRepository persists catalog entries.
type DesignRepository interface {
	Create(ctx context.Context, d *domain.Design) error
	GetByID(ctx context.Context, id string) (*domain.Design, error)
	// List returns designs newest first. It never returns a nil slice.
	List(ctx context.Context, filter domain.DesignFilter) ([]domain.Design, error)
	Update(ctx context.Context, d *domain.Design) error
	SetFeatured(ctx context.Context, id string, featured bool) (*domain.Design, error)
	// Delete removes a design; favorites and cart rows referencing it cascade.
	Delete(ctx context.Context, id string) error
}

// FavoriteRepository persists favorites. Every method is scoped by userID.
type FavoriteRepository interface {
	// Create returns ErrAlreadyExists when the (user, design) pair exists.
	Create(ctx context.Context, f *domain.Favorite) error
	GetByDesign(ctx context.Context, userID, designID string) (*domain.Favorite, error)
	List(ctx context.Context, userID string) ([]domain.Favorite, error)
	DeleteByDesign(ctx context.Context, userID, designID string) error
	Delete(ctx context.Context, userID, id string) error
}

// CartRepository persists cart items. Every method is scoped by userID.
type CartRepository interface {
	// Create returns ErrAlreadyExists when the (user, design) pair exists.
	Create(ctx context.Context, item *domain.CartItem) error
	GetByDesign(ctx context.Context, userID, designID string) (*domain.CartItem, error)
	List(ctx context.Context, userID string) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, id string, quantity int) (*domain.CartItem, error)
	DeleteByDesign(ctx context.Context, userID, designID string) error
	Delete(ctx context.Context, userID, id string) error
	// MoveFromFavorite inserts a cart row for the favorite's design (unless
	// one exists) and deletes the favorite, in one transaction.
	MoveFromFavorite(ctx context.Context, userID, favoriteID string) (MoveResult, error)
}

// MoveResult reports the outcome of MoveFromFavorite.
type MoveResult struct {
	DesignID      string `json:"design_id"`
	AlreadyInCart bool   `json:"already_in_cart"`
}

// AdminSessionRepository stores opaque admin session tokens with a TTL.
type AdminSessionRepository interface {
	Create(ctx context.Context, token string) error
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}
