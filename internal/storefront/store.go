// Package storefront keeps a viewer's favorites, cart and membership flags
// consistent with the remote catalog while the viewer browses, toggles and
// signs in or out.
package storefront

import (
	"context"

	"github.com/bally3399/chord001-monograms/internal/checkout"
	"github.com/bally3399/chord001-monograms/internal/domain"
)

// Store is the remote storefront. Viewer-scoped calls act on behalf of the
// access token carried by ctx (see WithAccessToken); the store, not the
// caller, decides which viewer that is.
//
// Inserts of an existing (viewer, design) pair fail with an error matching
// errors.ErrAlreadyExists. Lookups and deletes of a missing row fail with
// one matching errors.ErrNotFound.
type Store interface {
	ListDesigns(ctx context.Context, filter domain.DesignFilter) ([]domain.Design, error)

	ListFavorites(ctx context.Context) ([]domain.Favorite, error)
	AddFavorite(ctx context.Context, designID string) (*domain.Favorite, error)
	GetFavoriteByDesign(ctx context.Context, designID string) (*domain.Favorite, error)
	RemoveFavoriteByDesign(ctx context.Context, designID string) error
	RemoveFavorite(ctx context.Context, favoriteID string) error
	MoveFavoriteToCart(ctx context.Context, favoriteID string) (MoveResult, error)

	ListCart(ctx context.Context) ([]domain.CartItem, error)
	AddToCart(ctx context.Context, designID string, quantity int) (*domain.CartItem, error)
	GetCartItemByDesign(ctx context.Context, designID string) (*domain.CartItem, error)
	RemoveFromCartByDesign(ctx context.Context, designID string) error
	UpdateCartQuantity(ctx context.Context, itemID string, quantity int) (*domain.CartItem, error)
	RemoveCartItem(ctx context.Context, itemID string) error
	Checkout(ctx context.Context) (checkout.Link, error)
}

// MoveResult reports the outcome of moving a favorite into the cart.
type MoveResult struct {
	DesignID      string `json:"design_id"`
	AlreadyInCart bool   `json:"already_in_cart"`
}

type accessTokenKey struct{}

// WithAccessToken attaches the viewer's access token to ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessTokenFromContext returns the access token attached by WithAccessToken.
func AccessTokenFromContext(ctx context.Context) string {
	if tok, ok := ctx.Value(accessTokenKey{}).(string); ok {
		return tok
	}
	return ""
}
