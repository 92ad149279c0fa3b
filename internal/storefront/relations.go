package storefront

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/bally3399/chord001-monograms/internal/checkout"
	"github.com/bally3399/chord001-monograms/internal/domain"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
)

// --- Membership ---

// IsFavorited asks the store whether the viewer has favorited designID and
// refreshes the cached flag. A missing row is false, not an error. It is
// always false for Anonymous.
func (s *Session) IsFavorited(ctx context.Context, designID string) (bool, error) {
	ctx, t, ok := s.begin(ctx)
	if !ok {
		return false, nil
	}

	_, err := s.store.GetFavoriteByDesign(ctx, designID)
	found, err := membership(err)
	if err != nil {
		return false, fmt.Errorf("get favorite: %w", err)
	}

	if err := s.commit(t, func() { s.favorited[designID] = found }); err != nil {
		return false, err
	}
	return found, nil
}

// IsInCart is IsFavorited for the cart.
func (s *Session) IsInCart(ctx context.Context, designID string) (bool, error) {
	ctx, t, ok := s.begin(ctx)
	if !ok {
		return false, nil
	}

	_, err := s.store.GetCartItemByDesign(ctx, designID)
	found, err := membership(err)
	if err != nil {
		return false, fmt.Errorf("get cart item: %w", err)
	}

	if err := s.commit(t, func() { s.inCart[designID] = found }); err != nil {
		return false, err
	}
	return found, nil
}

// membership maps a lookup error to a definite answer.
func membership(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// rejectAnonymous notifies a signed-out viewer of n. No load is in flight,
// so there is no ticket to check.
func (s *Session) rejectAnonymous(n Notification) error {
	s.notifier.Notify(n)
	return apperrors.NotAuthenticated()
}

// --- Favorites ---

// ToggleFavorite flips the favorite state of designID and returns the new
// state. A stale precondition is absorbed: inserting an existing favorite
// leaves it favorited, deleting a missing one leaves it unfavorited.
func (s *Session) ToggleFavorite(ctx context.Context, designID string) (bool, error) {
	ctx, t, ok := s.begin(ctx)
	if !ok {
		return false, s.rejectAnonymous(signInForFavorites)
	}

	if s.Favorited(designID) {
		err := s.store.RemoveFavoriteByDesign(ctx, designID)
		switch {
		case err == nil:
			s.notify(t, favoriteRemoved)
		case errors.Is(err, apperrors.ErrNotFound):
			conflictsAbsorbed.WithLabelValues("favorites", "already_removed").Inc()
			s.notify(t, favoriteAlreadyGone)
		default:
			s.notify(t, favoriteFailed)
			return true, fmt.Errorf("remove favorite: %w", err)
		}
		return false, s.commit(t, func() {
			s.dropFavorite(func(f domain.Favorite) bool { return f.DesignID == designID })
			delete(s.favorited, designID)
		})
	}

	fav, err := s.store.AddFavorite(ctx, designID)
	switch {
	case err == nil:
		s.notify(t, favoriteAdded)
	case errors.Is(err, apperrors.ErrAlreadyExists):
		conflictsAbsorbed.WithLabelValues("favorites", "already_added").Inc()
		s.notify(t, favoriteAlreadyAdded)
		// The existing row is unknown here; the next reload picks it up.
		return true, s.commit(t, func() { s.favorited[designID] = true })
	default:
		s.notify(t, favoriteFailed)
		return false, fmt.Errorf("add favorite: %w", err)
	}

	return true, s.commit(t, func() {
		f := *fav
		if f.Design == nil {
			f.Design = s.designByID(designID)
		}
		s.favorites = slices.Insert(s.favorites, 0, f)
		s.favorited[designID] = true
	})
}

// RemoveFavorite deletes a favorite by row ID.
func (s *Session) RemoveFavorite(ctx context.Context, favoriteID string) error {
	ctx, t, ok := s.begin(ctx)
	if !ok {
		return apperrors.NotAuthenticated()
	}

	if err := s.store.RemoveFavorite(ctx, favoriteID); err != nil {
		s.notify(t, favoriteFailed)
		return fmt.Errorf("remove favorite: %w", err)
	}

	s.notify(t, favoriteRemoved)
	return s.commit(t, func() { s.dropFavorite(func(f domain.Favorite) bool { return f.ID == favoriteID }) })
}

// dropFavorite removes matching favorites and clears their flags. Callers hold s.mu.
func (s *Session) dropFavorite(match func(domain.Favorite) bool) {
	s.favorites = slices.DeleteFunc(s.favorites, func(f domain.Favorite) bool {
		if match(f) {
			delete(s.favorited, f.DesignID)
			return true
		}
		return false
	})
}

// --- Cart ---

// ToggleCart adds designID to the cart with quantity 1, or removes it, and
// returns the new state. Stale preconditions are absorbed as in ToggleFavorite.
func (s *Session) ToggleCart(ctx context.Context, designID string) (bool, error) {
	ctx, t, ok := s.begin(ctx)
	if !ok {
		return false, s.rejectAnonymous(signInForCart)
	}

	if s.InCart(designID) {
		err := s.store.RemoveFromCartByDesign(ctx, designID)
		switch {
		case err == nil:
			s.notify(t, cartRemoved)
		case errors.Is(err, apperrors.ErrNotFound):
			conflictsAbsorbed.WithLabelValues("cart", "already_removed").Inc()
			s.notify(t, cartAlreadyGone)
		default:
			s.notify(t, cartFailed)
			return true, fmt.Errorf("remove from cart: %w", err)
		}
		return false, s.commit(t, func() {
			s.dropCartItem(func(it domain.CartItem) bool { return it.DesignID == designID })
			delete(s.inCart, designID)
		})
	}

	item, err := s.store.AddToCart(ctx, designID, 1)
	switch {
	case err == nil:
		s.notify(t, cartAdded)
	case errors.Is(err, apperrors.ErrAlreadyExists):
		conflictsAbsorbed.WithLabelValues("cart", "already_added").Inc()
		s.notify(t, cartAlreadyAdded)
		return true, s.commit(t, func() { s.inCart[designID] = true })
	default:
		s.notify(t, cartFailed)
		return false, fmt.Errorf("add to cart: %w", err)
	}

	return true, s.commit(t, func() { s.insertCartItem(*item) })
}

// SetQuantity sets the quantity of a cart item. Quantities below 1 are
// ignored without contacting the store.
func (s *Session) SetQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	ctx, t, ok := s.begin(ctx)
	if !ok {
		return apperrors.NotAuthenticated()
	}

	if _, err := s.store.UpdateCartQuantity(ctx, itemID, quantity); err != nil {
		s.notify(t, quantityFailed)
		return fmt.Errorf("update quantity: %w", err)
	}

	return s.commit(t, func() {
		for i := range s.cart {
			if s.cart[i].ID == itemID {
				s.cart[i].Quantity = quantity
				s.cart[i].UpdatedAt = time.Now().UTC()
			}
		}
	})
}

// RemoveCartItem deletes a cart item regardless of its quantity.
func (s *Session) RemoveCartItem(ctx context.Context, itemID string) error {
	ctx, t, ok := s.begin(ctx)
	if !ok {
		return apperrors.NotAuthenticated()
	}

	if err := s.store.RemoveCartItem(ctx, itemID); err != nil {
		s.notify(t, cartFailed)
		return fmt.Errorf("remove cart item: %w", err)
	}

	s.notify(t, cartItemRemoved)
	return s.commit(t, func() { s.dropCartItem(func(it domain.CartItem) bool { return it.ID == itemID }) })
}

// insertCartItem prepends item, joining its design from the catalog
// snapshot when the store did not. Callers hold s.mu.
func (s *Session) insertCartItem(item domain.CartItem) {
	if item.Design == nil {
		item.Design = s.designByID(item.DesignID)
	}
	s.cart = slices.Insert(s.cart, 0, item)
	s.inCart[item.DesignID] = true
}

// dropCartItem removes matching items and clears their flags. Callers hold s.mu.
func (s *Session) dropCartItem(match func(domain.CartItem) bool) {
	s.cart = slices.DeleteFunc(s.cart, func(it domain.CartItem) bool {
		if match(it) {
			delete(s.inCart, it.DesignID)
			return true
		}
		return false
	})
}

// --- Favorites to cart ---

// MoveFavoriteToCart moves a favorite into the cart in one store call. If
// the design is already in the cart the cart is unchanged, the favorite is
// still removed and the viewer is told it was already there.
func (s *Session) MoveFavoriteToCart(ctx context.Context, favoriteID string) (MoveResult, error) {
	ctx, t, ok := s.begin(ctx)
	if !ok {
		return MoveResult{}, apperrors.NotAuthenticated()
	}

	res, err := s.store.MoveFavoriteToCart(ctx, favoriteID)
	if err != nil {
		s.notify(t, moveFailed)
		return MoveResult{}, fmt.Errorf("move favorite to cart: %w", err)
	}

	if res.AlreadyInCart {
		conflictsAbsorbed.WithLabelValues("cart", "already_added").Inc()
		s.notify(t, cartAlreadyAdded)
	} else {
		s.notify(t, movedToCart)
	}

	if err := s.commit(t, func() {
		s.dropFavorite(func(f domain.Favorite) bool { return f.ID == favoriteID })
		delete(s.favorited, res.DesignID)
		if res.AlreadyInCart {
			s.inCart[res.DesignID] = true
		}
	}); err != nil {
		return res, err
	}
	if res.AlreadyInCart {
		return res, nil
	}
	// The new cart row's ID is only known to the store.
	return res, s.LoadCart(ctx)
}

// MoveFavoriteToCartTwoStep is MoveFavoriteToCart for stores without an
// atomic move. It adds the design to the cart, then deletes the favorite.
// A design already in the cart is reported and the favorite is still
// deleted. If the delete fails the design ends up in both lists until the
// next LoadRelations.
func (s *Session) MoveFavoriteToCartTwoStep(ctx context.Context, favoriteID string) (MoveResult, error) {
	ctx, t, ok := s.begin(ctx)
	if !ok {
		return MoveResult{}, apperrors.NotAuthenticated()
	}

	s.mu.Lock()
	idx := slices.IndexFunc(s.favorites, func(f domain.Favorite) bool { return f.ID == favoriteID })
	var designID string
	if idx >= 0 {
		designID = s.favorites[idx].DesignID
	}
	s.mu.Unlock()
	if idx < 0 {
		return MoveResult{}, apperrors.NotFound("favorite", favoriteID)
	}
	res := MoveResult{DesignID: designID}

	item, err := s.store.AddToCart(ctx, designID, 1)
	switch {
	case err == nil:
		err = s.commit(t, func() { s.insertCartItem(*item) })
	case errors.Is(err, apperrors.ErrAlreadyExists):
		conflictsAbsorbed.WithLabelValues("cart", "already_added").Inc()
		s.notify(t, cartAlreadyAdded)
		res.AlreadyInCart = true
		err = s.commit(t, func() { s.inCart[designID] = true })
	default:
		s.notify(t, cartAddFailed)
		return MoveResult{}, fmt.Errorf("add to cart: %w", err)
	}
	if err != nil {
		return res, err
	}

	if err := s.store.RemoveFavorite(ctx, favoriteID); err != nil {
		s.notify(t, moveLeftFavorite)
		return res, fmt.Errorf("remove favorite after adding to cart: %w", err)
	}

	if !res.AlreadyInCart {
		s.notify(t, movedToCart)
	}
	return res, s.commit(t, func() {
		s.dropFavorite(func(f domain.Favorite) bool { return f.ID == favoriteID })
	})
}

// --- Checkout ---

// Checkout returns the WhatsApp handoff for the viewer's cart.
func (s *Session) Checkout(ctx context.Context) (checkout.Link, error) {
	ctx, _, ok := s.begin(ctx)
	if !ok {
		return checkout.Link{}, apperrors.NotAuthenticated()
	}
	link, err := s.store.Checkout(ctx)
	if err != nil {
		return checkout.Link{}, fmt.Errorf("checkout: %w", err)
	}
	return link, nil
}
