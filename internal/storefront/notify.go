package storefront

import (
	"context"
	"log/slog"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info" // benign outcomes such as "already in cart"
	KindFailure Kind = "failure"
)

// Notification is a transient, user-visible message about a mutation.
type Notification struct {
	Kind    Kind
	Title   string
	Message string
}

// Notifier receives notifications. Notify must not block.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier.
func (l LogNotifier) Notify(n Notification) {
	level := slog.LevelInfo
	if n.Kind == KindFailure {
		level = slog.LevelWarn
	}
	l.Logger.Log(context.Background(), level, n.Title,
		slog.String("kind", string(n.Kind)),
		slog.String("message", n.Message),
	)
}

var (
	signInForFavorites = Notification{KindFailure, "Please log in", "You need to be logged in to add favorites."}
	signInForCart      = Notification{KindFailure, "Please log in", "You need to be logged in to add items to cart."}

	favoriteAdded        = Notification{KindSuccess, "Added to favorites", "Design added to your favorites."}
	favoriteRemoved      = Notification{KindSuccess, "Removed from favorites", "Design removed from your favorites."}
	favoriteAlreadyAdded = Notification{KindInfo, "Already in favorites", "This design is already in your favorites."}
	favoriteAlreadyGone  = Notification{KindInfo, "Not in favorites", "This design was already removed from your favorites."}
	favoriteFailed       = Notification{KindFailure, "Error", "Failed to update favorites."}

	cartAdded        = Notification{KindSuccess, "Added to cart", "Design added to your cart."}
	cartRemoved      = Notification{KindSuccess, "Removed from cart", "Design removed from your cart."}
	cartItemRemoved  = Notification{KindSuccess, "Item removed", "Item removed from your cart."}
	cartAlreadyAdded = Notification{KindInfo, "Already in cart", "This design is already in your cart."}
	cartAlreadyGone  = Notification{KindInfo, "Not in cart", "This design was already removed from your cart."}
	cartFailed       = Notification{KindFailure, "Error", "Failed to update cart."}
	cartAddFailed    = Notification{KindFailure, "Error", "Failed to add to cart."}
	quantityFailed   = Notification{KindFailure, "Error", "Failed to update quantity."}

	movedToCart      = Notification{KindSuccess, "Moved to cart", "Design moved from favorites to cart."}
	moveLeftFavorite = Notification{KindFailure, "Error", "Design added to cart but could not be removed from favorites."}
	moveFailed       = Notification{KindFailure, "Error", "Failed to move design to cart."}
)
