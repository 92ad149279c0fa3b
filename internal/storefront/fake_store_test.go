package storefront

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bally3399/chord001-monograms/internal/checkout"
	"github.com/bally3399/chord001-monograms/internal/domain"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
)

// fakeStore is an in-memory Store. Tokens are "tok-<viewer id>".
type fakeStore struct {
	mu        sync.Mutex
	designs   []domain.Design
	favorites map[string][]domain.Favorite
	cart      map[string][]domain.CartItem
	calls     map[string]int
	errs      map[string]error
	// gates block the named method until closed; entered is signalled first.
	gates   map[string]chan struct{}
	entered chan string
}

func newFakeStore(designs ...domain.Design) *fakeStore {
	return &fakeStore{
		designs:   designs,
		favorites: make(map[string][]domain.Favorite),
		cart:      make(map[string][]domain.CartItem),
		calls:     make(map[string]int),
		errs:      make(map[string]error),
		gates:     make(map[string]chan struct{}),
		entered:   make(chan string, 16),
	}
}

func tokenFor(viewerID string) string { return "tok-" + viewerID }

func (f *fakeStore) enter(ctx context.Context, method string) (string, error) {
	f.mu.Lock()
	f.calls[method]++
	gate := f.gates[method]
	err := f.errs[method]
	f.mu.Unlock()

	if gate != nil {
		f.entered <- method
		<-gate
	}
	if err != nil {
		return "", err
	}
	viewer, ok := strings.CutPrefix(AccessTokenFromContext(ctx), "tok-")
	if !ok || viewer == "" {
		return "", apperrors.NotAuthenticated()
	}
	return viewer, nil
}

func (f *fakeStore) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeStore) failWith(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeStore) gate(method string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[method] = ch
	return ch
}

func (f *fakeStore) design(id string) *domain.Design {
	for i := range f.designs {
		if f.designs[i].ID == id {
			d := f.designs[i]
			return &d
		}
	}
	return nil
}

func (f *fakeStore) seedFavorite(viewer, designID string) domain.Favorite {
	f.mu.Lock()
	defer f.mu.Unlock()
	fav := domain.Favorite{ID: uuid.NewString(), UserID: viewer, DesignID: designID, CreatedAt: time.Now(), Design: f.design(designID)}
	f.favorites[viewer] = append([]domain.Favorite{fav}, f.favorites[viewer]...)
	return fav
}

func (f *fakeStore) seedCart(viewer, designID string, qty int) domain.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := domain.CartItem{ID: uuid.NewString(), UserID: viewer, DesignID: designID, Quantity: qty, Design: f.design(designID)}
	f.cart[viewer] = append([]domain.CartItem{item}, f.cart[viewer]...)
	return item
}

func (f *fakeStore) cartOf(viewer string) []domain.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.CartItem(nil), f.cart[viewer]...)
}

func (f *fakeStore) favoritesOf(viewer string) []domain.Favorite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Favorite(nil), f.favorites[viewer]...)
}

// --- Store ---

func (f *fakeStore) ListDesigns(_ context.Context, filter domain.DesignFilter) ([]domain.Design, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListDesigns"]++
	if err := f.errs["ListDesigns"]; err != nil {
		return nil, err
	}
	out := []domain.Design{}
	for _, d := range f.designs {
		if filter.FeaturedOnly && !d.IsFeatured {
			continue
		}
		out = append(out, d)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	viewer, err := f.enter(ctx, "ListFavorites")
	if err != nil {
		return nil, err
	}
	return f.favoritesOf(viewer), nil
}

func (f *fakeStore) AddFavorite(ctx context.Context, designID string) (*domain.Favorite, error) {
	viewer, err := f.enter(ctx, "AddFavorite")
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fav := range f.favorites[viewer] {
		if fav.DesignID == designID {
			return nil, apperrors.AlreadyExists("favorite", "design_id", designID)
		}
	}
	fav := domain.Favorite{ID: uuid.NewString(), UserID: viewer, DesignID: designID, CreatedAt: time.Now()}
	f.favorites[viewer] = append([]domain.Favorite{fav}, f.favorites[viewer]...)
	return &fav, nil
}

func (f *fakeStore) GetFavoriteByDesign(ctx context.Context, designID string) (*domain.Favorite, error) {
	viewer, err := f.enter(ctx, "GetFavoriteByDesign")
	if err != nil {
		return nil, err
	}
	for _, fav := range f.favoritesOf(viewer) {
		if fav.DesignID == designID {
			return &fav, nil
		}
	}
	return nil, apperrors.NotFound("favorite", designID)
}

func (f *fakeStore) removeFavorites(viewer string, match func(domain.Favorite) bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.favorites[viewer][:0:0]
	removed := false
	for _, fav := range f.favorites[viewer] {
		if match(fav) {
			removed = true
			continue
		}
		kept = append(kept, fav)
	}
	f.favorites[viewer] = kept
	return removed
}

func (f *fakeStore) RemoveFavoriteByDesign(ctx context.Context, designID string) error {
	viewer, err := f.enter(ctx, "RemoveFavoriteByDesign")
	if err != nil {
		return err
	}
	if !f.removeFavorites(viewer, func(fav domain.Favorite) bool { return fav.DesignID == designID }) {
		return apperrors.NotFound("favorite", designID)
	}
	return nil
}

func (f *fakeStore) RemoveFavorite(ctx context.Context, favoriteID string) error {
	viewer, err := f.enter(ctx, "RemoveFavorite")
	if err != nil {
		return err
	}
	if !f.removeFavorites(viewer, func(fav domain.Favorite) bool { return fav.ID == favoriteID }) {
		return apperrors.NotFound("favorite", favoriteID)
	}
	return nil
}

func (f *fakeStore) MoveFavoriteToCart(ctx context.Context, favoriteID string) (MoveResult, error) {
	viewer, err := f.enter(ctx, "MoveFavoriteToCart")
	if err != nil {
		return MoveResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var designID string
	kept := f.favorites[viewer][:0:0]
	for _, fav := range f.favorites[viewer] {
		if fav.ID == favoriteID {
			designID = fav.DesignID
			continue
		}
		kept = append(kept, fav)
	}
	if designID == "" {
		return MoveResult{}, apperrors.NotFound("favorite", favoriteID)
	}
	f.favorites[viewer] = kept

	for _, it := range f.cart[viewer] {
		if it.DesignID == designID {
			return MoveResult{DesignID: designID, AlreadyInCart: true}, nil
		}
	}
	item := domain.CartItem{ID: uuid.NewString(), UserID: viewer, DesignID: designID, Quantity: 1, Design: f.design(designID)}
	f.cart[viewer] = append([]domain.CartItem{item}, f.cart[viewer]...)
	return MoveResult{DesignID: designID}, nil
}

func (f *fakeStore) ListCart(ctx context.Context) ([]domain.CartItem, error) {
	viewer, err := f.enter(ctx, "ListCart")
	if err != nil {
		return nil, err
	}
	return f.cartOf(viewer), nil
}

func (f *fakeStore) AddToCart(ctx context.Context, designID string, quantity int) (*domain.CartItem, error) {
	viewer, err := f.enter(ctx, "AddToCart")
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.cart[viewer] {
		if it.DesignID == designID {
			return nil, apperrors.AlreadyExists("cart item", "design_id", designID)
		}
	}
	item := domain.CartItem{ID: uuid.NewString(), UserID: viewer, DesignID: designID, Quantity: quantity}
	f.cart[viewer] = append([]domain.CartItem{item}, f.cart[viewer]...)
	return &item, nil
}

func (f *fakeStore) GetCartItemByDesign(ctx context.Context, designID string) (*domain.CartItem, error) {
	viewer, err := f.enter(ctx, "GetCartItemByDesign")
	if err != nil {
		return nil, err
	}
	for _, it := range f.cartOf(viewer) {
		if it.DesignID == designID {
			return &it, nil
		}
	}
	return nil, apperrors.NotFound("cart item", designID)
}

func (f *fakeStore) removeCart(viewer string, match func(domain.CartItem) bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.cart[viewer][:0:0]
	removed := false
	for _, it := range f.cart[viewer] {
		if match(it) {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	f.cart[viewer] = kept
	return removed
}

func (f *fakeStore) RemoveFromCartByDesign(ctx context.Context, designID string) error {
	viewer, err := f.enter(ctx, "RemoveFromCartByDesign")
	if err != nil {
		return err
	}
	if !f.removeCart(viewer, func(it domain.CartItem) bool { return it.DesignID == designID }) {
		return apperrors.NotFound("cart item", designID)
	}
	return nil
}

func (f *fakeStore) UpdateCartQuantity(ctx context.Context, itemID string, quantity int) (*domain.CartItem, error) {
	viewer, err := f.enter(ctx, "UpdateCartQuantity")
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart[viewer] {
		if f.cart[viewer][i].ID == itemID {
			f.cart[viewer][i].Quantity = quantity
			it := f.cart[viewer][i]
			return &it, nil
		}
	}
	return nil, apperrors.NotFound("cart item", itemID)
}

func (f *fakeStore) RemoveCartItem(ctx context.Context, itemID string) error {
	viewer, err := f.enter(ctx, "RemoveCartItem")
	if err != nil {
		return err
	}
	if !f.removeCart(viewer, func(it domain.CartItem) bool { return it.ID == itemID }) {
		return apperrors.NotFound("cart item", itemID)
	}
	return nil
}

func (f *fakeStore) Checkout(ctx context.Context) (checkout.Link, error) {
	viewer, err := f.enter(ctx, "Checkout")
	if err != nil {
		return checkout.Link{}, err
	}
	h, err := checkout.NewHandoff("2348012345678")
	if err != nil {
		return checkout.Link{}, err
	}
	return h.Link(f.cartOf(viewer))
}
