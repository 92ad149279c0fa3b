package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/bally3399/chord001-monograms/internal/catalog"
	"github.com/bally3399/chord001-monograms/internal/domain"
)

// ErrViewerChanged is returned when the viewer changed while a store call
// was in flight. The result was discarded.
var ErrViewerChanged = errors.New("viewer changed during request")

const (
	homeFeaturedLimit = 3
	homeLatestLimit   = 8
)

// Session is one shopper's view of the storefront. It is safe for
// concurrent use.
//
// Every viewer-scoped store call is stamped with the epoch current when it
// started. ApplyViewer bumps the epoch and clears viewer state at once, and
// results that arrive for an older epoch are dropped.
type Session struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger

	mu        sync.Mutex
	epoch     uint64
	viewer    domain.Viewer
	token     string
	designs   []domain.Design
	favorites []domain.Favorite
	cart      []domain.CartItem
	favorited map[string]bool
	inCart    map[string]bool
}

// NewSession creates an anonymous session. A nil notifier drops notifications.
func NewSession(store Store, notifier Notifier, logger *slog.Logger) *Session {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &Session{
		store:     store,
		notifier:  notifier,
		logger:    logger,
		favorited: make(map[string]bool),
		inCart:    make(map[string]bool),
	}
}

// ticket identifies the viewer a store call was made for.
type ticket struct {
	epoch    uint64
	viewerID string
}

// Viewer returns the current viewer.
func (s *Session) Viewer() domain.Viewer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewer
}

// ApplyViewer switches the session to ev's viewer. Favorites, cart,
// membership flags and the badge are cleared before it returns; the
// caller reloads them with LoadRelations.
func (s *Session) ApplyViewer(ev IdentityEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.viewer = ev.Viewer
	s.token = ev.Token
	if s.viewer.IsAnonymous() {
		s.token = ""
	}
	s.favorites = nil
	s.cart = nil
	clear(s.favorited)
	clear(s.inCart)

	s.logger.Debug("viewer changed",
		slog.String("viewer", s.viewer.String()),
		slog.Uint64("epoch", s.epoch),
	)
}

// Run applies viewer changes from identity until its channel closes or ctx
// is done, reloading relations for each authenticated viewer. Reloads run
// in the background so a sign-out is never queued behind a slow load.
func (s *Session) Run(ctx context.Context, identity Identity) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	events := identity.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.ApplyViewer(ev)
			if ev.Viewer.IsAnonymous() {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := s.LoadRelations(ctx); err != nil && !errors.Is(err, ErrViewerChanged) && ctx.Err() == nil {
					s.logger.Warn("failed to load favorites and cart", slog.String("error", err.Error()))
				}
			}()
		}
	}
}

// begin stamps a store call with the current viewer. ok is false for Anonymous.
func (s *Session) begin(ctx context.Context) (context.Context, ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.viewer.ID()
	if !ok {
		return ctx, ticket{}, false
	}
	return WithAccessToken(ctx, s.token), ticket{epoch: s.epoch, viewerID: id}, true
}

// commit runs apply under the lock if t is still current.
func (s *Session) commit(t ticket, apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.epoch != s.epoch {
		staleResults.Inc()
		s.logger.Debug("discarded result for previous viewer",
			slog.Uint64("epoch", t.epoch),
			slog.Uint64("current_epoch", s.epoch),
		)
		return ErrViewerChanged
	}
	apply()
	return nil
}

// notify reports n unless t has gone stale.
func (s *Session) notify(t ticket, n Notification) {
	s.mu.Lock()
	current := t.epoch == s.epoch
	s.mu.Unlock()
	if current {
		s.notifier.Notify(n)
	}
}

// LoadRelations replaces the favorites and cart snapshots with the
// store's, newest first. It is a no-op for Anonymous.
func (s *Session) LoadRelations(ctx context.Context) error {
	ctx, t, ok := s.begin(ctx)
	if !ok {
		return nil
	}

	favs, err := s.store.ListFavorites(ctx)
	if err != nil {
		return fmt.Errorf("list favorites: %w", err)
	}
	cart, err := s.store.ListCart(ctx)
	if err != nil {
		return fmt.Errorf("list cart: %w", err)
	}

	return s.commit(t, func() {
		s.favorites = favs
		s.cart = cart
		s.rebuildMembership()
	})
}

// LoadCart replaces only the cart snapshot.
func (s *Session) LoadCart(ctx context.Context) error {
	ctx, t, ok := s.begin(ctx)
	if !ok {
		return nil
	}

	cart, err := s.store.ListCart(ctx)
	if err != nil {
		return fmt.Errorf("list cart: %w", err)
	}

	return s.commit(t, func() {
		s.cart = cart
		clear(s.inCart)
		for _, it := range cart {
			s.inCart[it.DesignID] = true
		}
	})
}

func (s *Session) rebuildMembership() {
	clear(s.favorited)
	clear(s.inCart)
	for _, f := range s.favorites {
		s.favorited[f.DesignID] = true
	}
	for _, it := range s.cart {
		s.inCart[it.DesignID] = true
	}
}

// --- Catalog ---

// Home is the landing page catalog.
type Home struct {
	Featured []domain.Design
	Latest   []domain.Design
}

// LoadCatalog loads the catalog snapshot used by Filter and Facets.
func (s *Session) LoadCatalog(ctx context.Context) ([]domain.Design, error) {
	designs, err := s.store.ListDesigns(ctx, domain.DesignFilter{})
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}

	s.mu.Lock()
	s.designs = designs
	s.mu.Unlock()
	return slices.Clone(designs), nil
}

// LoadHome fetches the featured and latest designs for the landing page.
func (s *Session) LoadHome(ctx context.Context) (Home, error) {
	featured, err := s.store.ListDesigns(ctx, domain.DesignFilter{FeaturedOnly: true, Limit: homeFeaturedLimit})
	if err != nil {
		return Home{}, fmt.Errorf("list featured designs: %w", err)
	}
	latest, err := s.store.ListDesigns(ctx, domain.DesignFilter{Limit: homeLatestLimit})
	if err != nil {
		return Home{}, fmt.Errorf("list latest designs: %w", err)
	}
	return Home{Featured: featured, Latest: latest}, nil
}

// Filter applies f to the loaded catalog snapshot.
func (s *Session) Filter(f catalog.Filter) catalog.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.Apply(s.designs, f)
}

// Facets returns the categories present in the loaded catalog snapshot.
func (s *Session) Facets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.Facets(s.designs)
}

func (s *Session) designByID(id string) *domain.Design {
	for i := range s.designs {
		if s.designs[i].ID == id {
			d := s.designs[i]
			return &d
		}
	}
	return nil
}

// --- Snapshots and aggregates ---

// Favorites returns a copy of the favorites snapshot.
func (s *Session) Favorites() []domain.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.favorites)
}

// Cart returns a copy of the cart snapshot.
func (s *Session) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cart)
}

// Badge is the total quantity in the cart. It is 0 for Anonymous.
func (s *Session) Badge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ItemCount(s.cart)
}

// CartTotal is the cart total in cents. Lines without a price or design count as 0.
func (s *Session) CartTotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.TotalCents(s.cart)
}

// Favorited reports the cached favorite flag for a design.
func (s *Session) Favorited(designID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorited[designID]
}

// InCart reports the cached in-cart flag for a design.
func (s *Session) InCart(designID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inCart[designID]
}
