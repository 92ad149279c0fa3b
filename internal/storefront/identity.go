package storefront

import (
	"sync"

	"github.com/bally3399/chord001-monograms/internal/domain"
)

// IdentityEvent announces the current viewer. Token is the access token
// for an authenticated viewer and empty for Anonymous.
type IdentityEvent struct {
	Viewer domain.Viewer
	Token  string
}

// Identity delivers viewer changes. The channel is closed when the
// identity source shuts down.
type Identity interface {
	Events() <-chan IdentityEvent
}

// ChannelIdentity is an Identity fed by explicit SignIn and SignOut calls.
type ChannelIdentity struct {
	mu     sync.Mutex
	ch     chan IdentityEvent
	closed bool
}

// NewChannelIdentity creates an identity source buffering up to size events.
// When the buffer is full the oldest pending event is replaced, so SignIn
// and SignOut never block on a slow or stopped consumer.
func NewChannelIdentity(size int) *ChannelIdentity {
	if size < 1 {
		size = 1
	}
	return &ChannelIdentity{ch: make(chan IdentityEvent, size)}
}

// Events implements Identity.
func (c *ChannelIdentity) Events() <-chan IdentityEvent {
	return c.ch
}

// SignIn announces an authenticated viewer.
func (c *ChannelIdentity) SignIn(viewerID, token string) {
	c.send(IdentityEvent{Viewer: domain.Authenticated(viewerID), Token: token})
}

// SignOut announces the anonymous viewer.
func (c *ChannelIdentity) SignOut() {
	c.send(IdentityEvent{Viewer: domain.Anonymous()})
}

// Close closes the event channel. Later SignIn and SignOut calls are dropped.
func (c *ChannelIdentity) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.ch)
	}
}

func (c *ChannelIdentity) send(ev IdentityEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for {
		select {
		case c.ch <- ev:
			return
		default:
		}
		// Only send writes to ch, so dropping one event always frees a slot.
		select {
		case <-c.ch:
		default:
		}
	}
}
