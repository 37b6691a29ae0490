// Package fullscreen tracks which media holds fullscreen and notifies
// process-wide subscribers when that changes.
package fullscreen

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/tessro/reel/internal/core"
)

// ErrNotFullscreen is returned by ExitFullscreen when nothing holds
// fullscreen.
var ErrNotFullscreen = errors.New("no media is fullscreen")

// Notifier implements core.Platform. The zero value is not usable; use New.
type Notifier struct {
	mu      sync.Mutex
	element core.Media
	exit    func() error
	subs    map[uuid.UUID]func()
}

// Default is the process-wide notifier adapters publish to.
var Default = New()

// New returns an empty notifier.
func New() *Notifier {
	return &Notifier{subs: make(map[uuid.UUID]func())}
}

// FullscreenElement reports the media currently holding fullscreen.
func (n *Notifier) FullscreenElement() (core.Media, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.element, n.element != nil
}

// OnFullscreenChange subscribes fn until the returned cancel is called.
func (n *Notifier) OnFullscreenChange(fn func()) (cancel func()) {
	id := uuid.New()

	n.mu.Lock()
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (n *Notifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Enter records m as the fullscreen element and notifies subscribers.
// exit, when non-nil, is used by ExitFullscreen.
func (n *Notifier) Enter(m core.Media, exit func() error) {
	n.mu.Lock()
	n.element = m
	n.exit = exit
	n.mu.Unlock()
	n.publish()
}

// Leave clears the fullscreen element if it is m and notifies
// subscribers. Leaving with m that does not hold fullscreen still
// notifies, as platforms do on every transition.
func (n *Notifier) Leave(m core.Media) {
	n.mu.Lock()
	if n.element == m {
		n.element = nil
		n.exit = nil
	}
	n.mu.Unlock()
	n.publish()
}

// ExitFullscreen asks whoever holds fullscreen to leave it.
func (n *Notifier) ExitFullscreen() error {
	n.mu.Lock()
	exit, held := n.exit, n.element != nil
	n.mu.Unlock()

	if !held {
		return ErrNotFullscreen
	}
	if exit == nil {
		return errors.New("fullscreen holder cannot exit on request")
	}
	return exit()
}

// publish invokes subscribers outside the lock so they may query or
// unsubscribe.
func (n *Notifier) publish() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

var (
	_ core.Platform         = (*Notifier)(nil)
	_ core.FullscreenExiter = (*Notifier)(nil)
)
