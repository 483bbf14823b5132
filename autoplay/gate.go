package autoplay

import (
	"context"
	"sync"
	"time"

	"github.com/reelcast/reelcast/log"
	"github.com/reelcast/reelcast/prefs"
	"github.com/reelcast/reelcast/resolve"
	"github.com/reelcast/reelcast/stream"
	"github.com/samber/mo"
)

// Gate makes sure autoplay fires at most once per content key and never waits forever.
type Gate struct {
	timeout time.Duration

	mu        sync.Mutex
	triggered map[string]bool
	waiting   bool
	disabled  bool
	stop      chan struct{}
}

// NewGate returns a gate that waits at most timeout for providers to settle.
func NewGate(timeout time.Duration) *Gate {
	return &Gate{timeout: timeout, triggered: map[string]bool{}, stop: make(chan struct{})}
}

// Waiting reports whether the gate is waiting for providers.
func (g *Gate) Waiting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.waiting
}

// Disable stops any future trigger and releases a pending Await empty-handed,
// e.g. once the user takes over the choice.
func (g *Gate) Disable() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.disabled {
		g.disabled = true
		close(g.stop)
	}
	g.waiting = false
}

// claim marks key as triggered. It reports false if key was already triggered or the gate is disabled.
func (g *Gate) claim(key stream.Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.disabled || g.triggered[key.String()] {
		return false
	}
	g.triggered[key.String()] = true
	return true
}

// Trigger runs fn unless key was already triggered or the gate is disabled.
func (g *Gate) Trigger(key stream.Key, fn func()) bool {
	if !g.claim(key) {
		return false
	}
	fn()
	return true
}

func (g *Gate) setWaiting(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.waiting = v && !g.disabled
}

// Await waits until the resolver's current pass settles, the timeout elapses or ctx is done,
// then selects from whatever has arrived. It returns None when the key was already handled,
// the gate is disabled, nothing playable arrived or ctx was cancelled.
func (g *Gate) Await(ctx context.Context, r *resolve.Resolver, p prefs.Preferences) mo.Option[stream.Stream] {
	best := mo.None[stream.Stream]()
	key := r.Snapshot().Key

	g.Trigger(key, func() {
		g.setWaiting(true)
		defer g.setWaiting(false)

		if g.wait(ctx, r, key) {
			best = g.choose(r, key, p)
		}
	})

	return best
}

// wait reports whether selection should go ahead.
func (g *Gate) wait(ctx context.Context, r *resolve.Resolver, key stream.Key) bool {
	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case <-r.Done():
		return true
	case <-timer.C:
		log.WithContent(key).Infof("autoplay timed out after %s, choosing from partial results", g.timeout)
		return true
	case <-g.stop:
		log.WithContent(key).Info("autoplay disabled while waiting")
		return false
	case <-ctx.Done():
		return false
	}
}

func (g *Gate) choose(r *resolve.Resolver, key stream.Key, p prefs.Preferences) mo.Option[stream.Stream] {
	g.mu.Lock()
	disabled := g.disabled
	g.mu.Unlock()
	if disabled {
		return mo.None[stream.Stream]()
	}

	snap := r.Snapshot()
	if snap.Key != key {
		return mo.None[stream.Stream]()
	}

	best := SelectBest(snap.Results, p, snap.Installed)
	if best.IsAbsent() {
		log.WithContent(key).Info("autoplay found nothing playable")
	}
	return best
}
