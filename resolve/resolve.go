// Package resolve runs every provider for a content key concurrently and tracks
// their results and lifecycle as they arrive.
package resolve

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/reelcast/reelcast/log"
	"github.com/reelcast/reelcast/provider"
	"github.com/reelcast/reelcast/rank"
	"github.com/reelcast/reelcast/stream"
	"golang.org/x/sync/errgroup"
)

// Phase summarizes a resolution pass for display.
type Phase int

const (
	// Idle means nothing has been requested yet.
	Idle Phase = iota
	// Loading means at least one provider has not answered.
	Loading
	// StillFetching means the pass has run past the still-fetching threshold without any result.
	StillFetching
	// Done means every provider has answered.
	Done
	// NoSources means there was no provider to ask.
	NoSources
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case StillFetching:
		return "still fetching"
	case Done:
		return "done"
	case NoSources:
		return "no sources"
	default:
		return "idle"
	}
}

// Settled reports whether the pass has finished.
func (p Phase) Settled() bool {
	return p == Done || p == NoSources
}

const (
	DefaultStillFetchingAfter = 10 * time.Second
	DefaultNoSourcesDebounce  = 500 * time.Millisecond
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithStillFetchingAfter sets how long an empty pass waits before reporting StillFetching.
func WithStillFetchingAfter(d time.Duration) Option {
	return func(r *Resolver) { r.stillFetchingAfter = d }
}

// WithNoSourcesDebounce sets how long a pass without providers waits before reporting NoSources.
func WithNoSourcesDebounce(d time.Duration) Option {
	return func(r *Resolver) { r.noSourcesDebounce = d }
}

// WithProviderTimeout bounds every provider call. Zero means no bound.
func WithProviderTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.providerTimeout = d }
}

// WithClock replaces time.Now for status timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// pass is one resolution run. A new key supersedes the running pass;
// results belonging to a superseded pass are dropped.
type pass struct {
	gen    uint64
	key    stream.Key
	done   chan struct{}
	once   sync.Once
	timers []*time.Timer
}

func (p *pass) finish() {
	p.once.Do(func() {
		for _, t := range p.timers {
			t.Stop()
		}
		close(p.done)
	})
}

// Resolver owns the result map and provider statuses of the current pass.
// All writes are serialized; readers work on snapshots.
type Resolver struct {
	stillFetchingAfter time.Duration
	noSourcesDebounce  time.Duration
	providerTimeout    time.Duration
	now                func() time.Time

	mu        sync.RWMutex
	gen       uint64
	current   *pass
	inFlight  bool
	phase     Phase
	results   stream.ResultMap
	statuses  map[string]stream.Status
	launched  []string
	response  []string
	installed []provider.Info

	updates chan struct{}
}

// New returns an idle Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		stillFetchingAfter: DefaultStillFetchingAfter,
		noSourcesDebounce:  DefaultNoSourcesDebounce,
		now:                time.Now,
		results:            stream.ResultMap{},
		statuses:           map[string]stream.Status{},
		updates:            make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}

	idle := &pass{done: make(chan struct{})}
	idle.finish()
	r.current = idle
	return r
}

// Resolve starts a pass for key over providers and returns immediately.
// It returns false without doing anything when a pass for the same key is still running.
// A different key supersedes the running pass: its providers keep running but their results are discarded.
func (r *Resolver) Resolve(ctx context.Context, key stream.Key, providers []provider.Provider) bool {
	r.mu.Lock()
	if r.inFlight && r.current.key == key {
		r.mu.Unlock()
		log.WithContent(key).Debug("already in flight")
		return false
	}

	p := r.begin(key, providers)

	if len(providers) == 0 {
		p.timers = append(p.timers, time.AfterFunc(r.noSourcesDebounce, func() {
			r.settle(p, NoSources)
		}))
		r.mu.Unlock()
		r.notify()
		return true
	}

	p.timers = append(p.timers, time.AfterFunc(r.stillFetchingAfter, func() {
		r.markStillFetching(p)
	}))
	r.mu.Unlock()
	r.notify()

	var g errgroup.Group
	for _, pr := range providers {
		g.Go(func() error {
			streams, err := r.call(ctx, pr, key)
			r.record(p, pr, streams, err)
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		r.settle(p, Done)
	}()

	return true
}

// begin resets state for a new pass. Callers hold r.mu.
func (r *Resolver) begin(key stream.Key, providers []provider.Provider) *pass {
	r.current.finish()

	r.gen++
	p := &pass{gen: r.gen, key: key, done: make(chan struct{})}
	r.current = p
	r.inFlight = true
	r.phase = Loading
	r.results = stream.ResultMap{}
	r.statuses = make(map[string]stream.Status, len(providers))
	r.launched = make([]string, 0, len(providers))
	r.response = nil
	r.installed = provider.RegistryOf(providers).Installed()

	started := r.now()
	for _, pr := range providers {
		r.statuses[pr.ID()] = stream.Status{
			ProviderID: pr.ID(),
			Name:       pr.Name(),
			State:      stream.Loading,
			StartedAt:  started,
		}
		r.launched = append(r.launched, pr.ID())
	}

	log.WithContent(key).Infof("querying %d providers", len(providers))
	return p
}

// call runs one provider, converting a panic into an error.
func (r *Resolver) call(ctx context.Context, p provider.Provider, key stream.Key) (streams []stream.Stream, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("provider panicked: %v", rec)
		}
	}()

	if r.providerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.providerTimeout)
		defer cancel()
	}

	return p.FetchStreams(ctx, key)
}

func (r *Resolver) record(p *pass, pr provider.Provider, streams []stream.Stream, err error) {
	r.mu.Lock()

	if p.gen != r.gen {
		r.mu.Unlock()
		log.WithProvider(pr.ID(), p.key).Debug("dropping late answer")
		return
	}

	status := r.statuses[pr.ID()]
	status.CompletedAt = r.now()

	if err != nil {
		status.State = stream.Error
		status.Message = err.Error()
		log.WithProvider(pr.ID(), p.key).WithError(err).Warn("provider failed")
	} else {
		status.State = stream.Success
		if _, seen := r.results[pr.ID()]; !seen {
			r.response = append(r.response, pr.ID())
		}

		owned := stream.CloneAll(streams)
		for i := range owned {
			owned[i].ProviderID = pr.ID()
		}
		r.results[pr.ID()] = stream.Entry{ProviderName: pr.Name(), Streams: rank.Dedupe(owned)}

		if r.phase == StillFetching && r.results.Len() > 0 {
			r.phase = Loading
		}
		log.WithProvider(pr.ID(), p.key).Debugf("%d streams", len(streams))
	}

	r.statuses[pr.ID()] = status
	r.mu.Unlock()
	r.notify()
}

func (r *Resolver) markStillFetching(p *pass) {
	r.mu.Lock()
	if p.gen != r.gen || r.phase != Loading || r.results.Len() > 0 || !r.anyLoading() {
		r.mu.Unlock()
		return
	}
	r.phase = StillFetching
	r.mu.Unlock()
	r.notify()
}

func (r *Resolver) settle(p *pass, phase Phase) {
	r.mu.Lock()
	if p.gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.phase = phase
	r.inFlight = false
	p.finish()
	r.mu.Unlock()

	log.WithContent(p.key).Infof("pass %s", phase)
	r.notify()
}

func (r *Resolver) anyLoading() bool {
	for _, s := range r.statuses {
		if s.State == stream.Loading {
			return true
		}
	}
	return false
}

// notify signals a state change without blocking. Pending signals coalesce.
func (r *Resolver) notify() {
	select {
	case r.updates <- struct{}{}:
	default:
	}
}

// Updates delivers a signal after every state change. Signals coalesce,
// so a reader should take a Snapshot after each receive.
func (r *Resolver) Updates() <-chan struct{} {
	return r.updates
}

// Done returns a channel closed when the current pass settles or is superseded.
func (r *Resolver) Done() <-chan struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.done
}

// Wait blocks until the current pass finishes or ctx is done.
func (r *Resolver) Wait(ctx context.Context) error {
	select {
	case <-r.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset abandons the current pass and returns to Idle.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.current.finish()
	r.gen++
	r.current = &pass{gen: r.gen, done: make(chan struct{})}
	r.current.finish()
	r.inFlight = false
	r.phase = Idle
	r.results = stream.ResultMap{}
	r.statuses = map[string]stream.Status{}
	r.launched = nil
	r.response = nil
	r.installed = nil
	r.mu.Unlock()
	r.notify()
}
