// Package provider defines the capability every stream source implements and
// assembles the set of providers a resolution pass runs against.
package provider

import (
	"context"
	"errors"

	"github.com/reelcast/reelcast/stream"
)

// ErrNotFound is returned when no provider matches a lookup.
var ErrNotFound = errors.New("provider not found")

// Kind separates trusted, installed providers from auxiliary scraper plugins.
type Kind int

const (
	// KindAddon providers are installed by the user. Their results are listed first and never filtered.
	KindAddon Kind = iota
	// KindScraper providers are plugins. Their results are filtered and ranked.
	KindScraper
)

func (k Kind) String() string {
	if k == KindAddon {
		return "addon"
	}
	return "scraper"
}

// Provider produces streams for a content key.
type Provider interface {
	ID() string
	Name() string
	Kind() Kind
	FetchStreams(ctx context.Context, key stream.Key) ([]stream.Stream, error)
}

// Info is the display identity of a provider.
type Info struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo,omitempty"`
}

// InfoOf returns the display identity of p.
func InfoOf(p Provider) Info {
	info := Info{ID: p.ID(), Name: p.Name()}
	if l, ok := p.(interface{ Logo() string }); ok {
		info.LogoURL = l.Logo()
	}
	return info
}

// FetchFunc is the signature of a provider call.
type FetchFunc func(ctx context.Context, key stream.Key) ([]stream.Stream, error)

// Func adapts a function into a Provider.
type Func struct {
	id, name, logo string
	kind           Kind
	fetch          FetchFunc
}

// NewAddon returns an installed provider backed by fetch.
func NewAddon(id, name string, fetch FetchFunc) *Func {
	return &Func{id: id, name: name, kind: KindAddon, fetch: fetch}
}

// NewScraper returns a plugin provider backed by fetch.
func NewScraper(id, name string, fetch FetchFunc) *Func {
	return &Func{id: id, name: name, kind: KindScraper, fetch: fetch}
}

// WithLogo sets the logo shown next to the provider's section.
func (f *Func) WithLogo(url string) *Func {
	f.logo = url
	return f
}

func (f *Func) ID() string   { return f.id }
func (f *Func) Name() string { return f.name }
func (f *Func) Kind() Kind   { return f.kind }
func (f *Func) Logo() string { return f.logo }

func (f *Func) FetchStreams(ctx context.Context, key stream.Key) ([]stream.Stream, error) {
	return f.fetch(ctx, key)
}

func (f *Func) String() string {
	return f.name
}
