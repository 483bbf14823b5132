// Package probe guesses the container of a stream before it is handed to a player.
package probe

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/reelcast/reelcast/log"
	"github.com/reelcast/reelcast/network"
	"github.com/reelcast/reelcast/stream"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 600 * time.Millisecond

const (
	memoSize = 256
	memoTTL  = 5 * time.Minute
)

// Containers reported by Prober.Container.
const (
	MKV  = "mkv"
	M3U8 = "m3u8"
	MP4  = "mp4"
)

type Option func(*Prober)

// WithTimeout sets the per-probe timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithClient replaces the shared HTTP client.
func WithClient(c *http.Client) Option {
	return func(p *Prober) {
		p.client = c
	}
}

// Disabled turns network probing off; only the URL is inspected.
func Disabled() Option {
	return func(p *Prober) {
		p.disabled = true
	}
}

// Prober issues HEAD requests to detect Matroska streams.
// Concurrent probes of one URL share a request and answers are remembered for a few minutes.
type Prober struct {
	client   *http.Client
	timeout  time.Duration
	disabled bool

	group singleflight.Group
	memo  *expirable.LRU[string, bool]
}

func New(opts ...Option) *Prober {
	p := &Prober{
		client:  network.Client,
		timeout: DefaultTimeout,
		memo:    expirable.NewLRU[string, bool](memoSize, nil, memoTTL),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsMatroska reports whether the server announces a Matroska content type for rawURL.
// Every failure, including a timeout, yields false.
func (p *Prober) IsMatroska(ctx context.Context, rawURL string, headers map[string]string) bool {
	if p.disabled || !isHTTP(rawURL) {
		return false
	}

	if v, ok := p.memo.Get(rawURL); ok {
		return v
	}

	v, _, _ := p.group.Do(rawURL, func() (any, error) {
		ok := p.head(ctx, rawURL, headers)
		if ctx.Err() == nil {
			p.memo.Add(rawURL, ok)
		}
		return ok, nil
	})
	return v.(bool)
}

func (p *Prober) head(ctx context.Context, rawURL string, headers map[string]string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := network.NewRequest(ctx, http.MethodHead, rawURL, nil, headers)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Debugf("probe %s: %s", rawURL, err)
		return false
	}
	defer resp.Body.Close()

	return IsMatroskaType(resp.Header.Get("Content-Type"))
}

// IsMatroskaType reports whether a Content-Type value names Matroska.
func IsMatroskaType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "matroska") || strings.Contains(contentType, "x-matroska")
}

// Container returns the container hint for s: MKV, M3U8, MP4 or empty when unknown.
// The URL and the filename hint are checked first; the network is probed only when both are inconclusive.
func (p *Prober) Container(ctx context.Context, s stream.Stream) string {
	for _, name := range []string{urlPath(s.URL), s.Hints.Filename} {
		if c := byExtension(name); c != "" {
			return c
		}
	}

	if p.IsMatroska(ctx, s.URL, s.Headers) {
		return MKV
	}
	return ""
}

func byExtension(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".mkv":
		return MKV
	case ".m3u8":
		return M3U8
	case ".mp4", ".m4v":
		return MP4
	default:
		return ""
	}
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}

func isHTTP(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
