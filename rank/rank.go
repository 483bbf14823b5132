// Package rank orders streams so the most preferable one comes first.
package rank

import (
	"strings"

	"github.com/reelcast/reelcast/extract"
	"github.com/reelcast/reelcast/stream"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Option tweaks the ordering.
type Option func(*ranker)

// WithPriority inserts a provider priority axis after quality. Higher values come first.
func WithPriority(priority func(providerID string) int) Option {
	return func(r *ranker) {
		r.priority = priority
	}
}

type ranker struct {
	priority func(string) int
}

type keyed struct {
	stream   stream.Stream
	auto     bool
	quality  int
	priority int
	display  string
}

func newRanker(opts []Option) *ranker {
	r := &ranker{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ranker) key(s stream.Stream) keyed {
	k := keyed{
		stream:  s,
		auto:    extract.IsAuto(s.Text()),
		quality: extract.Quality(s.Text()),
		display: strings.ToLower(s.Display()),
	}
	if r.priority != nil {
		k.priority = r.priority(s.ProviderID)
	}
	return k
}

// Rank returns a sorted copy of streams. The input is left untouched.
//
// Adaptive streams come first, then higher quality, then higher provider priority
// when WithPriority is given, then provider id and display name ascending.
// Remaining ties are broken on title and URL, so the result does not depend on input order.
func Rank(streams []stream.Stream, opts ...Option) []stream.Stream {
	r := newRanker(opts)
	keys := lo.Map(streams, func(s stream.Stream, _ int) keyed {
		return r.key(s)
	})

	slices.SortStableFunc(keys, compareKeyed)

	return lo.Map(keys, func(k keyed, _ int) stream.Stream {
		return k.stream
	})
}

// Best returns the first stream under Rank, if any.
func Best(streams []stream.Stream, opts ...Option) (stream.Stream, bool) {
	if len(streams) == 0 {
		return stream.Stream{}, false
	}

	r := newRanker(opts)
	best := r.key(streams[0])
	for _, s := range streams[1:] {
		if k := r.key(s); compareKeyed(k, best) < 0 {
			best = k
		}
	}
	return best.stream, true
}

func compareKeyed(a, b keyed) int {
	switch {
	case a.auto != b.auto:
		if a.auto {
			return -1
		}
		return 1
	case a.quality != b.quality:
		return b.quality - a.quality
	case a.priority != b.priority:
		return b.priority - a.priority
	}

	return firstNonZero(
		strings.Compare(a.stream.ProviderID, b.stream.ProviderID),
		strings.Compare(a.display, b.display),
		strings.Compare(a.stream.Display(), b.stream.Display()),
		strings.Compare(a.stream.Title, b.stream.Title),
		strings.Compare(a.stream.URL, b.stream.URL),
		strings.Compare(a.stream.Description, b.stream.Description),
	)
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
