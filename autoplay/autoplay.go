// Package autoplay picks the single best stream to start without asking the user.
package autoplay

import (
	"github.com/reelcast/reelcast/filter"
	"github.com/reelcast/reelcast/prefs"
	"github.com/reelcast/reelcast/provider"
	"github.com/reelcast/reelcast/rank"
	"github.com/reelcast/reelcast/stream"
	"github.com/samber/mo"
)

// SelectBest returns the first stream of the ranked, filtered pool of every provider's results.
// Providers earlier in installed outrank later ones and plugins at equal quality.
// Unlike section building, installed results are filtered here too.
func SelectBest(results stream.ResultMap, p prefs.Preferences, installed []provider.Info) mo.Option[stream.Stream] {
	var pool []stream.Stream
	for _, id := range results.IDs() {
		pool = append(pool, filter.Apply(results[id].Streams, p)...)
	}

	best, ok := rank.Best(pool, rank.WithPriority(Priority(installed)))
	if !ok {
		return mo.None[stream.Stream]()
	}
	return mo.Some(best.Clone())
}

// Priority returns the provider priority used by SelectBest.
func Priority(installed []provider.Info) func(string) int {
	return provider.NewRegistry(installed...).Priority
}
