package rank

import (
	"strings"

	"github.com/reelcast/reelcast/stream"
	"github.com/samber/lo"
)

// Dedupe drops streams whose URL was already seen, keeping the first occurrence and the original order.
func Dedupe(streams []stream.Stream) []stream.Stream {
	return lo.UniqBy(streams, func(s stream.Stream) string {
		return strings.TrimSpace(s.URL)
	})
}
