package stream

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Entry is what one provider returned.
type Entry struct {
	ProviderName string   `json:"provider_name"`
	Streams      []Stream `json:"streams"`
}

// ResultMap maps provider IDs to their entries.
type ResultMap map[string]Entry

// Clone returns a deep copy.
func (m ResultMap) Clone() ResultMap {
	out := make(ResultMap, len(m))
	for id, e := range m {
		out[id] = Entry{ProviderName: e.ProviderName, Streams: CloneAll(e.Streams)}
	}
	return out
}

// Len counts streams across all providers.
func (m ResultMap) Len() int {
	return lo.SumBy(lo.Values(m), func(e Entry) int {
		return len(e.Streams)
	})
}

// IDs returns provider IDs in ascending order.
func (m ResultMap) IDs() []string {
	ids := lo.Keys(m)
	slices.Sort(ids)
	return ids
}

// Flatten concatenates the streams of the given providers in order.
// IDs missing from the map are skipped.
func (m ResultMap) Flatten(order []string) []Stream {
	var out []Stream
	for _, id := range order {
		if e, ok := m[id]; ok {
			out = append(out, e.Streams...)
		}
	}
	return out
}
