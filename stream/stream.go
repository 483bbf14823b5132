// Package stream holds the data shared by every stage of resolution: stream descriptors,
// content keys, per-provider results and provider lifecycle status.
package stream

import (
	"strings"

	"github.com/samber/lo"
)

// Hints carries optional behaviour flags a provider may attach to a stream.
type Hints struct {
	Cached     bool   `json:"cached,omitempty"`
	Filename   string `json:"filename,omitempty"`
	BingeGroup string `json:"binge_group,omitempty"`
}

// Stream is one playable candidate as returned by a provider.
// Streams are treated as values: nothing downstream mutates a received stream.
type Stream struct {
	URL         string            `json:"url" jsonschema:"description=Playable locator (http, https or magnet)"`
	Name        string            `json:"name,omitempty" jsonschema:"description=Short label, often carrying quality or provider tags"`
	Title       string            `json:"title,omitempty" jsonschema:"description=Release title"`
	Description string            `json:"description,omitempty"`
	ProviderID  string            `json:"provider_id"`
	SizeBytes   int64             `json:"size_bytes,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Cached      bool              `json:"cached,omitempty"`
	Hints       Hints             `json:"hints"`
}

// Display returns the label used for ordering and listing: Name, or Title when Name is empty.
func (s Stream) Display() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Title
}

// Text returns the fields that carry quality and release information.
func (s Stream) Text() string {
	return s.Name + " " + s.Title
}

// Searchable returns every descriptive field joined for substring matching.
func (s Stream) Searchable() string {
	return s.Name + " " + s.Title + " " + s.Description
}

// IsMagnet reports whether the stream is a torrent magnet link.
func (s Stream) IsMagnet() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(s.URL)), "magnet:")
}

// Clone returns a copy that does not share the header map.
func (s Stream) Clone() Stream {
	if s.Headers != nil {
		s.Headers = lo.Assign(s.Headers)
	}
	return s
}

// CloneAll copies a slice of streams.
func CloneAll(streams []Stream) []Stream {
	if streams == nil {
		return nil
	}
	return lo.Map(streams, func(s Stream, _ int) Stream {
		return s.Clone()
	})
}
