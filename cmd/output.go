package cmd

import (
	"encoding/json"
	"io"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/reelcast/reelcast/autoplay"
	"github.com/reelcast/reelcast/extract"
	"github.com/reelcast/reelcast/prefs"
	"github.com/reelcast/reelcast/provider"
	"github.com/reelcast/reelcast/resolve"
	"github.com/reelcast/reelcast/section"
	"github.com/reelcast/reelcast/stream"
	"github.com/samber/lo"
)

// Output is what "resolve --json" prints.
type Output struct {
	Key      stream.Key      `json:"key"`
	CacheKey string          `json:"cache_key"`
	Phase    string          `json:"phase"`
	Sections []OutputSection `json:"sections"`
	Failed   []stream.Status `json:"failed,omitempty"`
	Best     *OutputStream   `json:"best,omitempty"`
}

type OutputSection struct {
	Title      string         `json:"title"`
	ProviderID string         `json:"provider_id"`
	Installed  bool           `json:"installed"`
	Streams    []OutputStream `json:"streams"`
}

type OutputStream struct {
	stream.Stream
	Quality string          `json:"quality"`
	HDR     bool            `json:"hdr"`
	Dolby   bool            `json:"dolby"`
	Cached  bool            `json:"cached"`
	Size    string          `json:"size,omitempty"`
	Details extract.Details `json:"details"`
}

func newOutputStream(s stream.Stream) OutputStream {
	a := extract.Extract(s)
	return OutputStream{
		Stream:  s,
		Quality: qualityLabel(a),
		HDR:     a.HDR,
		Dolby:   a.Dolby,
		Cached:  a.Cached,
		Size:    a.Size.OrEmpty(),
		Details: a.Details,
	}
}

func newOutput(snap resolve.Snapshot, sections []section.Section, p prefs.Preferences) Output {
	registry := provider.NewRegistry(snap.Installed...)

	out := Output{
		Key:      snap.Key,
		CacheKey: snap.Key.String(),
		Phase:    snap.Phase.String(),
		Failed:   snap.Failed(),
		Sections: lo.Map(sections, func(sec section.Section, _ int) OutputSection {
			return OutputSection{
				Title:      sec.Title,
				ProviderID: sec.ProviderID,
				Installed:  registry.IsInstalled(sec.ProviderID),
				Streams:    lo.Map(sec.Data, func(s stream.Stream, _ int) OutputStream { return newOutputStream(s) }),
			}
		}),
	}

	if best, ok := autoplay.SelectBest(snap.Results, p, snap.Installed).Get(); ok {
		o := newOutputStream(best)
		out.Best = &o
	}

	return out
}

func printJSON(w io.Writer, snap resolve.Snapshot, sections []section.Section, p prefs.Preferences) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newOutput(snap, sections, p))
}

func printSchema(w io.Writer) error {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return t.Name()
	}

	return json.NewEncoder(w).Encode(reflector.Reflect(&Output{}))
}
