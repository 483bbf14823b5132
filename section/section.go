// Package section turns a result map into the titled lists shown to the user.
package section

import (
	"github.com/reelcast/reelcast/constant"
	"github.com/reelcast/reelcast/filter"
	"github.com/reelcast/reelcast/prefs"
	"github.com/reelcast/reelcast/provider"
	"github.com/reelcast/reelcast/rank"
	"github.com/reelcast/reelcast/stream"
	"github.com/samber/lo"
)

// Section is one titled list of streams.
type Section struct {
	Title      string          `json:"title"`
	ProviderID string          `json:"provider_id"`
	Data       []stream.Stream `json:"data"`
}

// Order carries the two orderings sections follow: install order for installed providers
// and arrival order for everything else.
type Order struct {
	Installed []provider.Info
	Response  []string
}

// Build produces the sections for results under p.
//
// Installed providers are listed first, in install order, without filtering or re-ranking.
// Plugin providers follow with the user's exclusions applied, ranked when the sort mode asks for it.
// Empty sections are omitted.
func Build(results stream.ResultMap, p prefs.Preferences, order Order) []Section {
	if p.DisplayMode == prefs.Grouped {
		return grouped(results, p, order)
	}
	return perProvider(results, p, order)
}

func perProvider(results stream.ResultMap, p prefs.Preferences, order Order) []Section {
	var sections []Section

	for _, info := range order.Installed {
		entry, ok := results[info.ID]
		if !ok || len(entry.Streams) == 0 {
			continue
		}
		sections = append(sections, Section{
			Title:      title(entry, info.Name, info.ID),
			ProviderID: info.ID,
			Data:       stream.CloneAll(entry.Streams),
		})
	}

	for _, id := range pluginOrder(results, order) {
		entry := results[id]
		data := plugin(entry.Streams, p)
		if len(data) == 0 {
			continue
		}
		sections = append(sections, Section{
			Title:      title(entry, "", id),
			ProviderID: id,
			Data:       data,
		})
	}

	return sections
}

func grouped(results stream.ResultMap, p prefs.Preferences, order Order) []Section {
	installedIDs := lo.Map(order.Installed, func(i provider.Info, _ int) string { return i.ID })

	data := stream.CloneAll(results.Flatten(installedIDs))
	data = append(data, plugin(results.Flatten(pluginOrder(results, order)), p)...)

	if len(data) == 0 {
		return nil
	}

	return []Section{{
		Title:      constant.GroupedSectionTitle,
		ProviderID: constant.GroupedSectionID,
		Data:       data,
	}}
}

// plugin applies the exclusions and, in quality-then-scraper mode, the ranking.
func plugin(streams []stream.Stream, p prefs.Preferences) []stream.Stream {
	data := stream.CloneAll(filter.Apply(streams, p))
	if p.SortMode == prefs.QualityThenScraper {
		data = rank.Rank(data)
	}
	return data
}

// pluginOrder lists non-installed providers in arrival order, then any
// remaining ones (absent from the response order) by id.
func pluginOrder(results stream.ResultMap, order Order) []string {
	installed := lo.SliceToMap(order.Installed, func(i provider.Info) (string, bool) { return i.ID, true })

	seen := map[string]bool{}
	var ids []string
	for _, id := range append(append([]string(nil), order.Response...), results.IDs()...) {
		if installed[id] || seen[id] {
			continue
		}
		if _, ok := results[id]; !ok {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func title(entry stream.Entry, fallbacks ...string) string {
	if entry.ProviderName != "" {
		return entry.ProviderName
	}
	for _, f := range fallbacks {
		if f != "" {
			return f
		}
	}
	return ""
}
