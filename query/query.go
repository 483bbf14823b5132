// Package query remembers resolved content so the CLI can complete content IDs.
package query

import (
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/reelcast/reelcast/filesystem"
	"github.com/reelcast/reelcast/key"
	"github.com/reelcast/reelcast/stream"
	"github.com/reelcast/reelcast/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type queryRecord struct {
	Rank        int    `json:"rank"`
	ContentID   string `json:"content_id"`
	ContentType string `json:"content_type"`
}

var cacher = gache.New[map[string]*queryRecord](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var (
	mu              sync.Mutex
	suggestionCache = make(map[string][]*queryRecord)
)

// Remember records that k was resolved, adding weight to its rank.
func Remember(k stream.Key, weight int) error {
	id := sanitize(k.ContentID)
	if id == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*queryRecord)
	}

	if record, ok := cached[id]; ok {
		record.Rank += weight
		record.ContentType = k.ContentType
	} else {
		cached[id] = &queryRecord{Rank: weight, ContentID: id, ContentType: k.ContentType}
	}

	suggestionCache = make(map[string][]*queryRecord)
	return cacher.Set(cached)
}

// Suggest returns the best remembered content ID for a partial input.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns remembered content IDs matching the partial input, most resolved first.
func SuggestMany(q string) []string {
	return lo.Map(records(q), func(r *queryRecord, _ int) string {
		return r.ContentID
	})
}

// TypeOf returns the content type last resolved for id.
func TypeOf(id string) mo.Option[string] {
	id = sanitize(id)
	for _, r := range records(id) {
		if r.ContentID == id && r.ContentType != "" {
			return mo.Some(r.ContentType)
		}
	}
	return mo.None[string]()
}

func records(q string) []*queryRecord {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return nil
	}

	q = sanitize(q)

	mu.Lock()
	defer mu.Unlock()

	if prev, ok := suggestionCache[q]; ok {
		return prev
	}

	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		return nil
	}

	var records []*queryRecord
	for _, record := range cached {
		if fuzzy.Match(q, record.ContentID) {
			records = append(records, record)
		}
	}

	slices.SortFunc(records, func(a, b *queryRecord) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return strings.Compare(a.ContentID, b.ContentID)
	})

	suggestionCache[q] = records
	return records
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
