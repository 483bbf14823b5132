// Package filter removes streams the user has excluded by quality or language.
package filter

import (
	"regexp"
	"strings"

	"github.com/reelcast/reelcast/constant"
	"github.com/reelcast/reelcast/prefs"
	"github.com/reelcast/reelcast/stream"
	"github.com/samber/lo"
)

var autoPattern = regexp.MustCompile(`(?i)\b(auto|adaptive)\b`)

type matcher func(stream.Stream) bool

// Filter returns the streams that match none of the exclusions, in their original order.
// With both exclusion lists empty the input is returned unchanged.
func Filter(streams []stream.Stream, excludedQualities, excludedLanguages []string) []stream.Stream {
	matchers := append(qualityMatchers(excludedQualities), languageMatchers(excludedLanguages)...)
	if len(matchers) == 0 {
		return streams
	}

	return lo.Filter(streams, func(s stream.Stream, _ int) bool {
		return !lo.SomeBy(matchers, func(excluded matcher) bool {
			return excluded(s)
		})
	})
}

// Apply filters with the exclusions held in p.
func Apply(streams []stream.Stream, p prefs.Preferences) []stream.Stream {
	return Filter(streams, p.ExcludedQualities, p.ExcludedLanguages)
}

func qualityMatchers(excluded []string) []matcher {
	return lo.FilterMap(excluded, func(q string, _ int) (matcher, bool) {
		q = strings.TrimSpace(q)
		if q == "" {
			return nil, false
		}

		if strings.EqualFold(q, constant.AutoQuality) {
			return func(s stream.Stream) bool {
				return autoPattern.MatchString(s.Text())
			}, true
		}

		pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(q))
		return func(s stream.Stream) bool {
			return pattern.MatchString(s.Text())
		}, true
	})
}

func languageMatchers(excluded []string) []matcher {
	return lo.FilterMap(excluded, func(lang string, _ int) (matcher, bool) {
		terms := Synonyms(lang)
		if len(terms) == 0 {
			return nil, false
		}

		return func(s stream.Stream) bool {
			text := strings.ToLower(s.Searchable())
			return lo.SomeBy(terms, func(term string) bool {
				return strings.Contains(text, term)
			})
		}, true
	})
}
