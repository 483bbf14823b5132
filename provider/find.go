package provider

import (
	"fmt"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Find looks a provider up by id or display name: exact match first, then a unique fuzzy match.
// On failure the error suggests the closest id.
func Find(ps []Provider, query string) (Provider, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	if p, ok := lo.Find(ps, func(p Provider) bool {
		return strings.ToLower(p.ID()) == q || strings.ToLower(p.Name()) == q
	}); ok {
		return p, nil
	}

	matches := lo.Filter(ps, func(p Provider, _ int) bool {
		return fuzzy.MatchNormalizedFold(q, p.ID()) || fuzzy.MatchNormalizedFold(q, p.Name())
	})
	if len(matches) == 1 {
		return matches[0], nil
	}

	if len(ps) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, query)
	}

	closest := lo.MinBy(ps, func(a, b Provider) bool {
		return levenshtein.Distance(q, a.ID()) < levenshtein.Distance(q, b.ID())
	})
	return nil, fmt.Errorf("%w: %s, did you mean %s?", ErrNotFound, query, closest.ID())
}
