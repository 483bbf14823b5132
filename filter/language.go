package filter

import (
	"strings"

	"github.com/samber/lo"
)

// synonyms lists the spellings that identify a language in release names.
// Short codes are kept to the ones release groups actually use.
var synonyms = map[string][]string{
	"latin":      {"latino", "latina", "lat"},
	"spanish":    {"español", "espanol", "spa"},
	"german":     {"deutsch", "ger"},
	"french":     {"français", "francais", "vff", "vostfr", "truefrench"},
	"portuguese": {"português", "portugues", "dublado"},
	"italian":    {"italiano", "ita"},
	"english":    {"eng"},
	"japanese":   {"jpn", "japanese"},
	"korean":     {"kor"},
	"chinese":    {"mandarin", "cantonese", "chi"},
	"arabic":     {"ara"},
	"russian":    {"rus"},
	"turkish":    {"türkçe", "turkce", "tur"},
	"hindi":      {"hin"},
}

// Synonyms returns the lowercase terms that identify lang, lang itself included.
// Unknown languages match only by their own name.
func Synonyms(lang string) []string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return nil
	}

	return lo.Uniq(append([]string{lang}, synonyms[lang]...))
}
