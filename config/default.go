package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/template"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/reelcast/reelcast/color"
	"github.com/reelcast/reelcast/constant"
	"github.com/reelcast/reelcast/icon"
	"github.com/reelcast/reelcast/key"
	"github.com/reelcast/reelcast/style"
	"github.com/reelcast/reelcast/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is a registered setting.
type Field struct {
	Key         string
	Value       any
	Description string

	// Choices, when set, is the closed set of accepted string values.
	Choices []string
}

// Pretty renders the field for `config info`.
func (f Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env is the environment variable that overrides the field.
func (f Field) Env() string {
	return strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(f.Key))
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string   `json:"key"`
		Value       any      `json:"value"`
		Default     any      `json:"default"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Choices     []string `json:"choices,omitempty"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
		Choices:     f.Choices,
	})
}

func (f Field) typeName() string {
	if f.Value == nil {
		return "unknown"
	}
	return reflect.TypeOf(f.Value).String()
}

// Parse converts command line words into a value of the field's type.
// Single-valued fields use the first word only.
func (f Field) Parse(words []string) (any, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: value is required", f.Key)
	}

	raw := strings.TrimSpace(words[0])

	switch f.Value.(type) {
	case string:
		if len(f.Choices) > 0 && !lo.Contains(f.Choices, raw) {
			return nil, fmt.Errorf("%s: %q is not one of %s", f.Key, raw, strings.Join(f.Choices, ", "))
		}
		return raw, nil
	case int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", f.Key, raw)
		}
		if n < 0 {
			return nil, fmt.Errorf("%s: must not be negative", f.Key)
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q", f.Key, raw)
		}
		return b, nil
	case []string:
		var values []string
		for _, w := range words {
			for _, part := range strings.Split(w, ",") {
				if part = strings.TrimSpace(part); part != "" {
					values = append(values, part)
				}
			}
		}
		return values, nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %s", f.Key, f.typeName())
	}
}

// UnknownKeyError is returned by Lookup for unregistered keys.
type UnknownKeyError struct {
	Key     string
	Closest string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(e.Key),
		style.Fg(color.Yellow)(e.Closest),
	)
}

// Lookup returns the field registered under k.
func Lookup(k string) (Field, error) {
	if f, ok := Default[k]; ok {
		return f, nil
	}

	closest := lo.MinBy(Keys(), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
	return Field{}, &UnknownKeyError{Key: k, Closest: closest}
}

// Keys lists registered keys in order.
func Keys() []string {
	keys := lo.Keys(Default)
	sort.Strings(keys)
	return keys
}

// Envs lists every environment variable the application reads, sorted.
func Envs() []string {
	envs := []string{where.EnvConfigPath}
	for _, k := range EnvExposed {
		envs = append(envs, Default[k].Env())
	}
	sort.Strings(envs)
	return envs
}

// Default holds every registered field by key.
var Default = make(map[string]Field)

// EnvExposed lists keys bound to environment variables.
var EnvExposed []string

type option func(*Field)

func oneOf(choices ...string) option {
	return func(f *Field) { f.Choices = choices }
}

func register(k string, v any, desc string, opts ...option) {
	if _, exists := Default[k]; exists {
		panic("config: duplicate key " + k)
	}

	f := Field{Key: k, Value: v, Description: desc}
	for _, opt := range opts {
		opt(&f)
	}

	Default[k] = f
	EnvExposed = append(EnvExposed, k)
}

func init() {
	register(key.SourcesInstalled, []string{}, "Providers treated as installed addons, in priority order.\nTheir streams are listed first and are never filtered.\nType \"reelcast sources list\" to show available sources")
	register(key.SourcesPluginsEnabled, true, "Query local Lua scrapers in addition to installed addons")
	register(key.StreamsExcludedQualities, []string{}, "Qualities to hide from scraper results.\nUse \"Auto\" to hide adaptive streams, any other value is matched as text")
	register(key.StreamsExcludedLanguages, []string{}, "Languages to hide from scraper results (e.g. spanish, latin, german)")
	register(key.StreamsSortMode, constant.SortQualityThenScraper, "How scraper results are ordered",
		oneOf(constant.SortQualityThenScraper, constant.SortScraperOrder))
	register(key.StreamsDisplayMode, constant.DisplayPerProvider, "How streams are grouped",
		oneOf(constant.DisplayPerProvider, constant.DisplayGrouped))
	register(key.StreamsProviderTimeout, 0, "Seconds to wait for a single provider before giving up on it. 0 disables the limit")
	register(key.ResolveStillFetchingAfter, 10000, "Milliseconds after which an empty result set is reported as still fetching")
	register(key.ResolveNoSourcesDebounce, 500, "Milliseconds to wait before reporting that no providers are available")
	register(key.AutoplayEnable, false, "Play the best stream automatically once providers settle")
	register(key.AutoplayTimeout, 20, "Seconds to wait for providers before autoplay picks from what has arrived")
	register(key.ProbeEnable, true, "Probe stream containers before playback")
	register(key.ProbeTimeout, 600, "Milliseconds allowed for a container probe")
	register(key.CacheTTL, 3600, "Seconds a resolved stream stays valid for --resume")
	register(key.SearchShowQuerySuggestions, true, "Suggest previously resolved content ids in shell completion")
	register(key.IconsVariant, "plain", "Icons variant. nerd requires a nerd font",
		oneOf(icon.AvailableVariants()...))
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "From least to most verbose",
		oneOf("panic", "fatal", "error", "warn", "info", "debug", "trace"))
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.Player, "mpv", "Media player used for playback", oneOf("mpv", "iina"))
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"blue":     style.Fg(color.Blue),
	"purple":   style.Fg(color.Purple),
	"value":    func(k string) any { return viper.Get(k) },
	"join":     strings.Join,
	"typename": func(f Field) string { return f.typeName() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			if value {
				return style.Fg(color.Green)("true")
			}
			return style.Fg(color.Red)("false")
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl .Value }}
{{ blue "Type:" }}    {{ typename . }}{{ if .Choices }}
{{ blue "Choices:" }} {{ join .Choices ", " }}{{ end }}`))
