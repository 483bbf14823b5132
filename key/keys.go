// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Provider Sources - these keys manage which providers are trusted and which plugins run.
const (
	SourcesInstalled      = "sources.installed"
	SourcesPluginsEnabled = "sources.plugins_enabled"
)

// Stream Preferences - these keys shape what the stream listing shows and in which order.
const (
	StreamsExcludedQualities = "streams.excluded_qualities"
	StreamsExcludedLanguages = "streams.excluded_languages"
	StreamsSortMode          = "streams.sort_mode"
	StreamsDisplayMode       = "streams.display_mode"
	StreamsProviderTimeout   = "streams.provider_timeout"
)

// Resolution Lifecycle - timing of the loading indicators.
const (
	ResolveStillFetchingAfter = "resolve.still_fetching_after"
	ResolveNoSourcesDebounce  = "resolve.no_sources_debounce"
)

// Autoplay.
const (
	AutoplayEnable  = "autoplay.enable"
	AutoplayTimeout = "autoplay.timeout"
)

// Format Probing - these keys control the pre-playback container check.
const (
	ProbeEnable  = "probe.enable"
	ProbeTimeout = "probe.timeout"
)

// Result Cache.
const (
	CacheTTL = "cache.ttl"
)

// Search Interaction - these keys define suggestions shown for previously resolved content.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Media Playback.
const (
	Player = "player.default"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the application's command-line behavior.
const (
	CliColored = "cli.colored"
)
