// Package prefs snapshots the user's stream preferences from the settings store.
package prefs

import (
	"time"

	"github.com/reelcast/reelcast/constant"
	"github.com/reelcast/reelcast/key"
	"github.com/spf13/viper"
)

// SortMode controls how scraper results are ordered.
type SortMode string

const (
	QualityThenScraper SortMode = constant.SortQualityThenScraper
	ScraperOrder       SortMode = constant.SortScraperOrder
)

// DisplayMode controls how streams are grouped into sections.
type DisplayMode string

const (
	PerProvider DisplayMode = constant.DisplayPerProvider
	Grouped     DisplayMode = constant.DisplayGrouped
)

// Preferences is an immutable snapshot of the settings that shape a stream listing.
type Preferences struct {
	ExcludedQualities  []string
	ExcludedLanguages  []string
	SortMode           SortMode
	DisplayMode        DisplayMode
	AutoplayBestStream bool
	AutoplayTimeout    time.Duration
}

// Default returns the preferences used when nothing is configured.
func Default() Preferences {
	return Preferences{
		SortMode:        QualityThenScraper,
		DisplayMode:     PerProvider,
		AutoplayTimeout: 20 * time.Second,
	}
}

// FromConfig reads the current settings. Unknown modes fall back to their defaults.
func FromConfig() Preferences {
	p := Default()
	p.ExcludedQualities = viper.GetStringSlice(key.StreamsExcludedQualities)
	p.ExcludedLanguages = viper.GetStringSlice(key.StreamsExcludedLanguages)
	p.AutoplayBestStream = viper.GetBool(key.AutoplayEnable)

	if mode := SortMode(viper.GetString(key.StreamsSortMode)); mode.Valid() {
		p.SortMode = mode
	}

	if mode := DisplayMode(viper.GetString(key.StreamsDisplayMode)); mode.Valid() {
		p.DisplayMode = mode
	}

	if secs := viper.GetInt(key.AutoplayTimeout); secs > 0 {
		p.AutoplayTimeout = time.Duration(secs) * time.Second
	}

	return p
}

// Valid reports whether m is a known sort mode.
func (m SortMode) Valid() bool {
	return m == QualityThenScraper || m == ScraperOrder
}

// Valid reports whether m is a known display mode.
func (m DisplayMode) Valid() bool {
	return m == PerProvider || m == Grouped
}
