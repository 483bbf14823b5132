// Package icon renders status symbols in the variant chosen with icons.variant.
package icon

import (
	"strings"

	"github.com/reelcast/reelcast/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists the accepted icons.variant values.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) render(variant string) string {
	switch strings.ToLower(strings.TrimSpace(variant)) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return d.plain
	}
}

// Get renders i in the configured variant. Unknown variants render as plain text.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.render(viper.GetString(key.IconsVariant))
}

// Kind returns the icon tagging a provider kind: "addon" or "scraper".
func Kind(kind string) string {
	if kind == "addon" {
		return Get(Addon)
	}
	return Get(Scraper)
}
