package style

import "github.com/charmbracelet/lipgloss"

// Palette used by boxed messages and the stream listing.
var (
	Text    = lipgloss.Color("#cdd6f4")
	Overlay = lipgloss.Color("#6c7086")
	Red     = lipgloss.Color("#f38ba8")
	Peach   = lipgloss.Color("#fab387")
	Mauve   = lipgloss.Color("#cba6f7")
)
