// Package extract derives display and ranking attributes from a stream's free-text fields.
//
// Extraction is best-effort: labels it does not recognise yield zero values, never errors.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/reelcast/reelcast/stream"
	"github.com/samber/mo"
)

var (
	fourK       = regexp.MustCompile(`(?i)\b4k\b`)
	progressive = regexp.MustCompile(`(?i)\b(\d{3,4})p\b`)
	bareHeight  = regexp.MustCompile(`\b(240|360|480|720|1080|1440|2160|4320|8000)\b`)
	hdr         = regexp.MustCompile(`(?i)hdr`)
	dolby       = regexp.MustCompile(`(?i)dolby`)
	dolbyVision = regexp.MustCompile(`\bDV\b`)
	auto        = regexp.MustCompile(`(?i)\b(auto|adaptive)\b`)
	sizeToken   = regexp.MustCompile(`💾\s*([\d.,]+\s*[KMGT]?B)`)
	debrid      = regexp.MustCompile(`\[(RD|AD|PM|TB|DL|ED|OC)\+\]|⚡`)
)

// Attributes are the values derived from one stream.
type Attributes struct {
	Quality int               `json:"quality"`
	HDR     bool              `json:"hdr"`
	Dolby   bool              `json:"dolby"`
	Size    mo.Option[string] `json:"size"`
	Cached  bool              `json:"cached"`
	Auto    bool              `json:"auto"`
	Details Details           `json:"details"`
}

// Extract computes the attributes of s.
func Extract(s stream.Stream) Attributes {
	text := s.Text()
	return Attributes{
		Quality: Quality(text),
		HDR:     hdr.MatchString(text),
		Dolby:   dolby.MatchString(text) || dolbyVision.MatchString(text),
		Size:    Size(s),
		Cached:  IsCached(s),
		Auto:    IsAuto(text),
		Details: ParseDetails(s),
	}
}

// Quality returns the vertical resolution named in text, or 0 when none is found.
// "4k" wins over everything, then an explicit "<n>p", then a bare standard height.
func Quality(text string) int {
	if fourK.MatchString(text) {
		return 2160
	}

	if m := progressive.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}

	if m := bareHeight.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}

	return 0
}

// IsAuto reports whether text names an adaptive stream.
func IsAuto(text string) bool {
	return auto.MatchString(text)
}

// IsCached reports whether a debrid service already holds the stream.
func IsCached(s stream.Stream) bool {
	return s.Cached || s.Hints.Cached || debrid.MatchString(s.Name)
}

// Size renders the stream size, from SizeBytes when present, otherwise from a "💾 <n><unit>" title token.
func Size(s stream.Stream) mo.Option[string] {
	if s.SizeBytes > 0 {
		return mo.Some(FormatBytes(s.SizeBytes))
	}

	if m := sizeToken.FindStringSubmatch(s.Title); m != nil {
		return mo.Some(strings.Join(strings.Fields(m[1]), " "))
	}

	return mo.None[string]()
}

var units = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatBytes renders n in base-1024 units with two decimals.
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}

	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}

	return fmt.Sprintf("%.2f %s", value, units[unit])
}
