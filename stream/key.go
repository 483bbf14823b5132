package stream

import "strings"

// Key identifies what is being resolved.
type Key struct {
	ContentID   string `json:"content_id"`
	ContentType string `json:"content_type"`
	EpisodeID   string `json:"episode_id,omitempty"`
}

// String renders the key in a stable form suitable for cache and suggestion lookups.
func (k Key) String() string {
	parts := []string{k.ContentType, k.ContentID}
	if k.EpisodeID != "" {
		parts = append(parts, k.EpisodeID)
	}
	return strings.Join(parts, ":")
}

// IsZero reports whether the key names no content.
func (k Key) IsZero() bool {
	return k.ContentID == ""
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, bool) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 || parts[1] == "" {
		return Key{}, false
	}

	k := Key{ContentType: parts[0], ContentID: parts[1]}
	if len(parts) == 3 {
		k.EpisodeID = parts[2]
	}
	return k, true
}
