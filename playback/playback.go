// Package playback prepares a picked stream and hands it to an external media player.
package playback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/reelcast/reelcast/stream"
)

// ErrUnsupportedStream is returned for streams no player can open directly, such as magnet links.
var ErrUnsupportedStream = errors.New("unsupported stream")

// Handoff is everything a player needs to start a stream.
type Handoff struct {
	URL       string            `json:"url"`
	Headers   map[string]string `json:"headers,omitempty"`
	Container string            `json:"container,omitempty"`
	Title     string            `json:"title"`
}

// Matroska reports whether the container hint names Matroska.
func (h Handoff) Matroska() bool {
	return h.Container == "mkv"
}

// ContainerProber guesses the container of a stream. It is satisfied by *probe.Prober.
type ContainerProber interface {
	Container(ctx context.Context, s stream.Stream) string
}

// Prepare builds the handoff for s. prober may be nil, in which case no container hint is attached.
func Prepare(ctx context.Context, s stream.Stream, prober ContainerProber) (Handoff, error) {
	if s.IsMagnet() {
		return Handoff{}, fmt.Errorf("%w: magnet links need a torrent client", ErrUnsupportedStream)
	}
	if strings.TrimSpace(s.URL) == "" {
		return Handoff{}, fmt.Errorf("%w: empty url", ErrUnsupportedStream)
	}

	s = s.Clone()
	h := Handoff{
		URL:     s.URL,
		Headers: s.Headers,
		Title:   title(s),
	}
	if prober != nil {
		h.Container = prober.Container(ctx, s)
	}
	return h, nil
}

func title(s stream.Stream) string {
	if s.Hints.Filename != "" {
		return s.Hints.Filename
	}
	if t := strings.TrimSpace(s.Title); t != "" {
		return strings.SplitN(t, "\n", 2)[0]
	}
	return s.Display()
}

// Player launches a media player for a handoff.
type Player interface {
	Play(h Handoff) error
}

// New returns the player registered under name.
func New(name string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mpv", "":
		return NewMPV(), nil
	case "iina":
		return NewIINA(), nil
	default:
		return nil, fmt.Errorf("unknown player %q, available: mpv, iina", name)
	}
}
