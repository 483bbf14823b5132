package extract

import (
	"github.com/MunifTanjim/go-ptt"
	"github.com/reelcast/reelcast/stream"
)

// Details is release metadata parsed from the title. It is shown to the user
// and never influences filtering or ordering.
type Details struct {
	Codec     string   `json:"codec,omitempty"`
	Audio     []string `json:"audio,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Group     string   `json:"group,omitempty"`
	Container string   `json:"container,omitempty"`
}

// ParseDetails runs the release-title parser over the stream title, or the filename hint when the title is empty.
func ParseDetails(s stream.Stream) Details {
	title := s.Title
	if title == "" {
		title = s.Hints.Filename
	}
	if title == "" {
		return Details{}
	}

	info := ptt.Parse(title)
	if info == nil {
		return Details{}
	}

	return Details{
		Codec:     info.Codec,
		Audio:     info.Audio,
		Languages: info.Languages,
		Group:     info.Group,
		Container: info.Container,
	}
}
