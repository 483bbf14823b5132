package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/reelcast/reelcast/color"
	"github.com/reelcast/reelcast/constant"
	"github.com/reelcast/reelcast/extract"
	"github.com/reelcast/reelcast/icon"
	"github.com/reelcast/reelcast/section"
	"github.com/reelcast/reelcast/stream"
	"github.com/reelcast/reelcast/style"
	"github.com/samber/lo"
)

var (
	qualityTag = style.Tag(color.New("230"), color.New("62"))
	hdrTag     = style.Tag(style.Text, style.Mauve)
	sizeStyle  = style.Fg(style.Overlay)
	indexStyle = style.Fg(color.HiBlack)
)

func qualityLabel(a extract.Attributes) string {
	switch {
	case a.Auto:
		return constant.AutoQuality
	case a.Quality > 0:
		return fmt.Sprintf("%dp", a.Quality)
	default:
		return "?"
	}
}

// firstLine returns the first non-empty line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// describe is the one-line label of s used in prompts and messages.
func describe(s stream.Stream) string {
	a := extract.Extract(s)

	parts := []string{qualityLabel(a)}
	if a.HDR {
		parts = append(parts, "HDR")
	}
	if size, ok := a.Size.Get(); ok {
		parts = append(parts, size)
	}
	if a.Cached {
		parts = append(parts, icon.Get(icon.Cached))
	}
	if title := firstLine(s.Title); title != "" {
		parts = append(parts, title)
	} else {
		parts = append(parts, firstLine(s.Name))
	}

	return strings.Join(lo.Compact(parts), " ")
}

func renderStream(i int, s stream.Stream, width int) string {
	a := extract.Extract(s)

	var b strings.Builder
	b.WriteString(indexStyle(fmt.Sprintf("%3d.", i)))
	b.WriteString(" ")
	b.WriteString(qualityTag(qualityLabel(a)))

	if a.HDR {
		b.WriteString(" ")
		b.WriteString(hdrTag("HDR"))
	}
	if a.Cached {
		b.WriteString(" ")
		b.WriteString(icon.Get(icon.Cached))
	}
	if size, ok := a.Size.Get(); ok {
		b.WriteString(" ")
		b.WriteString(sizeStyle(size))
	}

	name := firstLine(s.Title)
	if name == "" {
		name = firstLine(s.Name)
	}
	b.WriteString(" ")
	b.WriteString(name)

	if d := a.Details; d.Codec != "" || len(d.Languages) > 0 {
		b.WriteString(" ")
		b.WriteString(style.Faint(strings.Join(lo.Compact(append([]string{d.Codec}, d.Languages...)), " ")))
	}

	return truncate.StringWithTail(b.String(), uint(width), "…")
}

// renderSections prints every section with a running index shared with pick.
func renderSections(w io.Writer, sections []section.Section, width int) {
	var i int
	for n, sec := range sections {
		if n > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", style.Title(sec.Title), style.Faint(fmt.Sprintf("%d", len(sec.Data))))

		for _, s := range sec.Data {
			i++
			_, _ = fmt.Fprintln(w, renderStream(i, s, width))
		}
	}
	_, _ = fmt.Fprintln(w)
}
