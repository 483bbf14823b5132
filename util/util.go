// Package util holds small helpers shared by the CLI.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/muesli/reflow/ansi"
	"github.com/reelcast/reelcast/filesystem"
	"golang.org/x/term"
)

var (
	filenameInvalid  = regexp.MustCompile(`[\\/<>:;"'|?!*{}#%&^+,~\s]`)
	filenameRepeated = regexp.MustCompile(`__+`)
	filenameEdges    = regexp.MustCompile(`^[_\-.]+|[_\-.]+$`)
)

// SanitizeFilename turns s into a name that is safe on every platform.
func SanitizeFilename(s string) string {
	s = filenameInvalid.ReplaceAllString(s, "_")
	s = filenameRepeated.ReplaceAllString(s, "_")
	return filenameEdges.ReplaceAllString(s, "")
}

// Quantify returns "1 provider" or "3 providers".
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// TerminalSize returns the size of the terminal attached to stdout.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FileStem returns the base name of path without its extension.
func FileStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// PrintErasable prints msg on the current line and returns a function that blanks it again.
func PrintErasable(msg string) (eraser func()) {
	_, _ = fmt.Fprintf(os.Stdout, "\r%s", msg)
	width := ansi.PrintableRuneWidth(msg)
	return func() {
		_, _ = fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", width))
	}
}

// Ignore calls f and drops its error, for deferred Close calls.
func Ignore(f func() error) {
	_ = f()
}

// Delete removes a file or a directory tree.
func Delete(path string) error {
	if _, err := filesystem.API().Stat(path); err != nil {
		return err
	}
	return filesystem.API().RemoveAll(path)
}
