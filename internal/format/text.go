// Package format provides shared text formatting utilities for
// terminal output.
package format

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes ANSI escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// DisplayWidth returns the visible width of a string in terminal
// columns, accounting for wide characters and stripping ANSI escape
// sequences.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(StripAnsi(s))
}

// TruncateToWidth truncates a string to fit within maxWidth display
// columns, appending "..." when truncation occurs. Returns the
// truncated string and its visible width.
func TruncateToWidth(s string, maxWidth int) (string, int) {
	width := DisplayWidth(s)
	if width <= maxWidth {
		return s, width
	}

	targetWidth := maxWidth - 3
	if targetWidth < 0 {
		targetWidth = 0
	}

	plain := StripAnsi(s)
	var b strings.Builder
	visible := 0
	for _, r := range plain {
		rw := runewidth.RuneWidth(r)
		if visible+rw > targetWidth {
			break
		}
		b.WriteRune(r)
		visible += rw
	}
	b.WriteString("...")
	return b.String(), visible + 3
}

// PadToWidth right-pads a string with spaces to the given display
// width, accounting for ANSI sequences and wide runes.
func PadToWidth(s string, width int) string {
	current := DisplayWidth(s)
	if current >= width {
		return s
	}
	return s + strings.Repeat(" ", width-current)
}
