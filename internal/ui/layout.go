// Package ui provides shared TUI styling, layout helpers, and theme definitions.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceCentre centres content both horizontally and vertically within the given dimensions.
func PlaceCentre(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Truncate shortens s to at most width cells, appending "…" if truncated.
// ANSI sequences in s are preserved.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// TruncateLeft keeps the rightmost cells of s, prefixing "…". Used for paths,
// where the file name matters more than the leading directories.
func TruncateLeft(s string, width int) string {
	w := ansi.StringWidth(s)
	if w <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return "…" + ansi.TruncateLeft(s, w-width+1, "")
}

// Cut returns the cells [offset, offset+width) of an ANSI-styled line.
func Cut(line string, offset, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Cut(line, offset, offset+width)
}

// PadRight pads s with spaces to the given width.
func PadRight(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// RenderKeyValue renders a "key: value" pair with styles.
func RenderKeyValue(styles Styles, key, value string) string {
	return styles.KeyBind.Render(key) + " " + styles.KeyDesc.Render(value)
}

// SplitWidth divides total columns into a left share of percent and the rest.
func SplitWidth(total, percent int) (left, right int) {
	left = total * percent / 100
	if left < 1 {
		left = 1
	}
	if left > total-1 {
		left = max(0, total-1)
	}
	return left, total - left
}

// HighlightRunes renders s with the bytes at positions in match style and
// everything else in base style. positions must be ascending byte offsets.
func HighlightRunes(s string, positions []int, base, match lipgloss.Style) string {
	if len(positions) == 0 {
		return base.Render(s)
	}
	var b strings.Builder
	next := 0
	run := strings.Builder{}
	runMatch := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runMatch {
			b.WriteString(match.Render(run.String()))
		} else {
			b.WriteString(base.Render(run.String()))
		}
		run.Reset()
	}
	for i, r := range s {
		for next < len(positions) && positions[next] < i {
			next++
		}
		isMatch := next < len(positions) && positions[next] == i
		if isMatch {
			next++
		}
		if isMatch != runMatch {
			flush()
			runMatch = isMatch
		}
		run.WriteRune(r)
	}
	flush()
	return b.String()
}
