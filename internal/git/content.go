package git

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// DefaultMaxFileSize is the largest blob rendered as text.
const DefaultMaxFileSize = 1 << 20

// tabWidth is how many spaces a tab expands to when measuring and rendering.
const tabWidth = 4

// Content is a decoded file ready for display.
type Content struct {
	Lines    []string
	Width    int // widest line, in terminal cells
	Size     int // raw size in bytes
	Binary   bool
	TooLarge bool
}

// LineCount returns the number of lines, 0 for placeholders.
func (c *Content) LineCount() int {
	if c == nil {
		return 0
	}
	return len(c.Lines)
}

// DecodeContent splits raw blob bytes into display lines. Binary and
// oversized blobs produce an empty placeholder.
func DecodeContent(raw []byte, maxSize int) *Content {
	c := &Content{Size: len(raw)}
	if maxSize > 0 && len(raw) > maxSize {
		c.TooLarge = true
		return c
	}
	// Same heuristic git uses: a NUL in the first 8000 bytes means binary.
	sniff := raw
	if len(sniff) > 8000 {
		sniff = sniff[:8000]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		c.Binary = true
		return c
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return c
	}
	c.Lines = strings.Split(text, "\n")
	expand := strings.Repeat(" ", tabWidth)
	for i, l := range c.Lines {
		if strings.IndexByte(l, '\t') >= 0 {
			l = strings.ReplaceAll(l, "\t", expand)
			c.Lines[i] = l
		}
		if w := ansi.StringWidth(l); w > c.Width {
			c.Width = w
		}
	}
	return c
}
