package ui

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightStyle is the chroma style used for file content.
const HighlightStyle = "catppuccin-mocha"

// Highlight colours lines as the language inferred from filename. The
// result has exactly one entry per input line, each self-contained (no
// escape state leaks across lines), so lines can be cut and scrolled
// independently. ok is false when no lexer applies or tokenising fails.
func Highlight(filename string, lines []string) (out []string, ok bool) {
	if len(lines) == 0 {
		return nil, false
	}
	code := strings.Join(lines, "\n")

	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		return nil, false
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(HighlightStyle)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil, false
	}

	out = make([]string, 0, len(lines))
	var buf bytes.Buffer
	for _, toks := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		buf.Reset()
		if err := formatter.Format(&buf, style, chroma.Literator(toks...)); err != nil {
			return nil, false
		}
		out = append(out, strings.TrimRight(buf.String(), "\n"))
	}

	// Tokenisers may drop or add a trailing empty line.
	for len(out) < len(lines) {
		out = append(out, lines[len(out)])
	}
	return out[:len(lines)], true
}
