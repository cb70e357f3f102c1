package components

import (
	"strings"
	"testing"

	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestThumb(t *testing.T) {
	start, size := thumb(10, 100, 10, 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 1, size)

	start, size = thumb(10, 100, 10, 90)
	assert.Equal(t, 9, start+size-1, "thumb ends on the last row at the bottom")

	start, _ = thumb(10, 100, 10, 500)
	assert.Equal(t, 9, start)
}

func TestScrollbarHiddenWhenFits(t *testing.T) {
	assert.Empty(t, RenderScrollbar(ui.DefaultStyles(), 10, 5, 10, 0))
	bar := RenderScrollbar(ui.DefaultStyles(), 4, 40, 4, 0)
	assert.Len(t, strings.Split(bar, "\n"), 4)
}

func TestStatusBarShowsPosition(t *testing.T) {
	out := ansi.Strip(RenderStatusBar(ui.DefaultStyles(), StatusBarData{
		ShortID: "abc1234",
		Index:   2,
		Total:   10,
		Path:    "src/main.rs",
		Line:    42,
		Mode:    "blame",
	}, 100))
	assert.Contains(t, out, "abc1234 3/10")
	assert.Contains(t, out, "src/main.rs:42")
	assert.Contains(t, out, "blame")
}

func TestStatusBarMessage(t *testing.T) {
	out := ansi.Strip(RenderStatusBar(ui.DefaultStyles(), StatusBarData{
		ShortID: "abc1234",
		Total:   1,
		Message: "commit not found: zzz",
		IsError: true,
	}, 80))
	assert.Contains(t, out, "commit not found: zzz")
}

func TestHelpScroll(t *testing.T) {
	styles := ui.DefaultStyles()
	var entries []HelpEntry
	for i := 0; i < 40; i++ {
		entries = append(entries, HelpEntry{Key: "k", Desc: "entry"})
	}
	lines := HelpLines(styles, []HelpSection{{Title: "General", Entries: entries}, {Title: "Empty"}})
	assert.Len(t, lines, 42)

	out := ansi.Strip(RenderHelp(styles, "Keys", lines, 0, 80, 20))
	assert.Contains(t, out, "General")
	assert.Contains(t, out, "scroll")
}
