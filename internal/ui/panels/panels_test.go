package panels

import (
	"testing"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/filter"
	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func effectOf(t *testing.T, m common.Message) common.Effect {
	t.Helper()
	once, ok := m.(common.Once)
	require.True(t, ok, "want Once, got %T", m)
	return once.Effect
}

func TestFilterTyping(t *testing.T) {
	f := NewFilter()
	f.SetFocused(true)

	assert.Equal(t, common.UpdateQuery{Text: "m"}, effectOf(t, f.HandleKey(runes("m"))))
	assert.Equal(t, common.UpdateQuery{Text: "mn"}, effectOf(t, f.HandleKey(runes("n"))))
	// q and ? are ordinary characters here.
	assert.Equal(t, common.UpdateQuery{Text: "mnq"}, effectOf(t, f.HandleKey(runes("q"))))

	assert.Equal(t, common.CycleFilterMode{Delta: 1}, effectOf(t, f.HandleKey(tea.KeyMsg{Type: tea.KeyDown})))
	assert.Equal(t, common.CycleFilterMode{Delta: -1}, effectOf(t, f.HandleKey(tea.KeyMsg{Type: tea.KeyUp})))
	assert.Equal(t, common.FocusTo{Target: common.FocusFileList}, effectOf(t, f.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})))

	assert.Equal(t, common.UpdateQuery{Text: ""}, effectOf(t, f.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})))
	assert.Equal(t, "", f.Value())
	assert.Equal(t, common.FocusTo{Target: common.FocusFileList}, effectOf(t, f.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})))
}

func matches(paths ...string) []filter.Match {
	out := make([]filter.Match, len(paths))
	for i, p := range paths {
		out[i] = filter.Match{Entry: git.FileEntry{Path: p, Kind: git.KindFile, Present: true}}
	}
	return out
}

func TestFileListMovesSelect(t *testing.T) {
	l := NewFileList(DefaultKeys())
	l.SetHeight(10)
	l.SetItems(matches("a", "b", "c"), "b")

	p, _ := l.Cursor()
	assert.Equal(t, "b", p)

	assert.Equal(t, common.SelectFile{Path: "c"}, effectOf(t, l.HandleKey(runes("j"))))
	assert.Equal(t, common.NoAction{}, l.HandleKey(runes("j")), "bottom is a no-op")
	assert.Equal(t, common.SelectFile{Path: "a"}, effectOf(t, l.HandleKey(runes("g"))))
	assert.Equal(t, common.FocusTo{Target: common.FocusContentViewer}, effectOf(t, l.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})))
	assert.Equal(t, common.FocusTo{Target: common.FocusFilter}, effectOf(t, l.HandleKey(runes("/"))))
}

func TestFileListEnterSelectsUnselected(t *testing.T) {
	l := NewFileList(DefaultKeys())
	l.SetItems(matches("a", "b"), "")
	assert.Equal(t, common.SelectFile{Path: "a"}, effectOf(t, l.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})))
}

func TestFileListNotFound(t *testing.T) {
	l := NewFileList(DefaultKeys())
	l.SetItems(nil, "")
	out := ansi.Strip(l.View(ui.DefaultStyles(), 40, 10, true, FileListState{Query: "zzz"}))
	assert.Contains(t, out, "not found")
	assert.Equal(t, common.NoAction{}, l.HandleKey(runes("j")))
}

func TestCommitPanelKeys(t *testing.T) {
	p := NewCommitPanel(DefaultKeys())
	assert.Equal(t, common.MoveCommit{Delta: 1}, effectOf(t, p.HandleKey(runes("p"))))
	assert.Equal(t, common.MoveCommit{Delta: 1}, effectOf(t, p.HandleKey(tea.KeyMsg{Type: tea.KeyLeft})))
	assert.Equal(t, common.MoveCommit{Delta: -1}, effectOf(t, p.HandleKey(runes("n"))))
	assert.Equal(t, common.OpenModal{Target: common.FocusCommitModal}, effectOf(t, p.HandleKey(runes("o"))))
	assert.Equal(t, common.CopyCommitID{}, effectOf(t, p.HandleKey(runes("y"))))
	assert.Equal(t, common.NoAction{}, p.HandleKey(runes("z")))
}

func TestContentViewerKeys(t *testing.T) {
	v := NewContentViewer(DefaultKeys(), ui.DefaultStyles())
	v.SetHeight(23) // 20 rows

	assert.Equal(t, common.ScrollBy{DV: 1}, effectOf(t, v.HandleKey(runes("j"))))
	assert.Equal(t, common.ScrollBy{DH: hStep}, effectOf(t, v.HandleKey(runes("l"))))
	assert.Equal(t, common.ScrollBy{DV: 10}, effectOf(t, v.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlD})))
	assert.Equal(t, common.ToggleBlame{}, effectOf(t, v.HandleKey(runes("b"))))
	assert.Equal(t, common.ToggleLineNumbers{}, effectOf(t, v.HandleKey(runes("n"))))
	assert.Equal(t, common.OpenInBrowser{}, effectOf(t, v.HandleKey(runes("o"))))
	assert.Equal(t, common.CopyPermalink{}, effectOf(t, v.HandleKey(runes("Y"))))

	rep, ok := v.HandleKey(runes("J")).(common.Repeating)
	require.True(t, ok)
	assert.Equal(t, common.ScrollBy{DV: 1}, rep.Effect)
}

func TestContentViewerRendering(t *testing.T) {
	v := NewContentViewer(DefaultKeys(), ui.DefaultStyles())
	styles := ui.DefaultStyles()
	content := &git.Content{Lines: []string{"alpha", "beta", "gamma"}, Width: 5}

	out := ansi.Strip(v.View(styles, 40, 10, false, ContentState{
		Path: "a.txt", Content: content, Mode: common.ModeLineNumbered, V: 1,
	}))
	assert.Contains(t, out, "2 │ beta")
	assert.NotContains(t, out, "alpha")

	out = ansi.Strip(v.View(styles, 40, 10, false, ContentState{
		Path: "a.txt", Content: content, Mode: common.ModePlain, H: 2,
	}))
	assert.Contains(t, out, "pha")

	out = ansi.Strip(v.View(styles, 60, 10, false, ContentState{
		Path: "a.txt", Content: content, Mode: common.ModeBlame,
		Blame: []git.BlameEntry{
			{Line: 1, CommitID: "1111111aaaa", Author: "Ada"},
			{Line: 2, CommitID: "1111111aaaa", Author: "Ada"},
			{Line: 3, CommitID: "2222222bbbb", Author: "Bob"},
		},
	}))
	assert.Contains(t, out, "1111111 Ada")
	assert.Contains(t, out, "2222222 Bob")

	out = ansi.Strip(v.View(styles, 60, 10, false, ContentState{
		Path: "img.png", Content: &git.Content{Binary: true, Size: 2048},
	}))
	assert.Contains(t, out, "binary file (2.0 KiB)")

	out = ansi.Strip(v.View(styles, 60, 10, false, ContentState{Path: "x", Loading: true}))
	assert.Contains(t, out, "loading x")
}

func history() []git.CommitRecord {
	return []git.CommitRecord{
		{ID: "c3", ShortID: "c3", Summary: "fix parser crash", Author: "Ada"},
		{ID: "c2", ShortID: "c2", Summary: "add blame view", Author: "Bob"},
		{ID: "c1", ShortID: "c1", Summary: "initial import", Author: "Ada"},
	}
}

func TestCommitModalSearch(t *testing.T) {
	m := NewCommitModal(DefaultKeys())
	m.SetHeight(40)
	m.Open(history(), 1)

	c, ok := m.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "c2", c.ID)

	assert.Equal(t, common.NoAction{}, m.HandleKey(runes("/")))
	assert.True(t, m.Capturing())
	for _, r := range "blame" {
		m.HandleKey(runes(string(r)))
	}
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, common.SetCommit{ID: "c2"}, effectOf(t, m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})))

	// esc leaves search and restores the full list, a second esc closes.
	m.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Capturing())
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, common.CloseModal{}, effectOf(t, m.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})))
}

func TestCommitModalNavigate(t *testing.T) {
	m := NewCommitModal(DefaultKeys())
	m.SetHeight(40)
	m.Open(history(), 0)
	m.HandleKey(runes("j"))
	m.HandleKey(runes("j"))
	m.HandleKey(runes("j"))
	assert.Equal(t, common.SetCommit{ID: "c1"}, effectOf(t, m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})))

	out := ansi.Strip(m.View(ui.DefaultStyles(), 100, 40, "c3"))
	assert.Contains(t, out, "Commits 3/3")
	assert.Contains(t, out, "initial import")
}

func TestHelpModal(t *testing.T) {
	h := NewHelpModal(DefaultKeys(), Sections(DefaultKeys(), nil))
	h.SetHeight(12)
	for i := 0; i < 200; i++ {
		h.HandleKey(runes("j"))
	}
	assert.Equal(t, h.maxOffset(), h.offset)
	assert.Equal(t, common.CloseModal{}, effectOf(t, h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})))
	assert.Contains(t, ansi.Strip(h.View(ui.DefaultStyles(), 80, 40)), "toggle blame")
}

func TestWindow(t *testing.T) {
	assert.Equal(t, 0, window(0, 3, 10, 5))
	assert.Equal(t, 11, window(0, 20, 10, 100))
	assert.Equal(t, 5, window(10, 5, 10, 100))
	assert.Equal(t, 90, window(95, 99, 10, 100))
}
