package panels

import (
	"fmt"
	"strings"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/filter"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// FileList shows the ranked filter results. Moving the cursor selects the
// file under it, so content follows the cursor.
type FileList struct {
	keys     Keys
	items    []filter.Match
	selected string
	cursor   int
	offset   int
	height   int
}

// NewFileList returns an empty list.
func NewFileList(keys Keys) *FileList {
	return &FileList{keys: keys}
}

// SetItems replaces the results and puts the cursor on selected when present.
func (l *FileList) SetItems(items []filter.Match, selected string) {
	l.items = items
	l.selected = selected
	l.cursor = 0
	for i, m := range items {
		if m.Entry.Path == selected {
			l.cursor = i
			break
		}
	}
	l.offset = window(l.offset, l.cursor, bodyHeight(l.height), len(l.items))
}

// SetHeight records the panel's outer height for paging.
func (l *FileList) SetHeight(h int) {
	l.height = h
	l.offset = window(l.offset, l.cursor, bodyHeight(h), len(l.items))
}

// Cursor returns the highlighted path, if any.
func (l *FileList) Cursor() (string, bool) {
	if len(l.items) == 0 {
		return "", false
	}
	return l.items[l.cursor].Entry.Path, true
}

// HandleKey maps a key press to a message.
func (l *FileList) HandleKey(msg tea.KeyMsg) common.Message {
	page := max(1, bodyHeight(l.height)/2)
	switch {
	case key.Matches(msg, l.keys.Down):
		return l.moveTo(l.cursor + 1)
	case key.Matches(msg, l.keys.Up):
		return l.moveTo(l.cursor - 1)
	case key.Matches(msg, l.keys.PageDown):
		return l.moveTo(l.cursor + page)
	case key.Matches(msg, l.keys.PageUp):
		return l.moveTo(l.cursor - page)
	case key.Matches(msg, l.keys.Top):
		return l.moveTo(0)
	case key.Matches(msg, l.keys.Bottom):
		return l.moveTo(len(l.items) - 1)
	case key.Matches(msg, l.keys.Enter):
		path, ok := l.Cursor()
		if !ok {
			return common.NoAction{}
		}
		if path != l.selected {
			l.selected = path
			return common.Do(common.SelectFile{Path: path})
		}
		return common.Do(common.FocusTo{Target: common.FocusContentViewer})
	case key.Matches(msg, l.keys.Search), key.Matches(msg, l.keys.Back):
		return common.Do(common.FocusTo{Target: common.FocusFilter})
	}
	return common.NoAction{}
}

func (l *FileList) moveTo(i int) common.Message {
	if len(l.items) == 0 {
		return common.NoAction{}
	}
	i = max(0, min(i, len(l.items)-1))
	if i == l.cursor {
		return common.NoAction{}
	}
	l.cursor = i
	l.selected = l.items[i].Entry.Path
	l.offset = window(l.offset, l.cursor, bodyHeight(l.height), len(l.items))
	return common.Do(common.SelectFile{Path: l.items[i].Entry.Path})
}

// FileListState is what the list needs from the coordinator to render.
type FileListState struct {
	TreeLoading bool
	Query       string
	Selected    string
}

// View renders the panel.
func (l *FileList) View(styles ui.Styles, width, height int, focused bool, st FileListState) string {
	title := fmt.Sprintf("Files %s", styles.Muted.Render(fmt.Sprintf("(%d)", len(l.items))))
	innerW := max(0, width-2)

	var body string
	switch {
	case st.TreeLoading:
		body = styles.Placeholder.Render("  loading tree…")
	case len(l.items) == 0 && st.Query != "":
		body = styles.Placeholder.Render("  not found")
	case len(l.items) == 0:
		body = styles.Placeholder.Render("  no files")
	default:
		rows := bodyHeight(height)
		offset := window(l.offset, l.cursor, rows, len(l.items))
		var b strings.Builder
		for i := offset; i < min(len(l.items), offset+rows); i++ {
			if i > offset {
				b.WriteByte('\n')
			}
			b.WriteString(l.renderRow(styles, l.items[i], i == l.cursor && focused, l.items[i].Entry.Path == st.Selected, innerW))
		}
		body = b.String()
	}
	return frame(styles, title, body, width, height, focused)
}

func (l *FileList) renderRow(styles ui.Styles, m filter.Match, cursor, selected bool, width int) string {
	base := styles.ListItem
	prefix := ""
	switch {
	case cursor:
		base = styles.ListSelected
		prefix = "▸"
	case selected:
		base = styles.Bold.PaddingLeft(1)
		prefix = "•"
	}
	path := m.Entry.Path
	// Long paths lose their leading directories; match positions only apply untruncated.
	if len(path)+2 > width {
		return base.Render(prefix + ui.TruncateLeft(path, max(1, width-2)))
	}
	plain := base.UnsetPaddingLeft().UnsetBackground()
	return base.Render(prefix) + ui.HighlightRunes(path, m.Positions, plain, styles.MatchChar)
}
