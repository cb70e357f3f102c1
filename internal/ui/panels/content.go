package panels

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui/components"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// hStep is how many columns one horizontal scroll moves.
const hStep = 4

// blameGutterWidth is "abc1234 author____ " in cells.
const blameGutterWidth = 7 + 1 + 12 + 1

// ContentViewer shows the selected file at the selected commit.
type ContentViewer struct {
	keys   Keys
	spin   spinner.Model
	height int
}

// NewContentViewer returns the viewer.
func NewContentViewer(keys Keys, styles ui.Styles) *ContentViewer {
	return &ContentViewer{
		keys: keys,
		spin: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner)),
	}
}

// SetHeight records the panel's outer height for paging.
func (v *ContentViewer) SetHeight(h int) { v.height = h }

// PageRows is the number of content rows on screen.
func (v *ContentViewer) PageRows() int { return max(1, bodyHeight(v.height)) }

// Tick starts the loading spinner.
func (v *ContentViewer) Tick() tea.Msg { return v.spin.Tick() }

// UpdateSpinner advances the spinner.
func (v *ContentViewer) UpdateSpinner(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	v.spin, cmd = v.spin.Update(msg)
	return cmd
}

// HandleKey maps a key press to a message. J/K keep scrolling until the
// next key press.
func (v *ContentViewer) HandleKey(msg tea.KeyMsg) common.Message {
	half := max(1, v.PageRows()/2)
	switch {
	case key.Matches(msg, v.keys.Down):
		return common.Do(common.ScrollBy{DV: 1})
	case key.Matches(msg, v.keys.Up):
		return common.Do(common.ScrollBy{DV: -1})
	case key.Matches(msg, v.keys.Right):
		return common.Do(common.ScrollBy{DH: hStep})
	case key.Matches(msg, v.keys.Left):
		return common.Do(common.ScrollBy{DH: -hStep})
	case key.Matches(msg, v.keys.PageDown):
		return common.Do(common.ScrollBy{DV: half})
	case key.Matches(msg, v.keys.PageUp):
		return common.Do(common.ScrollBy{DV: -half})
	case key.Matches(msg, v.keys.Top):
		return common.Do(common.ScrollTo{V: 0, H: 0})
	case key.Matches(msg, v.keys.Bottom):
		return common.Do(common.ScrollBy{DV: farAway})
	case key.Matches(msg, v.keys.AutoDown):
		return common.Repeating{Effect: common.ScrollBy{DV: 1}}
	case key.Matches(msg, v.keys.AutoUp):
		return common.Repeating{Effect: common.ScrollBy{DV: -1}}
	case key.Matches(msg, v.keys.ToggleBlame):
		return common.Do(common.ToggleBlame{})
	case key.Matches(msg, v.keys.ToggleNumbers):
		return common.Do(common.ToggleLineNumbers{})
	case key.Matches(msg, v.keys.OpenBrowser):
		return common.Do(common.OpenInBrowser{})
	case key.Matches(msg, v.keys.CopyPermalink):
		return common.Do(common.CopyPermalink{})
	case key.Matches(msg, v.keys.Back):
		return common.Do(common.FocusTo{Target: common.FocusFileList})
	}
	return common.NoAction{}
}

// ContentState is what the viewer needs from the coordinator to render.
type ContentState struct {
	Path        string
	Content     *git.Content
	Highlighted []string // same length as Content.Lines when set
	Blame       []git.BlameEntry
	Loading     bool
	BlameBusy   bool
	Err         string
	Mode        common.DisplayMode
	V, H        int
	MaxFileSize int64
}

// View renders the panel.
func (v *ContentViewer) View(styles ui.Styles, width, height int, focused bool, st ContentState) string {
	title := "Content"
	if st.Path != "" {
		title = st.Path + " " + styles.Muted.Render("· "+st.Mode.String())
	}

	var body string
	switch {
	case st.Path == "":
		body = styles.Placeholder.Render("  select a file")
	case st.Err != "":
		body = styles.Error.Render("  " + st.Err)
	case st.Loading || st.Content == nil:
		body = "  " + v.spin.View() + styles.Placeholder.Render(" loading "+st.Path)
	case st.Content.Binary:
		body = styles.Placeholder.Render(fmt.Sprintf("  binary file (%s) not shown", humanize.IBytes(uint64(st.Content.Size))))
	case st.Content.TooLarge:
		body = styles.Placeholder.Render(fmt.Sprintf("  file too large (%s, limit %s)",
			humanize.IBytes(uint64(st.Content.Size)), humanize.IBytes(uint64(max(0, st.MaxFileSize)))))
	case st.Content.LineCount() == 0:
		body = styles.Placeholder.Render("  empty file")
	default:
		body = v.renderLines(styles, max(0, width-2), bodyHeight(height), st)
	}
	return frame(styles, title, body, width, height, focused)
}

func (v *ContentViewer) renderLines(styles ui.Styles, width, rows int, st ContentState) string {
	src := st.Content.Lines
	if len(st.Highlighted) == len(src) {
		src = st.Highlighted
	}
	total := len(src)

	bar := strings.Split(components.RenderScrollbar(styles, rows, total, rows, st.V), "\n")
	textW := width
	if len(bar) == rows && total > rows {
		textW--
	} else {
		bar = nil
	}

	numW := len(fmt.Sprint(total))
	var b strings.Builder
	prevCommit := "" // the top row is always labelled
	for r := 0; r < rows; r++ {
		i := st.V + r
		if r > 0 {
			b.WriteByte('\n')
		}
		var gutter string
		switch st.Mode {
		case common.ModeLineNumbered:
			gutter = styles.LineNum.Render(fmt.Sprintf("%*d │ ", numW, i+1))
		case common.ModeBlame:
			gutter = v.blameGutter(styles, st, i, &prevCommit)
		}
		line := ""
		if i < total {
			line = ui.Cut(src[i], st.H, max(0, textW-lipgloss.Width(gutter)))
		} else {
			gutter = ""
		}
		row := ui.PadRight(gutter+line, textW)
		if bar != nil {
			row += bar[r]
		}
		b.WriteString(row)
	}
	return b.String()
}

// blameGutter labels the first line of each run of lines from one commit.
func (v *ContentViewer) blameGutter(styles ui.Styles, st ContentState, i int, prev *string) string {
	if st.BlameBusy && len(st.Blame) == 0 {
		return styles.BlameGutter.Render(ui.PadRight("  …", blameGutterWidth))
	}
	e, ok := blameFor(st.Blame, i+1)
	if !ok {
		return strings.Repeat(" ", blameGutterWidth)
	}
	if e.CommitID == *prev {
		return styles.BlameGutter.Render(ui.PadRight("        │", blameGutterWidth))
	}
	*prev = e.CommitID
	label := git.Short(e.CommitID, 7) + " " + ui.PadRight(ui.Truncate(e.Author, 12), 12) + " "
	return lipgloss.NewStyle().Foreground(styles.Theme.BlameColor(e.CommitID)).Render(label)
}

// blameFor finds the entry for 1-based line in entries sorted by line.
func blameFor(entries []git.BlameEntry, line int) (git.BlameEntry, bool) {
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Line >= line })
	if i < len(entries) && entries[i].Line == line {
		return entries[i], true
	}
	return git.BlameEntry{}, false
}
