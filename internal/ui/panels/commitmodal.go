package panels

import (
	"fmt"
	"strings"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// commitSource adapts history to fuzzy.Source.
type commitSource []git.CommitRecord

func (s commitSource) String(i int) string {
	c := s[i]
	return c.ShortID + " " + c.Summary + " " + c.Author
}

func (s commitSource) Len() int { return len(s) }

// CommitModal lists history and lets the user jump to any commit. "/"
// starts a fuzzy search over id, summary and author.
type CommitModal struct {
	keys      Keys
	commits   []git.CommitRecord
	matches   fuzzy.Matches
	cursor    int
	offset    int
	height    int
	search    textinput.Model
	searching bool
}

// NewCommitModal returns a closed modal.
func NewCommitModal(keys Keys) *CommitModal {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search commits"
	ti.CharLimit = 128
	ti.Cursor.SetMode(cursor.CursorStatic)
	return &CommitModal{keys: keys, search: ti}
}

// Open loads history and highlights the commit at current.
func (m *CommitModal) Open(commits []git.CommitRecord, current int) {
	m.commits = commits
	m.searching = false
	m.search.Blur()
	m.search.SetValue("")
	m.refilter()
	m.cursor = max(0, min(current, len(m.matches)-1))
	m.offset = window(0, m.cursor, m.rows(), len(m.matches))
}

// SetHeight records the screen height.
func (m *CommitModal) SetHeight(h int) { m.height = h }

// Capturing reports whether typed characters belong to the search input.
func (m *CommitModal) Capturing() bool { return m.searching }

// Query returns the current search text.
func (m *CommitModal) Query() string { return m.search.Value() }

// Len returns the number of listed commits.
func (m *CommitModal) Len() int { return len(m.matches) }

// Highlighted returns the commit under the cursor.
func (m *CommitModal) Highlighted() (git.CommitRecord, bool) {
	if len(m.matches) == 0 {
		return git.CommitRecord{}, false
	}
	return m.commits[m.matches[m.cursor].Index], true
}

func (m *CommitModal) rows() int { return modalRows(m.height) }

// modalRows is the list height inside a modal on a screen of height rows:
// outer margin(4), border(2), title(1), search line(1) and slack(2).
func modalRows(height int) int { return max(1, height-10) }

func (m *CommitModal) refilter() {
	q := strings.TrimSpace(m.search.Value())
	if q == "" {
		m.matches = make(fuzzy.Matches, len(m.commits))
		for i := range m.commits {
			m.matches[i] = fuzzy.Match{Str: commitSource(m.commits).String(i), Index: i}
		}
	} else {
		m.matches = fuzzy.FindFrom(q, commitSource(m.commits))
	}
	m.cursor = 0
	m.offset = 0
}

// HandleKey maps a key press to a message.
func (m *CommitModal) HandleKey(msg tea.KeyMsg) common.Message {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	page := max(1, m.rows()/2)
	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveTo(m.cursor + 1)
	case key.Matches(msg, m.keys.Up):
		m.moveTo(m.cursor - 1)
	case key.Matches(msg, m.keys.PageDown):
		m.moveTo(m.cursor + page)
	case key.Matches(msg, m.keys.PageUp):
		m.moveTo(m.cursor - page)
	case key.Matches(msg, m.keys.Top):
		m.moveTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveTo(len(m.matches) - 1)
	case key.Matches(msg, m.keys.Enter):
		return m.choose()
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Focus()
	case key.Matches(msg, m.keys.Back), msg.String() == "q":
		return common.Do(common.CloseModal{})
	}
	return common.NoAction{}
}

func (m *CommitModal) handleSearchKey(msg tea.KeyMsg) common.Message {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.refilter()
		}
		return common.NoAction{}
	case tea.KeyEnter:
		return m.choose()
	case tea.KeyUp:
		m.moveTo(m.cursor - 1)
		return common.NoAction{}
	case tea.KeyDown:
		m.moveTo(m.cursor + 1)
		return common.NoAction{}
	}
	before := m.search.Value()
	m.search, _ = m.search.Update(msg)
	if m.search.Value() != before {
		m.refilter()
	}
	return common.NoAction{}
}

func (m *CommitModal) choose() common.Message {
	c, ok := m.Highlighted()
	if !ok {
		return common.NoAction{}
	}
	return common.Do(common.SetCommit{ID: c.ID})
}

func (m *CommitModal) moveTo(i int) {
	if len(m.matches) == 0 {
		return
	}
	m.cursor = max(0, min(i, len(m.matches)-1))
	m.offset = window(m.offset, m.cursor, m.rows(), len(m.matches))
}

// View renders the modal box for a screen of width×height. currentID marks
// the commit being browsed.
func (m *CommitModal) View(styles ui.Styles, width, height int, currentID string) string {
	boxW := max(20, min(100, width-8))
	innerW := boxW - 4
	rows := modalRows(height)

	title := styles.ModalTitle.Render(fmt.Sprintf("Commits %d/%d", len(m.matches), len(m.commits)))
	var b strings.Builder
	b.WriteString(title + "\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(styles.Muted.Render("/ to search · enter to jump · esc to close"))
	}
	b.WriteString("\n")

	if len(m.matches) == 0 {
		b.WriteString(styles.Placeholder.Render("  no matching commits"))
	}
	offset := window(m.offset, m.cursor, rows, len(m.matches))
	for i := offset; i < min(len(m.matches), offset+rows); i++ {
		if i > offset {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderRow(styles, m.matches[i], i == m.cursor, innerW, currentID))
	}

	return styles.Modal.Width(boxW).Render(b.String())
}

func (m *CommitModal) renderRow(styles ui.Styles, match fuzzy.Match, selected bool, width int, currentID string) string {
	c := m.commits[match.Index]
	marker := "  "
	if c.ID == currentID {
		marker = "● "
	}
	if selected {
		marker = "▸ "
	}
	base := lipgloss.NewStyle()
	if selected {
		base = base.Background(styles.Theme.Selected).Bold(true)
	}
	// MatchedIndexes are byte offsets into match.Str, which starts with the short id.
	line := ui.HighlightRunes(match.Str, match.MatchedIndexes, base.Foreground(styles.Theme.Text), styles.MatchChar)
	return ui.Truncate(base.Render(marker)+line, width)
}
