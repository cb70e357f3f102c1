package app

import (
	"time"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/filter"
	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
	"github.com/Akashdeep-Patra/zed-git-history/internal/loader"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui/components"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui/panels"
	"github.com/charmbracelet/lipgloss"
)

// Snapshot is a read-only copy of everything the screen shows. Slices are
// shared with the model and must not be modified.
type Snapshot struct {
	Focus     common.FocusTarget
	ModalOpen bool

	Commit      *git.CommitRecord // nil until history loads
	CommitIndex int
	CommitCount int

	TreeLoaded bool
	Query      string
	FilterMode filter.Mode
	Matches    []filter.Match
	FileCount  int

	Path           string
	Mode           common.DisplayMode
	VScroll        int
	HScroll        int
	Content        *git.Content
	ContentLoading bool
	ContentErr     string
	Highlighted    []string
	Blame          []git.BlameEntry
	BlameLoading   bool

	LeftPercent int
	Loading     bool
	Status      string
	StatusError bool
}

// Snapshot captures the current state for rendering.
func (m Model) Snapshot() Snapshot {
	s := Snapshot{
		Focus:       m.focus.Current(),
		ModalOpen:   m.focus.ModalOpen(),
		CommitIndex: m.nav.Index(),
		CommitCount: m.nav.Len(),
		TreeLoaded:  m.nav.TreeLoaded(),
		Query:       m.filter.Query(),
		FilterMode:  m.filter.Mode(),
		Matches:     m.filter.Results(),
		FileCount:   m.filter.Total(),
		Mode:        m.nav.Mode(),
		Content:     m.content,
		ContentErr:  m.contentErr,
		Highlighted: m.highlighted,
		Blame:       m.blame,
		LeftPercent: m.leftPercent,
		Loading:     m.loading(),
	}
	if c, ok := m.nav.Commit(); ok {
		s.Commit = &c
	}
	s.Path, _ = m.nav.Path()
	s.VScroll, s.HScroll = m.nav.Scroll()
	s.ContentLoading = s.Path != "" && m.content == nil && m.loader.Pending(loader.LoadFileContent)
	s.BlameLoading = s.Mode == common.ModeBlame && m.blame == nil && m.loader.Pending(loader.ComputeBlame)
	if m.statusMsg != "" && time.Now().Before(m.statusExp) {
		s.Status, s.StatusError = m.statusMsg, m.statusErr
	}
	return s
}

// View renders the entire UI from a snapshot. No I/O happens here.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	s := m.Snapshot()

	switch s.Focus {
	case common.FocusCommitModal:
		currentID := ""
		if s.Commit != nil {
			currentID = s.Commit.ID
		}
		return ui.PlaceCentre(m.width, m.height, m.commitModal.View(m.styles, m.width, m.height, currentID))
	case common.FocusHelpModal:
		return ui.PlaceCentre(m.width, m.height, m.help.View(m.styles, m.width, m.height))
	}

	bodyH := m.bodyHeight()
	leftW, rightW := ui.SplitWidth(m.width, s.LeftPercent)

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.filterPanel.View(m.styles, leftW, s.Focus == common.FocusFilter,
			s.FilterMode.String(), len(s.Matches), s.FileCount),
		m.files.View(m.styles, leftW, m.fileListHeight(), s.Focus == common.FocusFileList, panels.FileListState{
			TreeLoading: s.Commit != nil && !s.TreeLoaded,
			Query:       s.Query,
			Selected:    s.Path,
		}),
		m.commitPanel.View(m.styles, leftW, s.Focus == common.FocusCommitPanel, s.Commit, s.CommitIndex, s.CommitCount),
	)
	left = lipgloss.NewStyle().Width(leftW).Height(bodyH).MaxHeight(bodyH).Render(left)

	right := m.viewer.View(m.styles, rightW, bodyH, s.Focus == common.FocusContentViewer, panels.ContentState{
		Path:        s.Path,
		Content:     s.Content,
		Highlighted: s.Highlighted,
		Blame:       s.Blame,
		Loading:     s.ContentLoading,
		BlameBusy:   s.BlameLoading,
		Err:         s.ContentErr,
		Mode:        s.Mode,
		V:           s.VScroll,
		H:           s.HScroll,
		MaxFileSize: m.cfg.MaxFileSize,
	})

	bar := components.StatusBarData{
		Total:    s.CommitCount,
		Index:    s.CommitIndex,
		Path:     s.Path,
		Mode:     s.Mode.String(),
		Loading:  s.Loading,
		Message:  s.Status,
		IsError:  s.StatusError,
		RepoRoot: m.repoRoot,
	}
	if s.Commit != nil {
		bar.ShortID = s.Commit.ShortID
	}
	if s.Content.LineCount() > 0 {
		bar.Line = s.VScroll + 1
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, main, components.RenderStatusBar(m.styles, bar, m.width))
}
