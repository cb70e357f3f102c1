package app

import (
	"errors"
	"fmt"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/config"
	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
	"github.com/Akashdeep-Patra/zed-git-history/internal/link"
	"github.com/Akashdeep-Patra/zed-git-history/internal/loader"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// applyEffect performs one state change. The returned command carries any
// follow-up work; the error becomes a Failure.
func (m *Model) applyEffect(e common.Effect) (tea.Cmd, error) {
	switch e := e.(type) {
	case common.UpdateQuery:
		err := m.filter.Update(e.Text)
		m.syncFileList()
		return nil, err

	case common.CycleFilterMode:
		err := m.filter.CycleMode(e.Delta)
		m.syncFileList()
		return nil, err

	case common.SelectFile:
		changed, err := m.nav.SelectFile(e.Path)
		if err != nil || !changed {
			return nil, err
		}
		m.syncFileList()
		return m.loadDocument(), nil

	case common.MoveCommit:
		if !m.nav.MoveCommit(e.Delta) {
			return nil, nil
		}
		return m.commitChanged(), nil

	case common.SetCommit:
		changed, err := m.nav.SetCommitByID(e.ID)
		if err == nil && m.focus.Current() == common.FocusCommitModal {
			m.focus.Close()
			m.syncFocus()
		}
		if err != nil || !changed {
			return nil, err
		}
		return m.commitChanged(), nil

	case common.ScrollBy:
		v, h := m.nav.Scroll()
		m.nav.SetScroll(v+e.DV, h+e.DH)
		return nil, nil

	case common.ScrollTo:
		m.nav.SetScroll(e.V, e.H)
		return nil, nil

	case common.SetDisplayMode:
		if m.nav.SetDisplayMode(e.Mode) {
			return m.loadBlame(), nil
		}
		return nil, nil

	case common.ToggleBlame:
		if m.nav.ToggleBlame() {
			return m.loadBlame(), nil
		}
		return nil, nil

	case common.ToggleLineNumbers:
		m.nav.ToggleLineNumbers()
		return nil, nil

	case common.FocusTo:
		if m.focus.Set(e.Target) {
			m.syncFocus()
		}
		return nil, nil

	case common.OpenModal:
		if !m.focus.Open(e.Target) {
			return nil, nil
		}
		switch e.Target {
		case common.FocusCommitModal:
			m.commitModal.Open(m.nav.History(), m.nav.Index())
		case common.FocusHelpModal:
			m.help.Reset()
		}
		m.syncFocus()
		return nil, nil

	case common.CloseModal:
		if m.focus.Close() {
			m.syncFocus()
		}
		return nil, nil

	case common.OpenInBrowser:
		return m.linkAction(e)

	case common.CopyPermalink:
		return m.linkAction(e)

	case common.CopyCommitID:
		id := m.nav.CommitID()
		if id == "" {
			return nil, fmt.Errorf("no commit to copy: %w", common.ErrInvalidState)
		}
		return m.copyCmd(id, "copied "+git.Short(id, 8)), nil

	case common.ResizeLeft:
		m.leftPercent = clamp(m.leftPercent+e.Delta, config.MinLeftPercent, config.MaxLeftPercent)
		m.layout()
		return nil, nil

	case common.Quit:
		return tea.Quit, nil
	}
	return nil, fmt.Errorf("unhandled effect %T: %w", e, common.ErrInvalidState)
}

// ── Scheduling ──────────────────────────────────────────────────────────────

// currentDoc names the document the navigation state points at.
func (m *Model) currentDoc() docKey {
	path, _ := m.nav.Path()
	return docKey{commit: m.nav.CommitID(), path: path}
}

// commitChanged drops the document of the previous commit and fetches the
// tree of the new one.
func (m *Model) commitChanged() tea.Cmd {
	m.clearDocument()
	m.loader.Supersede(loader.LoadFileContent)
	m.loader.Supersede(loader.ComputeBlame)

	id := m.nav.CommitID()
	if id == "" {
		return nil
	}
	if files, ok := m.src.PeekTree(id); ok {
		m.loader.Supersede(loader.LoadFileTree)
		return m.installTree(id, files)
	}
	// The previous commit's files are not selectable here.
	m.filter.SetFiles(nil)
	m.syncFileList()
	return tea.Batch(m.loader.Request(loader.FileTree(id)), m.viewer.Tick)
}

func (m *Model) clearDocument() {
	m.content, m.highlighted, m.blame = nil, nil, nil
	m.contentFor, m.blameFor = docKey{}, docKey{}
	m.contentErr = ""
}

// loadDocument makes sure content, and blame when shown, are loaded or on
// their way for the current file.
func (m *Model) loadDocument() tea.Cmd {
	k := m.currentDoc()
	if k.commit == "" || k.path == "" {
		m.clearDocument()
		return nil
	}

	var cmds []tea.Cmd
	if m.contentFor != k {
		m.content, m.highlighted, m.contentErr = nil, nil, ""
		m.contentFor = k
		if c, ok := m.src.PeekContent(k.commit, k.path); ok {
			m.loader.Supersede(loader.LoadFileContent)
			cmds = append(cmds, m.installContent(k, c))
		} else {
			cmds = append(cmds, m.loader.Request(loader.FileContent(k.commit, k.path)), m.viewer.Tick)
		}
	}
	if m.nav.Mode() == common.ModeBlame {
		cmds = append(cmds, m.loadBlame())
	}
	return tea.Batch(cmds...)
}

// loadBlame fetches attribution for the current file unless it is already
// shown or in flight.
func (m *Model) loadBlame() tea.Cmd {
	k := m.currentDoc()
	if k.commit == "" || k.path == "" || m.blameFor == k {
		return nil
	}
	m.blame, m.blameFor = nil, k
	if b, ok := m.src.PeekBlame(k.commit, k.path); ok {
		m.loader.Supersede(loader.ComputeBlame)
		m.blame = b
		return nil
	}
	return tea.Batch(m.loader.Request(loader.Blame(k.commit, k.path)), m.viewer.Tick)
}

// ── Results ─────────────────────────────────────────────────────────────────

// handleResult installs a loader result if it is still wanted.
func (m *Model) handleResult(r loader.Result) tea.Cmd {
	if !m.loader.Accept(r) {
		return nil
	}
	req := r.Request

	switch req.Kind {
	case loader.LoadCommitList:
		if r.Err != nil {
			m.historyLoaded = true
			if errors.Is(r.Err, git.ErrEmptyRepo) {
				m.setStatus("repository has no commits", false)
				return nil
			}
			m.fail(common.FailureFrom(r.Err))
			return nil
		}
		return m.installHistory(r.Commits)

	case loader.LoadFileTree:
		if req.CommitID != m.nav.CommitID() {
			m.log.Debug("tree for another commit dropped", "commit", git.Short(req.CommitID, 8))
			return nil
		}
		if r.Err != nil {
			m.pendingLink = nil
			m.fail(common.FailureFrom(r.Err))
			return nil
		}
		return m.installTree(req.CommitID, r.Files)

	case loader.LoadFileContent:
		k := docKey{commit: req.CommitID, path: req.Path}
		if k != m.currentDoc() {
			m.log.Debug("content for another file dropped", "path", req.Path)
			return nil
		}
		if r.Err != nil {
			if common.KindOf(r.Err) == common.KindNotFound {
				m.nav.ClearSelection()
				m.clearDocument()
				m.syncFileList()
			} else {
				m.contentErr = r.Err.Error()
			}
			m.fail(common.FailureFrom(r.Err))
			return nil
		}
		return m.installContent(k, r.Content)

	case loader.ComputeBlame:
		k := docKey{commit: req.CommitID, path: req.Path}
		if k != m.currentDoc() || k != m.blameFor {
			return nil
		}
		if r.Err != nil {
			m.blameFor = docKey{}
			m.fail(common.FailureFrom(r.Err))
			return nil
		}
		m.blame = r.Blame
		return nil

	case loader.LoadRemote:
		m.remoteLoaded = true
		if r.Err != nil {
			m.fail(common.FailureFrom(r.Err))
		} else {
			m.remoteURL, m.hasRemote = r.RemoteURL, r.HasRemote
		}
		if m.pendingLink != nil {
			e := m.pendingLink
			m.pendingLink = nil
			return m.apply(e)
		}
	}
	return nil
}

// installHistory takes a fresh history walk. The current commit is kept when
// it is still reachable. The first walk also applies the start commit.
func (m *Model) installHistory(commits []git.CommitRecord) tea.Cmd {
	changed := m.nav.SetHistory(commits, m.nav.CommitID())
	first := !m.historyLoaded
	m.historyLoaded = true

	if first && m.startCommit != "" {
		moved, err := m.nav.SetCommitByID(m.startCommit)
		if err != nil {
			m.fail(common.Failure{Kind: common.KindOf(err), Detail: "commit not found: " + m.startCommit})
		}
		changed = changed || moved
		m.startCommit = ""
	}
	if m.focus.Current() == common.FocusCommitModal {
		m.commitModal.Open(m.nav.History(), m.nav.Index())
	}
	if changed || !m.nav.TreeLoaded() {
		return m.commitChanged()
	}
	return nil
}

// installTree hands the commit's files to navigation and the filter. A
// selection missing from the new tree is cleared and reported.
func (m *Model) installTree(commitID string, files []git.FileEntry) tea.Cmd {
	prev, had := m.nav.Path()
	retained, err := m.nav.SetTree(commitID, files)
	if err != nil {
		m.fail(common.FailureFrom(err))
		return nil
	}
	m.filter.SetFiles(files)

	if had && !retained {
		m.clearDocument()
		m.setStatus(fmt.Sprintf("selection cleared: %s not present at %s", prev, git.Short(commitID, 7)), false)
	}

	if m.startFile != "" {
		path := m.startFile
		m.startFile = ""
		if _, err := m.nav.SelectFile(path); err != nil {
			m.pendingLine = 0
			m.fail(common.Failure{
				Kind:   common.KindOf(err),
				Detail: fmt.Sprintf("file not found: %s at %s", path, git.Short(commitID, 7)),
			})
		} else {
			retained = true
		}
	}

	m.syncFileList()
	var cmd tea.Cmd
	if retained {
		cmd = m.loadDocument()
	}
	if m.pendingLink != nil && m.remoteLoaded {
		e := m.pendingLink
		m.pendingLink = nil
		cmd = tea.Batch(cmd, m.apply(e))
	}
	return cmd
}

// installContent shows decoded content and schedules highlighting.
func (m *Model) installContent(k docKey, c *git.Content) tea.Cmd {
	m.content = c
	m.contentErr = ""
	m.highlighted = nil
	m.nav.SetContentSize(c.LineCount(), c.Width)

	if m.pendingLine > 0 {
		// Put the requested line a third of the way down the page.
		v := m.pendingLine - 1 - m.viewer.PageRows()/3
		m.nav.SetScroll(max(0, v), 0)
		m.pendingLine = 0
	}

	if !m.cfg.SyntaxHighlight || c.Binary || c.TooLarge || c.LineCount() == 0 {
		return nil
	}
	lines := c.Lines
	return func() tea.Msg {
		out, ok := ui.Highlight(k.path, lines)
		if !ok {
			return nil
		}
		return highlightMsg{key: k, lines: out}
	}
}

// ── Outside world ───────────────────────────────────────────────────────────

// linkAction opens or copies the web link of the current position. It
// waits for the remote lookup on first use and for the commit's tree.
func (m *Model) linkAction(e common.Effect) (tea.Cmd, error) {
	if m.nav.CommitID() == "" {
		return nil, fmt.Errorf("no commit: %w", common.ErrInvalidState)
	}
	if !m.remoteLoaded {
		m.pendingLink = e
		m.setStatus("resolving remote…", false)
		return m.loader.Request(loader.Remote()), nil
	}
	if !m.hasRemote {
		return nil, fmt.Errorf("remote %q is not configured: %w", m.cfg.Remote, common.ErrNotFound)
	}
	if !m.nav.TreeLoaded() {
		// The selection may not exist at this commit; wait for the tree.
		m.pendingLink = e
		return nil, nil
	}

	path, _ := m.nav.Path()
	line := 0
	if path != "" && m.content != nil && m.content.LineCount() > 0 {
		v, _ := m.nav.Scroll()
		line = v + 1
	}
	url, err := link.Resolve(m.remoteURL, m.nav.CommitID(), path, line)
	if err != nil {
		return nil, err
	}

	if _, ok := e.(common.OpenInBrowser); ok {
		opener := m.opener
		return func() tea.Msg {
			if err := opener.Open(url); err != nil {
				return common.FailureFrom(err)
			}
			return common.InfoMsg{Text: "opened " + url}
		}, nil
	}
	return m.copyCmd(url, "copied "+url), nil
}

// copyCmd writes text to the clipboard off the event loop.
func (m *Model) copyCmd(text, done string) tea.Cmd {
	clip := m.clipboard
	return func() tea.Msg {
		if err := clip.WriteText(text); err != nil {
			return common.FailureFrom(fmt.Errorf("clipboard: %w", err))
		}
		return common.InfoMsg{Text: done}
	}
}
