// Package nav holds the authoritative browsing position: which commit,
// which file, where the content is scrolled and how it is displayed.
//
// State is owned by the event loop and has no locks. Operations never
// perform I/O; they report what changed so the caller can schedule loads.
package nav

import (
	"fmt"
	"strings"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
)

var (
	// ErrNotFound is returned when a path or commit is not in the current history or tree.
	ErrNotFound = fmt.Errorf("nav: %w", common.ErrNotFound)
	// ErrTreeNotLoaded is returned when selecting a file before the tree arrived.
	ErrTreeNotLoaded = fmt.Errorf("nav: tree not loaded: %w", common.ErrInvalidState)
	// ErrAmbiguous is returned when a commit prefix matches more than one commit.
	ErrAmbiguous = fmt.Errorf("nav: ambiguous commit prefix: %w", common.ErrNotFound)
)

// State is the current browsing position. History is ordered newest first,
// so index 0 is HEAD and a positive delta moves towards older commits.
type State struct {
	history []git.CommitRecord
	index   int

	treeFor string              // commit id the file set belongs to, "" while loading
	files   map[string]struct{} // blobs at treeFor

	path    string
	hasPath bool

	vscroll, hscroll int
	lines, cols      int // loaded content dimensions, 0 when nothing is loaded

	mode     common.DisplayMode
	lastMode common.DisplayMode // mode to return to when blame is toggled off
}

// New returns an empty State in the given display mode.
func New(mode common.DisplayMode) *State {
	s := &State{mode: mode, lastMode: common.ModePlain}
	if mode != common.ModeBlame {
		s.lastMode = mode
	}
	return s
}

// ── History ─────────────────────────────────────────────────────────────────

// SetHistory installs a freshly loaded history. If keepID is still present
// the index follows it, otherwise the index resets to HEAD. Reports whether
// the current commit changed.
func (s *State) SetHistory(commits []git.CommitRecord, keepID string) bool {
	prev := s.CommitID()
	s.history = commits
	s.index = 0
	if keepID != "" {
		for i, c := range commits {
			if c.ID == keepID {
				s.index = i
				break
			}
		}
	}
	if s.CommitID() == prev {
		return false
	}
	s.invalidateCommit()
	return true
}

// Len returns the number of commits in history.
func (s *State) Len() int { return len(s.history) }

// Index returns the current commit index.
func (s *State) Index() int { return s.index }

// Commit returns the current commit, or false when history is empty.
func (s *State) Commit() (git.CommitRecord, bool) {
	if len(s.history) == 0 {
		return git.CommitRecord{}, false
	}
	return s.history[s.index], true
}

// CommitID returns the current commit id or "".
func (s *State) CommitID() string {
	c, _ := s.Commit()
	return c.ID
}

// History returns the loaded commits. Callers must not modify it.
func (s *State) History() []git.CommitRecord { return s.history }

// MoveCommit shifts the index by delta, clamped to the history bounds.
// At a boundary it is a silent no-op and returns false.
func (s *State) MoveCommit(delta int) bool {
	if len(s.history) == 0 {
		return false
	}
	next := clamp(s.index+delta, 0, len(s.history)-1)
	if next == s.index {
		return false
	}
	s.index = next
	s.invalidateCommit()
	return true
}

// SetCommitByID jumps to the commit whose id equals or starts with id.
// Reports whether the current commit changed.
func (s *State) SetCommitByID(id string) (bool, error) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return false, fmt.Errorf("empty commit id: %w", ErrNotFound)
	}
	found := -1
	for i, c := range s.history {
		if c.ID == id {
			found = i
			break
		}
		if strings.HasPrefix(c.ID, id) {
			if found >= 0 {
				return false, fmt.Errorf("%s: %w", id, ErrAmbiguous)
			}
			found = i
		}
	}
	if found < 0 {
		return false, fmt.Errorf("commit %s: %w", id, ErrNotFound)
	}
	if found == s.index {
		return false, nil
	}
	s.index = found
	s.invalidateCommit()
	return true, nil
}

// invalidateCommit drops everything tied to the previous commit. The
// selected path survives until SetTree decides whether it still exists.
func (s *State) invalidateCommit() {
	s.treeFor = ""
	s.files = nil
	s.clearContent()
}

// ── Files ───────────────────────────────────────────────────────────────────

// TreeLoaded reports whether the file set for the current commit is known.
func (s *State) TreeLoaded() bool {
	return s.treeFor != "" && s.treeFor == s.CommitID()
}

// SetTree installs the file set of the current commit. A selected path
// that does not exist there is cleared; retained reports whether a
// selection survived. Trees for any other commit are rejected.
func (s *State) SetTree(commitID string, entries []git.FileEntry) (retained bool, err error) {
	if commitID == "" || commitID != s.CommitID() {
		return false, fmt.Errorf("tree for %s is not current: %w", git.Short(commitID, 8), common.ErrInvalidState)
	}
	s.treeFor = commitID
	s.files = make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.IsFile() {
			s.files[e.Path] = struct{}{}
		}
	}
	if !s.hasPath {
		return false, nil
	}
	if s.HasFile(s.path) {
		return true, nil
	}
	s.ClearSelection()
	return false, nil
}

// HasFile reports whether path is a blob in the current tree. It is false
// for every path until that tree is loaded.
func (s *State) HasFile(path string) bool {
	if !s.TreeLoaded() {
		return false
	}
	_, ok := s.files[path]
	return ok
}

// SelectFile makes path current. The path is re-validated against the
// current tree. Reports whether the selection changed.
func (s *State) SelectFile(path string) (bool, error) {
	if !s.TreeLoaded() {
		return false, ErrTreeNotLoaded
	}
	if !s.HasFile(path) {
		return false, fmt.Errorf("%s at %s: %w", path, git.Short(s.CommitID(), 8), ErrNotFound)
	}
	if s.hasPath && s.path == path {
		return false, nil
	}
	s.path = path
	s.hasPath = true
	s.clearContent()
	return true, nil
}

// Path returns the selected path, if any.
func (s *State) Path() (string, bool) { return s.path, s.hasPath }

// ClearSelection unsets the selected path and its content.
func (s *State) ClearSelection() {
	s.path = ""
	s.hasPath = false
	s.clearContent()
}

// ── Content & scroll ────────────────────────────────────────────────────────

func (s *State) clearContent() {
	s.lines, s.cols = 0, 0
	s.vscroll, s.hscroll = 0, 0
}

// SetContentSize records loaded content dimensions and re-clamps scroll.
func (s *State) SetContentSize(lines, cols int) {
	s.lines = max(0, lines)
	s.cols = max(0, cols)
	s.SetScroll(s.vscroll, s.hscroll)
}

// ContentSize returns the loaded content dimensions.
func (s *State) ContentSize() (lines, cols int) { return s.lines, s.cols }

// SetScroll clamps and stores the offsets. Vertical saturates at the last
// line and horizontal at the last column of the widest line, so something
// is always visible. Without content both are 0.
func (s *State) SetScroll(v, h int) (int, int) {
	s.vscroll = clamp(v, 0, max(0, s.lines-1))
	s.hscroll = clamp(h, 0, max(0, s.cols-1))
	return s.vscroll, s.hscroll
}

// Scroll returns the current vertical and horizontal offsets.
func (s *State) Scroll() (int, int) { return s.vscroll, s.hscroll }

// ── Display mode ────────────────────────────────────────────────────────────

// Mode returns the current display mode.
func (s *State) Mode() common.DisplayMode { return s.mode }

// SetDisplayMode switches the display mode. It returns true when the new
// mode is blame, meaning the caller must make sure blame is available.
func (s *State) SetDisplayMode(m common.DisplayMode) bool {
	if s.mode != common.ModeBlame {
		s.lastMode = s.mode
	}
	s.mode = m
	return m == common.ModeBlame
}

// ToggleBlame switches to blame, or back to the mode used before it.
func (s *State) ToggleBlame() bool {
	if s.mode == common.ModeBlame {
		return s.SetDisplayMode(s.lastMode)
	}
	return s.SetDisplayMode(common.ModeBlame)
}

// ToggleLineNumbers flips between plain and numbered. From blame it goes
// to numbered.
func (s *State) ToggleLineNumbers() {
	if s.mode == common.ModeLineNumbered {
		s.SetDisplayMode(common.ModePlain)
		return
	}
	s.SetDisplayMode(common.ModeLineNumbered)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
