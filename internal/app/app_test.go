package app

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/config"
	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
	"github.com/Akashdeep-Patra/zed-git-history/internal/loader"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fakes ───────────────────────────────────────────────────────────────────

func id(n int) string { return strings.Repeat(strconv.Itoa(n), 40) }

type fakeRepo struct {
	commits []git.CommitRecord
	trees   map[string][]git.FileEntry
	blobs   map[string]string // commit + ":" + path
	remote  string
}

func (r *fakeRepo) ListCommits() ([]git.CommitRecord, error) {
	if len(r.commits) == 0 {
		return nil, git.ErrEmptyRepo
	}
	return r.commits, nil
}

func (r *fakeRepo) ListFiles(commitID string) ([]git.FileEntry, error) {
	t, ok := r.trees[commitID]
	if !ok {
		return nil, fmt.Errorf("tree %s: %w", commitID, git.ErrNotFound)
	}
	return t, nil
}

func (r *fakeRepo) ReadFile(commitID, path string) ([]byte, error) {
	b, ok := r.blobs[commitID+":"+path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, git.ErrNotFound)
	}
	return []byte(b), nil
}

func (r *fakeRepo) Blame(commitID, path string) ([]git.BlameEntry, error) {
	b, err := r.ReadFile(commitID, path)
	if err != nil {
		return nil, err
	}
	n := strings.Count(string(b), "\n")
	out := make([]git.BlameEntry, n)
	for i := range out {
		out[i] = git.BlameEntry{Line: i + 1, CommitID: commitID, Author: "Ada"}
	}
	return out, nil
}

func (r *fakeRepo) RemoteURL() (string, bool, error) {
	return r.remote, r.remote != "", nil
}

func commit(n int, summary string) git.CommitRecord {
	return git.CommitRecord{
		ID: id(n), ShortID: id(n)[:7], Summary: summary, Author: "Ada",
		Time: time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC),
	}
}

func files(paths ...string) []git.FileEntry {
	out := []git.FileEntry{{Path: "src", Kind: git.KindDir, Present: true}}
	for _, p := range paths {
		out = append(out, git.FileEntry{Path: p, Kind: git.KindFile, Present: true})
	}
	return out
}

func mainRS() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("x", 40) + "\n")
	for i := 2; i <= 100; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}

// newRepo builds three commits. lib.rs only exists at HEAD and ghost.txt
// is listed without a blob.
func newRepo() *fakeRepo {
	return &fakeRepo{
		commits: []git.CommitRecord{commit(3, "add lib"), commit(2, "add main"), commit(1, "initial import")},
		trees: map[string][]git.FileEntry{
			id(3): files("README.md", "ghost.txt", "src/lib.rs", "src/main.rs"),
			id(2): files("README.md", "src/main.rs"),
			id(1): files("README.md"),
		},
		blobs: map[string]string{
			id(3) + ":README.md":   "# demo\n",
			id(3) + ":src/lib.rs":  "pub fn lib() {}\n",
			id(3) + ":src/main.rs": mainRS(),
			id(2) + ":README.md":   "# demo\n",
			id(2) + ":src/main.rs": "fn main() {}\n",
			id(1) + ":README.md":   "# demo\n",
		},
		remote: "git@github.com:owner/repo.git",
	}
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	c.text = text
	return c.err
}

type fakeOpener struct{ urls []string }

func (o *fakeOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

// ── Driving helpers ─────────────────────────────────────────────────────────

type harness struct {
	repo *fakeRepo
	clip *fakeClipboard
	open *fakeOpener
}

func newModel(t *testing.T, repo *fakeRepo, opts Options) (Model, *harness) {
	t.Helper()
	cfg := config.Default()
	cfg.TickRate = time.Millisecond
	cfg.SyntaxHighlight = false

	src, err := git.NewCachedSource(repo, 64, 1<<20)
	require.NoError(t, err)

	h := &harness{repo: repo, clip: &fakeClipboard{}, open: &fakeOpener{}}
	opts.Clipboard = h.clip
	opts.Opener = h.open
	m := New(cfg, src, opts)
	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return drain(t, m, m.Init()), h
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// drain runs commands to completion, feeding their messages back into the
// model. Spinner and repeat ticks are dropped so the loop terminates.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg, tickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			var next tea.Cmd
			m, next = send(m, msg)
			queue = append(queue, next)
		}
	}
	return m
}

// results runs cmd without feeding anything back and returns the loader
// results it produced.
func results(cmd tea.Cmd) []loader.Result {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case loader.Result:
		return []loader.Result{msg}
	case tea.BatchMsg:
		var out []loader.Result
		for _, c := range msg {
			out = append(out, results(c)...)
		}
		return out
	}
	return nil
}

func do(t *testing.T, m Model, e common.Effect) Model {
	t.Helper()
	cmd := m.handleMessage(common.Do(e))
	return drain(t, m, cmd)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		var cmd tea.Cmd
		m, cmd = send(m, k)
		m = drain(t, m, cmd)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	shiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	esc      = tea.KeyMsg{Type: tea.KeyEsc}
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
)

// ── Tests ───────────────────────────────────────────────────────────────────

func TestStartupLoadsHeadAndTree(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	s := m.Snapshot()

	require.NotNil(t, s.Commit)
	assert.Equal(t, id(3), s.Commit.ID)
	assert.Equal(t, 0, s.CommitIndex)
	assert.Equal(t, 3, s.CommitCount)
	assert.True(t, s.TreeLoaded)
	assert.Equal(t, 4, s.FileCount, "directories are not candidates")
	assert.Equal(t, common.FocusFilter, s.Focus)
	assert.Empty(t, s.Path)
	assert.False(t, s.Loading)
	assert.True(t, m.remoteLoaded)
}

func TestTabCyclesPanels(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	var seen []common.FocusTarget
	for i := 0; i < 4; i++ {
		m = press(t, m, tab)
		seen = append(seen, m.Snapshot().Focus)
	}
	assert.Equal(t, []common.FocusTarget{
		common.FocusFileList, common.FocusCommitPanel, common.FocusContentViewer, common.FocusFilter,
	}, seen)

	m = press(t, m, shiftTab)
	assert.Equal(t, common.FocusContentViewer, m.Snapshot().Focus)
}

func TestFilterCapturesQuitAndHelp(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m, cmd := send(m, runes("q"))
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}
	m = press(t, m, runes("?"))

	s := m.Snapshot()
	assert.Equal(t, "q?", s.Query)
	assert.False(t, s.ModalOpen)
}

func TestQuitOutsideFilter(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = press(t, m, tab)
	_, cmd := send(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	// ctrl+c quits from anywhere, including the filter.
	m, _ = newModel(t, newRepo(), Options{})
	_, cmd = send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestFilterNarrowsFileList(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = press(t, m, runes("m"), runes("n"))

	s := m.Snapshot()
	require.NotEmpty(t, s.Matches)
	assert.Equal(t, "src/main.rs", s.Matches[0].Entry.Path)
}

func TestInvalidRegexKeepsResults(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = do(t, m, common.CycleFilterMode{Delta: 2})
	require.Equal(t, "regex", m.Snapshot().FilterMode.String())

	m = do(t, m, common.UpdateQuery{Text: `^src/.*\.rs$`})
	assert.Len(t, m.Snapshot().Matches, 2)

	m = do(t, m, common.UpdateQuery{Text: "("})
	s := m.Snapshot()
	assert.Len(t, s.Matches, 2, "previous ranking survives")
	assert.True(t, s.StatusError)
	assert.Contains(t, s.Status, "invalid query")
}

func TestSelectFileLoadsContent(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "src/main.rs"})

	s := m.Snapshot()
	assert.Equal(t, "src/main.rs", s.Path)
	require.NotNil(t, s.Content)
	assert.Equal(t, 100, s.Content.LineCount())
	assert.False(t, s.ContentLoading)
}

func TestSelectUnknownFileFails(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "nope.go"})

	s := m.Snapshot()
	assert.Empty(t, s.Path)
	assert.True(t, s.StatusError)
}

func TestScrollSaturates(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "src/main.rs"})

	m = do(t, m, common.ScrollTo{V: -5, H: 999})
	s := m.Snapshot()
	assert.Equal(t, 0, s.VScroll)
	assert.Equal(t, 39, s.HScroll)

	m = do(t, m, common.ScrollBy{DV: 1000})
	assert.Equal(t, 99, m.Snapshot().VScroll)
}

func TestSelectionClearedWhenMissingAtCommit(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "src/lib.rs"})
	require.Equal(t, "src/lib.rs", m.Snapshot().Path)

	m = do(t, m, common.MoveCommit{Delta: 1})
	s := m.Snapshot()
	assert.Equal(t, id(2), s.Commit.ID)
	assert.Empty(t, s.Path)
	assert.Nil(t, s.Content)
	assert.Contains(t, s.Status, "selection cleared: src/lib.rs not present at 2222222")
}

func TestSelectionRetainedAcrossCommits(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "src/main.rs"})
	m = do(t, m, common.MoveCommit{Delta: 1})

	s := m.Snapshot()
	assert.Equal(t, "src/main.rs", s.Path)
	require.NotNil(t, s.Content)
	assert.Equal(t, []string{"fn main() {}"}, s.Content.Lines)

	// Back to HEAD resolves from cache without a load.
	m = do(t, m, common.MoveCommit{Delta: -1})
	assert.Equal(t, 100, m.Snapshot().Content.LineCount())
	assert.False(t, m.loader.Pending(loader.LoadFileTree))
}

func TestStaleContentIsDropped(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})

	first := results(m.handleMessage(common.Do(common.SelectFile{Path: "README.md"})))
	second := results(m.handleMessage(common.Do(common.SelectFile{Path: "src/main.rs"})))
	require.Len(t, first, 1)
	require.Len(t, second, 1)

	// Deliver out of order: the newer request lands first.
	for _, r := range append(second, first...) {
		m, _ = send(m, r)
	}
	s := m.Snapshot()
	assert.Equal(t, "src/main.rs", s.Path)
	require.NotNil(t, s.Content)
	assert.Equal(t, 100, s.Content.LineCount())
}

func TestStaleTreeIsDropped(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})

	toTwo := results(m.handleMessage(common.Do(common.MoveCommit{Delta: 1})))
	toOne := results(m.handleMessage(common.Do(common.MoveCommit{Delta: 1})))
	require.Len(t, toTwo, 1)
	require.Len(t, toOne, 1)

	m, _ = send(m, toOne[0])
	m, _ = send(m, toTwo[0])
	s := m.Snapshot()
	assert.Equal(t, id(1), s.Commit.ID)
	assert.True(t, s.TreeLoaded)
	assert.Equal(t, 1, s.FileCount)
}

func TestFileListEmptyWhileTreeLoads(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = press(t, m, tab)
	require.Equal(t, common.FocusFileList, m.Snapshot().Focus)

	tree := results(m.handleMessage(common.Do(common.MoveCommit{Delta: 1})))
	require.Len(t, tree, 1)
	s := m.Snapshot()
	assert.False(t, s.TreeLoaded)
	assert.Zero(t, s.FileCount)
	assert.Empty(t, s.Matches)

	m = press(t, m, runes("j"))
	s = m.Snapshot()
	assert.False(t, s.StatusError, s.Status)
	assert.Empty(t, s.Path)

	m, cmd := send(m, tree[0])
	m = drain(t, m, cmd)
	assert.Equal(t, 2, m.Snapshot().FileCount)

	m = press(t, m, runes("j"))
	s = m.Snapshot()
	assert.False(t, s.StatusError, s.Status)
	assert.Equal(t, "src/main.rs", s.Path)
}

func TestLinkWaitsForTreeOfNewCommit(t *testing.T) {
	m, h := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "src/lib.rs"})

	tree := results(m.handleMessage(common.Do(common.MoveCommit{Delta: 1})))
	require.Len(t, tree, 1)
	m = do(t, m, common.OpenInBrowser{})
	assert.Empty(t, h.open.urls, "no link before the tree says whether the file exists")

	m, cmd := send(m, tree[0])
	m = drain(t, m, cmd)
	assert.Equal(t, []string{"https://github.com/owner/repo/blob/" + id(2)}, h.open.urls)
	assert.Empty(t, m.Snapshot().Path)
}

func TestLinkKeepsFilePresentAtNewCommit(t *testing.T) {
	m, h := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "src/main.rs"})

	tree := results(m.handleMessage(common.Do(common.MoveCommit{Delta: 1})))
	require.Len(t, tree, 1)
	m = do(t, m, common.CopyPermalink{})
	assert.Empty(t, h.clip.text)

	m, cmd := send(m, tree[0])
	m = drain(t, m, cmd)
	assert.Equal(t, "https://github.com/owner/repo/blob/"+id(2)+"/src/main.rs", h.clip.text)
	assert.Equal(t, "src/main.rs", m.Snapshot().Path)
}

func TestContentNotFoundClearsSelection(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "ghost.txt"})

	s := m.Snapshot()
	assert.Empty(t, s.Path)
	assert.True(t, s.StatusError)
	assert.Contains(t, s.Status, "not found")
}

func TestModalsAreExclusive(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = press(t, m, tab, tab)
	require.Equal(t, common.FocusCommitPanel, m.Snapshot().Focus)

	m = press(t, m, runes("o"))
	assert.Equal(t, common.FocusCommitModal, m.Snapshot().Focus)

	// Neither help nor Tab get past an open modal.
	m = press(t, m, runes("?"), tab)
	assert.Equal(t, common.FocusCommitModal, m.Snapshot().Focus)
	m = do(t, m, common.OpenModal{Target: common.FocusHelpModal})
	assert.Equal(t, common.FocusCommitModal, m.Snapshot().Focus)

	m = press(t, m, esc)
	assert.Equal(t, common.FocusCommitPanel, m.Snapshot().Focus)

	m = press(t, m, runes("?"))
	assert.Equal(t, common.FocusHelpModal, m.Snapshot().Focus)
	m = press(t, m, runes("o"))
	assert.Equal(t, common.FocusHelpModal, m.Snapshot().Focus)
	m = press(t, m, runes("?"))
	s := m.Snapshot()
	assert.Equal(t, common.FocusCommitPanel, s.Focus)
	assert.False(t, s.ModalOpen)
}

func TestCommitModalJumps(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = press(t, m, tab, tab, runes("o"), runes("j"), enter)

	s := m.Snapshot()
	assert.Equal(t, common.FocusCommitPanel, s.Focus)
	assert.Equal(t, id(2), s.Commit.ID)
	assert.True(t, s.TreeLoaded)
}

func TestSetCommitUnknown(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SetCommit{ID: "deadbeef"})

	s := m.Snapshot()
	assert.Equal(t, id(3), s.Commit.ID)
	assert.True(t, s.StatusError)
	assert.Contains(t, s.Status, "deadbeef")
}

func TestStartCommitNotFound(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{StartCommit: "zzz"})
	s := m.Snapshot()
	assert.Equal(t, id(3), s.Commit.ID)
	assert.True(t, s.StatusError)
	assert.Equal(t, "commit not found: zzz", s.Status)
}

func TestStartPosition(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{StartCommit: "222", StartFile: "src/main.rs", Blame: true})
	s := m.Snapshot()
	assert.Equal(t, id(2), s.Commit.ID)
	assert.Equal(t, "src/main.rs", s.Path)
	assert.Equal(t, common.FocusContentViewer, s.Focus)
	assert.Equal(t, common.ModeBlame, s.Mode)
	require.Len(t, s.Blame, 1)
	assert.Equal(t, id(2), s.Blame[0].CommitID)
}

func TestStartLineScrolls(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{StartFile: "src/main.rs", StartLine: 50})
	assert.Equal(t, 49-m.viewer.PageRows()/3, m.Snapshot().VScroll)
}

func TestToggleBlameLoadsAttribution(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "README.md"})
	m = do(t, m, common.ToggleBlame{})

	s := m.Snapshot()
	assert.Equal(t, common.ModeBlame, s.Mode)
	require.Len(t, s.Blame, 1)

	m = do(t, m, common.ToggleBlame{})
	assert.Equal(t, common.ModePlain, m.Snapshot().Mode)
}

func TestRepeatingScroll(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "src/main.rs"})
	m = do(t, m, common.FocusTo{Target: common.FocusContentViewer})

	m, _ = send(m, runes("J"))
	assert.Equal(t, 1, m.Snapshot().VScroll)
	require.NotNil(t, m.repeating)

	gen := m.repeatGen
	m, _ = send(m, tickMsg{gen: gen})
	assert.Equal(t, 2, m.Snapshot().VScroll)

	// A tick from an older repetition is ignored.
	m, _ = send(m, tickMsg{gen: gen - 1})
	assert.Equal(t, 2, m.Snapshot().VScroll)

	// Any key press cancels.
	m, _ = send(m, runes("z"))
	assert.Nil(t, m.repeating)
	m, _ = send(m, tickMsg{gen: gen})
	assert.Equal(t, 2, m.Snapshot().VScroll)
}

func TestRepeatingStopsAtBoundary(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "src/main.rs"})
	m = do(t, m, common.FocusTo{Target: common.FocusContentViewer})
	m = do(t, m, common.ScrollTo{V: 98})

	m, _ = send(m, runes("J"))
	require.NotNil(t, m.repeating)
	assert.Equal(t, 99, m.Snapshot().VScroll)

	m, _ = send(m, tickMsg{gen: m.repeatGen})
	assert.Nil(t, m.repeating)

	// Already at the bottom: nothing to repeat.
	m, _ = send(m, runes("J"))
	assert.Nil(t, m.repeating)
}

func TestCopyCommitID(t *testing.T) {
	m, h := newModel(t, newRepo(), Options{})
	m = press(t, m, tab, tab, runes("y"))

	assert.Equal(t, id(3), h.clip.text)
	assert.Equal(t, "copied 33333333", m.Snapshot().Status)
}

func TestClipboardFailure(t *testing.T) {
	m, h := newModel(t, newRepo(), Options{})
	h.clip.err = fmt.Errorf("no display")
	m = do(t, m, common.CopyCommitID{})

	s := m.Snapshot()
	assert.True(t, s.StatusError)
	assert.Contains(t, s.Status, "no display")
}

func TestOpenInBrowserUsesScrollLine(t *testing.T) {
	m, h := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "src/main.rs"})
	m = do(t, m, common.ScrollTo{V: 9})
	m = do(t, m, common.OpenInBrowser{})

	want := "https://github.com/owner/repo/blob/" + id(3) + "/src/main.rs#L10"
	assert.Equal(t, []string{want}, h.open.urls)
	assert.Equal(t, "opened "+want, m.Snapshot().Status)

	m = do(t, m, common.CopyPermalink{})
	assert.Equal(t, want, h.clip.text)
}

func TestPermalinkWithoutFileLinksCommit(t *testing.T) {
	m, h := newModel(t, newRepo(), Options{})
	m = do(t, m, common.CopyPermalink{})
	assert.Equal(t, "https://github.com/owner/repo/blob/"+id(3), h.clip.text)
	assert.False(t, m.Snapshot().StatusError)
}

func TestOpenInBrowserWithoutRemote(t *testing.T) {
	repo := newRepo()
	repo.remote = ""
	m, h := newModel(t, repo, Options{})
	m = do(t, m, common.OpenInBrowser{})

	assert.Empty(t, h.open.urls)
	s := m.Snapshot()
	assert.True(t, s.StatusError)
	assert.Contains(t, s.Status, "not configured")
}

func TestResizeLeftClamps(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = press(t, m, tab)
	for i := 0; i < 20; i++ {
		m = press(t, m, runes(">"))
	}
	assert.Equal(t, config.MaxLeftPercent, m.Snapshot().LeftPercent)
	for i := 0; i < 20; i++ {
		m = press(t, m, runes("<"))
	}
	assert.Equal(t, config.MinLeftPercent, m.Snapshot().LeftPercent)
}

func TestRefreshKeepsPosition(t *testing.T) {
	repo := newRepo()
	m, _ := newModel(t, repo, Options{})
	m = do(t, m, common.MoveCommit{Delta: 1})

	repo.commits = append([]git.CommitRecord{commit(4, "newer")}, repo.commits...)
	repo.trees[id(4)] = files("README.md")
	m, cmd := send(m, common.RefreshMsg{})
	m = drain(t, m, cmd)

	s := m.Snapshot()
	assert.Equal(t, 4, s.CommitCount)
	assert.Equal(t, id(2), s.Commit.ID)
	assert.Equal(t, 2, s.CommitIndex)
}

func TestEmptyRepository(t *testing.T) {
	repo := newRepo()
	repo.commits = nil
	m, _ := newModel(t, repo, Options{})

	s := m.Snapshot()
	assert.Nil(t, s.Commit)
	assert.Equal(t, "repository has no commits", s.Status)
	assert.NotEmpty(t, m.View())
}

func TestUnhandledEffectIsInvalidState(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	_, err := m.applyEffect(nil)
	assert.ErrorIs(t, err, common.ErrInvalidState)
}

func TestViewRendersPanels(t *testing.T) {
	m, _ := newModel(t, newRepo(), Options{})
	m = do(t, m, common.SelectFile{Path: "README.md"})

	out := m.View()
	assert.Contains(t, out, "Filter")
	assert.Contains(t, out, "src/main.rs")
	assert.Contains(t, out, "add lib")
	assert.Contains(t, out, "# demo")

	m = press(t, m, tab, runes("?"))
	assert.Contains(t, m.View(), "toggle blame")
}
