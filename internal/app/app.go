package app

import (
	"io"
	"log/slog"
	"time"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/config"
	"github.com/Akashdeep-Patra/zed-git-history/internal/filter"
	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
	"github.com/Akashdeep-Patra/zed-git-history/internal/link"
	"github.com/Akashdeep-Patra/zed-git-history/internal/loader"
	"github.com/Akashdeep-Patra/zed-git-history/internal/nav"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui/panels"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// resizeStep is how many percent one < or > moves the column split.
const resizeStep = 5

// wheelStep is how many lines one mouse wheel notch scrolls.
const wheelStep = 3

// Source is what the coordinator reads from: everything the loader needs
// plus cache peeks that never touch the repository.
type Source interface {
	loader.Source
	PeekTree(commitID string) ([]git.FileEntry, bool)
	PeekContent(commitID, path string) (*git.Content, bool)
	PeekBlame(commitID, path string) ([]git.BlameEntry, bool)
}

// Options carry the start position and the side-effect seams.
type Options struct {
	StartCommit string // commit id or prefix to open instead of HEAD
	StartFile   string // path to preselect once the tree loads
	StartLine   int    // 1-based line to scroll to, 0 for the top
	Blame       bool   // start in blame mode
	RepoRoot    string

	Clipboard ClipboardWriter
	Opener    link.Opener
	Logger    *slog.Logger
}

// docKey names one file at one commit.
type docKey struct {
	commit string
	path   string
}

// highlightMsg delivers syntax-coloured lines for a document.
type highlightMsg struct {
	key   docKey
	lines []string
}

// tickMsg drives a Repeating message. gen ties it to the repetition that
// scheduled it.
type tickMsg struct{ gen int }

// Model is the top-level Bubbletea model. It owns every piece of browsing
// state and is the only place effects are applied.
type Model struct {
	cfg       *config.Config
	styles    ui.Styles
	keys      KeyMap
	log       *slog.Logger
	clipboard ClipboardWriter
	opener    link.Opener
	repoRoot  string

	src    Source
	loader *loader.Loader
	nav    *nav.State
	filter *filter.Engine
	focus  Focus

	filterPanel *panels.Filter
	files       *panels.FileList
	commitPanel *panels.CommitPanel
	viewer      *panels.ContentViewer
	commitModal *panels.CommitModal
	help        *panels.HelpModal

	// Document state for the current commit and path. contentFor and
	// blameFor are set when a load is requested, the values on arrival.
	content     *git.Content
	contentFor  docKey
	contentErr  string
	highlighted []string
	blame       []git.BlameEntry
	blameFor    docKey

	historyLoaded bool
	remoteLoaded  bool
	remoteURL     string
	hasRemote     bool
	pendingLink   common.Effect

	startCommit string
	startFile   string
	pendingLine int

	repeating common.Effect
	repeatGen int

	leftPercent   int
	width, height int

	statusMsg string
	statusErr bool
	statusExp time.Time
}

// New creates the application model. A nil cfg uses the defaults.
func New(cfg *config.Config, src Source, opts Options) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = SystemClipboard{}
	}
	opener := opts.Opener
	if opener == nil {
		opener = link.BrowserOpener{}
	}

	bindings := cfg.Bindings()
	pkeys := panels.NewKeys(bindings)
	keys := NewKeyMap(bindings)
	styles := ui.DefaultStyles()

	mode := common.ParseDisplayMode(cfg.DisplayMode)
	if opts.Blame {
		mode = common.ModeBlame
	}
	start := common.FocusFilter
	if opts.StartFile != "" {
		start = common.FocusContentViewer
	}

	m := Model{
		cfg:         cfg,
		styles:      styles,
		keys:        keys,
		log:         log,
		clipboard:   clip,
		opener:      opener,
		repoRoot:    opts.RepoRoot,
		src:         src,
		loader:      loader.New(src, cfg.LoaderWorkers, log),
		nav:         nav.New(mode),
		filter:      filter.New(filter.ParseMode(cfg.FilterMode)),
		focus:       NewFocus(start),
		filterPanel: panels.NewFilter(),
		files:       panels.NewFileList(pkeys),
		commitPanel: panels.NewCommitPanel(pkeys),
		viewer:      panels.NewContentViewer(pkeys, styles),
		commitModal: panels.NewCommitModal(pkeys),
		help:        panels.NewHelpModal(pkeys, panels.Sections(pkeys, keys.Bindings())),
		startCommit: opts.StartCommit,
		startFile:   opts.StartFile,
		pendingLine: opts.StartLine,
		leftPercent: clamp(cfg.LeftPanelPercent, config.MinLeftPercent, config.MaxLeftPercent),
	}
	m.syncFocus()
	return m
}

// Init starts the history walk and the remote lookup.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loader.Request(loader.CommitList()),
		m.loader.Request(loader.Remote()),
		m.viewer.Tick,
	)
}

// loading reports whether history, a tree, content or blame is in flight.
func (m *Model) loading() bool {
	return m.loader.Pending(loader.LoadCommitList) ||
		m.loader.Pending(loader.LoadFileTree) ||
		m.loader.Pending(loader.LoadFileContent) ||
		m.loader.Pending(loader.ComputeBlame)
}

// Update processes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case loader.Result:
		cmd := m.handleResult(msg)
		return m, cmd

	case highlightMsg:
		if msg.key == m.contentFor && m.content != nil {
			m.highlighted = msg.lines
		}
		return m, nil

	case tickMsg:
		cmd := m.handleTick(msg)
		return m, cmd

	case spinner.TickMsg:
		// The chain ends when nothing is loading; loads restart it.
		if !m.loading() {
			return m, nil
		}
		return m, m.viewer.UpdateSpinner(msg)

	case common.RefreshMsg:
		m.log.Debug("refs changed, reloading history")
		return m, m.loader.Request(loader.CommitList())

	case common.InfoMsg:
		m.setStatus(msg.Text, false)
		return m, nil

	case common.Failure:
		m.fail(msg)
		return m, nil
	}
	return m, nil
}

// handleKey applies global bindings and routes everything else to the
// focused panel. Any key press ends a repeating action first.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.stopRepeating()

	if key.Matches(msg, m.keys.ForceQuit) {
		return tea.Quit
	}

	cur := m.focus.Current()
	typing := cur == common.FocusFilter ||
		(cur == common.FocusCommitModal && m.commitModal.Capturing())

	if !typing && key.Matches(msg, m.keys.Help) {
		switch cur {
		case common.FocusHelpModal:
			return m.handleMessage(common.Do(common.CloseModal{}))
		case common.FocusCommitModal:
			return nil
		}
		return m.handleMessage(common.Do(common.OpenModal{Target: common.FocusHelpModal}))
	}

	if !m.focus.ModalOpen() {
		switch {
		case key.Matches(msg, m.keys.NextPanel):
			if m.focus.Cycle(1) {
				m.syncFocus()
			}
			return nil
		case key.Matches(msg, m.keys.PrevPanel):
			if m.focus.Cycle(-1) {
				m.syncFocus()
			}
			return nil
		}
		if !typing {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m.handleMessage(common.Do(common.Quit{}))
			case key.Matches(msg, m.keys.Reload):
				m.setStatus("reloading history", false)
				return m.loader.Request(loader.CommitList())
			case key.Matches(msg, m.keys.ShrinkLeft):
				return m.handleMessage(common.Do(common.ResizeLeft{Delta: -resizeStep}))
			case key.Matches(msg, m.keys.GrowLeft):
				return m.handleMessage(common.Do(common.ResizeLeft{Delta: resizeStep}))
			}
		}
	}

	return m.handleMessage(m.route(msg))
}

// route hands a key to the focused panel.
func (m *Model) route(msg tea.KeyMsg) common.Message {
	switch m.focus.Current() {
	case common.FocusFilter:
		return m.filterPanel.HandleKey(msg)
	case common.FocusFileList:
		return m.files.HandleKey(msg)
	case common.FocusCommitPanel:
		return m.commitPanel.HandleKey(msg)
	case common.FocusContentViewer:
		return m.viewer.HandleKey(msg)
	case common.FocusCommitModal:
		return m.commitModal.HandleKey(msg)
	case common.FocusHelpModal:
		return m.help.HandleKey(msg)
	}
	return common.NoAction{}
}

// handleMouse scrolls the content with the wheel and focuses panels on click.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.focus.ModalOpen() || m.width == 0 {
		return nil
	}
	leftW, _ := ui.SplitWidth(m.width, m.leftPercent)
	inContent := msg.X >= leftW

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if !inContent {
			return nil
		}
		m.stopRepeating()
		dv := wheelStep
		if msg.Button == tea.MouseButtonWheelUp {
			dv = -wheelStep
		}
		return m.handleMessage(common.Do(common.ScrollBy{DV: dv}))

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		return m.handleMessage(common.Do(common.FocusTo{Target: m.panelAt(msg.X, msg.Y)}))
	}
	return nil
}

// panelAt maps a screen cell to the panel drawn there.
func (m *Model) panelAt(x, y int) common.FocusTarget {
	leftW, _ := ui.SplitWidth(m.width, m.leftPercent)
	if x >= leftW {
		return common.FocusContentViewer
	}
	switch {
	case y < panels.FilterHeight:
		return common.FocusFilter
	case y < panels.FilterHeight+m.fileListHeight():
		return common.FocusFileList
	default:
		return common.FocusCommitPanel
	}
}

// handleMessage interprets a panel's answer.
func (m *Model) handleMessage(msg common.Message) tea.Cmd {
	switch msg := msg.(type) {
	case common.NoAction:
		return nil
	case common.Once:
		return m.apply(msg.Effect)
	case common.Repeating:
		before := m.position()
		cmd := m.apply(msg.Effect)
		if m.position() == before {
			return cmd
		}
		m.repeating = msg.Effect
		m.repeatGen++
		return tea.Batch(cmd, m.tick())
	case common.Failure:
		m.fail(msg)
	}
	return nil
}

// apply runs an effect and surfaces its error.
func (m *Model) apply(e common.Effect) tea.Cmd {
	cmd, err := m.applyEffect(e)
	if err != nil {
		m.fail(common.FailureFrom(err))
	}
	return cmd
}

// position is the part of state a repeating effect can move.
type position struct {
	index int
	path  string
	v, h  int
	mode  common.DisplayMode
}

func (m *Model) position() position {
	path, _ := m.nav.Path()
	v, h := m.nav.Scroll()
	return position{index: m.nav.Index(), path: path, v: v, h: h, mode: m.nav.Mode()}
}

func (m *Model) tick() tea.Cmd {
	gen := m.repeatGen
	return tea.Tick(m.cfg.TickRate, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

// handleTick re-applies the repeating effect. It stops once the effect no
// longer moves anything.
func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if m.repeating == nil || msg.gen != m.repeatGen {
		return nil
	}
	before := m.position()
	cmd := m.apply(m.repeating)
	if m.position() == before {
		m.stopRepeating()
		return cmd
	}
	return tea.Batch(cmd, m.tick())
}

func (m *Model) stopRepeating() {
	if m.repeating != nil {
		m.repeating = nil
		m.repeatGen++
	}
}

// ── Status ──────────────────────────────────────────────────────────────────

func (m *Model) setStatus(text string, isErr bool) {
	m.statusMsg = text
	m.statusErr = isErr
	ttl := 3 * time.Second
	if isErr {
		ttl = 5 * time.Second
	}
	m.statusExp = time.Now().Add(ttl)
}

func (m *Model) fail(f common.Failure) {
	m.log.Warn("failure", "kind", f.Kind, "detail", f.Detail)
	m.setStatus(f.Detail, true)
}

// ── Layout ──────────────────────────────────────────────────────────────────

// bodyHeight is the screen minus the status bar.
func (m *Model) bodyHeight() int { return max(1, m.height-1) }

func (m *Model) fileListHeight() int {
	return max(3, m.bodyHeight()-panels.FilterHeight-panels.CommitPanelHeight)
}

// layout pushes the window size into the panels.
func (m *Model) layout() {
	leftW, _ := ui.SplitWidth(m.width, m.leftPercent)
	m.filterPanel.SetWidth(leftW)
	m.files.SetHeight(m.fileListHeight())
	m.viewer.SetHeight(m.bodyHeight())
	m.commitModal.SetHeight(m.height)
	m.help.SetHeight(m.height)
}

func (m *Model) syncFocus() {
	m.filterPanel.SetFocused(m.focus.Current() == common.FocusFilter)
}

func (m *Model) syncFileList() {
	path, _ := m.nav.Path()
	m.files.SetItems(m.filter.Results(), path)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
