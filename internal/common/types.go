package common

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ── Focus targets ───────────────────────────────────────────────────────────

// FocusTarget identifies which panel currently owns keyboard input.
type FocusTarget int

const (
	FocusFilter FocusTarget = iota
	FocusFileList
	FocusCommitPanel
	FocusContentViewer

	// Modal overlays. Never part of the Tab cycle.
	FocusCommitModal
	FocusHelpModal
)

// PanelCycle is the Tab order. Modals are excluded.
var PanelCycle = []FocusTarget{
	FocusFilter,
	FocusFileList,
	FocusCommitPanel,
	FocusContentViewer,
}

// IsModal reports whether the target is a modal overlay.
func (f FocusTarget) IsModal() bool {
	return f == FocusCommitModal || f == FocusHelpModal
}

func (f FocusTarget) String() string {
	switch f {
	case FocusFilter:
		return "Filter"
	case FocusFileList:
		return "Files"
	case FocusCommitPanel:
		return "Commit"
	case FocusContentViewer:
		return "Content"
	case FocusCommitModal:
		return "Commits"
	case FocusHelpModal:
		return "Help"
	}
	return "?"
}

// ── Display modes ───────────────────────────────────────────────────────────

// DisplayMode controls how file content is rendered.
type DisplayMode int

const (
	ModePlain DisplayMode = iota
	ModeLineNumbered
	ModeBlame
)

func (d DisplayMode) String() string {
	switch d {
	case ModeLineNumbered:
		return "numbered"
	case ModeBlame:
		return "blame"
	default:
		return "plain"
	}
}

// ParseDisplayMode maps a config string to a DisplayMode, defaulting to plain.
func ParseDisplayMode(s string) DisplayMode {
	switch s {
	case "numbered", "line-numbered", "line_numbered":
		return ModeLineNumbered
	case "blame":
		return ModeBlame
	default:
		return ModePlain
	}
}

// ── Custom messages ─────────────────────────────────────────────────────────

// RefreshMsg signals that repository refs changed and history should reload.
type RefreshMsg struct{}

// InfoMsg carries an informational message for the status bar.
type InfoMsg struct{ Text string }

// CmdRefresh returns a RefreshMsg (use as return from tea.Cmd).
func CmdRefresh() tea.Msg { return RefreshMsg{} }

// CmdInfo creates a tea.Cmd that sends an InfoMsg.
func CmdInfo(text string) tea.Cmd {
	return func() tea.Msg { return InfoMsg{Text: text} }
}
