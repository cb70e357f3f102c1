package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// StatusBarData carries the info displayed in the bottom status bar.
type StatusBarData struct {
	ShortID  string
	Index    int // position in history, 0 = HEAD
	Total    int
	Path     string
	Line     int // 1-based top visible line, 0 when no content
	Mode     string
	Loading  bool
	Message  string // transient info/error message
	IsError  bool
	RepoRoot string
}

// RenderStatusBar renders the bottom status bar with visual sections
// separated by dim vertical bars.
//
// Wide (>= 60):   abc1234 3/120 │ src/main.rs:42 │ blame            repo
// Narrow (< 60):  abc1234 3/120 │ src/main.rs:42
func RenderStatusBar(styles ui.Styles, data StatusBarData, width int) string {
	t := styles.Theme

	sep := lipgloss.NewStyle().Foreground(t.Border).Faint(true).Render(" │ ")

	// ── Left sections ────────────────────────────────────────────

	var left string
	if data.ShortID != "" {
		left = " " + styles.CommitHash.Render(data.ShortID) +
			styles.Muted.Render(fmt.Sprintf(" %d/%d", data.Index+1, data.Total))
	} else {
		left = " " + styles.Muted.Render("no commits")
	}

	if data.Path != "" {
		loc := data.Path
		if data.Line > 0 {
			loc = fmt.Sprintf("%s:%d", data.Path, data.Line)
		}
		left += sep + lipgloss.NewStyle().Foreground(t.Text).Render(ui.TruncateLeft(loc, max(8, width/3)))
	}

	if width >= 60 && data.Mode != "" {
		left += sep + lipgloss.NewStyle().Foreground(t.Secondary).Render(data.Mode)
	}
	if data.Loading {
		left += sep + styles.Spinner.Render("loading…")
	}

	// ── Right section ────────────────────────────────────────────

	var right string
	if data.Message != "" {
		fg := t.Info
		if data.IsError {
			fg = t.Error
		}
		right = lipgloss.NewStyle().Foreground(fg).Render(data.Message) + " "
	} else if width >= 60 && data.RepoRoot != "" {
		right = lipgloss.NewStyle().Foreground(t.TextSubtle).Render(filepath.Base(data.RepoRoot)) + " "
	}

	// ── Assemble ─────────────────────────────────────────────────

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Messages win over the left detail when space is short.
		if data.Message != "" {
			left = ui.Truncate(left, max(0, width-lipgloss.Width(right)-1))
			gap = max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
		} else {
			gap = 1
			right = ""
		}
	}

	return styles.StatusBar.Width(width).Render(ui.Truncate(left+strings.Repeat(" ", gap)+right, max(1, width-2)))
}
