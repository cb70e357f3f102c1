package panels

import (
	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui/components"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// HelpModal lists every binding. It scrolls when the terminal is short.
type HelpModal struct {
	keys     Keys
	sections []components.HelpSection
	offset   int
	height   int
}

// NewHelpModal returns the modal with the given sections.
func NewHelpModal(keys Keys, sections []components.HelpSection) *HelpModal {
	return &HelpModal{keys: keys, sections: sections}
}

// SetHeight records the screen height.
func (h *HelpModal) SetHeight(height int) { h.height = height }

// Reset scrolls back to the top.
func (h *HelpModal) Reset() { h.offset = 0 }

func (h *HelpModal) maxOffset() int {
	n := 0
	for _, s := range h.sections {
		if len(s.Entries) > 0 {
			n += len(s.Entries) + 2
		}
	}
	return max(0, n-components.HelpBodyHeight(h.height))
}

// HandleKey scrolls, or closes on esc / q.
func (h *HelpModal) HandleKey(msg tea.KeyMsg) common.Message {
	switch {
	case key.Matches(msg, h.keys.Down):
		h.offset = min(h.offset+1, h.maxOffset())
	case key.Matches(msg, h.keys.Up):
		h.offset = max(h.offset-1, 0)
	case key.Matches(msg, h.keys.Top):
		h.offset = 0
	case key.Matches(msg, h.keys.Bottom):
		h.offset = h.maxOffset()
	case key.Matches(msg, h.keys.Back), msg.String() == "q":
		return common.Do(common.CloseModal{})
	}
	return common.NoAction{}
}

// View renders the help box for a screen of width×height.
func (h *HelpModal) View(styles ui.Styles, width, height int) string {
	lines := components.HelpLines(styles, h.sections)
	return components.RenderHelp(styles, "Keyboard Shortcuts", lines, h.offset, width, height)
}

// Sections builds help sections from the bound keys. global holds the
// coordinator's own bindings.
func Sections(k Keys, global []key.Binding) []components.HelpSection {
	entries := func(bs ...key.Binding) []components.HelpEntry {
		out := make([]components.HelpEntry, 0, len(bs))
		for _, b := range bs {
			hl := b.Help()
			if hl.Key == "" {
				continue
			}
			out = append(out, components.HelpEntry{Key: hl.Key, Desc: hl.Desc})
		}
		return out
	}
	return []components.HelpSection{
		{Title: "General", Entries: entries(global...)},
		{Title: "Filter", Entries: []components.HelpEntry{
			{Key: "type", Desc: "filter files"},
			{Key: "↑ / ↓", Desc: "cycle fuzzy / substring / regex"},
			{Key: "enter", Desc: "go to file list"},
			{Key: "esc", Desc: "clear query"},
		}},
		{Title: "Files", Entries: entries(k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom, k.Enter, k.Search)},
		{Title: "Commit", Entries: entries(k.ParentCommit, k.NewerCommit, k.CommitModal, k.CopyCommitID)},
		{Title: "Content", Entries: entries(
			k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Top, k.Bottom,
			k.AutoDown, k.AutoUp, k.ToggleBlame, k.ToggleNumbers, k.OpenBrowser, k.CopyPermalink, k.Back,
		)},
		{Title: "Commit picker", Entries: entries(k.Up, k.Down, k.Enter, k.Search, k.Back)},
	}
}
