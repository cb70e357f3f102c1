package panels

import (
	"fmt"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FilterHeight is the fixed outer height of the filter panel.
const FilterHeight = 4

// Filter is the query input above the file list. It captures all
// printable keys while focused.
type Filter struct {
	input textinput.Model
}

// NewFilter returns an empty filter input.
func NewFilter() *Filter {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "type to filter files"
	ti.CharLimit = 256
	// A blinking cursor would need a tick loop; the coordinator drops panel commands.
	ti.Cursor.SetMode(cursor.CursorStatic)
	return &Filter{input: ti}
}

// HandleKey maps a key press to a message.
//
//	↑/↓    cycle the filter mode
//	enter  jump to the file list
//	esc    clear the query, or leave when it is already empty
func (f *Filter) HandleKey(msg tea.KeyMsg) common.Message {
	switch msg.Type {
	case tea.KeyUp:
		return common.Do(common.CycleFilterMode{Delta: -1})
	case tea.KeyDown:
		return common.Do(common.CycleFilterMode{Delta: 1})
	case tea.KeyEnter:
		return common.Do(common.FocusTo{Target: common.FocusFileList})
	case tea.KeyEsc:
		if f.input.Value() == "" {
			return common.Do(common.FocusTo{Target: common.FocusFileList})
		}
		f.input.SetValue("")
		return common.Do(common.UpdateQuery{Text: ""})
	}

	before := f.input.Value()
	f.input, _ = f.input.Update(msg)
	if after := f.input.Value(); after != before {
		return common.Do(common.UpdateQuery{Text: after})
	}
	return common.NoAction{}
}

// Value returns the current query text.
func (f *Filter) Value() string { return f.input.Value() }

// SetFocused shows or hides the input cursor.
func (f *Filter) SetFocused(focused bool) {
	if focused {
		f.input.Focus()
	} else {
		f.input.Blur()
	}
}

// SetWidth sizes the input to the panel's outer width.
func (f *Filter) SetWidth(width int) {
	f.input.Width = max(1, width-2-lenPrompt-1)
}

const lenPrompt = 2

// View renders the panel.
func (f *Filter) View(styles ui.Styles, width int, focused bool, mode string, matched, total int) string {
	title := fmt.Sprintf("Filter · %s  %s", mode, styles.Muted.Render(fmt.Sprintf("%d/%d", matched, total)))
	return frame(styles, title, f.input.View(), width, FilterHeight, focused)
}
