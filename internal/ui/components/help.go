package components

import (
	"strings"

	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// HelpEntry is a single key-description pair for the help overlay.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpSection groups entries under a heading. Sections render in slice order.
type HelpSection struct {
	Title   string
	Entries []HelpEntry
}

// HelpLines flattens sections into unstyled-width rows so callers can
// clamp a scroll offset before rendering.
func HelpLines(styles ui.Styles, sections []HelpSection) []string {
	t := styles.Theme
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Width(16).Align(lipgloss.Right)
	descStyle := lipgloss.NewStyle().Foreground(t.Text)

	var lines []string
	for _, s := range sections {
		if len(s.Entries) == 0 {
			continue
		}
		lines = append(lines, sectionStyle.Render(s.Title))
		for _, e := range s.Entries {
			lines = append(lines, "  "+keyStyle.Render(e.Key)+"  "+descStyle.Render(e.Desc))
		}
		lines = append(lines, "")
	}
	return lines
}

// HelpBodyHeight is how many rows of entries fit in the overlay.
func HelpBodyHeight(height int) int {
	// margin(2) + border(2) + padding(2) + title(2) + scroll hint(1)
	return max(1, height-9)
}

// RenderHelp renders the help overlay starting at row offset. The result is
// a box, not a full screen; callers place it.
func RenderHelp(styles ui.Styles, title string, lines []string, offset, width, height int) string {
	t := styles.Theme
	boxW := min(72, width-4)
	bodyH := HelpBodyHeight(height)

	titleStr := lipgloss.NewStyle().
		Foreground(t.Primary).Bold(true).
		Align(lipgloss.Center).
		Width(boxW - 8).
		Render(title)

	offset = max(0, min(offset, len(lines)-bodyH))
	end := min(len(lines), offset+bodyH)

	var body strings.Builder
	body.WriteString(titleStr + "\n\n")
	body.WriteString(strings.Join(lines[offset:end], "\n"))
	if end < len(lines) {
		body.WriteString("\n" + styles.Muted.Render("  … j/k to scroll"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Primary).
		Padding(1, 3).
		Width(boxW).
		MaxHeight(height - 2).
		Render(body.String())
}
