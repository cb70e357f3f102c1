package components

import (
	"strings"

	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar returns a vertical track of height rows whose thumb shows
// which window [offset, offset+visible) of total lines is on screen.
// It returns "" when everything fits.
func RenderScrollbar(styles ui.Styles, height, total, visible, offset int) string {
	if total <= visible || height < 1 {
		return ""
	}
	start, size := thumb(height, total, visible, offset)

	thumbStyle := lipgloss.NewStyle().Foreground(styles.Theme.Primary)
	trackStyle := lipgloss.NewStyle().Foreground(styles.Theme.Border)

	var b strings.Builder
	b.Grow(height * 4)
	for i := 0; i < height; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i >= start && i < start+size {
			b.WriteString(thumbStyle.Render("█"))
		} else {
			b.WriteString(trackStyle.Render("░"))
		}
	}
	return b.String()
}

// thumb computes the thumb's first row and length. The thumb reaches the
// bottom exactly when the last line is visible.
func thumb(height, total, visible, offset int) (start, size int) {
	size = max(1, min(height, height*visible/total))
	maxOffset := max(1, total-visible)
	offset = max(0, min(offset, maxOffset))
	start = (height - size) * offset / maxOffset
	return start, size
}
