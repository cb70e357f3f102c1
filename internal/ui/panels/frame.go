package panels

import (
	"strings"

	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
)

// frame renders body inside a titled, bordered box of exactly width×height
// cells. Lines that do not fit are cut.
func frame(styles ui.Styles, title, body string, width, height int, focused bool) string {
	st := styles.Panel
	if focused {
		st = styles.PanelFocused
	}
	innerW, innerH := max(0, width-2), max(0, height-2)
	if innerH == 0 || innerW == 0 {
		return ""
	}

	lines := []string{ui.Truncate(styles.PanelTitle.Render(title), innerW)}
	if body != "" {
		lines = append(lines, strings.Split(body, "\n")...)
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for i, l := range lines {
		lines[i] = ui.Truncate(l, innerW)
	}
	return st.Width(innerW).Height(innerH).Render(strings.Join(lines, "\n"))
}

// bodyHeight is the number of body rows frame leaves for a panel of height.
func bodyHeight(height int) int { return max(0, height-3) }

// window returns the first index of a list window of size that keeps
// cursor visible, starting from the previous offset.
func window(offset, cursor, size, total int) int {
	if size <= 0 || total <= size {
		return 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+size {
		offset = cursor - size + 1
	}
	return max(0, min(offset, total-size))
}
