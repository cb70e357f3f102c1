package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds all colours for the application.
// Inspired by Zed's default dark palette (Catppuccin Mocha).
type Theme struct {
	Bg            lipgloss.Color
	Surface       lipgloss.Color
	SurfaceHover  lipgloss.Color
	Border        lipgloss.Color
	BorderFocused lipgloss.Color

	Text        lipgloss.Color
	TextMuted   lipgloss.Color
	TextSubtle  lipgloss.Color
	TextInverse lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Match    lipgloss.Color
	Gutter   lipgloss.Color
	Selected lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	CommitHash lipgloss.Color
	Author     lipgloss.Color

	// BlameColors cycle per commit so adjacent blame runs stay distinguishable.
	BlameColors []lipgloss.Color
}

// DarkTheme returns the default Zed-inspired dark theme.
func DarkTheme() Theme {
	return Theme{
		Bg:            lipgloss.Color("#1e1e2e"),
		Surface:       lipgloss.Color("#282840"),
		SurfaceHover:  lipgloss.Color("#313152"),
		Border:        lipgloss.Color("#3b3b5c"),
		BorderFocused: lipgloss.Color("#7c7cf0"),

		Text:        lipgloss.Color("#cdd6f4"),
		TextMuted:   lipgloss.Color("#9399b2"),
		TextSubtle:  lipgloss.Color("#6c7086"),
		TextInverse: lipgloss.Color("#1e1e2e"),

		Primary:   lipgloss.Color("#89b4fa"),
		Secondary: lipgloss.Color("#b4befe"),
		Accent:    lipgloss.Color("#f5c2e7"),

		Match:    lipgloss.Color("#fab387"),
		Gutter:   lipgloss.Color("#585b70"),
		Selected: lipgloss.Color("#313152"),

		Success: lipgloss.Color("#a6e3a1"),
		Warning: lipgloss.Color("#f9e2af"),
		Error:   lipgloss.Color("#f38ba8"),
		Info:    lipgloss.Color("#89b4fa"),

		CommitHash: lipgloss.Color("#f9e2af"),
		Author:     lipgloss.Color("#89b4fa"),

		BlameColors: []lipgloss.Color{
			"#89b4fa", "#a6e3a1", "#f5c2e7", "#f9e2af",
			"#89dceb", "#fab387", "#cba6f7", "#f38ba8",
		},
	}
}

// Styles holds pre-computed lipgloss styles derived from a Theme.
type Styles struct {
	Theme Theme

	// Layout
	StatusBar lipgloss.Style
	HelpBar   lipgloss.Style

	// Panels
	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelTitle   lipgloss.Style

	// List items
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	ListDimmed   lipgloss.Style
	MatchChar    lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	KeyBind  lipgloss.Style
	KeyDesc  lipgloss.Style

	// Content viewer
	LineNum     lipgloss.Style
	BlameGutter lipgloss.Style
	Placeholder lipgloss.Style

	// Commit
	CommitHash lipgloss.Style
	CommitMsg  lipgloss.Style
	Author     lipgloss.Style
	Date       lipgloss.Style

	// Modals
	Modal      lipgloss.Style
	ModalTitle lipgloss.Style

	Spinner lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles builds all styles from the given theme.
func NewStyles(t Theme) Styles {
	s := Styles{Theme: t}

	s.StatusBar = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Padding(0, 1)
	s.HelpBar = lipgloss.NewStyle().Foreground(t.TextSubtle).Padding(0, 1)

	s.Panel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border)
	s.PanelFocused = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderFocused)
	s.PanelTitle = lipgloss.NewStyle().Foreground(t.Text).Bold(true)

	s.ListItem = lipgloss.NewStyle().Foreground(t.Text).PaddingLeft(2)
	s.ListSelected = lipgloss.NewStyle().Foreground(t.Text).Background(t.Selected).Bold(true).PaddingLeft(1)
	s.ListDimmed = lipgloss.NewStyle().Foreground(t.TextSubtle).PaddingLeft(2)
	s.MatchChar = lipgloss.NewStyle().Foreground(t.Match).Bold(true)

	s.Title = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	s.Subtitle = lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	s.Body = lipgloss.NewStyle().Foreground(t.Text)
	s.Muted = lipgloss.NewStyle().Foreground(t.TextMuted)
	s.Bold = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	s.KeyBind = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	s.KeyDesc = lipgloss.NewStyle().Foreground(t.TextMuted)

	s.LineNum = lipgloss.NewStyle().Foreground(t.Gutter)
	s.BlameGutter = lipgloss.NewStyle().Foreground(t.TextSubtle)
	s.Placeholder = lipgloss.NewStyle().Foreground(t.TextSubtle).Italic(true)

	s.CommitHash = lipgloss.NewStyle().Foreground(t.CommitHash)
	s.CommitMsg = lipgloss.NewStyle().Foreground(t.Text)
	s.Author = lipgloss.NewStyle().Foreground(t.Author)
	s.Date = lipgloss.NewStyle().Foreground(t.TextMuted)

	s.Modal = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(t.Primary).Padding(0, 1)
	s.ModalTitle = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)

	s.Spinner = lipgloss.NewStyle().Foreground(t.Primary)
	s.Error = lipgloss.NewStyle().Foreground(t.Error)

	return s
}

// DefaultStyles returns styles using the dark theme.
func DefaultStyles() Styles {
	return NewStyles(DarkTheme())
}

// BlameColor picks a stable colour for a commit id.
func (t Theme) BlameColor(commitID string) lipgloss.Color {
	if len(t.BlameColors) == 0 {
		return t.TextMuted
	}
	var h uint32
	for i := 0; i < len(commitID); i++ {
		h = h*31 + uint32(commitID[i])
	}
	return t.BlameColors[h%uint32(len(t.BlameColors))]
}
