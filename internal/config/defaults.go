package config

// KeyBindings maps action names to the keys that trigger them.
// Overridable per action through the "keys" config section.
type KeyBindings map[string][]string

// Action names.
const (
	ActQuit       = "quit"
	ActForceQuit  = "force_quit"
	ActHelp       = "help"
	ActNextPanel  = "next_panel"
	ActPrevPanel  = "prev_panel"
	ActReload     = "reload"
	ActShrinkLeft = "shrink_left"
	ActGrowLeft   = "grow_left"

	ActUp       = "up"
	ActDown     = "down"
	ActLeft     = "left"
	ActRight    = "right"
	ActPageDown = "page_down"
	ActPageUp   = "page_up"
	ActTop      = "top"
	ActBottom   = "bottom"
	ActEnter    = "enter"
	ActBack     = "back"
	ActSearch   = "search"

	ActAutoDown      = "auto_down"
	ActAutoUp        = "auto_up"
	ActToggleBlame   = "toggle_blame"
	ActToggleNumbers = "toggle_numbers"
	ActOpenBrowser   = "open_browser"
	ActCopyPermalink = "copy_permalink"
	ActParentCommit  = "parent_commit"
	ActNewerCommit   = "newer_commit"
	ActCommitModal   = "commit_modal"
	ActCopyCommitID  = "copy_commit_id"
)

// DefaultKeyBindings returns the default key bindings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		ActQuit:       {"q"},
		ActForceQuit:  {"ctrl+c"},
		ActHelp:       {"?"},
		ActNextPanel:  {"tab"},
		ActPrevPanel:  {"shift+tab"},
		ActReload:     {"r"},
		ActShrinkLeft: {"<"},
		ActGrowLeft:   {">"},

		ActUp:       {"up", "k"},
		ActDown:     {"down", "j"},
		ActLeft:     {"left", "h"},
		ActRight:    {"right", "l"},
		ActPageDown: {"ctrl+d", "pgdown"},
		ActPageUp:   {"ctrl+u", "pgup"},
		ActTop:      {"g", "home"},
		ActBottom:   {"G", "end"},
		ActEnter:    {"enter"},
		ActBack:     {"esc"},
		ActSearch:   {"/"},

		ActAutoDown:      {"J"},
		ActAutoUp:        {"K"},
		ActToggleBlame:   {"b"},
		ActToggleNumbers: {"n"},
		ActOpenBrowser:   {"o"},
		ActCopyPermalink: {"Y"},
		ActParentCommit:  {"p", "left"},
		ActNewerCommit:   {"n", "right"},
		ActCommitModal:   {"o"},
		ActCopyCommitID:  {"y"},
	}
}
