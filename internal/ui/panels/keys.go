// Package panels implements the browser's input panels. Each panel turns
// a key press into a common.Message and renders itself from data the
// coordinator passes in; panels never touch repository state directly.
package panels

import (
	"strings"

	"github.com/Akashdeep-Patra/zed-git-history/internal/config"
	"github.com/charmbracelet/bubbles/key"
)

// Keys holds the panel-level bindings.
type Keys struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Enter    key.Binding
	Back     key.Binding
	Search   key.Binding

	AutoDown      key.Binding
	AutoUp        key.Binding
	ToggleBlame   key.Binding
	ToggleNumbers key.Binding
	OpenBrowser   key.Binding
	CopyPermalink key.Binding

	ParentCommit key.Binding
	NewerCommit  key.Binding
	CommitModal  key.Binding
	CopyCommitID key.Binding
}

// NewKeys builds panel bindings from the configured key lists.
func NewKeys(kb config.KeyBindings) Keys {
	b := func(action, desc string) key.Binding {
		keys := kb[action]
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), desc))
	}
	return Keys{
		Up:       b(config.ActUp, "up"),
		Down:     b(config.ActDown, "down"),
		Left:     b(config.ActLeft, "scroll left"),
		Right:    b(config.ActRight, "scroll right"),
		PageUp:   b(config.ActPageUp, "half page up"),
		PageDown: b(config.ActPageDown, "half page down"),
		Top:      b(config.ActTop, "top"),
		Bottom:   b(config.ActBottom, "bottom"),
		Enter:    b(config.ActEnter, "confirm"),
		Back:     b(config.ActBack, "back"),
		Search:   b(config.ActSearch, "search"),

		AutoDown:      b(config.ActAutoDown, "auto-scroll down"),
		AutoUp:        b(config.ActAutoUp, "auto-scroll up"),
		ToggleBlame:   b(config.ActToggleBlame, "toggle blame"),
		ToggleNumbers: b(config.ActToggleNumbers, "toggle line numbers"),
		OpenBrowser:   b(config.ActOpenBrowser, "open on web"),
		CopyPermalink: b(config.ActCopyPermalink, "copy permalink"),

		ParentCommit: b(config.ActParentCommit, "older commit"),
		NewerCommit:  b(config.ActNewerCommit, "newer commit"),
		CommitModal:  b(config.ActCommitModal, "pick commit"),
		CopyCommitID: b(config.ActCopyCommitID, "copy commit id"),
	}
}

// DefaultKeys returns bindings for the default configuration.
func DefaultKeys() Keys { return NewKeys(config.DefaultKeyBindings()) }
