package app

import (
	"strings"

	"github.com/Akashdeep-Patra/zed-git-history/internal/config"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the global keybindings handled by the coordinator before
// a key reaches the focused panel.
type KeyMap struct {
	ForceQuit  key.Binding
	Quit       key.Binding // not while typing in the filter
	Help       key.Binding
	NextPanel  key.Binding
	PrevPanel  key.Binding
	Reload     key.Binding
	ShrinkLeft key.Binding
	GrowLeft   key.Binding
}

// NewKeyMap builds the global bindings from configured key lists.
func NewKeyMap(kb config.KeyBindings) KeyMap {
	b := func(action, desc string) key.Binding {
		keys := kb[action]
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, " / "), desc))
	}
	return KeyMap{
		ForceQuit:  b(config.ActForceQuit, "quit"),
		Quit:       b(config.ActQuit, "quit (outside the filter)"),
		Help:       b(config.ActHelp, "toggle this help"),
		NextPanel:  b(config.ActNextPanel, "next panel"),
		PrevPanel:  b(config.ActPrevPanel, "previous panel"),
		Reload:     b(config.ActReload, "reload history"),
		ShrinkLeft: b(config.ActShrinkLeft, "narrow the left column"),
		GrowLeft:   b(config.ActGrowLeft, "widen the left column"),
	}
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap { return NewKeyMap(config.DefaultKeyBindings()) }

// Bindings lists the global bindings in help order.
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.NextPanel, k.PrevPanel, k.Help, k.Reload, k.ShrinkLeft, k.GrowLeft, k.Quit, k.ForceQuit}
}
