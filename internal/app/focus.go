package app

import "github.com/Akashdeep-Patra/zed-git-history/internal/common"

// Focus tracks which panel receives keys. At most one modal is open at a
// time; the panel it interrupted is kept in a single suspended slot and
// restored on close.
type Focus struct {
	current   common.FocusTarget
	suspended common.FocusTarget
	modal     bool
}

// NewFocus starts on the given panel. A modal start target falls back to
// the filter.
func NewFocus(start common.FocusTarget) Focus {
	if start.IsModal() {
		start = common.FocusFilter
	}
	return Focus{current: start}
}

// Current returns the focused target, which is the modal when one is open.
func (f Focus) Current() common.FocusTarget { return f.current }

// Suspended returns the panel waiting behind an open modal.
func (f Focus) Suspended() (common.FocusTarget, bool) {
	return f.suspended, f.modal
}

// ModalOpen reports whether a modal is open.
func (f Focus) ModalOpen() bool { return f.modal }

// Panel returns the focused panel, or the suspended one while a modal is open.
func (f Focus) Panel() common.FocusTarget {
	if f.modal {
		return f.suspended
	}
	return f.current
}

// Cycle moves through the panel cycle by delta. It does nothing while a
// modal is open.
func (f *Focus) Cycle(delta int) bool {
	if f.modal {
		return false
	}
	n := len(common.PanelCycle)
	cur := 0
	for i, t := range common.PanelCycle {
		if t == f.current {
			cur = i
			break
		}
	}
	f.current = common.PanelCycle[((cur+delta)%n+n)%n]
	return true
}

// Set focuses a panel. Modals must go through Open; while one is open Set
// does nothing.
func (f *Focus) Set(target common.FocusTarget) bool {
	if f.modal || target.IsModal() || target == f.current {
		return false
	}
	f.current = target
	return true
}

// Open shows a modal, suspending the focused panel. Opening while any modal
// is already open is ignored.
func (f *Focus) Open(modal common.FocusTarget) bool {
	if f.modal || !modal.IsModal() {
		return false
	}
	f.suspended = f.current
	f.current = modal
	f.modal = true
	return true
}

// Close dismisses the open modal and restores the suspended panel.
func (f *Focus) Close() bool {
	if !f.modal {
		return false
	}
	f.current = f.suspended
	f.modal = false
	return true
}
