package common

import "fmt"

// Message is what a panel returns for an input event. The variant set is
// closed: NoAction, Once, Repeating and Failure.
type Message interface {
	isMessage()
}

// NoAction means the event was not meaningful to the panel.
type NoAction struct{}

// Once applies its effect a single time.
type Once struct{ Effect Effect }

// Repeating applies its effect now and again on every tick until cancelled.
type Repeating struct{ Effect Effect }

// Failure carries an error to surface to the operator.
type Failure struct {
	Kind   ErrorKind
	Detail string
}

func (NoAction) isMessage()  {}
func (Once) isMessage()      {}
func (Repeating) isMessage() {}
func (Failure) isMessage()   {}

// Error implements error so a Failure can travel through error-returning code.
func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

// FailureFrom converts err into a Failure using its derived kind.
func FailureFrom(err error) Failure {
	return Failure{Kind: KindOf(err), Detail: err.Error()}
}

// Effect is a state change requested by a panel. The variant set is closed.
type Effect interface {
	isEffect()
}

type (
	// UpdateQuery replaces the filter text.
	UpdateQuery struct{ Text string }
	// CycleFilterMode steps through fuzzy/substring/regex.
	CycleFilterMode struct{ Delta int }
	// SelectFile makes Path the current file.
	SelectFile struct{ Path string }
	// MoveCommit shifts the commit index. Positive is older.
	MoveCommit struct{ Delta int }
	// SetCommit jumps to a commit by id or unique prefix.
	SetCommit struct{ ID string }
	// ScrollBy moves the content offsets relative to their current value.
	ScrollBy struct{ DV, DH int }
	// ScrollTo sets the content offsets. Values saturate.
	ScrollTo struct{ V, H int }
	// SetDisplayMode switches plain/numbered/blame.
	SetDisplayMode struct{ Mode DisplayMode }
	// ToggleBlame flips between blame and the previous mode.
	ToggleBlame struct{}
	// ToggleLineNumbers flips between plain and numbered.
	ToggleLineNumbers struct{}
	// FocusTo moves focus to a panel.
	FocusTo struct{ Target FocusTarget }
	// OpenModal opens a modal overlay.
	OpenModal struct{ Target FocusTarget }
	// CloseModal closes the open modal and restores the suspended focus.
	CloseModal struct{}
	// OpenInBrowser opens the web view of the current file and line.
	OpenInBrowser struct{}
	// CopyCommitID copies the current commit id to the clipboard.
	CopyCommitID struct{}
	// CopyPermalink copies the web link of the current file and line.
	CopyPermalink struct{}
	// ResizeLeft grows or shrinks the left column, in percent.
	ResizeLeft struct{ Delta int }
	// Quit ends the program.
	Quit struct{}
)

func (UpdateQuery) isEffect()       {}
func (CycleFilterMode) isEffect()   {}
func (SelectFile) isEffect()        {}
func (MoveCommit) isEffect()        {}
func (SetCommit) isEffect()         {}
func (ScrollBy) isEffect()          {}
func (ScrollTo) isEffect()          {}
func (SetDisplayMode) isEffect()    {}
func (ToggleBlame) isEffect()       {}
func (ToggleLineNumbers) isEffect() {}
func (FocusTo) isEffect()           {}
func (OpenModal) isEffect()         {}
func (CloseModal) isEffect()        {}
func (OpenInBrowser) isEffect()     {}
func (CopyCommitID) isEffect()      {}
func (CopyPermalink) isEffect()     {}
func (ResizeLeft) isEffect()        {}
func (Quit) isEffect()              {}

// Do wraps an effect in a Once message.
func Do(e Effect) Message { return Once{Effect: e} }
