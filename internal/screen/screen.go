// Package screen decides which of the three screens is shown.
//
// State never changes in place: Reduce returns the next state for an action,
// and actions that do not apply to the current mode return the state as is.
package screen

import (
	"bemine/internal/engine"
	"bemine/internal/share"
)

// Mode is the screen being rendered.
type Mode int

const (
	ModeEntry Mode = iota
	ModePrank
	ModeConfirmed
)

func (m Mode) String() string {
	switch m {
	case ModePrank:
		return "prank"
	case ModeConfirmed:
		return "confirmed"
	default:
		return "entry"
	}
}

// State is the top-level screen state.
type State struct {
	Mode  Mode
	Name  string
	Style engine.Style
}

// Action is a user action the controller reacts to.
type Action interface {
	isAction()
}

// Submit starts the prank for a name and style.
type Submit struct {
	Name  string
	Style engine.Style
}

// Confirm is the "Yes" click.
type Confirm struct{}

func (Submit) isAction()  {}
func (Confirm) isAction() {}

// Initial returns the state for a page load with the given query string.
// A usable share link skips straight to the prank screen.
func Initial(rawQuery string) State {
	st, ok := share.Decode(rawQuery)
	if !ok {
		return State{Mode: ModeEntry, Style: engine.StyleClassic}
	}
	return State{Mode: ModePrank, Name: st.Name, Style: st.Style}
}

// Reduce applies an action.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Submit:
		if s.Mode != ModeEntry {
			return s
		}
		name := share.NormalizeName(a.Name)
		if name == "" {
			return s
		}
		style := a.Style
		if !style.Valid() {
			style = engine.StyleClassic
		}
		return State{Mode: ModePrank, Name: name, Style: style}
	case Confirm:
		if s.Mode != ModePrank {
			return s
		}
		s.Mode = ModeConfirmed
		return s
	}
	return s
}

// Query returns the share query that restores s, or "" outside the prank flow.
func (s State) Query() string {
	if s.Mode == ModeEntry {
		return ""
	}
	return share.Encode(s.Name, s.Style)
}
