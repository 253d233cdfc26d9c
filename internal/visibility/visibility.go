// Package visibility implements the Edit / Live / Blindfold state machine and
// the window chrome each state implies.
package visibility

import (
	"liveframe/internal/mode"
)

// Caption is the fixed window title used while the overlay is discoverable.
const Caption = "LiveFrame find me!"

// Border is the overlay's frame style.
type Border int

const (
	BorderNone Border = iota
	BorderResizable
)

func (b Border) String() string {
	if b == BorderResizable {
		return "resizable"
	}
	return "none"
}

// Chrome describes how the host should dress the overlay window.
type Chrome struct {
	Border        Border  `json:"border"`
	Opacity       float64 `json:"opacity"`
	ShowInTaskbar bool    `json:"show_in_taskbar"`
	Title         string  `json:"title"`
	// EditBadge and BeRightBack drive the host's label layer.
	EditBadge   bool `json:"edit_badge"`
	BeRightBack bool `json:"be_right_back"`
}

// ChromeFor derives the chrome for a visibility mode and find-me flag.
func ChromeFor(v mode.Visible, findMe bool) Chrome {
	c := Chrome{
		ShowInTaskbar: findMe,
	}
	if findMe {
		c.Title = Caption
	}

	switch v {
	case mode.Edit:
		c.Border = BorderResizable
		c.Opacity = 0.5
		c.EditBadge = true
	case mode.Live:
		c.Border = BorderNone
		c.Opacity = 0
		c.BeRightBack = !findMe
	case mode.Blindfold:
		c.Border = BorderNone
		c.Opacity = 1
		if findMe {
			c.Opacity = 0
		}
		c.BeRightBack = true
	}
	return c
}

// Transition is the outcome of a state machine input.
type Transition struct {
	From, To mode.Visible
	Chrome   Chrome
	// Changed is false for inputs that were ignored.
	Changed bool
	// Reassert asks the host to cycle the topmost flag.
	Reassert bool
	// StopCapture asks the owner to drop any captured frame.
	StopCapture bool
}

// Machine holds the visibility mode and the find-me flag it is combined with.
// It is not safe for concurrent use; the overlay service serializes access.
type Machine struct {
	mode   mode.Visible
	findMe bool
}

// New returns a machine in Edit mode.
func New(findMe bool) *Machine {
	return &Machine{mode: mode.Edit, findMe: findMe}
}

func (m *Machine) Mode() mode.Visible { return m.mode }
func (m *Machine) FindMe() bool       { return m.findMe }

// Chrome returns the chrome of the current state.
func (m *Machine) Chrome() Chrome {
	return ChromeFor(m.mode, m.findMe)
}

// ToggleEdit flips between Edit and Live; Blindfold also returns to Edit.
func (m *Machine) ToggleEdit() Transition {
	if m.mode == mode.Edit {
		return m.enter(mode.Live)
	}
	return m.enter(mode.Edit)
}

// ToggleBlindfold flips Live and Blindfold. It is ignored in Edit.
func (m *Machine) ToggleBlindfold() Transition {
	switch m.mode {
	case mode.Live:
		return m.enter(mode.Blindfold)
	case mode.Blindfold:
		return m.enter(mode.Live)
	}
	return Transition{From: m.mode, To: m.mode, Chrome: m.Chrome()}
}

// SetFindMe updates the find-me flag and re-enters the current state so its
// chrome is reapplied. The overlay is always re-raised afterwards.
func (m *Machine) SetFindMe(findMe bool) Transition {
	m.findMe = findMe
	t := m.enter(m.mode)
	t.Reassert = true
	return t
}

func (m *Machine) enter(v mode.Visible) Transition {
	from := m.mode
	m.mode = v
	return Transition{
		From:        from,
		To:          v,
		Chrome:      m.Chrome(),
		Changed:     true,
		Reassert:    v == mode.Live,
		StopCapture: v == mode.Edit,
	}
}
