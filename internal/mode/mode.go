// Package mode defines the overlay's mode registers and the persisted names
// they round-trip through.
package mode

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownMode is returned when a persisted mode name is not recognised.
var ErrUnknownMode = errors.New("unknown mode")

// Visible is the overlay's visibility mode.
type Visible int

const (
	Edit Visible = iota
	Live
	Blindfold
)

func (v Visible) String() string {
	switch v {
	case Edit:
		return "Edit"
	case Live:
		return "Live"
	case Blindfold:
		return "Blindfold"
	}
	return fmt.Sprintf("Visible(%d)", int(v))
}

// Follow selects what the overlay tracks.
type Follow int

const (
	FollowNone Follow = iota
	FollowActiveWindow
	FollowMouseCenter
	FollowMouseFrameBound
)

var followNames = map[Follow]string{
	FollowNone:            "None",
	FollowActiveWindow:    "ActiveWindow",
	FollowMouseCenter:     "MouseCenter",
	FollowMouseFrameBound: "MouseFrameBound",
}

func (f Follow) String() string {
	if name, ok := followNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Follow(%d)", int(f))
}

// TracksPointer reports whether the mode is driven by the pointer stream.
func (f Follow) TracksPointer() bool {
	return f == FollowMouseCenter || f == FollowMouseFrameBound
}

// Follows returns every follow mode in menu order.
func Follows() []Follow {
	return []Follow{FollowNone, FollowActiveWindow, FollowMouseCenter, FollowMouseFrameBound}
}

// ParseFollow parses a persisted follow mode name.
func ParseFollow(s string) (Follow, error) {
	for f, name := range followNames {
		if name == s {
			return f, nil
		}
	}
	return FollowNone, fmt.Errorf("follow mode %q: %w", s, ErrUnknownMode)
}

// FollowOrDefault parses s and falls back to FollowNone.
func FollowOrDefault(s string) Follow {
	f, err := ParseFollow(s)
	if err != nil {
		return FollowNone
	}
	return f
}

// NextActiveWindowToggle is the follow mode selected by the
// active-window hotkey: it switches ActiveWindow off, and on from anything else.
func NextActiveWindowToggle(f Follow) Follow {
	if f == FollowActiveWindow {
		return FollowNone
	}
	return FollowActiveWindow
}

// NextMouseToggle cycles MouseCenter to MouseFrameBound and everything else
// to MouseCenter.
func NextMouseToggle(f Follow) Follow {
	if f == FollowMouseCenter {
		return FollowMouseFrameBound
	}
	return FollowMouseCenter
}

// DefaultInterval is the poll interval used before any capture tier is applied.
const DefaultInterval = 500 * time.Millisecond
