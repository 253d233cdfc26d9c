package mode

import (
	"fmt"
	"time"
)

// Capture is a capture-rate tier.
type Capture int

const (
	SafeMode2 Capture = iota
	SafeMode5
	SafeMode10
	SafeMode15
	SafeMode30
	SafeMode60
	FastMode
)

// Tier describes one capture tier as a menu would list it.
type Tier struct {
	Mode      Capture
	FrameRate int
	Label     string
}

var tiers = []Tier{
	{SafeMode2, 2, "Safe Mode(2FPS)"},
	{SafeMode5, 5, "Safe Mode(5FPS)"},
	{SafeMode10, 10, "Safe Mode(10FPS)"},
	{SafeMode15, 15, "Safe Mode(15FPS)"},
	{SafeMode30, 30, "Safe Mode(30FPS)"},
	{SafeMode60, 60, "Safe Mode(60FPS)"},
	{FastMode, 2, "Fast Mode"},
}

var captureNames = map[Capture]string{
	SafeMode2:  "SafeMode2",
	SafeMode5:  "SafeMode5",
	SafeMode10: "SafeMode10",
	SafeMode15: "SafeMode15",
	SafeMode30: "SafeMode30",
	SafeMode60: "SafeMode60",
	FastMode:   "FastMode",
}

// Tiers returns the capture tier catalogue in menu order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

func (c Capture) String() string {
	if name, ok := captureNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Capture(%d)", int(c))
}

// Tier returns the catalogue entry for c. Unknown values map to SafeMode2.
func (c Capture) Tier() Tier {
	for _, t := range tiers {
		if t.Mode == c {
			return t
		}
	}
	return tiers[0]
}

// Interval is the poll interval for the tier, 1000/fps milliseconds.
func (c Capture) Interval() time.Duration {
	return time.Duration(1000/c.Tier().FrameRate) * time.Millisecond
}

// FindMe reports the find-me flag implied by the tier. The fast tier keeps
// the overlay undiscoverable; every safe tier announces it.
func (c Capture) FindMe() bool {
	return c != FastMode
}

// ParseCapture parses a persisted capture tier name.
func ParseCapture(s string) (Capture, error) {
	for c, name := range captureNames {
		if name == s {
			return c, nil
		}
	}
	return SafeMode2, fmt.Errorf("capture mode %q: %w", s, ErrUnknownMode)
}

// CaptureOrDefault parses s and falls back to the lowest safe tier.
func CaptureOrDefault(s string) Capture {
	c, err := ParseCapture(s)
	if err != nil {
		return SafeMode2
	}
	return c
}
