package sim

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"liveframe/internal/geom"
)

// ErrOccluded is returned by CaptureWindow for windows marked unrenderable.
var ErrOccluded = errors.New("window cannot render itself")

// Source implements capture.Source over a desktop: windows are painted in
// their colour, the screen in the colour of the topmost window at the
// rectangle's centre.
type Source struct {
	desk *Desktop

	mu           sync.Mutex
	unrenderable map[uintptr]bool
	windowCalls  int
	screenCalls  int
}

// NewSource creates a capture source for d.
func NewSource(d *Desktop) *Source {
	return &Source{desk: d, unrenderable: make(map[uintptr]bool)}
}

// SetUnrenderable makes CaptureWindow fail for h, forcing the screen path.
func (s *Source) SetUnrenderable(h uintptr, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unrenderable[h] = v
}

func (s *Source) ExternalBounds(h uintptr) (geom.Rect, bool) {
	return s.desk.ExternalBounds(h)
}

func (s *Source) CaptureWindow(h uintptr, ext geom.Rect, dst *image.RGBA) error {
	s.mu.Lock()
	s.windowCalls++
	bad := s.unrenderable[h]
	s.mu.Unlock()

	if bad {
		return fmt.Errorf("window %#x: %w", h, ErrOccluded)
	}
	w, ok := s.desk.Window(h)
	if !ok {
		return fmt.Errorf("window %#x is gone", h)
	}
	fill(dst, colorOf(w.Color))
	return nil
}

func (s *Source) CaptureScreen(r geom.Rect, dst *image.RGBA) error {
	s.mu.Lock()
	s.screenCalls++
	s.mu.Unlock()

	if !r.Empty() && !s.desk.PrimaryScreen().Contains(r.Center()) {
		return fmt.Errorf("rect %v is off screen", r)
	}

	c := colorOf("")
	wins := s.desk.Windows()
	for i := len(wins) - 1; i >= 0; i-- {
		if wins[i].Bounds.Contains(r.Center()) {
			c = colorOf(wins[i].Color)
			break
		}
	}
	fill(dst, c)
	return nil
}

// Calls returns how many window and screen captures were attempted.
func (s *Source) Calls() (window, screen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windowCalls, s.screenCalls
}
