package sim

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"liveframe/internal/geom"
)

// ErrBadScenario is returned for scenario files that describe an impossible desktop.
var ErrBadScenario = errors.New("invalid scenario")

// OverlayHandle is the handle the overlay window gets when a scenario does
// not name one.
const OverlayHandle uintptr = 0xF00

// Scenario is a desktop layout loaded from YAML.
type Scenario struct {
	Screen     geom.Rect `yaml:"screen"`
	Overlay    geom.Rect `yaml:"overlay"`
	OverlayID  uintptr   `yaml:"overlay_handle"`
	Windows    []Window  `yaml:"windows"`
	Foreground uintptr   `yaml:"foreground"`
}

// DefaultScenario is a 1920x1080 screen with an editor and a browser, the
// browser owning a find dialog.
func DefaultScenario() *Scenario {
	return &Scenario{
		Screen:  geom.XYWH(0, 0, 1920, 1080),
		Overlay: geom.XYWH(1200, 600, 480, 320),
		Windows: []Window{
			{Handle: 0x100, Title: "Editor", Bounds: geom.XYWH(80, 60, 900, 700), Shadow: ResizableShadow, Color: "#2266cc"},
			{Handle: 0x200, Title: "Browser", Bounds: geom.XYWH(700, 200, 1000, 760), Shadow: ResizableShadow, Color: "#cc6622"},
			{Handle: 0x201, Title: "Find", Bounds: geom.XYWH(900, 260, 400, 120), Owner: 0x200, Color: "#22aa44"},
		},
		Foreground: 0x100,
	}
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the screen and overlay are non-empty and handles are unique.
func (sc *Scenario) Validate() error {
	if sc.Screen.Empty() {
		return fmt.Errorf("%w: empty screen", ErrBadScenario)
	}
	if sc.Overlay.Empty() {
		return fmt.Errorf("%w: empty overlay", ErrBadScenario)
	}

	seen := map[uintptr]bool{sc.overlayHandle(): true}
	for _, w := range sc.Windows {
		if w.Handle == 0 {
			return fmt.Errorf("%w: window %q has no handle", ErrBadScenario, w.Title)
		}
		if seen[w.Handle] {
			return fmt.Errorf("%w: duplicate handle %#x", ErrBadScenario, w.Handle)
		}
		seen[w.Handle] = true
	}
	return nil
}

func (sc *Scenario) overlayHandle() uintptr {
	if sc.OverlayID != 0 {
		return sc.OverlayID
	}
	return OverlayHandle
}

// Build creates the desktop and places the overlay above every window.
func (sc *Scenario) Build() (*Desktop, *Host) {
	d := NewDesktop(sc.Screen)
	for _, w := range sc.Windows {
		d.AddWindow(w)
	}
	h := NewHost(d, sc.overlayHandle(), sc.Overlay)
	d.SetForeground(sc.Foreground)
	return d, h
}
