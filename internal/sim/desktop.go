// Package sim is an in-memory desktop: windows with drop shadows and owners,
// a foreground window, a pointer and the overlay window itself. It implements
// every platform interface the overlay consumes so the engine can run
// without an OS behind it.
package sim

import (
	"image"
	"image/color"
	"sort"
	"sync"

	"liveframe/internal/geom"
	"liveframe/internal/visibility"
)

// ResizableShadow is the invisible resize border Windows 10+ puts around a
// sizable window: the logical rect is this much larger than what is drawn.
var ResizableShadow = geom.Edges{Left: 7, Top: 0, Right: 7, Bottom: 7}

// Window is one simulated top-level or owned window.
type Window struct {
	Handle uintptr    `yaml:"handle"`
	Title  string     `yaml:"title"`
	Bounds geom.Rect  `yaml:"bounds"` // external bounds
	Shadow geom.Edges `yaml:"shadow"` // logical = external grown by Shadow
	Owner  uintptr    `yaml:"owner"`
	Color  string     `yaml:"color"`
	z      int
}

// Logical returns the window-rect bounds including the shadow.
func (w *Window) Logical() geom.Rect {
	return geom.Rect{
		Left:   w.Bounds.Left - w.Shadow.Left,
		Top:    w.Bounds.Top - w.Shadow.Top,
		Right:  w.Bounds.Right + w.Shadow.Right,
		Bottom: w.Bounds.Bottom + w.Shadow.Bottom,
	}
}

func (w *Window) setLogical(r geom.Rect) {
	w.Bounds = geom.Rect{
		Left:   r.Left + w.Shadow.Left,
		Top:    r.Top + w.Shadow.Top,
		Right:  r.Right - w.Shadow.Right,
		Bottom: r.Bottom - w.Shadow.Bottom,
	}
}

// Desktop holds the simulated windows. All methods are safe for concurrent use.
type Desktop struct {
	mu         sync.Mutex
	screen     geom.Rect
	windows    map[uintptr]*Window
	foreground uintptr
	pointer    geom.Point
	nextZ      int
}

// NewDesktop creates an empty desktop with the given primary screen.
func NewDesktop(screen geom.Rect) *Desktop {
	return &Desktop{
		screen:  screen,
		windows: make(map[uintptr]*Window),
	}
}

// AddWindow places w on top of the z-order.
func (d *Desktop) AddWindow(w Window) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextZ++
	w.z = d.nextZ
	d.windows[w.Handle] = &w
}

// RemoveWindow deletes a window; the foreground is cleared if it pointed at it.
func (d *Desktop) RemoveWindow(h uintptr) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.windows, h)
	if d.foreground == h {
		d.foreground = 0
	}
}

// MoveWindow changes a window's external bounds.
func (d *Desktop) MoveWindow(h uintptr, bounds geom.Rect) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if w, ok := d.windows[h]; ok {
		w.Bounds = bounds
	}
}

// SetForeground makes h the foreground window. 0 means none.
func (d *Desktop) SetForeground(h uintptr) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.foreground = h
}

// CycleForeground moves the foreground to the next window by handle,
// skipping skip (normally the overlay itself).
func (d *Desktop) CycleForeground(skip uintptr) uintptr {
	d.mu.Lock()
	defer d.mu.Unlock()

	var handles []uintptr
	for h := range d.windows {
		if h != skip {
			handles = append(handles, h)
		}
	}
	if len(handles) == 0 {
		return 0
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	next := handles[0]
	for i, h := range handles {
		if h == d.foreground && i+1 < len(handles) {
			next = handles[i+1]
		}
	}
	d.foreground = next
	return next
}

// Window returns a copy of window h.
func (d *Desktop) Window(h uintptr) (Window, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.windows[h]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Windows returns copies of all windows, bottom of the z-order first.
func (d *Desktop) Windows() []Window {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Window, 0, len(d.windows))
	for _, w := range d.windows {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].z < out[j].z })
	return out
}

// Pointer returns the last pointer position.
func (d *Desktop) Pointer() geom.Point {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pointer
}

func (d *Desktop) setPointer(p geom.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pointer = p
}

func (d *Desktop) raise(h uintptr) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if w, ok := d.windows[h]; ok {
		d.nextZ++
		w.z = d.nextZ
	}
}

func (d *Desktop) update(h uintptr, fn func(w *Window)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if w, ok := d.windows[h]; ok {
		fn(w)
	}
}

// ForegroundWindow implements the overlay's window metrics.
func (d *Desktop) ForegroundWindow() uintptr {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.foreground
}

// RootOwner walks the owner chain of h up to its top-level root.
func (d *Desktop) RootOwner(h uintptr) uintptr {
	d.mu.Lock()
	defer d.mu.Unlock()

	seen := make(map[uintptr]bool)
	for {
		w, ok := d.windows[h]
		if !ok || w.Owner == 0 || seen[h] {
			return h
		}
		seen[h] = true
		h = w.Owner
	}
}

func (d *Desktop) ExternalBounds(h uintptr) (geom.Rect, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.windows[h]
	if !ok {
		return geom.Rect{}, false
	}
	return w.Bounds, true
}

func (d *Desktop) LogicalBounds(h uintptr) (geom.Rect, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, ok := d.windows[h]
	if !ok {
		return geom.Rect{}, false
	}
	return w.Logical(), true
}

func (d *Desktop) PrimaryScreen() geom.Rect {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.screen
}

// colorOf parses "#rrggbb"; anything else is mid grey.
func colorOf(s string) color.RGBA {
	c := color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(s[1+i*2])
		lo, ok2 := hexNibble(s[2+i*2])
		if !ok1 || !ok2 {
			return c
		}
		v[i] = hi<<4 | lo
	}
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: 0xff}
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func fill(dst *image.RGBA, c color.RGBA) {
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// chromeShadow is the shadow a window gets for a border style.
func chromeShadow(b visibility.Border) geom.Edges {
	if b == visibility.BorderResizable {
		return ResizableShadow
	}
	return geom.Edges{}
}
