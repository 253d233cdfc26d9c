package sim

import (
	"image"
	"sync"

	"liveframe/internal/geom"
	"liveframe/internal/mode"
	"liveframe/internal/visibility"
)

// Host is the overlay's own window on a simulated desktop. It records what
// the engine asked of it so tests and the simulator can inspect the result.
type Host struct {
	desk   *Desktop
	handle uintptr

	mu        sync.Mutex
	chrome    visibility.Chrome
	reasserts int
	presents  int
	setBounds int
	hasFrame  bool
	frameSize image.Point
}

// NewHost adds the overlay window to d with the given logical bounds and
// returns its host.
func NewHost(d *Desktop, handle uintptr, logical geom.Rect) *Host {
	w := Window{Handle: handle, Title: visibility.Caption, Shadow: ResizableShadow, Color: "#ff00ff"}
	w.setLogical(logical)
	d.AddWindow(w)

	return &Host{
		desk:   d,
		handle: handle,
		chrome: visibility.ChromeFor(mode.Edit, true),
	}
}

func (h *Host) Handle() uintptr { return h.handle }

// SetBounds moves the overlay to the logical rect r.
func (h *Host) SetBounds(r geom.Rect) {
	h.desk.update(h.handle, func(w *Window) { w.setLogical(r) })

	h.mu.Lock()
	h.setBounds++
	h.mu.Unlock()
}

// ApplyChrome changes the border, which changes the shadow. The logical rect
// is kept, so the drawn area grows or shrinks the way a real frame change does.
func (h *Host) ApplyChrome(c visibility.Chrome) {
	h.desk.update(h.handle, func(w *Window) {
		logical := w.Logical()
		w.Shadow = chromeShadow(c.Border)
		w.setLogical(logical)
		w.Title = c.Title
	})

	h.mu.Lock()
	h.chrome = c
	h.mu.Unlock()
}

// ReassertTopmost raises the overlay to the top of the z-order.
func (h *Host) ReassertTopmost() {
	h.desk.raise(h.handle)

	h.mu.Lock()
	h.reasserts++
	h.mu.Unlock()
}

// Present records the frame size, or the outline fallback for nil.
func (h *Host) Present(img *image.RGBA) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.presents++
	h.hasFrame = img != nil
	h.frameSize = image.Point{}
	if img != nil {
		h.frameSize = img.Bounds().Size()
	}
}

// HostState is a snapshot of what the engine has done to the host.
type HostState struct {
	Chrome    visibility.Chrome
	Reasserts int
	Presents  int
	SetBounds int
	HasFrame  bool
	FrameSize image.Point
}

// State returns the recorded host state.
func (h *Host) State() HostState {
	h.mu.Lock()
	defer h.mu.Unlock()

	return HostState{
		Chrome:    h.chrome,
		Reasserts: h.reasserts,
		Presents:  h.presents,
		SetBounds: h.setBounds,
		HasFrame:  h.hasFrame,
		FrameSize: h.frameSize,
	}
}
