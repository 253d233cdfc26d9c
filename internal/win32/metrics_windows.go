//go:build windows

package win32

import (
	"unsafe"

	"github.com/lxn/win"

	"liveframe/internal/geom"
)

// Metrics answers window geometry queries against the live desktop.
type Metrics struct{}

// NewMetrics creates a metrics source.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) ForegroundWindow() uintptr {
	return uintptr(win.GetForegroundWindow())
}

// RootOwner walks parent and owner links up to the top-level window.
func (m *Metrics) RootOwner(h uintptr) uintptr {
	if h == 0 {
		return 0
	}
	root, _, _ := procGetAncestor.Call(h, gaRootOwner)
	return root
}

// LogicalBounds is GetWindowRect, which includes the invisible resize border.
func (m *Metrics) LogicalBounds(h uintptr) (geom.Rect, bool) {
	if h == 0 {
		return geom.Rect{}, false
	}
	var r win.RECT
	if !win.GetWindowRect(win.HWND(h), &r) {
		return geom.Rect{}, false
	}
	return fromRECT(r), true
}

// ExternalBounds asks DWM for the extended frame bounds, which is what is
// actually drawn. Without composition it falls back to the window rect.
func (m *Metrics) ExternalBounds(h uintptr) (geom.Rect, bool) {
	if h == 0 {
		return geom.Rect{}, false
	}
	var r win.RECT
	hr, _, _ := procDwmGetWindowAttribute.Call(
		h,
		dwmwaExtendedFrameBounds,
		uintptr(unsafe.Pointer(&r)),
		unsafe.Sizeof(r),
	)
	if hr != 0 {
		return m.LogicalBounds(h)
	}
	return fromRECT(r), true
}

// PrimaryScreen is the primary monitor at the virtual-screen origin.
func (m *Metrics) PrimaryScreen() geom.Rect {
	return geom.XYWH(0, 0,
		int(win.GetSystemMetrics(win.SM_CXSCREEN)),
		int(win.GetSystemMetrics(win.SM_CYSCREEN)))
}

func fromRECT(r win.RECT) geom.Rect {
	return geom.Rect{Left: int(r.Left), Top: int(r.Top), Right: int(r.Right), Bottom: int(r.Bottom)}
}
