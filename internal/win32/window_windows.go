//go:build windows

package win32

import (
	"fmt"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"liveframe/internal/geom"
)

// FindWindow resolves a top-level window by its exact title.
func FindWindow(title string) (uintptr, error) {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, err
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(t)))
	if hwnd == 0 {
		return 0, fmt.Errorf("%q: %w", title, ErrWindowNotFound)
	}
	return hwnd, nil
}

// Window manipulates the overlay's own top-level window.
type Window struct {
	hwnd win.HWND
}

// NewWindow wraps an existing window handle.
func NewWindow(hwnd uintptr) *Window {
	return &Window{hwnd: win.HWND(hwnd)}
}

func (w *Window) Handle() uintptr {
	return uintptr(w.hwnd)
}

// SetBounds moves and resizes the window without touching the z-order.
func (w *Window) SetBounds(r geom.Rect) {
	win.SetWindowPos(w.hwnd, 0,
		int32(r.Left), int32(r.Top), int32(r.Width()), int32(r.Height()),
		win.SWP_NOZORDER|win.SWP_NOACTIVATE)
}

// SetBorder switches between a sizable captioned frame and no frame at all.
func (w *Window) SetBorder(resizable bool) {
	style := win.GetWindowLong(w.hwnd, win.GWL_STYLE)
	if resizable {
		style |= win.WS_CAPTION | win.WS_THICKFRAME
	} else {
		style &^= win.WS_CAPTION | win.WS_THICKFRAME
	}
	win.SetWindowLong(w.hwnd, win.GWL_STYLE, style)
	win.SetWindowPos(w.hwnd, 0, 0, 0, 0, 0,
		win.SWP_NOMOVE|win.SWP_NOSIZE|win.SWP_NOZORDER|win.SWP_NOACTIVATE|win.SWP_FRAMECHANGED)
}

// SetOpacity makes the window layered with a constant alpha in [0, 1].
func (w *Window) SetOpacity(opacity float64) {
	ex := win.GetWindowLong(w.hwnd, win.GWL_EXSTYLE)
	if ex&win.WS_EX_LAYERED == 0 {
		win.SetWindowLong(w.hwnd, win.GWL_EXSTYLE, ex|win.WS_EX_LAYERED)
	}

	alpha := byte(geom.Clamp(int(opacity*255+0.5), 0, 255))
	procSetLayeredWindowAttributes.Call(uintptr(w.hwnd), 0, uintptr(alpha), lwaAlpha)
}

// SetShowInTaskbar swaps between an app window and a tool window. The shell
// only notices the change across a hide and show.
func (w *Window) SetShowInTaskbar(show bool) {
	ex := win.GetWindowLong(w.hwnd, win.GWL_EXSTYLE)
	next := ex
	if show {
		next = (next | win.WS_EX_APPWINDOW) &^ win.WS_EX_TOOLWINDOW
	} else {
		next = (next | win.WS_EX_TOOLWINDOW) &^ win.WS_EX_APPWINDOW
	}
	if next == ex {
		return
	}

	win.ShowWindow(w.hwnd, win.SW_HIDE)
	win.SetWindowLong(w.hwnd, win.GWL_EXSTYLE, next)
	win.ShowWindow(w.hwnd, win.SW_SHOWNOACTIVATE)
}

// ReassertTopmost drops and re-takes the topmost flag, which puts the
// overlay back above other topmost windows that were raised since.
func (w *Window) ReassertTopmost() {
	flags := uint32(win.SWP_NOMOVE | win.SWP_NOSIZE | win.SWP_NOACTIVATE)
	win.SetWindowPos(w.hwnd, win.HWND_NOTOPMOST, 0, 0, 0, 0, flags)
	win.SetWindowPos(w.hwnd, win.HWND_TOPMOST, 0, 0, 0, 0, flags)
}
