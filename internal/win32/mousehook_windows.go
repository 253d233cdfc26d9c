//go:build windows

package win32

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"liveframe/internal/geom"
)

// msllHookStruct mirrors MSLLHOOKSTRUCT.
type msllHookStruct struct {
	Pt        win.POINT
	MouseData uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

var (
	mouseProcOnce sync.Once
	mouseProc     uintptr
	activeHook    atomic.Pointer[MouseHook]
)

// MouseHook is a WH_MOUSE_LL hook installed on a pump thread. Only one can
// be installed per process.
type MouseHook struct {
	pump *Pump
	hook uintptr
	emit func(geom.Point)
}

// NewMouseHook creates an uninstalled hook bound to pump.
func NewMouseHook(pump *Pump) *MouseHook {
	return &MouseHook{pump: pump}
}

// Start installs the hook; emit runs on the pump thread for every move and
// must return quickly.
func (h *MouseHook) Start(emit func(geom.Point)) error {
	mouseProcOnce.Do(func() {
		mouseProc = windows.NewCallback(lowLevelMouseProc)
	})

	return h.pump.Do(func() error {
		if h.hook != 0 {
			return nil
		}
		h.emit = emit
		if !activeHook.CompareAndSwap(nil, h) {
			return fmt.Errorf("install mouse hook: another hook is active")
		}

		mod := win.GetModuleHandle(nil)
		r, _, err := procSetWindowsHookExW.Call(whMouseLL, mouseProc, uintptr(mod), 0)
		if r == 0 {
			activeHook.Store(nil)
			return fmt.Errorf("SetWindowsHookEx: %w", err)
		}
		h.hook = r
		return nil
	})
}

// Stop removes the hook.
func (h *MouseHook) Stop() error {
	return h.pump.Do(func() error {
		if h.hook == 0 {
			return nil
		}
		activeHook.CompareAndSwap(h, nil)

		r, _, err := procUnhookWindowsHookEx.Call(h.hook)
		h.hook = 0
		if r == 0 {
			return fmt.Errorf("UnhookWindowsHookEx: %w", err)
		}
		return nil
	})
}

func lowLevelMouseProc(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) >= 0 && wParam == wmMouseMove {
		if h := activeHook.Load(); h != nil && h.emit != nil {
			info := (*msllHookStruct)(unsafe.Pointer(lParam))
			h.emit(geom.Point{X: int(info.Pt.X), Y: int(info.Pt.Y)})
		}
	}
	r, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
	return r
}
