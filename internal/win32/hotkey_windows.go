//go:build windows

package win32

import (
	"fmt"

	"liveframe/internal/hotkey"
)

// HotkeyRegistrar registers thread hotkeys on the pump, which reports
// presses through its hotkey handler.
type HotkeyRegistrar struct {
	pump *Pump
}

// NewHotkeyRegistrar creates a registrar on pump.
func NewHotkeyRegistrar(pump *Pump) *HotkeyRegistrar {
	return &HotkeyRegistrar{pump: pump}
}

func (r *HotkeyRegistrar) Register(id int, b hotkey.Binding) error {
	return r.pump.Do(func() error {
		ok, _, err := procRegisterHotKey.Call(0, uintptr(id), uintptr(b.Mods)|modNoRepeat, uintptr(b.Key))
		if ok == 0 {
			return fmt.Errorf("RegisterHotKey %s: %w", b, err)
		}
		return nil
	})
}

func (r *HotkeyRegistrar) Unregister(id int) error {
	return r.pump.Do(func() error {
		ok, _, err := procUnregisterHotKey.Call(0, uintptr(id))
		if ok == 0 {
			return fmt.Errorf("UnregisterHotKey %d: %w", id, err)
		}
		return nil
	})
}
