// Package win32 binds the overlay engine to the Windows desktop: window
// metrics, window and screen capture, the low-level mouse hook, global
// hotkeys and the overlay window's own styles. Hooks and hotkeys live on a
// dedicated message pump thread.
package win32

import "errors"

var (
	// ErrPumpClosed is returned for work posted to a stopped pump.
	ErrPumpClosed = errors.New("message pump closed")
	// ErrCaptureFailed is returned when GDI cannot produce a bitmap.
	ErrCaptureFailed = errors.New("gdi capture failed")
	// ErrWindowNotFound is returned when the overlay window cannot be located.
	ErrWindowNotFound = errors.New("window not found")
)
