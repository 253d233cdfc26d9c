//go:build windows

package win32

import (
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	dwmapi = windows.NewLazySystemDLL("dwmapi.dll")

	procGetAncestor                = user32.NewProc("GetAncestor")
	procPrintWindow                = user32.NewProc("PrintWindow")
	procRegisterHotKey             = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey           = user32.NewProc("UnregisterHotKey")
	procPostThreadMessageW         = user32.NewProc("PostThreadMessageW")
	procSetWindowsHookExW          = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx        = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx             = user32.NewProc("CallNextHookEx")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
	procFindWindowW                = user32.NewProc("FindWindowW")

	procDwmGetWindowAttribute = dwmapi.NewProc("DwmGetWindowAttribute")
)

const (
	gaRootOwner              = 3
	dwmwaExtendedFrameBounds = 9
	pwRenderFullContent      = 0x00000002
	whMouseLL                = 14
	wmMouseMove              = 0x0200
	wmHotkey                 = 0x0312
	wmQuit                   = 0x0012
	wmAppCall                = 0x8000 + 1
	modNoRepeat              = 0x4000
	lwaAlpha                 = 0x00000002
)
