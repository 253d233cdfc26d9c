//go:build windows

package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"liveframe/internal/capture"
	"liveframe/internal/framepool"
	"liveframe/internal/host"
	"liveframe/internal/overlay"
	"liveframe/internal/pointer"
	"liveframe/internal/visibility"
	"liveframe/internal/win32"
)

// resolveAttempts bounds how long startup waits for the overlay window to
// appear under its caption.
const (
	resolveAttempts = 20
	resolveDelay    = 50 * time.Millisecond
)

// resolveOverlayHWND finds the HWND of the overlay window by its title
func resolveOverlayHWND() (uintptr, error) {
	var lastErr error
	for i := 0; i < resolveAttempts; i++ {
		hwnd, err := win32.FindWindow(visibility.Caption)
		if err == nil {
			return hwnd, nil
		}
		lastErr = err
		time.Sleep(resolveDelay)
	}
	return 0, lastErr
}

func startPlatform(ctx context.Context, logger *zap.Logger) (*platform, error) {
	hwnd, err := resolveOverlayHWND()
	if err != nil {
		return nil, fmt.Errorf("locate overlay window: %w", err)
	}

	pump, err := win32.StartPump(logger)
	if err != nil {
		return nil, err
	}

	metrics := win32.NewMetrics()
	window := win32.NewWindow(hwnd)
	frames := framepool.New(4)
	capturer := capture.New(win32.NewCaptureSource(metrics), frames, logger)

	return &platform{
		Platform: overlay.Platform{
			Metrics:  metrics,
			Host:     host.New(window, host.WailsRuntime(ctx), 0, logger),
			Capturer: capturer,
		},
		frames: frames,
		pointerSource: func() (pointer.Source, error) {
			return win32.NewMouseHook(pump), nil
		},
		registrar: win32.NewHotkeyRegistrar(pump),
		onHotkey:  pump.SetHotkeyHandler,
		close:     pump.Close,
	}, nil
}
