// Package host presents the overlay through the Wails window: native window
// styling goes through WindowOps, the title through the Wails runtime and
// frames to the frontend as events.
package host

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"liveframe/internal/geom"
	"liveframe/internal/visibility"
)

// Frontend event names.
const (
	EventFrame  = "frame"
	EventChrome = "chrome"
)

// WindowOps is the native side of the overlay window.
type WindowOps interface {
	Handle() uintptr
	SetBounds(r geom.Rect)
	SetBorder(resizable bool)
	SetOpacity(opacity float64)
	SetShowInTaskbar(show bool)
	ReassertTopmost()
}

// Runtime is the part of the Wails runtime the host uses.
type Runtime interface {
	EventsEmit(name string, data ...interface{})
	WindowSetTitle(title string)
}

type wailsRuntime struct {
	ctx context.Context
}

// WailsRuntime binds the Wails runtime functions to the app context.
func WailsRuntime(ctx context.Context) Runtime {
	return wailsRuntime{ctx: ctx}
}

func (r wailsRuntime) EventsEmit(name string, data ...interface{}) {
	runtime.EventsEmit(r.ctx, name, data...)
}

func (r wailsRuntime) WindowSetTitle(title string) {
	runtime.WindowSetTitle(r.ctx, title)
}

// FramePayload is the "frame" event body. Outline is set, and Data empty,
// when there is nothing to show.
type FramePayload struct {
	Data    string `json:"data,omitempty"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Outline bool   `json:"outline"`
}

// Host implements the overlay's Host on a Wails window.
type Host struct {
	win     WindowOps
	rt      Runtime
	quality int
	logger  *zap.Logger

	mu      sync.Mutex
	chrome  *visibility.Chrome
	outline bool
	buf     bytes.Buffer
}

// New creates a host. quality is the JPEG quality for frames; 0 picks 80.
func New(win WindowOps, rt Runtime, quality int, logger *zap.Logger) *Host {
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &Host{
		win:     win,
		rt:      rt,
		quality: quality,
		logger:  logger.Named("host"),
	}
}

func (h *Host) Handle() uintptr { return h.win.Handle() }

func (h *Host) SetBounds(r geom.Rect) { h.win.SetBounds(r) }

func (h *Host) ReassertTopmost() { h.win.ReassertTopmost() }

// ApplyChrome restyles the window. Attributes that did not change since the
// last call are left alone so the taskbar button does not flicker.
func (h *Host) ApplyChrome(c visibility.Chrome) {
	h.mu.Lock()
	prev := h.chrome
	h.chrome = &c
	h.mu.Unlock()

	if prev == nil || prev.Border != c.Border {
		h.win.SetBorder(c.Border == visibility.BorderResizable)
	}
	if prev == nil || prev.Opacity != c.Opacity {
		h.win.SetOpacity(c.Opacity)
	}
	if prev == nil || prev.ShowInTaskbar != c.ShowInTaskbar {
		h.win.SetShowInTaskbar(c.ShowInTaskbar)
	}
	if prev == nil || prev.Title != c.Title {
		h.rt.WindowSetTitle(c.Title)
	}

	h.rt.EventsEmit(EventChrome, c)
}

// Present sends img to the frontend as a JPEG data URL. A nil image sends
// the outline once until a frame is presented again.
func (h *Host) Present(img *image.RGBA) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if img == nil {
		if h.outline {
			return
		}
		h.outline = true
		h.rt.EventsEmit(EventFrame, FramePayload{Outline: true})
		return
	}

	payload, err := h.encodeLocked(img)
	if err != nil {
		h.logger.Warn("failed to encode frame", zap.Error(err))
		return
	}
	h.outline = false
	h.rt.EventsEmit(EventFrame, payload)
}

func (h *Host) encodeLocked(img *image.RGBA) (FramePayload, error) {
	h.buf.Reset()
	if err := jpeg.Encode(&h.buf, img, &jpeg.Options{Quality: h.quality}); err != nil {
		return FramePayload{}, fmt.Errorf("encode jpeg: %w", err)
	}

	size := img.Bounds().Size()
	return FramePayload{
		Data:   "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(h.buf.Bytes()),
		Width:  size.X,
		Height: size.Y,
	}, nil
}
