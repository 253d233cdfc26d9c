// Package capture produces snapshots of a window's on-screen contents.
package capture

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"

	"liveframe/internal/framepool"
	"liveframe/internal/geom"
)

var (
	// ErrNoWindow is returned for a null handle.
	ErrNoWindow = errors.New("no window")
	// ErrEmptyBounds is returned when the window has zero width or height.
	ErrEmptyBounds = errors.New("window has empty bounds")
	// ErrNotPresentable is returned when the window contents cannot be read.
	ErrNotPresentable = errors.New("window is not presentable")
)

// Frame is a captured snapshot. It is owned by exactly one holder, which
// must call Release before requesting the next capture.
type Frame struct {
	img     *image.RGBA
	source  geom.Rect
	release func(*image.RGBA)
	once    sync.Once
}

// NewFrame wraps img. release, if non-nil, is called once with img when the
// frame is released.
func NewFrame(img *image.RGBA, source geom.Rect, release func(*image.RGBA)) *Frame {
	return &Frame{img: img, source: source, release: release}
}

// Image returns the pixels. The image is only valid until Release.
func (f *Frame) Image() *image.RGBA {
	if f == nil {
		return nil
	}
	return f.img
}

// Source is the screen rectangle the frame was taken from.
func (f *Frame) Source() geom.Rect {
	if f == nil {
		return geom.Rect{}
	}
	return f.source
}

// Release returns the buffer. Safe to call on a nil frame and more than once.
func (f *Frame) Release() {
	if f == nil {
		return
	}
	f.once.Do(func() {
		if f.release != nil {
			f.release(f.img)
		}
		f.img = nil
	})
}

// Source is the platform side of capturing.
type Source interface {
	// ExternalBounds returns the window's shadow-excluded bounds.
	ExternalBounds(h uintptr) (geom.Rect, bool)
	// CaptureWindow renders the window itself into dst, which is sized to ext.
	// It works for occluded and hardware-accelerated windows.
	CaptureWindow(h uintptr, ext geom.Rect, dst *image.RGBA) error
	// CaptureScreen copies the screen rectangle r into dst, whatever is on top.
	CaptureScreen(r geom.Rect, dst *image.RGBA) error
}

// WindowCapturer captures windows through a Source, preferring direct window
// capture and falling back to a screen copy of the same rectangle.
type WindowCapturer struct {
	src    Source
	pool   *framepool.Pool
	logger *zap.Logger
}

// New creates a window capturer. pool may be nil.
func New(src Source, pool *framepool.Pool, logger *zap.Logger) *WindowCapturer {
	if pool == nil {
		pool = framepool.New(0)
	}
	return &WindowCapturer{
		src:    src,
		pool:   pool,
		logger: logger.Named("capture"),
	}
}

// Capture snapshots window h sized to its external bounds.
func (c *WindowCapturer) Capture(h uintptr) (*Frame, error) {
	if h == 0 {
		return nil, ErrNoWindow
	}

	ext, ok := c.src.ExternalBounds(h)
	if !ok {
		return nil, fmt.Errorf("query bounds of %#x: %w", h, ErrNotPresentable)
	}
	if ext.Empty() {
		return nil, fmt.Errorf("window %#x is %dx%d: %w", h, ext.Width(), ext.Height(), ErrEmptyBounds)
	}

	dst := c.pool.Get(ext.Width(), ext.Height())
	if err := c.src.CaptureWindow(h, ext, dst); err != nil {
		c.logger.Debug("window capture failed, copying screen rect",
			zap.Uintptr("hwnd", h), zap.Error(err))

		if err := c.src.CaptureScreen(ext, dst); err != nil {
			c.pool.Put(dst)
			return nil, fmt.Errorf("capture %#x: %w", h, errors.Join(ErrNotPresentable, err))
		}
	}

	return NewFrame(dst, ext, c.pool.Put), nil
}
