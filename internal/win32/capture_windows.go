//go:build windows

package win32

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/lxn/win"

	"liveframe/internal/capture"
	"liveframe/internal/geom"
)

// CaptureSource renders windows with PrintWindow and copies screen
// rectangles with BitBlt.
type CaptureSource struct {
	metrics *Metrics
}

// NewCaptureSource creates a capture source using m for window geometry.
func NewCaptureSource(m *Metrics) *CaptureSource {
	return &CaptureSource{metrics: m}
}

func (s *CaptureSource) ExternalBounds(h uintptr) (geom.Rect, bool) {
	return s.metrics.ExternalBounds(h)
}

// CaptureWindow asks the window to paint itself, full content included, then
// crops the shadow margin away so dst holds only the external bounds.
func (s *CaptureSource) CaptureWindow(h uintptr, ext geom.Rect, dst *image.RGBA) error {
	logical, ok := s.metrics.LogicalBounds(h)
	if !ok || logical.Empty() {
		return fmt.Errorf("window rect of %#x: %w", h, ErrCaptureFailed)
	}

	w, hgt := logical.Width(), logical.Height()
	pix, err := grab(w, hgt, func(mem, _ win.HDC) bool {
		r, _, _ := procPrintWindow.Call(h, uintptr(mem), pwRenderFullContent)
		return r != 0
	})
	if err != nil {
		return fmt.Errorf("print window %#x: %w", h, err)
	}

	return capture.CopyBGRA(dst, pix, w, hgt, ext.Left-logical.Left, ext.Top-logical.Top)
}

// CaptureScreen copies whatever is on screen inside r.
func (s *CaptureSource) CaptureScreen(r geom.Rect, dst *image.RGBA) error {
	w, h := r.Width(), r.Height()
	pix, err := grab(w, h, func(mem, screen win.HDC) bool {
		return win.BitBlt(mem, 0, 0, int32(w), int32(h), screen, int32(r.Left), int32(r.Top), win.SRCCOPY)
	})
	if err != nil {
		return fmt.Errorf("copy screen %v: %w", r, err)
	}
	return capture.CopyBGRA(dst, pix, w, h, 0, 0)
}

// grab paints into a w x h bitmap compatible with the screen and reads it
// back as top-down BGRA.
func grab(w, h int, paint func(mem, screen win.HDC) bool) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%dx%d bitmap: %w", w, h, ErrCaptureFailed)
	}

	screen := win.GetDC(0)
	if screen == 0 {
		return nil, fmt.Errorf("GetDC: %w", ErrCaptureFailed)
	}
	defer win.ReleaseDC(0, screen)

	mem := win.CreateCompatibleDC(screen)
	if mem == 0 {
		return nil, fmt.Errorf("CreateCompatibleDC: %w", ErrCaptureFailed)
	}
	defer win.DeleteDC(mem)

	bmp := win.CreateCompatibleBitmap(screen, int32(w), int32(h))
	if bmp == 0 {
		return nil, fmt.Errorf("CreateCompatibleBitmap: %w", ErrCaptureFailed)
	}
	defer win.DeleteObject(win.HGDIOBJ(bmp))

	old := win.SelectObject(mem, win.HGDIOBJ(bmp))
	painted := paint(mem, screen)
	// GetDIBits wants the bitmap deselected.
	win.SelectObject(mem, old)
	if !painted {
		return nil, ErrCaptureFailed
	}

	var bi win.BITMAPINFO
	bi.BmiHeader.BiSize = uint32(unsafe.Sizeof(bi.BmiHeader))
	bi.BmiHeader.BiWidth = int32(w)
	bi.BmiHeader.BiHeight = -int32(h)
	bi.BmiHeader.BiPlanes = 1
	bi.BmiHeader.BiBitCount = 32
	bi.BmiHeader.BiCompression = win.BI_RGB

	pix := make([]byte, w*h*4)
	if win.GetDIBits(mem, bmp, 0, uint32(h), &pix[0], &bi, win.DIB_RGB_COLORS) == 0 {
		return nil, fmt.Errorf("GetDIBits: %w", ErrCaptureFailed)
	}
	return pix, nil
}
