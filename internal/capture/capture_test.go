package capture

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"liveframe/internal/framepool"
	"liveframe/internal/geom"
)

type fakeSource struct {
	bounds    map[uintptr]geom.Rect
	windowErr error
	screenErr error
	calls     []string
}

func (f *fakeSource) ExternalBounds(h uintptr) (geom.Rect, bool) {
	r, ok := f.bounds[h]
	return r, ok
}

func (f *fakeSource) CaptureWindow(h uintptr, ext geom.Rect, dst *image.RGBA) error {
	f.calls = append(f.calls, "window")
	if f.windowErr != nil {
		return f.windowErr
	}
	dst.Set(0, 0, color.RGBA{R: 1, A: 255})
	return nil
}

func (f *fakeSource) CaptureScreen(r geom.Rect, dst *image.RGBA) error {
	f.calls = append(f.calls, "screen")
	if f.screenErr != nil {
		return f.screenErr
	}
	dst.Set(0, 0, color.RGBA{B: 1, A: 255})
	return nil
}

func TestCapture_ZeroWidthReturnsNoBuffer(t *testing.T) {
	src := &fakeSource{bounds: map[uintptr]geom.Rect{7: geom.XYWH(100, 100, 0, 300)}}
	c := New(src, nil, zaptest.NewLogger(t))

	frame, err := c.Capture(7)

	assert.Nil(t, frame)
	assert.ErrorIs(t, err, ErrEmptyBounds)
	assert.Empty(t, src.calls)
}

func TestCapture_NullHandle(t *testing.T) {
	c := New(&fakeSource{}, nil, zaptest.NewLogger(t))

	frame, err := c.Capture(0)
	assert.Nil(t, frame)
	assert.ErrorIs(t, err, ErrNoWindow)
}

func TestCapture_UnknownWindow(t *testing.T) {
	c := New(&fakeSource{}, nil, zaptest.NewLogger(t))

	_, err := c.Capture(42)
	assert.ErrorIs(t, err, ErrNotPresentable)
}

func TestCapture_SizedToExternalBounds(t *testing.T) {
	src := &fakeSource{bounds: map[uintptr]geom.Rect{7: geom.XYWH(10, 20, 320, 200)}}
	c := New(src, nil, zaptest.NewLogger(t))

	frame, err := c.Capture(7)
	require.NoError(t, err)
	defer frame.Release()

	assert.Equal(t, image.Rect(0, 0, 320, 200), frame.Image().Bounds())
	assert.Equal(t, geom.XYWH(10, 20, 320, 200), frame.Source())
	assert.Equal(t, []string{"window"}, src.calls)
}

func TestCapture_FallsBackToScreen(t *testing.T) {
	src := &fakeSource{
		bounds:    map[uintptr]geom.Rect{7: geom.XYWH(0, 0, 16, 16)},
		windowErr: errors.New("PrintWindow failed"),
	}
	c := New(src, nil, zaptest.NewLogger(t))

	frame, err := c.Capture(7)
	require.NoError(t, err)

	assert.Equal(t, []string{"window", "screen"}, src.calls)
	assert.Equal(t, uint8(1), frame.Image().RGBAAt(0, 0).B)
}

func TestCapture_BothPathsFail(t *testing.T) {
	pool := framepool.New(2)
	src := &fakeSource{
		bounds:    map[uintptr]geom.Rect{7: geom.XYWH(0, 0, 16, 16)},
		windowErr: errors.New("PrintWindow failed"),
		screenErr: errors.New("BitBlt failed"),
	}
	c := New(src, pool, zaptest.NewLogger(t))

	frame, err := c.Capture(7)

	assert.Nil(t, frame)
	assert.ErrorIs(t, err, ErrNotPresentable)
	assert.Equal(t, 1, pool.Stats().Free, "scratch buffer goes back to the pool")
}

func TestFrame_ReleaseOnce(t *testing.T) {
	released := 0
	f := NewFrame(image.NewRGBA(image.Rect(0, 0, 1, 1)), geom.Rect{}, func(*image.RGBA) { released++ })

	f.Release()
	f.Release()

	assert.Equal(t, 1, released)
	assert.Nil(t, f.Image())

	var nilFrame *Frame
	nilFrame.Release()
	assert.Nil(t, nilFrame.Image())
}

func TestCopyBGRA(t *testing.T) {
	// 3x2 source, crop the 2x1 block at (1,1).
	src := make([]byte, 3*2*4)
	px := func(x, y int, b, g, r byte) {
		i := (y*3 + x) * 4
		src[i], src[i+1], src[i+2] = b, g, r
	}
	px(1, 1, 10, 20, 30)
	px(2, 1, 40, 50, 60)

	dst := image.NewRGBA(image.Rect(0, 0, 2, 1))
	require.NoError(t, CopyBGRA(dst, src, 3, 2, 1, 1))

	assert.Equal(t, color.RGBA{R: 30, G: 20, B: 10, A: 255}, dst.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 60, G: 50, B: 40, A: 255}, dst.RGBAAt(1, 0))

	assert.Error(t, CopyBGRA(dst, src, 3, 2, 2, 1))
}
