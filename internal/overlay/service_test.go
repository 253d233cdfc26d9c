package overlay

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"liveframe/internal/capture"
	"liveframe/internal/config"
	"liveframe/internal/framepool"
	"liveframe/internal/geom"
	"liveframe/internal/mode"
	"liveframe/internal/pointer"
	"liveframe/internal/sim"
	"liveframe/internal/visibility"
)

type fakeTicker struct {
	mu        sync.Mutex
	intervals []time.Duration
}

func (f *fakeTicker) SetInterval(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intervals = append(f.intervals, d)
}

func (f *fakeTicker) last() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.intervals) == 0 {
		return 0
	}
	return f.intervals[len(f.intervals)-1]
}

type rig struct {
	desk   *sim.Desktop
	host   *sim.Host
	src    *sim.Source
	hook   *sim.PointerHook
	stream *pointer.Stream
	ticker *fakeTicker
	cfg    *config.Service
	svc    *Service
}

func newRig(t *testing.T) *rig {
	t.Helper()

	desk, host := sim.DefaultScenario().Build()
	src := sim.NewSource(desk)
	logger := zaptest.NewLogger(t)

	cfg, err := config.NewAt(t.TempDir())
	require.NoError(t, err)

	svc, err := New(cfg, Platform{
		Metrics:  desk,
		Host:     host,
		Capturer: capture.New(src, framepool.New(2), logger),
	}, logger)
	require.NoError(t, err)

	hook := sim.NewPointerHook(desk)
	stream := pointer.New(func() (pointer.Source, error) { return hook, nil }, svc.HandlePointer, logger)
	svc.AttachPointer(stream)

	ticker := &fakeTicker{}
	svc.AttachTicker(ticker)

	t.Cleanup(func() {
		svc.Close()
		stream.Close()
	})

	return &rig{desk: desk, host: host, src: src, hook: hook, stream: stream, ticker: ticker, cfg: cfg, svc: svc}
}

func (r *rig) tick() {
	r.svc.Tick(context.Background())
}

func (r *rig) overlayExternal(t *testing.T) geom.Rect {
	t.Helper()
	ext, ok := r.desk.ExternalBounds(r.host.Handle())
	require.True(t, ok)
	return ext
}

func (r *rig) overlayLogical(t *testing.T) geom.Rect {
	t.Helper()
	b, ok := r.desk.LogicalBounds(r.host.Handle())
	require.True(t, ok)
	return b
}

func TestNew_RequiresPlatform(t *testing.T) {
	_, err := New(nil, Platform{}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestService_InitialState(t *testing.T) {
	r := newRig(t)

	st := r.svc.Snapshot()
	assert.Equal(t, mode.Edit, st.VisibleMode)
	assert.Equal(t, mode.FollowNone, st.FollowMode)
	assert.True(t, st.FindMe)
	assert.Equal(t, mode.DefaultInterval, st.Interval)
	assert.Equal(t, mode.DefaultInterval, r.ticker.last())
	assert.Equal(t, geom.XYWH(1200, 600, 480, 320), st.Bounds)
}

func TestService_ModeWalkthrough(t *testing.T) {
	r := newRig(t)

	r.svc.SetCaptureMode(mode.SafeMode10)
	st := r.svc.Snapshot()
	assert.Equal(t, 100*time.Millisecond, st.Interval)
	assert.Equal(t, 100*time.Millisecond, r.ticker.last())
	assert.True(t, st.FindMe)

	r.svc.ToggleEditMode()
	chrome := r.host.State().Chrome
	assert.Equal(t, mode.Live, r.svc.Snapshot().VisibleMode)
	assert.Equal(t, visibility.BorderNone, chrome.Border)
	assert.Equal(t, 0.0, chrome.Opacity)

	r.tick()
	assert.True(t, r.host.State().HasFrame, "capture begins on the next tick")
	assert.True(t, r.svc.Snapshot().HasFrame)

	r.svc.ToggleBlindfoldMode()
	assert.Equal(t, mode.Blindfold, r.svc.Snapshot().VisibleMode)
	assert.Equal(t, 0.0, r.host.State().Chrome.Opacity, "find-me keeps blindfold transparent")

	r.svc.ToggleBlindfoldMode()
	assert.Equal(t, mode.Live, r.svc.Snapshot().VisibleMode)
}

func TestService_EditModeDoesNotCapture(t *testing.T) {
	r := newRig(t)

	r.tick()
	st := r.host.State()
	assert.False(t, st.HasFrame)
	assert.Equal(t, 1, st.Presents)
	assert.GreaterOrEqual(t, st.Reasserts, 1)

	win, screen := r.src.Calls()
	assert.Zero(t, win+screen)
}

func TestService_BlindfoldIgnoredInEdit(t *testing.T) {
	r := newRig(t)
	before := r.host.State().Chrome

	r.svc.ToggleBlindfoldMode()

	assert.Equal(t, mode.Edit, r.svc.Snapshot().VisibleMode)
	assert.Equal(t, before, r.host.State().Chrome)
}

func TestService_FastModeHidesOverlay(t *testing.T) {
	r := newRig(t)

	r.svc.SetCaptureMode(mode.FastMode)
	r.svc.ToggleEditMode()
	r.tick()

	st := r.svc.Snapshot()
	assert.False(t, st.FindMe)
	assert.False(t, st.HasFrame, "no capture without find-me")

	chrome := r.host.State().Chrome
	assert.Empty(t, chrome.Title)
	assert.False(t, chrome.ShowInTaskbar)
	assert.True(t, chrome.BeRightBack)

	r.svc.ToggleBlindfoldMode()
	assert.Equal(t, 1.0, r.host.State().Chrome.Opacity)
}

func TestService_LeavingLiveDropsFrame(t *testing.T) {
	r := newRig(t)
	r.svc.ToggleEditMode()
	r.tick()
	require.True(t, r.svc.Snapshot().HasFrame)

	r.svc.ToggleEditMode()

	assert.False(t, r.svc.Snapshot().HasFrame)
	assert.False(t, r.host.State().HasFrame)
}

func TestService_SwitchingToFastModeDropsFrame(t *testing.T) {
	r := newRig(t)
	r.svc.ToggleEditMode()
	r.tick()
	require.True(t, r.svc.Snapshot().HasFrame)

	r.svc.SetCaptureMode(mode.FastMode)

	assert.False(t, r.svc.Snapshot().HasFrame)
}

func TestService_ActiveWindowFollowCoversTarget(t *testing.T) {
	r := newRig(t)
	editor, _ := r.desk.ExternalBounds(0x100)

	r.svc.SetFollowMode(mode.FollowActiveWindow)
	r.tick()
	assert.Equal(t, editor, r.overlayExternal(t), "resizable border shadow is compensated")

	r.svc.ToggleEditMode()
	r.tick()
	assert.Equal(t, editor, r.overlayExternal(t), "borderless overlay lines up too")
	assert.Equal(t, uintptr(0x100), r.svc.Snapshot().Target)

	moved := geom.XYWH(10, 20, 300, 200)
	r.desk.MoveWindow(0x100, moved)
	r.tick()
	assert.Equal(t, moved, r.overlayExternal(t))
}

func TestService_ActiveWindowSkipsTickWithoutForeground(t *testing.T) {
	r := newRig(t)
	r.svc.SetFollowMode(mode.FollowActiveWindow)
	r.svc.ToggleEditMode()
	r.desk.SetForeground(0)
	before := r.overlayLogical(t)

	r.tick()

	assert.Equal(t, before, r.overlayLogical(t))
	assert.False(t, r.svc.Snapshot().HasFrame)
	win, screen := r.src.Calls()
	assert.Zero(t, win+screen)
}

func TestService_ForegroundOverlayTargetsItself(t *testing.T) {
	r := newRig(t)
	r.svc.SetFollowMode(mode.FollowActiveWindow)
	r.svc.ToggleEditMode()
	r.desk.SetForeground(r.host.Handle())
	before := r.overlayLogical(t)

	r.tick()

	st := r.svc.Snapshot()
	assert.Equal(t, before, r.overlayLogical(t), "fitting onto itself keeps the bounds")
	assert.Equal(t, r.host.Handle(), st.Target)
	assert.True(t, st.HasFrame)
	assert.True(t, r.host.State().HasFrame)
}

func TestService_FitOnceIgnoresOverlayInForeground(t *testing.T) {
	r := newRig(t)
	r.desk.SetForeground(r.host.Handle())
	before := r.overlayLogical(t)

	r.svc.FitToActiveWindow()

	assert.Equal(t, before, r.overlayLogical(t))
}

func TestService_CapturesOwnHandleOutsideActiveWindow(t *testing.T) {
	follows := []mode.Follow{mode.FollowNone, mode.FollowMouseCenter, mode.FollowMouseFrameBound}
	for _, f := range follows {
		t.Run(f.String(), func(t *testing.T) {
			r := newRig(t)
			r.svc.SetFollowMode(f)
			r.svc.ToggleEditMode()

			r.tick()

			st := r.svc.Snapshot()
			assert.Equal(t, r.host.Handle(), st.Target)
			assert.True(t, st.HasFrame)
		})
	}
}

func TestService_BlindfoldKeepsCapturing(t *testing.T) {
	r := newRig(t)
	r.svc.ToggleEditMode()
	r.svc.ToggleBlindfoldMode()
	require.Equal(t, mode.Blindfold, r.svc.Snapshot().VisibleMode)
	require.True(t, r.svc.Snapshot().FindMe)

	r.tick()

	assert.True(t, r.svc.Snapshot().HasFrame)
	assert.True(t, r.host.State().HasFrame)
}

func TestService_FollowSubWindow(t *testing.T) {
	r := newRig(t)
	r.desk.SetForeground(0x201)
	browser, _ := r.desk.ExternalBounds(0x200)
	dialog, _ := r.desk.ExternalBounds(0x201)

	r.svc.SetFollowMode(mode.FollowActiveWindow)
	r.tick()
	assert.Equal(t, browser, r.overlayExternal(t), "owned windows resolve to their root owner")

	r.svc.SetFollowSubWindow(true)
	r.tick()
	assert.Equal(t, dialog, r.overlayExternal(t))
	assert.True(t, r.svc.Snapshot().FollowSubWindow)
}

func TestService_FitToActiveWindowOnce(t *testing.T) {
	r := newRig(t)
	editor, _ := r.desk.ExternalBounds(0x100)

	r.svc.FitToActiveWindow()
	assert.Equal(t, editor, r.overlayExternal(t))
	assert.Equal(t, mode.FollowNone, r.svc.Snapshot().FollowMode)

	r.desk.MoveWindow(0x100, geom.XYWH(0, 0, 200, 200))
	r.tick()
	assert.Equal(t, editor, r.overlayExternal(t), "a one-shot fit does not keep following")
}

func TestService_CaptureFailureKeepsRunning(t *testing.T) {
	r := newRig(t)
	r.svc.SetFollowMode(mode.FollowActiveWindow)
	r.svc.ToggleEditMode()

	r.desk.MoveWindow(0x100, geom.XYWH(5000, 5000, 300, 200))
	r.src.SetUnrenderable(0x100, true)
	r.tick()

	assert.False(t, r.svc.Snapshot().HasFrame)
	assert.False(t, r.host.State().HasFrame, "fallback outline is presented")
	win, screen := r.src.Calls()
	assert.Equal(t, 1, win)
	assert.Equal(t, 1, screen)

	r.src.SetUnrenderable(0x100, false)
	r.tick()
	assert.True(t, r.svc.Snapshot().HasFrame)
}

func TestService_MouseCenterFollow(t *testing.T) {
	r := newRig(t)

	r.svc.SetFollowMode(mode.FollowMouseCenter)
	require.True(t, r.stream.Started())

	r.hook.Move(geom.Point{X: 960, Y: 540})

	want := geom.XYWH(720, 380, 480, 320)
	assert.Eventually(t, func() bool {
		b, _ := r.desk.LogicalBounds(r.host.Handle())
		return b == want
	}, time.Second, 5*time.Millisecond)
}

func TestService_MouseFrameBoundFollow(t *testing.T) {
	r := newRig(t)
	r.svc.SetFollowMode(mode.FollowMouseFrameBound)

	r.hook.Move(geom.Point{X: 1300, Y: 700})
	r.hook.Move(geom.Point{X: 1000, Y: 700})

	want := geom.XYWH(1000, 600, 480, 320)
	assert.Eventually(t, func() bool {
		b, _ := r.desk.LogicalBounds(r.host.Handle())
		return b == want
	}, time.Second, 5*time.Millisecond)
}

func TestService_PointerIgnoredOutsidePointerModes(t *testing.T) {
	r := newRig(t)
	before := r.overlayLogical(t)

	r.svc.HandlePointer(geom.Point{X: 10, Y: 10})
	assert.Equal(t, before, r.overlayLogical(t))

	r.svc.SetFollowMode(mode.FollowMouseCenter)
	require.True(t, r.hook.Installed())
	r.svc.SetFollowMode(mode.FollowActiveWindow)
	assert.False(t, r.hook.Installed())
	assert.False(t, r.stream.Started())

	r.svc.HandlePointer(geom.Point{X: 10, Y: 10})
	assert.Equal(t, before, r.overlayLogical(t))
}

func TestService_Toggles(t *testing.T) {
	r := newRig(t)

	r.svc.ToggleActiveWindowFollow()
	assert.Equal(t, mode.FollowActiveWindow, r.svc.Snapshot().FollowMode)
	r.svc.ToggleActiveWindowFollow()
	assert.Equal(t, mode.FollowNone, r.svc.Snapshot().FollowMode)

	r.svc.ToggleMouseFollow()
	assert.Equal(t, mode.FollowMouseCenter, r.svc.Snapshot().FollowMode)
	r.svc.ToggleMouseFollow()
	assert.Equal(t, mode.FollowMouseFrameBound, r.svc.Snapshot().FollowMode)
	assert.True(t, r.hook.Installed())
}

func TestService_Zoom(t *testing.T) {
	r := newRig(t)

	r.svc.Zoom(120)
	assert.Equal(t, geom.XYWH(1218, 612, 444, 296), r.overlayLogical(t))

	r.svc.Zoom(-120)
	assert.Equal(t, 480, r.overlayLogical(t).Width())

	r.svc.ToggleEditMode()
	before := r.overlayLogical(t)
	r.svc.Zoom(120)
	assert.Equal(t, before, r.overlayLogical(t), "zoom is an edit-mode gesture")
}

func TestService_RestoreAndPersist(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.cfg.UpdateOverlay(config.OverlayConfig{
		X: 50, Y: 60, Width: 400, Height: 300,
		FollowMode:      "MouseFrameBound",
		CaptureMode:     "SafeMode30",
		FollowSubWindow: true,
	}))

	r.svc.Restore()

	st := r.svc.Snapshot()
	assert.Equal(t, geom.XYWH(50, 60, 400, 300), st.Bounds)
	assert.Equal(t, mode.FollowMouseFrameBound, st.FollowMode)
	assert.Equal(t, mode.SafeMode30, st.CaptureMode)
	assert.Equal(t, 33*time.Millisecond, r.ticker.last())
	assert.True(t, st.FollowSubWindow)
	assert.True(t, r.hook.Installed())

	r.svc.SetCaptureMode(mode.FastMode)
	r.svc.Zoom(120)
	require.NoError(t, r.svc.Persist())

	reloaded, err := config.NewAt(filepath.Dir(r.cfg.Path()))
	require.NoError(t, err)
	oc := reloaded.Get().Overlay
	assert.Equal(t, "FastMode", oc.CaptureMode)
	assert.Equal(t, "MouseFrameBound", oc.FollowMode)
	assert.Equal(t, r.overlayLogical(t).Width(), oc.Width)
}

func TestService_RestoreUnknownNames(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.cfg.UpdateOverlay(config.OverlayConfig{
		FollowMode:  "Sideways",
		CaptureMode: "Turbo",
	}))

	r.svc.Restore()

	st := r.svc.Snapshot()
	assert.Equal(t, mode.FollowNone, st.FollowMode)
	assert.Equal(t, mode.SafeMode2, st.CaptureMode)
	assert.Equal(t, geom.XYWH(1200, 600, 480, 320), st.Bounds, "empty persisted bounds are ignored")
}

func TestService_CloseStopsEverything(t *testing.T) {
	r := newRig(t)
	r.svc.SetFollowMode(mode.FollowMouseCenter)
	r.svc.ToggleEditMode()
	r.tick()
	presents := r.host.State().Presents

	r.svc.Close()
	r.svc.Close()

	assert.False(t, r.hook.Installed())
	assert.False(t, r.svc.Snapshot().HasFrame)

	r.tick()
	assert.Equal(t, presents, r.host.State().Presents)
}

func TestService_TickHonoursCancelledContext(t *testing.T) {
	r := newRig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r.svc.Tick(ctx)

	assert.Zero(t, r.host.State().Presents)
}
