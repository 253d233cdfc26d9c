// Package overlay is the engine behind the overlay window: it owns the
// visibility, follow and capture modes and turns poll ticks, pointer samples
// and hotkey presses into window moves, chrome changes and presented frames.
package overlay

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"

	"liveframe/internal/capture"
	"liveframe/internal/config"
	"liveframe/internal/follow"
	"liveframe/internal/geom"
	"liveframe/internal/mode"
	"liveframe/internal/visibility"
)

// WindowMetrics answers geometry questions about windows on the desktop.
type WindowMetrics interface {
	ForegroundWindow() uintptr
	// RootOwner returns the top-level window that owns h, or h itself.
	RootOwner(h uintptr) uintptr
	// ExternalBounds excludes the invisible resize shadow.
	ExternalBounds(h uintptr) (geom.Rect, bool)
	// LogicalBounds is what SetBounds positions, shadow included.
	LogicalBounds(h uintptr) (geom.Rect, bool)
	PrimaryScreen() geom.Rect
}

// Host is the overlay's own window.
type Host interface {
	Handle() uintptr
	SetBounds(r geom.Rect)
	ApplyChrome(c visibility.Chrome)
	ReassertTopmost()
	// Present draws img stretched to the window, or the outline when nil.
	Present(img *image.RGBA)
}

// Capturer snapshots a window.
type Capturer interface {
	Capture(h uintptr) (*capture.Frame, error)
}

// PointerControl switches the pointer hook on and off. Neither call may
// wait for a sample in flight.
type PointerControl interface {
	Start() error
	Stop() error
}

// Ticker is the poll loop that drives Tick.
type Ticker interface {
	SetInterval(d time.Duration)
}

// Platform bundles the OS facing dependencies.
type Platform struct {
	Metrics  WindowMetrics
	Host     Host
	Capturer Capturer
}

// State is a point-in-time view of the engine.
type State struct {
	VisibleMode     mode.Visible      `json:"visible_mode"`
	FollowMode      mode.Follow       `json:"follow_mode"`
	CaptureMode     mode.Capture      `json:"capture_mode"`
	FindMe          bool              `json:"find_me"`
	FollowSubWindow bool              `json:"follow_sub_window"`
	Interval        time.Duration     `json:"interval"`
	Bounds          geom.Rect         `json:"bounds"`
	Target          uintptr           `json:"target"`
	HasFrame        bool              `json:"has_frame"`
	Chrome          visibility.Chrome `json:"chrome"`
}

// Service manages the overlay window. Every entry point takes the same lock,
// so a tick, a pointer sample and a mode change never interleave.
type Service struct {
	config   *config.Service
	platform Platform
	logger   *zap.Logger

	mu              sync.Mutex
	vis             *visibility.Machine
	followMode      mode.Follow
	captureMode     mode.Capture
	followSubWindow bool
	interval        time.Duration
	bounds          geom.Rect
	target          uintptr
	frame           *capture.Frame
	pointer         PointerControl
	ticker          Ticker
	closed          bool
}

var errIncompletePlatform = errors.New("overlay platform is incomplete")

// New creates a new overlay service in Edit mode with find-me enabled and
// following nothing. Call Restore to apply persisted settings.
func New(configSvc *config.Service, platform Platform, logger *zap.Logger) (*Service, error) {
	if platform.Metrics == nil || platform.Host == nil || platform.Capturer == nil {
		return nil, errIncompletePlatform
	}

	s := &Service{
		config:      configSvc,
		platform:    platform,
		logger:      logger.Named("overlay"),
		vis:         visibility.New(true),
		followMode:  mode.FollowNone,
		captureMode: mode.SafeMode2,
		interval:    mode.DefaultInterval,
	}
	if r, ok := platform.Metrics.LogicalBounds(platform.Host.Handle()); ok {
		s.bounds = r
	}
	return s, nil
}

// AttachPointer wires the pointer hook. It is separate from New because the
// hook delivers into HandlePointer.
func (s *Service) AttachPointer(p PointerControl) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer = p
	s.syncPointerLocked()
}

// AttachTicker wires the poll loop and pushes the current interval to it.
func (s *Service) AttachTicker(t Ticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticker = t
	t.SetInterval(s.interval)
}

// Restore applies the persisted overlay settings: bounds first, then the
// sub-window flag, the capture tier and finally the follow mode. Unknown
// names fall back to defaults.
func (s *Service) Restore() {
	if s.config == nil {
		return
	}
	cfg := s.config.Get().Overlay

	s.mu.Lock()
	defer s.mu.Unlock()

	if r := geom.XYWH(cfg.X, cfg.Y, cfg.Width, cfg.Height); !r.Empty() {
		s.applyBoundsLocked(r)
	}
	s.followSubWindow = cfg.FollowSubWindow
	s.setCaptureLocked(mode.CaptureOrDefault(cfg.CaptureMode))
	s.setFollowLocked(mode.FollowOrDefault(cfg.FollowMode))

	s.logger.Info("overlay settings restored",
		zap.Stringer("follow", s.followMode),
		zap.Stringer("capture", s.captureMode),
		zap.Bool("follow_sub_window", s.followSubWindow))
}

// Persist writes the current bounds and modes back to the config file.
func (s *Service) Persist() error {
	if s.config == nil {
		return nil
	}

	s.mu.Lock()
	b := s.currentBoundsLocked()
	oc := s.config.Get().Overlay
	oc.X, oc.Y, oc.Width, oc.Height = b.Left, b.Top, b.Width(), b.Height()
	oc.FollowMode = s.followMode.String()
	oc.CaptureMode = s.captureMode.String()
	oc.FollowSubWindow = s.followSubWindow
	s.mu.Unlock()

	return s.config.UpdateOverlay(oc)
}

// Tick runs one poll cycle: resolve the target, reposition onto it when
// following the active window, capture it when find-me allows, present the
// result and re-raise the overlay.
func (s *Service) Tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.currentBoundsLocked()

	target := s.platform.Host.Handle()
	if s.followMode == mode.FollowActiveWindow {
		target = s.resolveTargetLocked()
		if target != 0 {
			s.fitLocked(target)
		}
	}
	s.target = target

	s.releaseFrameLocked()
	if s.captureActiveLocked() && target != 0 {
		frame, err := s.platform.Capturer.Capture(target)
		if err != nil {
			s.logger.Debug("capture skipped", zap.Uintptr("hwnd", target), zap.Error(err))
		} else {
			s.frame = frame
		}
	}

	s.platform.Host.Present(s.frame.Image())
	s.platform.Host.ReassertTopmost()
}

// HandlePointer moves the overlay for a pointer sample. Samples that arrive
// while no pointer follow mode is active are ignored.
func (s *Service) HandlePointer(p geom.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.followMode.TracksPointer() {
		return
	}

	bounds := s.currentBoundsLocked()
	if next, ok := follow.OnPointer(s.followMode, bounds, p, s.platform.Metrics.PrimaryScreen()); ok {
		s.applyBoundsLocked(next)
	}
}

// SetFollowMode selects how the overlay tracks the desktop and starts or
// stops the pointer hook to match.
func (s *Service) SetFollowMode(m mode.Follow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setFollowLocked(m)
}

// ToggleActiveWindowFollow switches between ActiveWindow and None.
func (s *Service) ToggleActiveWindowFollow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setFollowLocked(mode.NextActiveWindowToggle(s.followMode))
}

// ToggleMouseFollow selects MouseCenter, or MouseFrameBound when already
// centring on the pointer.
func (s *Service) ToggleMouseFollow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setFollowLocked(mode.NextMouseToggle(s.followMode))
}

// SetCaptureMode selects a capture tier, which sets the poll interval and
// the find-me flag.
func (s *Service) SetCaptureMode(c mode.Capture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCaptureLocked(c)
}

// SetFollowSubWindow makes ActiveWindow follow owned windows such as dialogs
// instead of their root owner.
func (s *Service) SetFollowSubWindow(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.followSubWindow = enabled
	s.logger.Debug("follow sub window", zap.Bool("enabled", enabled))
}

// ToggleEditMode flips Edit and Live. From Blindfold it returns to Edit.
func (s *Service) ToggleEditMode() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyTransitionLocked(s.vis.ToggleEdit())
}

// ToggleBlindfoldMode flips Live and Blindfold. It does nothing in Edit.
func (s *Service) ToggleBlindfoldMode() {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.vis.ToggleBlindfold()
	if !t.Changed {
		s.logger.Debug("blindfold ignored in edit mode")
		return
	}
	s.applyTransitionLocked(t)
}

// FitToActiveWindow snaps the overlay onto the current target once,
// whatever the follow mode.
func (s *Service) FitToActiveWindow() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if target := s.resolveTargetLocked(); target != 0 && target != s.platform.Host.Handle() {
		s.fitLocked(target)
	}
}

// Zoom resizes the overlay around its centre for a wheel delta. Positive
// deltas shrink it. Only Edit mode zooms.
func (s *Service) Zoom(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.vis.Mode() != mode.Edit {
		return
	}
	s.applyBoundsLocked(follow.Zoom(s.currentBoundsLocked(), delta))
}

// Snapshot returns the current state.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		VisibleMode:     s.vis.Mode(),
		FollowMode:      s.followMode,
		CaptureMode:     s.captureMode,
		FindMe:          s.vis.FindMe(),
		FollowSubWindow: s.followSubWindow,
		Interval:        s.interval,
		Bounds:          s.bounds,
		Target:          s.target,
		HasFrame:        s.frame != nil,
		Chrome:          s.vis.Chrome(),
	}
}

// Close stops pointer following and drops the held frame. Ticks and samples
// arriving afterwards are ignored. Calling Close again is a no-op.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.releaseFrameLocked()
	if s.pointer != nil {
		if err := s.pointer.Stop(); err != nil {
			s.logger.Warn("failed to stop pointer hook", zap.Error(err))
		}
	}
}

func (s *Service) setFollowLocked(m mode.Follow) {
	if s.followMode != m {
		s.logger.Info("follow mode changed", zap.Stringer("from", s.followMode), zap.Stringer("to", m))
	}
	s.followMode = m
	s.syncPointerLocked()
}

// syncPointerLocked starts the hook for pointer modes and stops it
// otherwise. A hook that fails to start leaves the mode selected; it is
// logged and retried on the next mode change.
func (s *Service) syncPointerLocked() {
	if s.pointer == nil || s.closed {
		return
	}
	if s.followMode.TracksPointer() {
		if err := s.pointer.Start(); err != nil {
			s.logger.Error("failed to start pointer hook", zap.Error(err))
		}
		return
	}
	if err := s.pointer.Stop(); err != nil {
		s.logger.Warn("failed to stop pointer hook", zap.Error(err))
	}
}

func (s *Service) setCaptureLocked(c mode.Capture) {
	s.captureMode = c
	s.interval = c.Interval()
	if s.ticker != nil {
		s.ticker.SetInterval(s.interval)
	}
	s.logger.Info("capture mode changed",
		zap.String("tier", c.Tier().Label),
		zap.Duration("interval", s.interval))

	s.applyTransitionLocked(s.vis.SetFindMe(c.FindMe()))
}

func (s *Service) applyTransitionLocked(t visibility.Transition) {
	s.platform.Host.ApplyChrome(t.Chrome)
	if t.From != t.To {
		s.logger.Info("visible mode changed", zap.Stringer("from", t.From), zap.Stringer("to", t.To))
	}

	if t.StopCapture || !s.captureActiveLocked() {
		if s.frame != nil {
			s.releaseFrameLocked()
			s.platform.Host.Present(nil)
		}
	}
	if t.Reassert {
		s.platform.Host.ReassertTopmost()
	}
}

// captureActiveLocked reports whether ticks should capture.
func (s *Service) captureActiveLocked() bool {
	return s.vis.FindMe() && s.vis.Mode() != mode.Edit
}

// resolveTargetLocked returns the foreground window, promoted to its root
// owner unless sub-windows are followed. The overlay may resolve to itself;
// fitting onto itself leaves its bounds unchanged.
func (s *Service) resolveTargetLocked() uintptr {
	m := s.platform.Metrics
	target := m.ForegroundWindow()
	if target == 0 {
		return 0
	}
	if !s.followSubWindow {
		if root := m.RootOwner(target); root != 0 {
			target = root
		}
	}
	return target
}

// fitLocked places the overlay so that its drawn area covers target's.
func (s *Service) fitLocked(target uintptr) {
	m := s.platform.Metrics
	ext, ok := m.ExternalBounds(target)
	if !ok || ext.Empty() {
		return
	}

	self := s.platform.Host.Handle()
	var gap geom.Edges
	selfLogical, ok1 := m.LogicalBounds(self)
	selfExternal, ok2 := m.ExternalBounds(self)
	if ok1 && ok2 {
		gap = follow.Gap(selfLogical, selfExternal)
	}

	s.applyBoundsLocked(follow.FitToWindow(follow.Sample{
		Target:       target,
		TargetBounds: ext,
		Gap:          gap,
	}))
}

// currentBoundsLocked refreshes the cached bounds from the window, which the
// user may have dragged or resized.
func (s *Service) currentBoundsLocked() geom.Rect {
	if r, ok := s.platform.Metrics.LogicalBounds(s.platform.Host.Handle()); ok && !r.Empty() {
		s.bounds = r
	}
	return s.bounds
}

func (s *Service) applyBoundsLocked(r geom.Rect) {
	if r.Empty() || r == s.bounds {
		return
	}
	s.platform.Host.SetBounds(r)
	s.bounds = r
}

func (s *Service) releaseFrameLocked() {
	if s.frame != nil {
		s.frame.Release()
		s.frame = nil
	}
}
