package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	wailswindows "github.com/wailsapp/wails/v2/pkg/options/windows"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"liveframe/frontend"
	"liveframe/internal/config"
	"liveframe/internal/follow"
	"liveframe/internal/framepool"
	"liveframe/internal/hotkey"
	"liveframe/internal/mode"
	"liveframe/internal/overlay"
	"liveframe/internal/pointer"
	"liveframe/internal/poller"
	"liveframe/internal/visibility"
)

// platform is what the OS layer hands the app once the window exists.
type platform struct {
	overlay.Platform
	frames        *framepool.Pool
	pointerSource func() (pointer.Source, error)
	registrar     hotkey.Registrar
	onHotkey      func(dispatch func(id int))
	close         func()
}

// App struct
type App struct {
	ctx      context.Context
	logger   *zap.Logger
	config   *config.Service
	platform *platform
	overlay  *overlay.Service
	loop     *poller.Loop
	pointer  *pointer.Stream
	hotkeys  *hotkey.Router
}

// NewApp creates a new App application struct
func NewApp(configSvc *config.Service, logger *zap.Logger) *App {
	return &App{config: configSvc, logger: logger}
}

// OnStartup is called when the app starts up
func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx
	a.logger.Info("liveframe starting", zap.String("config", a.config.Path()))
}

// OnDomReady runs once the native window exists, which the OS layer needs
// to locate it.
func (a *App) OnDomReady(ctx context.Context) {
	if a.overlay != nil {
		return
	}

	plat, err := startPlatform(ctx, a.logger)
	if err != nil {
		a.logger.Error("failed to start platform", zap.Error(err))
		runtime.Quit(ctx)
		return
	}
	a.platform = plat

	overlaySvc, err := overlay.New(a.config, plat.Platform, a.logger)
	if err != nil {
		a.logger.Error("failed to initialize overlay", zap.Error(err))
		runtime.Quit(ctx)
		return
	}
	a.overlay = overlaySvc

	a.pointer = pointer.New(plat.pointerSource, overlaySvc.HandlePointer, a.logger)
	overlaySvc.AttachPointer(a.pointer)

	a.loop = poller.New(mode.DefaultInterval, overlaySvc.Tick, a.logger)
	overlaySvc.AttachTicker(a.loop)

	overlaySvc.Restore()
	a.bindHotkeys()
	a.loop.Start(ctx)
}

func (a *App) bindHotkeys() {
	a.hotkeys = hotkey.New(a.platform.registrar, a.logger)
	a.platform.onHotkey(a.hotkeys.Dispatch)

	bindings, err := hotkey.Resolve(a.config.Get().Hotkeys)
	if err != nil {
		a.logger.Warn("ignoring invalid hotkey overrides", zap.Error(err))
	}

	handlers := map[hotkey.Trigger]func(){
		hotkey.ToggleEdit:               a.overlay.ToggleEditMode,
		hotkey.ToggleActiveWindowFollow: a.overlay.ToggleActiveWindowFollow,
		hotkey.ToggleMouseFollow:        a.overlay.ToggleMouseFollow,
		hotkey.ToggleBlindfold:          a.overlay.ToggleBlindfoldMode,
		hotkey.FitToActiveWindow:        a.overlay.FitToActiveWindow,
	}
	if err := a.hotkeys.BindAll(bindings, handlers); err != nil {
		a.logger.Warn("some hotkeys could not be registered", zap.Error(err))
	}
}

// OnShutdown is called when the app is shutting down
func (a *App) OnShutdown(ctx context.Context) {
	if a.loop != nil {
		a.loop.Stop()
	}
	if a.hotkeys != nil {
		if err := a.hotkeys.Close(); err != nil {
			a.logger.Warn("failed to release hotkeys", zap.Error(err))
		}
	}
	if a.overlay != nil {
		if err := a.overlay.Persist(); err != nil {
			a.logger.Warn("failed to save overlay settings", zap.Error(err))
		}
		a.overlay.Close()
	}
	if a.pointer != nil {
		if err := a.pointer.Close(); err != nil {
			a.logger.Warn("failed to stop pointer hook", zap.Error(err))
		}
	}
	if a.platform != nil {
		a.platform.close()
	}
	_ = a.logger.Sync()
}

// ToggleEditMode flips between Edit and Live
func (a *App) ToggleEditMode() {
	if a.overlay != nil {
		a.overlay.ToggleEditMode()
	}
}

// ToggleBlindfoldMode flips between Live and Blindfold
func (a *App) ToggleBlindfoldMode() {
	if a.overlay != nil {
		a.overlay.ToggleBlindfoldMode()
	}
}

// FitToActiveWindow snaps the overlay onto the active window once
func (a *App) FitToActiveWindow() {
	if a.overlay != nil {
		a.overlay.FitToActiveWindow()
	}
}

// SetFollowMode selects a follow mode by name
func (a *App) SetFollowMode(name string) error {
	if a.overlay == nil {
		return fmt.Errorf("overlay service not available")
	}
	m, err := mode.ParseFollow(name)
	if err != nil {
		return err
	}
	a.overlay.SetFollowMode(m)
	return nil
}

// SetCaptureMode selects a capture tier by name
func (a *App) SetCaptureMode(name string) error {
	if a.overlay == nil {
		return fmt.Errorf("overlay service not available")
	}
	c, err := mode.ParseCapture(name)
	if err != nil {
		return err
	}
	a.overlay.SetCaptureMode(c)
	return nil
}

// SetFollowSubWindow toggles following owned windows instead of their root
func (a *App) SetFollowSubWindow(enabled bool) {
	if a.overlay != nil {
		a.overlay.SetFollowSubWindow(enabled)
	}
}

// Zoom applies a wheel event's deltaY in Edit mode
func (a *App) Zoom(deltaY float64) {
	if a.overlay != nil {
		a.overlay.Zoom(follow.WheelDelta(deltaY))
	}
}

// MenuOpened pauses polling while the context menu is up
func (a *App) MenuOpened() {
	if a.loop != nil {
		a.loop.Pause()
	}
}

// MenuClosed resumes polling
func (a *App) MenuClosed() {
	if a.loop != nil {
		a.loop.Resume()
	}
}

// GetCaptureTiers returns the capture tiers for the context menu
func (a *App) GetCaptureTiers() []map[string]interface{} {
	var tiers []map[string]interface{}
	for _, t := range mode.Tiers() {
		tiers = append(tiers, map[string]interface{}{
			"mode":       t.Mode.String(),
			"label":      t.Label,
			"frame_rate": t.FrameRate,
		})
	}
	return tiers
}

// GetFollowModes returns the follow mode names for the context menu
func (a *App) GetFollowModes() []string {
	var names []string
	for _, f := range mode.Follows() {
		names = append(names, f.String())
	}
	return names
}

// GetStatus returns the overlay state for the frontend
func (a *App) GetStatus() map[string]interface{} {
	status := map[string]interface{}{
		"ready":   false,
		"polling": false,
	}
	if a.loop != nil {
		status["polling"] = a.loop.IsPolling() && !a.loop.Paused()
	}
	if a.overlay == nil {
		return status
	}

	st := a.overlay.Snapshot()
	status["ready"] = true
	status["visible_mode"] = st.VisibleMode.String()
	status["follow_mode"] = st.FollowMode.String()
	status["capture_mode"] = st.CaptureMode.String()
	status["capture_label"] = st.CaptureMode.Tier().Label
	status["find_me"] = st.FindMe
	status["follow_sub_window"] = st.FollowSubWindow
	status["interval_ms"] = st.Interval.Milliseconds()
	status["has_frame"] = st.HasFrame
	status["chrome"] = st.Chrome
	if a.platform != nil && a.platform.frames != nil {
		status["frame_pool"] = a.platform.frames.Stats()
	}
	return status
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug || os.Getenv("LIVEFRAME_DEBUG") != "" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	// Initialize config service
	configSvc, err := config.New()
	if err != nil {
		fmt.Printf("Failed to initialize config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(configSvc.Get().Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Create an instance of the app structure
	app := NewApp(configSvc, logger)

	// Create application with options
	err = wails.Run(&options.App{
		Title:  visibility.Caption,
		Width:  640,
		Height: 360,
		AssetServer: &assetserver.Options{
			Assets: frontend.Assets,
		},
		Frameless:        false,
		AlwaysOnTop:      true,
		BackgroundColour: &options.RGBA{R: 0, G: 0, B: 0, A: 0}, // Transparent
		Windows: &wailswindows.Options{
			WebviewIsTransparent: true,
			WindowIsTranslucent:  false,
		},
		OnStartup:  app.OnStartup,
		OnDomReady: app.OnDomReady,
		OnShutdown: app.OnShutdown,
		Bind:       []interface{}{app},
	})

	if err != nil {
		logger.Error("error starting application", zap.Error(err))
		os.Exit(1)
	}
}
