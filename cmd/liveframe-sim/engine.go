package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"liveframe/internal/capture"
	"liveframe/internal/config"
	"liveframe/internal/framepool"
	"liveframe/internal/hotkey"
	"liveframe/internal/mode"
	"liveframe/internal/overlay"
	"liveframe/internal/pointer"
	"liveframe/internal/poller"
	"liveframe/internal/sim"
)

// engine is the overlay service wired to a simulated desktop, the same way
// the desktop app wires it to Windows.
type engine struct {
	desk     *sim.Desktop
	host     *sim.Host
	hook     *sim.PointerHook
	keyboard *sim.Keyboard
	frames   *framepool.Pool
	bindings map[hotkey.Trigger]hotkey.Binding

	svc    *overlay.Service
	loop   *poller.Loop
	stream *pointer.Stream
	router *hotkey.Router
	cancel context.CancelFunc
	logger *zap.Logger
}

func startEngine(sc *sim.Scenario, configDir string, logger *zap.Logger) (*engine, error) {
	cfg, err := config.NewAt(configDir)
	if err != nil {
		return nil, err
	}

	desk, host := sc.Build()
	frames := framepool.New(4)
	svc, err := overlay.New(cfg, overlay.Platform{
		Metrics:  desk,
		Host:     host,
		Capturer: capture.New(sim.NewSource(desk), frames, logger),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("start overlay: %w", err)
	}

	e := &engine{
		desk:     desk,
		host:     host,
		hook:     sim.NewPointerHook(desk),
		keyboard: sim.NewKeyboard(),
		frames:   frames,
		svc:      svc,
		logger:   logger,
	}

	e.stream = pointer.New(func() (pointer.Source, error) { return e.hook, nil }, svc.HandlePointer, logger)
	svc.AttachPointer(e.stream)

	e.loop = poller.New(mode.DefaultInterval, svc.Tick, logger)
	svc.AttachTicker(e.loop)
	svc.Restore()

	e.router = hotkey.New(e.keyboard, logger)
	e.keyboard.SetHandler(e.router.Dispatch)
	e.bindings, err = hotkey.Resolve(cfg.Get().Hotkeys)
	if err != nil {
		logger.Warn("ignoring invalid hotkey overrides", zap.Error(err))
	}
	err = e.router.BindAll(e.bindings, map[hotkey.Trigger]func(){
		hotkey.ToggleEdit:               svc.ToggleEditMode,
		hotkey.ToggleActiveWindowFollow: svc.ToggleActiveWindowFollow,
		hotkey.ToggleMouseFollow:        svc.ToggleMouseFollow,
		hotkey.ToggleBlindfold:          svc.ToggleBlindfoldMode,
		hotkey.FitToActiveWindow:        svc.FitToActiveWindow,
	})
	if err != nil {
		logger.Warn("some hotkeys could not be registered", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.loop.Start(ctx)
	return e, nil
}

// press simulates the global hotkey for t.
func (e *engine) press(t hotkey.Trigger) {
	if b, ok := e.bindings[t]; ok {
		e.keyboard.Press(b)
	}
}

func (e *engine) close() {
	e.loop.Stop()
	e.cancel()
	if err := e.router.Close(); err != nil {
		e.logger.Warn("failed to release hotkeys", zap.Error(err))
	}
	if err := e.svc.Persist(); err != nil {
		e.logger.Warn("failed to save overlay settings", zap.Error(err))
	}
	e.svc.Close()
	if err := e.stream.Close(); err != nil {
		e.logger.Warn("failed to stop pointer hook", zap.Error(err))
	}
}
