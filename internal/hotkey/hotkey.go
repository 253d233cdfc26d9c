// Package hotkey routes global hotkey presses to the overlay's triggers and
// owns the registrations so they are released exactly once.
package hotkey

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrAlreadyBound is returned when a trigger is bound twice.
var ErrAlreadyBound = errors.New("trigger already bound")

// ErrClosed is returned by Bind after Close.
var ErrClosed = errors.New("router closed")

// ErrBadBinding is returned for binding strings that cannot be parsed.
var ErrBadBinding = errors.New("invalid binding")

// Trigger is a logical overlay action.
type Trigger int

const (
	ToggleEdit Trigger = iota
	ToggleActiveWindowFollow
	ToggleMouseFollow
	ToggleBlindfold
	FitToActiveWindow
)

func (t Trigger) String() string {
	switch t {
	case ToggleEdit:
		return "toggle-edit"
	case ToggleActiveWindowFollow:
		return "toggle-active-window-follow"
	case ToggleMouseFollow:
		return "toggle-mouse-follow"
	case ToggleBlindfold:
		return "toggle-blindfold"
	case FitToActiveWindow:
		return "fit-to-active-window"
	}
	return fmt.Sprintf("Trigger(%d)", int(t))
}

// Modifiers use the Win32 MOD_* bit values.
type Modifiers uint32

const (
	ModAlt     Modifiers = 0x0001
	ModControl Modifiers = 0x0002
	ModShift   Modifiers = 0x0004
	ModWin     Modifiers = 0x0008
)

// Binding is a modifier set plus a virtual-key code. For letters and digits
// the virtual-key code is the upper-case ASCII character.
type Binding struct {
	Mods Modifiers
	Key  uint32
}

func (b Binding) String() string {
	var parts []string
	if b.Mods&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if b.Mods&ModControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if b.Mods&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if b.Mods&ModWin != 0 {
		parts = append(parts, "Win")
	}
	parts = append(parts, string(rune(b.Key)))
	return strings.Join(parts, "+")
}

// ParseBinding parses "Alt+Ctrl+Shift+L". The key must be a single letter
// or digit and at least one modifier is required.
func ParseBinding(s string) (Binding, error) {
	parts := strings.Split(s, "+")
	if len(parts) < 2 {
		return Binding{}, fmt.Errorf("%w: %q needs a modifier and a key", ErrBadBinding, s)
	}

	var b Binding
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "alt":
			b.Mods |= ModAlt
		case "ctrl", "control":
			b.Mods |= ModControl
		case "shift":
			b.Mods |= ModShift
		case "win":
			b.Mods |= ModWin
		default:
			return Binding{}, fmt.Errorf("%w: unknown modifier %q", ErrBadBinding, p)
		}
	}

	key := strings.ToUpper(strings.TrimSpace(parts[len(parts)-1]))
	if len(key) != 1 || !(key[0] >= 'A' && key[0] <= 'Z' || key[0] >= '0' && key[0] <= '9') {
		return Binding{}, fmt.Errorf("%w: key %q", ErrBadBinding, key)
	}
	b.Key = uint32(key[0])
	return b, nil
}

var triggers = []Trigger{ToggleEdit, ToggleActiveWindowFollow, ToggleMouseFollow, ToggleBlindfold, FitToActiveWindow}

// Triggers lists every trigger in binding order.
func Triggers() []Trigger {
	out := make([]Trigger, len(triggers))
	copy(out, triggers)
	return out
}

// Resolve overlays the named overrides on DefaultBindings. Unknown trigger
// names and bad bindings are reported together; valid overrides still apply.
func Resolve(overrides map[string]string) (map[Trigger]Binding, error) {
	out := DefaultBindings()
	byName := make(map[string]Trigger, len(triggers))
	for _, t := range triggers {
		byName[t.String()] = t
	}

	var errs []error
	for name, raw := range overrides {
		t, ok := byName[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: unknown trigger %q", ErrBadBinding, name))
			continue
		}
		b, err := ParseBinding(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		out[t] = b
	}
	return out, errors.Join(errs...)
}

const allMods = ModAlt | ModControl | ModShift

// DefaultBindings are the reference Alt+Ctrl+Shift bindings.
func DefaultBindings() map[Trigger]Binding {
	return map[Trigger]Binding{
		ToggleEdit:               {allMods, 'L'},
		ToggleActiveWindowFollow: {allMods, 'P'},
		ToggleMouseFollow:        {allMods, 'M'},
		ToggleBlindfold:          {allMods, 'B'},
		FitToActiveWindow:        {allMods, 'F'},
	}
}

// Registrar is the OS side: it registers an id for a binding and reports
// presses back through Router.Dispatch.
type Registrar interface {
	Register(id int, b Binding) error
	Unregister(id int) error
}

type registration struct {
	trigger Trigger
	binding Binding
	handler func()
}

// Router holds hotkey registrations and runs their handlers in press order
// on its own goroutine, so the OS thread that reports presses never blocks.
type Router struct {
	mu     sync.Mutex
	reg    Registrar
	regs   map[int]registration
	nextID int
	closed bool
	queue  chan func()
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates a router on top of reg.
func New(reg Registrar, logger *zap.Logger) *Router {
	r := &Router{
		reg:    reg,
		regs:   make(map[int]registration),
		nextID: 1,
		queue:  make(chan func(), 16),
		logger: logger.Named("hotkey"),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Bind registers b for trigger t.
func (r *Router) Bind(t Trigger, b Binding, handler func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	for _, existing := range r.regs {
		if existing.trigger == t {
			return fmt.Errorf("bind %s: %w", t, ErrAlreadyBound)
		}
	}

	id := r.nextID
	if err := r.reg.Register(id, b); err != nil {
		return fmt.Errorf("register %s as %s: %w", t, b, err)
	}
	r.nextID++
	r.regs[id] = registration{trigger: t, binding: b, handler: handler}

	r.logger.Info("hotkey bound", zap.Stringer("trigger", t), zap.Stringer("binding", b))
	return nil
}

// BindAll binds every trigger in bindings that has a handler. It keeps going
// after a failure and returns all errors joined.
func (r *Router) BindAll(bindings map[Trigger]Binding, handlers map[Trigger]func()) error {
	var errs []error
	for _, t := range triggers {
		b, ok := bindings[t]
		h := handlers[t]
		if !ok || h == nil {
			continue
		}
		if err := r.Bind(t, b, h); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Dispatch is called by the registrar when hotkey id is pressed. It never
// blocks.
func (r *Router) Dispatch(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.regs[id]
	if !ok || r.closed {
		return
	}

	select {
	case r.queue <- reg.handler:
	default:
		r.logger.Warn("hotkey queue full, dropping press", zap.Stringer("trigger", reg.trigger))
	}
}

// Close unregisters every hotkey. Failures are logged and returned but never
// stop the remaining releases. Calling Close again is a no-op.
func (r *Router) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	regs := r.regs
	r.regs = make(map[int]registration)
	close(r.queue)
	r.mu.Unlock()

	var errs []error
	for id, reg := range regs {
		if err := r.reg.Unregister(id); err != nil {
			r.logger.Warn("failed to release hotkey",
				zap.Stringer("trigger", reg.trigger), zap.Error(err))
			errs = append(errs, fmt.Errorf("unregister %s: %w", reg.trigger, err))
		}
	}

	r.wg.Wait()
	return errors.Join(errs...)
}

func (r *Router) run() {
	defer r.wg.Done()
	for handler := range r.queue {
		handler()
	}
}
