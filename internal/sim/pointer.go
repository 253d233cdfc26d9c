package sim

import (
	"errors"
	"sync"

	"liveframe/internal/geom"
)

// ErrHookInstalled is returned when the hook is started twice.
var ErrHookInstalled = errors.New("pointer hook already installed")

// PointerHook is a pointer.Source driven by Move.
type PointerHook struct {
	desk *Desktop

	mu     sync.Mutex
	emit   func(geom.Point)
	starts int
}

// NewPointerHook creates a hook for d.
func NewPointerHook(d *Desktop) *PointerHook {
	return &PointerHook{desk: d}
}

func (p *PointerHook) Start(emit func(geom.Point)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.emit != nil {
		return ErrHookInstalled
	}
	p.emit = emit
	p.starts++
	return nil
}

func (p *PointerHook) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emit = nil
	return nil
}

// Installed reports whether the hook is currently started.
func (p *PointerHook) Installed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.emit != nil
}

// Move sets the pointer position and emits it if the hook is installed.
func (p *PointerHook) Move(pt geom.Point) {
	p.desk.setPointer(pt)

	p.mu.Lock()
	emit := p.emit
	p.mu.Unlock()

	if emit != nil {
		emit(pt)
	}
}
