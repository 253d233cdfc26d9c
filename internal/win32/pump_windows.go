//go:build windows

package win32

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/lxn/win"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

// Pump is a locked OS thread running a Windows message loop. Low-level
// hooks and thread hotkeys are delivered to the thread that installed them,
// so both are installed through Do.
type Pump struct {
	threadID uint32
	logger   *zap.Logger

	mu       sync.Mutex
	calls    []func()
	closed   bool
	onHotkey func(id int)

	hotkeys chan int
	done    chan struct{}
	wg      sync.WaitGroup
}

// StartPump starts the pump thread and waits until its queue exists.
func StartPump(logger *zap.Logger) (*Pump, error) {
	p := &Pump{
		logger:  logger.Named("pump"),
		hotkeys: make(chan int, 16),
		done:    make(chan struct{}),
	}

	ready := make(chan struct{})
	go p.run(ready)

	select {
	case <-ready:
	case <-p.done:
		return nil, fmt.Errorf("start pump: %w", ErrPumpClosed)
	}

	p.wg.Add(1)
	go p.forwardHotkeys()

	p.logger.Debug("message pump started", zap.Uint32("thread", p.threadID))
	return p, nil
}

// SetHotkeyHandler sets the function WM_HOTKEY ids are delivered to. It runs
// off the pump thread.
func (p *Pump) SetHotkeyHandler(fn func(id int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onHotkey = fn
}

// Do runs fn on the pump thread and returns its error.
func (p *Pump) Do(fn func() error) error {
	res := make(chan error, 1)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPumpClosed
	}
	p.calls = append(p.calls, func() { res <- fn() })
	p.mu.Unlock()

	if r, _, err := procPostThreadMessageW.Call(uintptr(p.threadID), wmAppCall, 0, 0); r == 0 {
		return fmt.Errorf("post to pump: %w", err)
	}

	select {
	case err := <-res:
		return err
	case <-p.done:
		return ErrPumpClosed
	}
}

// Close ends the message loop and waits for the thread to exit.
func (p *Pump) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	procPostThreadMessageW.Call(uintptr(p.threadID), wmQuit, 0, 0)
	<-p.done

	close(p.hotkeys)
	p.wg.Wait()
	p.logger.Debug("message pump stopped")
}

func (p *Pump) run(ready chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(p.done)

	p.threadID = windows.GetCurrentThreadId()

	// Peeking forces the thread's message queue into existence, so posts
	// made right after ready cannot be lost.
	var msg win.MSG
	win.PeekMessage(&msg, 0, win.WM_USER, win.WM_USER, win.PM_NOREMOVE)
	close(ready)

	for {
		switch win.GetMessage(&msg, 0, 0, 0) {
		case 0:
			return
		case -1:
			p.logger.Error("GetMessage failed, stopping pump")
			return
		}

		if msg.HWnd == 0 {
			switch msg.Message {
			case wmAppCall:
				p.runCalls()
				continue
			case wmHotkey:
				p.queueHotkey(int(msg.WParam))
				continue
			}
		}

		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}

func (p *Pump) runCalls() {
	p.mu.Lock()
	calls := p.calls
	p.calls = nil
	p.mu.Unlock()

	for _, call := range calls {
		call()
	}
}

// queueHotkey hands the id to the forwarder without blocking the pump.
func (p *Pump) queueHotkey(id int) {
	select {
	case p.hotkeys <- id:
	default:
		p.logger.Warn("hotkey backlog full, dropping press", zap.Int("id", id))
	}
}

func (p *Pump) forwardHotkeys() {
	defer p.wg.Done()

	for id := range p.hotkeys {
		p.mu.Lock()
		fn := p.onHotkey
		p.mu.Unlock()

		if fn != nil {
			fn(id)
		}
	}
}
