package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Loop calls a tick function at a fixed, adjustable interval. It can be
// paused without being torn down, which is how menus keep the overlay from
// moving under the user's pointer.
type Loop struct {
	tick   func(context.Context)
	logger *zap.Logger

	// tickMu is held for the whole of a tick so Pause can wait one out.
	tickMu sync.Mutex

	mu        sync.Mutex
	interval  time.Duration
	paused    bool
	isPolling bool
	cancel    context.CancelFunc
	wake      chan struct{}
	done      chan struct{}
}

// New creates a stopped loop.
func New(interval time.Duration, tick func(context.Context), logger *zap.Logger) *Loop {
	return &Loop{
		tick:     tick,
		logger:   logger.Named("poller"),
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Start begins ticking. Calling Start on a running loop does nothing.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.isPolling {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.isPolling = true

	go l.pollLoop(ctx, l.done)
	l.logger.Info("poll loop started", zap.Duration("interval", l.interval))
}

// Stop ends the loop and waits for an in-flight tick to finish.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.isPolling {
		l.mu.Unlock()
		return
	}
	l.isPolling = false
	l.cancel()
	done := l.done
	l.mu.Unlock()

	<-done
	l.logger.Info("poll loop stopped")
}

// SetInterval changes the tick interval. It never blocks, so it is safe to
// call from inside a tick or while holding a lock the tick takes.
func (l *Loop) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	l.mu.Lock()
	l.interval = d
	l.mu.Unlock()
	l.poke()
}

// Interval returns the current tick interval.
func (l *Loop) Interval() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interval
}

// Pause suspends ticking until Resume. It waits for a running tick to
// finish, and no tick starts after it returns. Do not call it from a tick.
func (l *Loop) Pause() {
	l.tickMu.Lock()
	l.mu.Lock()
	l.paused = true
	l.mu.Unlock()
	l.tickMu.Unlock()
	l.poke()
}

// Resume restarts ticking after Pause.
func (l *Loop) Resume() {
	l.mu.Lock()
	l.paused = false
	l.mu.Unlock()
	l.poke()
}

// Paused reports whether the loop is suspended.
func (l *Loop) Paused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

// IsPolling returns whether the loop is running
func (l *Loop) IsPolling() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isPolling
}

func (l *Loop) poke() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) state() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interval, l.paused
}

// pollLoop is the main polling loop
func (l *Loop) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	interval, paused := l.state()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	if paused {
		ticker.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
			interval, paused = l.state()
			if paused {
				ticker.Stop()
				continue
			}
			// Update ticker with current interval
			ticker.Reset(interval)
		case <-ticker.C:
			l.runTick(ctx)
		}
	}
}

func (l *Loop) runTick(ctx context.Context) {
	l.tickMu.Lock()
	defer l.tickMu.Unlock()

	if _, paused := l.state(); paused {
		return
	}
	l.tick(ctx)
}
