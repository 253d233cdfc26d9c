// Package pointer turns a raw pointer hook into a start/stop controllable
// stream of positions with latest-wins delivery.
package pointer

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"liveframe/internal/geom"
)

// ErrNoSource is returned when the pointer hook cannot be constructed.
var ErrNoSource = errors.New("pointer source unavailable")

// Source is a platform pointer hook. Start installs it and calls emit for
// every pointer move until Stop.
type Source interface {
	Start(emit func(geom.Point)) error
	Stop() error
}

// Stream owns a lazily constructed Source and forwards its samples to a sink
// on a dedicated goroutine. Samples are never queued: if the sink is busy
// the newest sample replaces the pending one.
type Stream struct {
	mu      sync.Mutex
	factory func() (Source, error)
	src     Source
	sink    func(geom.Point)
	started bool
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *zap.Logger
}

// New creates a stopped stream. factory runs on the first Start only.
func New(factory func() (Source, error), sink func(geom.Point), logger *zap.Logger) *Stream {
	return &Stream{
		factory: factory,
		sink:    sink,
		logger:  logger.Named("pointer"),
	}
}

// Start installs the hook. Calling Start on a started stream is a no-op.
func (s *Stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.src == nil {
		src, err := s.factory()
		if err != nil {
			return fmt.Errorf("create pointer hook: %w", errors.Join(ErrNoSource, err))
		}
		s.src = src
	}

	mailbox := make(chan geom.Point, 1)
	done := make(chan struct{})

	s.wg.Add(1)
	go s.deliver(mailbox, done)

	if err := s.src.Start(func(p geom.Point) { offer(mailbox, p) }); err != nil {
		close(done)
		return fmt.Errorf("start pointer hook: %w", err)
	}

	s.done = done
	s.started = true
	s.logger.Debug("pointer stream started")
	return nil
}

// Stop removes the hook. It is safe to call on a stream that was never
// started. Stop does not wait for an in-flight sample; the sink must ignore
// samples that arrive after it switched away from pointer following.
func (s *Stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false
	close(s.done)

	if err := s.src.Stop(); err != nil {
		return fmt.Errorf("stop pointer hook: %w", err)
	}
	s.logger.Debug("pointer stream stopped")
	return nil
}

// Close stops the stream and waits for the delivery goroutine to exit.
// It must not be called while holding a lock the sink takes.
func (s *Stream) Close() error {
	err := s.Stop()
	s.wg.Wait()
	return err
}

// Started reports whether the hook is installed.
func (s *Stream) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *Stream) deliver(mailbox <-chan geom.Point, done <-chan struct{}) {
	defer s.wg.Done()

	for {
		select {
		case <-done:
			return
		case p := <-mailbox:
			s.sink(p)
		}
	}
}

// offer puts p in the single-slot mailbox, replacing a pending sample.
func offer(mailbox chan geom.Point, p geom.Point) {
	for {
		select {
		case mailbox <- p:
			return
		default:
		}
		select {
		case <-mailbox:
		default:
		}
	}
}
