// Package autoclicker holds the click engine: a two-state (idle/clicking)
// service that, while clicking, emits press/hold/release cycles on a
// background goroutine at a fixed interval.
package autoclicker

import (
	"fmt"
	"sync"
	"time"
)

type Service struct {
	interval time.Duration
	hold     time.Duration
	injector Injector
	logger   Logger

	mu       sync.Mutex
	clicking bool
	loopStop chan struct{}
	loopDone chan struct{}
	closed   bool
}

func NewService(cfg Config, injector Injector, logger Logger) (*Service, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("click interval must be positive, got %v", cfg.Interval)
	}
	if injector == nil {
		return nil, fmt.Errorf("injector is nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	hold := cfg.Hold
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Service{
		interval: cfg.Interval,
		hold:     hold,
		injector: injector,
		logger:   logger,
	}, nil
}

// Start transitions the engine to clicking and spawns the click loop.
// No-op when already clicking or closed.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clicking || s.closed {
		return
	}
	s.clicking = true
	s.loopStop = make(chan struct{})
	s.loopDone = make(chan struct{})
	go s.clickLoop(s.loopStop, s.loopDone)
	s.logger.Debug("click loop started", "interval", s.interval)
}

// Stop transitions the engine to idle and waits for the click loop to exit.
// The loop observes the stop signal at every wait, so this returns within
// roughly one interval; an in-flight press is released first. No-op when
// already idle.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.clicking {
		s.mu.Unlock()
		return
	}
	s.clicking = false
	close(s.loopStop)
	done := s.loopDone
	s.mu.Unlock()

	<-done
	s.logger.Debug("click loop stopped")
}

// Running reports whether the engine is in the clicking state.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clicking
}

// Close stops the loop and closes the injector. The service cannot be
// restarted afterwards.
func (s *Service) Close() error {
	s.Stop()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.injector.Close()
}

func (s *Service) clickLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		if !sleepWithStop(stop, s.interval) {
			return
		}
		if !s.clickOnce(stop) {
			return
		}
	}
}

// clickOnce emits one press/hold/release cycle. A press that went through is
// always paired with a release, even when stop fires during the hold, so the
// button is never left down. Emission failures are logged and tolerated.
func (s *Service) clickOnce(stop <-chan struct{}) bool {
	if err := s.injector.Press(); err != nil {
		s.logger.Warn("click press failed", "err", err)
		return !stopped(stop)
	}

	keepGoing := sleepWithStop(stop, s.hold)
	if err := s.injector.Release(); err != nil {
		s.logger.Warn("click release failed", "err", err)
	}
	return keepGoing
}

func sleepWithStop(stop <-chan struct{}, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-stop:
		return false
	case <-timer.C:
		return true
	}
}

func stopped(stop <-chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}
