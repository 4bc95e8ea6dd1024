package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweeper runs SweepAll on a fixed interval so stale entries resolve even
// when nobody opens a dashboard.
type Sweeper struct {
	eng      *Engine
	interval time.Duration
	logger   *slog.Logger

	mu     sync.RWMutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(eng *Engine, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{eng: eng, interval: interval, logger: logger}
}

// Start sweeps once immediately, then on every tick until ctx ends or Stop
// is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		s.tick()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Sweeper) tick() {
	n, err := s.eng.SweepAll()
	if err != nil {
		s.logger.Error("scheduled sweep", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("scheduled sweep", "resolved", n)
	}
}
