// Package scheduler delivers ticks to the session coordinator when no TUI
// event loop is around to do it.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/logger"
	"github.com/julianstephens/pomolit/internal/timer"
)

// ErrStop ends Run without reporting an error
var ErrStop = errors.New("scheduler: stop")

// Ticker is the part of the coordinator the loop drives
type Ticker interface {
	Tick(ctx context.Context) (timer.Transition, bool, error)
	Snapshot() timer.State
}

// Handler sees every tick. finished is true on the tick that ended a
// session; err carries a failure to record it. Returning ErrStop ends the
// loop cleanly, any other error ends it with that error.
type Handler func(tr timer.Transition, finished bool, err error) error

type Scheduler struct {
	ticker   Ticker
	interval time.Duration
	handler  Handler
}

func New(t Ticker, interval time.Duration, h Handler) *Scheduler {
	if interval <= 0 {
		interval = constants.TickInterval
	}
	return &Scheduler{ticker: t, interval: interval, handler: h}
}

// Run ticks until ctx is cancelled or the handler stops it. Ticks are
// delivered from this goroutine only and skipped while the timer is paused.
func (s *Scheduler) Run(ctx context.Context) error {
	tk := time.NewTicker(s.interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tk.C:
			if !s.ticker.Snapshot().IsActive {
				continue
			}
			tr, finished, err := s.ticker.Tick(ctx)
			if err != nil {
				logger.Error("Failed to record session", "error", err)
			}
			if s.handler == nil {
				continue
			}
			if herr := s.handler(tr, finished, err); herr != nil {
				if errors.Is(herr, ErrStop) {
					return nil
				}
				return herr
			}
		}
	}
}
