package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/pomolit/internal/models"
	"github.com/julianstephens/pomolit/internal/timer"
)

type countingTicker struct {
	ticks     int
	finishAt  int
	failTicks bool
	paused    bool
}

func (c *countingTicker) Snapshot() timer.State {
	return timer.State{IsActive: !c.paused}
}

func (c *countingTicker) Tick(ctx context.Context) (timer.Transition, bool, error) {
	c.ticks++
	var err error
	if c.failTicks {
		err = errors.New("disk gone")
	}
	if c.finishAt > 0 && c.ticks%c.finishAt == 0 {
		return timer.Transition{From: models.Work, To: models.ShortBreak, SessionNumber: 1}, true, err
	}
	return timer.Transition{}, false, err
}

func TestRun_StopsOnErrStop(t *testing.T) {
	ticker := &countingTicker{finishAt: 3}
	finished := 0

	s := New(ticker, time.Millisecond, func(tr timer.Transition, done bool, err error) error {
		if done {
			finished++
			if tr.To != models.ShortBreak {
				t.Errorf("expected transition to short break, got %v", tr.To)
			}
		}
		if finished == 2 {
			return ErrStop
		}
		return nil
	})

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if ticker.ticks != 6 {
		t.Errorf("expected 6 ticks, got %d", ticker.ticks)
	}
}

func TestRun_ReturnsHandlerError(t *testing.T) {
	ticker := &countingTicker{finishAt: 1, failTicks: true}
	want := errors.New("give up")

	s := New(ticker, time.Millisecond, func(tr timer.Transition, done bool, err error) error {
		if err == nil {
			t.Error("expected the tick error to reach the handler")
		}
		return want
	})

	if err := s.Run(context.Background()); !errors.Is(err, want) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if ticker.ticks != 1 {
		t.Errorf("expected loop to stop after first tick, got %d", ticker.ticks)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ticker := &countingTicker{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- New(ticker, time.Millisecond, nil).Run(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil on cancellation, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_SkipsWhilePaused(t *testing.T) {
	ticker := &countingTicker{paused: true}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	err := New(ticker, time.Millisecond, func(timer.Transition, bool, error) error {
		calls++
		return nil
	}).Run(ctx)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if ticker.ticks != 0 || calls != 0 {
		t.Errorf("expected no ticks while paused, got ticks=%d calls=%d", ticker.ticks, calls)
	}
}

func TestNew_DefaultInterval(t *testing.T) {
	s := New(&countingTicker{}, 0, nil)
	if s.interval != time.Second {
		t.Errorf("expected default interval of 1s, got %v", s.interval)
	}
}
