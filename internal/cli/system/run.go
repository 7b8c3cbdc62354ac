package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/coordinator"
	"github.com/julianstephens/pomolit/internal/logger"
	"github.com/julianstephens/pomolit/internal/scheduler"
	"github.com/julianstephens/pomolit/internal/timer"
)

// RunCmd drives the timer without the TUI, printing each transition
type RunCmd struct {
	Sessions int           `help:"Stop after this many completed work sessions (0 runs until interrupted)." default:"0"`
	Interval time.Duration `help:"Tick interval." default:"1s" hidden:""`
}

func (c *RunCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coord, err := ctx.NewCoordinator(sigCtx)
	if err != nil {
		return err
	}
	defer func() {
		if err := coord.Shutdown(context.Background()); err != nil {
			logger.Warn("Shutdown failed", "error", err)
		}
	}()

	return c.loop(sigCtx, coord)
}

func (c *RunCmd) loop(ctx context.Context, coord *coordinator.Coordinator) error {
	completed := 0
	coord.Start(ctx)
	printSession(coord.Snapshot())

	sched := scheduler.New(coord, c.Interval, func(tr timer.Transition, finished bool, err error) error {
		if !finished {
			return nil
		}
		if err != nil {
			fmt.Printf("⚠ Failed to record session: %v\n", err)
		}
		fmt.Printf("✓ %s finished\n", tr.From.Label())
		if tr.From.IsWork() {
			completed++
			if c.Sessions > 0 && completed >= c.Sessions {
				return scheduler.ErrStop
			}
		}
		// without auto-continue the coordinator leaves the next session paused
		if !coord.Snapshot().IsActive {
			coord.Start(ctx)
		}
		printSession(coord.Snapshot())
		return nil
	})

	if err := sched.Run(ctx); err != nil {
		return err
	}
	fmt.Printf("Completed %d work session(s)\n", completed)
	return nil
}

func printSession(s timer.State) {
	fmt.Printf("▶ %s %d/%d (%s)\n", s.CurrentSession.Label(), s.CurrentSessionNumber, s.MaxSessions, s.FormatRemaining())
}
