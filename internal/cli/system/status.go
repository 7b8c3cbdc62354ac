package system

import (
	"fmt"

	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/keepalive"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	now := ctx.Now()
	s, err := ctx.Settings().Load()
	if err != nil {
		return err
	}

	rec, found, err := ctx.Store.GetRecordByDate(now)
	if err != nil {
		return fmt.Errorf("failed to get today's record: %w", err)
	}

	fmt.Printf("Today (%s)\n", now.Format("2006-01-02"))
	if found {
		fmt.Printf("  Sessions: %d/%d\n", rec.SessionsCompleted, rec.DailyTarget)
		if rec.IsDailyTargetMet() {
			fmt.Println("  ✓ Daily target met")
		}
	} else {
		fmt.Printf("  Sessions: 0/%d\n", s.DailyTarget)
	}

	if ctx.ConfigDir != "" {
		if pid, running := keepalive.NewLockfile(ctx.ConfigDir).Running(); running {
			fmt.Printf("  Timer running in process %d\n", pid)
		}
	}
	return nil
}
