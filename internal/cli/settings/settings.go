package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/settings"
)

type SettingsListCmd struct{}

func (c *SettingsListCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Settings().List()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	fmt.Println("Current Settings:")
	for _, e := range entries {
		marker := " "
		if !e.IsDefault {
			marker = "*"
		}
		fmt.Printf(" %s %-22s %-8s (default %s)\n", marker, e.Key, display(e.Key, e.Value), display(e.Key, e.Default))
	}
	fmt.Println("\n* changed from default")
	return nil
}

// display renders duration settings as Go durations for readability
func display(key, value string) string {
	if !isDuration(key) {
		return value
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return value
	}
	return (time.Duration(n) * time.Second).String()
}

func isDuration(key string) bool {
	return strings.HasSuffix(key, "_duration")
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key (see 'settings list')."`
	Value string `arg:"" help:"New value. Durations accept seconds or Go durations such as 25m."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	raw := strings.TrimSpace(c.Value)
	if isDuration(c.Key) {
		if d, err := time.ParseDuration(raw); err == nil {
			raw = strconv.Itoa(int(d / time.Second))
		}
	}

	value, err := settings.Validate(c.Key, raw)
	if err != nil {
		return err
	}

	if c.Key == constants.SettingDailyTarget {
		n, _ := strconv.Atoi(value)
		if err := settings.ValidateDailyTarget(n); err != nil {
			return err
		}
		return updateDailyTarget(ctx, n)
	}

	if err := ctx.Settings().SetRaw(c.Key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	fmt.Printf("Set %s = %s\n", c.Key, display(c.Key, value))
	return nil
}

type SettingsResetCmd struct {
	Key string `arg:"" optional:"" help:"Setting to reset; omit to reset every setting."`
}

func (c *SettingsResetCmd) Run(ctx *cli.Context) error {
	svc := ctx.Settings()
	if c.Key == "" {
		if err := svc.ResetAll(); err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}
		if err := updateDailyTarget(ctx, constants.DefaultDailyTarget); err != nil {
			return err
		}
		fmt.Println("All settings reset to defaults")
		return nil
	}

	if c.Key == constants.SettingDailyTarget {
		return updateDailyTarget(ctx, constants.DefaultDailyTarget)
	}
	if err := svc.ResetToDefault(c.Key); err != nil {
		return err
	}
	fmt.Printf("Reset %s to default\n", c.Key)
	return nil
}

// updateDailyTarget goes through the coordinator so today's record follows
// the new target
func updateDailyTarget(ctx *cli.Context, n int) error {
	bg := context.Background()
	coord, err := ctx.NewCoordinator(bg)
	if err != nil {
		return err
	}
	defer coord.Shutdown(bg)

	if err := coord.UpdateDailyTargetSetting(bg, n); err != nil {
		return fmt.Errorf("failed to update daily target: %w", err)
	}
	fmt.Printf("Set %s = %d\n", constants.SettingDailyTarget, n)
	return nil
}

type TargetCmd struct {
	Sessions int `arg:"" help:"Work sessions that make a day successful."`
}

func (c *TargetCmd) Run(ctx *cli.Context) error {
	if err := settings.ValidateDailyTarget(c.Sessions); err != nil {
		return err
	}
	return updateDailyTarget(ctx, c.Sessions)
}
