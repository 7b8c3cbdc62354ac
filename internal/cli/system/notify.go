package system

import (
	"fmt"

	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/notifier"
)

// NotifyCmd sends a one-off notification through the tray app
type NotifyCmd struct {
	Text   string `arg:"" optional:"" help:"Notification text." default:"pomolit notifications are working"`
	DryRun bool   `help:"Print the notification to stdout instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Settings().Load()
	if err != nil {
		return err
	}

	if !s.NotificationsEnabled {
		if c.DryRun {
			fmt.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	if c.DryRun {
		fmt.Printf("[DRY RUN] Notification: %s\n", c.Text)
		return nil
	}

	if err := notifier.Send(notifier.Alert{Kind: constants.NotificationManual, Text: c.Text}); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	fmt.Println("✓ Notification sent")
	return nil
}
