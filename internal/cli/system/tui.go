package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/logger"
	"github.com/julianstephens/pomolit/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	bg := context.Background()
	coord, err := ctx.NewCoordinator(bg)
	if err != nil {
		return err
	}
	defer func() {
		if err := coord.Shutdown(bg); err != nil {
			logger.Warn("Shutdown failed", "error", err)
		}
	}()

	agg, err := ctx.NewAggregator()
	if err != nil {
		return err
	}

	model := tui.NewModel(bg, tui.Options{
		Coordinator: coord,
		Aggregator:  agg,
		Settings:    ctx.Settings(),
		Clock:       ctx.Clock,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
