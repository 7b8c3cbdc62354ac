package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/logger"
	"github.com/julianstephens/pomolit/internal/server"
)

// ServeCmd exposes records and statistics over a read-only HTTP API
type ServeCmd struct {
	Addr string `help:"Listen address (defaults to server.addr from the config file)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	addr := c.Addr
	if addr == "" && ctx.Config != nil {
		addr = ctx.Config.Server.Addr
	}
	if addr == "" {
		addr = constants.DefaultServerAddr
	}

	agg, err := ctx.NewAggregator()
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("Serving statistics", "store", ctx.Store.GetConfigPath())
	return server.NewServer(agg, ctx.Clock).Run(sigCtx, addr)
}
