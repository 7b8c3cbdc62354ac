package system

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/config"
)

// ConfigInitCmd writes a config file populated with the defaults
type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

func (c *ConfigInitCmd) Run(ctx *cli.Context) error {
	path := config.ExpandHome(ctx.ConfigPath)
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Printf("✓ Wrote default config to %s\n", path)
	return nil
}

// ConfigShowCmd prints the effective configuration
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
