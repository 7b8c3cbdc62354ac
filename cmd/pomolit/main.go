package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/cli/backups"
	"github.com/julianstephens/pomolit/internal/cli/records"
	"github.com/julianstephens/pomolit/internal/cli/settings"
	"github.com/julianstephens/pomolit/internal/cli/system"
	"github.com/julianstephens/pomolit/internal/clock"
	"github.com/julianstephens/pomolit/internal/config"
	"github.com/julianstephens/pomolit/internal/constants"
	apperrors "github.com/julianstephens/pomolit/internal/errors"
	"github.com/julianstephens/pomolit/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"SQLite path, .json file, PostgreSQL connection string or keyring[:profile] reference. PostgreSQL credentials must NOT be embedded; use the OS keyring or .pgpass instead." name:"db" env:"POMOLIT_DB"`
	Config  string `help:"Config file path." type:"string" default:"${config_path}"`
	Verbose bool   `help:"Enable debug logging." short:"v"`

	Init    system.InitCmd     `cmd:"" help:"Initialize pomolit storage."`
	Migrate system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd      `cmd:"" help:"Launch the interactive timer." default:"1"`
	Run     system.RunCmd      `cmd:"" help:"Run the timer in the terminal without the TUI."`
	Status  system.StatusCmd   `cmd:"" help:"Show today's progress."`
	Serve   system.ServeCmd    `cmd:"" help:"Serve records and statistics over HTTP."`
	Stats   records.StatsCmd   `cmd:"" help:"Show session statistics and streaks."`
	Target  settings.TargetCmd `cmd:"" help:"Set the daily session target."`
	Debug   system.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
	Records struct {
		List   records.RecordListCmd   `cmd:"" help:"List day records." default:"1"`
		Show   records.RecordShowCmd   `cmd:"" help:"Show a single day."`
		Log    records.RecordLogCmd    `cmd:"" help:"Count a work session finished away from the timer."`
		Delete records.RecordDeleteCmd `cmd:"" help:"Delete a day record."`
		Clear  records.RecordClearCmd  `cmd:"" help:"Delete every record."`
	} `cmd:"" help:"Manage daily session records."`
	Settings struct {
		List  settings.SettingsListCmd  `cmd:"" help:"List current settings." default:"1"`
		Set   settings.SettingsSetCmd   `cmd:"" help:"Change a setting."`
		Reset settings.SettingsResetCmd `cmd:"" help:"Reset one or all settings to defaults."`
	} `cmd:"" help:"Manage timer settings."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
	ConfigCmd struct {
		Init system.ConfigInitCmd `cmd:"" help:"Write a config file with default values."`
		Show system.ConfigShowCmd `cmd:"" help:"Print the effective configuration." default:"1"`
	} `cmd:"" name:"config" help:"Manage the config file."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Send a test notification."`
}

func newParser(options ...kong.Option) (*kong.Kong, error) {
	return kong.New(&CLI, append([]kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Pomodoro timer with daily targets and streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	}, options...)...)
}

func main() {
	parser, err := newParser()
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}
}

func run(ctx *kong.Context) error {
	command := ctx.Command()

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	configPath := config.ExpandHome(CLI.Config)
	configDir := filepath.Dir(configPath)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Verbose || cfg.Debug,
		ConfigDir: configDir,
		Quiet:     command == "tui",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigPath: configPath,
		ConfigDir:  configDir,
		Clock:      clock.SystemClock{},
	}

	// keyring and config commands never touch the database
	if strings.HasPrefix(command, "keyring") || strings.HasPrefix(command, "config") {
		return ctx.Run(appCtx)
	}

	dsn := CLI.DB
	if dsn == "" {
		dsn = cfg.Database
	}
	store, err := cli.OpenStore(dsn)
	if err != nil {
		return err
	}
	defer store.Close()
	appCtx.Store = store

	// init and migrate open the store themselves; debug db-path works without one
	if !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "migrate") && command != "debug db-path" {
		if err := store.Load(); err != nil {
			return err
		}
	}

	logger.Debug("Running command", "command", command, "store", store.GetConfigPath())
	return ctx.Run(appCtx)
}
