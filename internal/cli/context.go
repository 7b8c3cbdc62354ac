package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/pomolit/internal/aggregator"
	"github.com/julianstephens/pomolit/internal/backup"
	"github.com/julianstephens/pomolit/internal/clock"
	"github.com/julianstephens/pomolit/internal/config"
	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/coordinator"
	"github.com/julianstephens/pomolit/internal/keepalive"
	"github.com/julianstephens/pomolit/internal/keyring"
	"github.com/julianstephens/pomolit/internal/logger"
	"github.com/julianstephens/pomolit/internal/metrics"
	"github.com/julianstephens/pomolit/internal/models"
	"github.com/julianstephens/pomolit/internal/notifier"
	"github.com/julianstephens/pomolit/internal/settings"
	"github.com/julianstephens/pomolit/internal/storage"
	"github.com/julianstephens/pomolit/internal/storage/jsonstore"
	"github.com/julianstephens/pomolit/internal/storage/postgres"
	"github.com/julianstephens/pomolit/internal/storage/sqlite"
)

type Context struct {
	Store      storage.Provider
	Config     *config.Config
	ConfigPath string
	ConfigDir  string
	Clock      clock.Clock
}

// Now returns the current time from the context clock
func (c *Context) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}

func (c *Context) Settings() *settings.Service {
	return settings.New(c.Store)
}

// NewAggregator builds an aggregator over the store, loaded and ready
func (c *Context) NewAggregator() (*aggregator.Aggregator, error) {
	svc := c.Settings()
	agg := aggregator.New(c.Store, func() int {
		n, err := svc.Get(constants.SettingDailyTarget)
		if err != nil {
			return constants.DefaultDailyTarget
		}
		return n
	})
	if err := agg.Refresh(); err != nil {
		return nil, err
	}
	return agg, nil
}

// NewCoordinator wires a coordinator with the collaborators enabled in the config
func (c *Context) NewCoordinator(ctx context.Context) (*coordinator.Coordinator, error) {
	cfg := c.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	opts := coordinator.Options{
		Store:    c.Store,
		Settings: c.Settings(),
		Clock:    c.Clock,
	}
	if cfg.Notifications.Enabled {
		opts.Notifier = notifier.NewTray()
	}
	if cfg.KeepAlive.Enabled && c.ConfigDir != "" {
		opts.KeepAlive = keepalive.NewLockfile(c.ConfigDir)
	}

	rec, err := metrics.New(ctx, metrics.Config{
		Endpoint: cfg.Metrics.Endpoint,
		Enabled:  cfg.Metrics.Enabled,
		Insecure: cfg.Metrics.Insecure,
	})
	if err != nil {
		logger.Warn("Metrics disabled", "error", err)
	} else {
		opts.Metrics = rec
	}

	return coordinator.NewFromSettings(ctx, opts)
}

// PerformAutomaticBackup snapshots a SQLite store unless a recent backup
// exists. Failures are logged and otherwise ignored.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, _, err := mgr.AutoBackup(constants.AutoBackupMaxAge); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// OpenStore picks the backend for dsn: a keyring reference or postgres://
// URL selects PostgreSQL, a .json path the JSON file store, anything else
// a SQLite file.
func OpenStore(dsn string) (storage.Provider, error) {
	if dsn == "" {
		dsn = constants.DefaultDBPath
	}

	if keyring.IsRef(dsn) {
		connStr, err := keyring.Resolve(dsn)
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no connection string stored for %q. Use '%s keyring set' first", dsn, constants.AppName)
			}
			return nil, err
		}
		// credentials are allowed here, the keyring is where they belong
		if _, err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		return postgres.New(connStr), nil
	}

	if postgres.IsConnString(dsn) || strings.Contains(dsn, "host=") {
		if _, err := postgres.ValidateConnString(dsn); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed. Store it with '%s keyring set' or use ~/.pgpass", constants.AppName)
			}
			return nil, err
		}
		return postgres.New(dsn), nil
	}

	path := config.ExpandHome(dsn)
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return jsonstore.New(path), nil
	}
	return sqlite.NewStore(path), nil
}

// ParseDate accepts YYYY-MM-DD, "today" or "yesterday"
func ParseDate(raw string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "today":
		return models.StartOfDay(now), nil
	case "yesterday":
		return models.PreviousDay(now), nil
	}
	d, err := models.ParseDay(raw, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD, 'today' or 'yesterday')", raw)
	}
	return d, nil
}
