package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/settings"
	"github.com/julianstephens/pomolit/internal/storage"
	"github.com/julianstephens/pomolit/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing data before initialization."`
	Source string `help:"Source database path or connection string to copy records and settings from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	_, shared := ctx.Store.(*postgres.Store)

	if c.Force && !shared {
		if err := c.removeDatabase(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized pomolit storage at: %s\n", ctx.Store.GetConfigPath())

	// a shared server is never dropped; clear our rows instead
	if c.Force && shared {
		if err := ctx.Store.DeleteAllRecords(); err != nil {
			return fmt.Errorf("failed to clear records: %w", err)
		}
		if err := settings.New(ctx.Store).ResetAll(); err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}
		fmt.Println("Cleared existing records and settings")
	}

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) removeDatabase(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDbPath, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDbPath
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, source string) error {
	sourceStore, err := cli.OpenStore(source)
	if err != nil {
		return err
	}

	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	fmt.Println("  Migrating settings and records...")
	n, err := storage.CopyAll(sourceStore, ctx.Store)
	if err != nil {
		return err
	}
	fmt.Printf("    Migrated %d records\n", n)
	return nil
}
