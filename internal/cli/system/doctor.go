package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/pomolit/internal/backup"
	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/keepalive"
	"github.com/julianstephens/pomolit/internal/models"
	"github.com/julianstephens/pomolit/internal/storage/sqlite"
	"github.com/julianstephens/pomolit/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Remove duplicate day records, keeping the one with the most sessions."`
}

type check struct {
	name     string
	needsDB  bool
	warnOnly bool
	run      func(*cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	checks := []check{
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
		{name: "Records", needsDB: true, run: cmd.checkRecords},
		{name: "Settings", needsDB: true, warnOnly: true, run: checkSettings},
		{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
		{name: "Running timer", warnOnly: true, run: checkRunningTimer},
		{name: "Clock/timezone", run: func(*cli.Context) error { return checkClockTimezone(time.Now()) }},
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(Migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(Migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run '%s migrate')", current, latest, constants.AppName)
	}
	return nil
}

func (cmd *DoctorCmd) checkRecords(ctx *cli.Context) error {
	records, err := ctx.Store.GetAllRecords()
	if err != nil {
		return fmt.Errorf("failed to get records: %w", err)
	}

	result := validation.New(ctx.Now).ValidateRecords(records)
	if !result.HasConflicts() {
		return nil
	}

	if cmd.Fix {
		actions := validation.AutoFixDuplicateRecords(result.Conflicts, records, ctx.Store.DeleteRecord)
		for _, a := range actions {
			fmt.Printf("   Fixed: %s\n", a.Action)
		}
		records, err = ctx.Store.GetAllRecords()
		if err != nil {
			return fmt.Errorf("failed to get records: %w", err)
		}
		result = validation.New(ctx.Now).ValidateRecords(records)
		if !result.HasConflicts() {
			return nil
		}
	}

	return fmt.Errorf("%s", result.FormatReport())
}

func checkSettings(ctx *cli.Context) error {
	values, err := ctx.Store.GetSettingValues()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	result := validation.New(ctx.Now).ValidateSettings(values)
	if result.HasConflicts() {
		return fmt.Errorf("%s", result.FormatReport())
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkRunningTimer(ctx *cli.Context) error {
	if ctx.ConfigDir == "" {
		return nil
	}
	if pid, running := keepalive.NewLockfile(ctx.ConfigDir).Running(); running {
		return fmt.Errorf("a timer is running in process %d; session counts may change while you inspect them", pid)
	}
	return nil
}

func checkClockTimezone(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	// records are keyed by local day; a missing zone database shifts every key
	if _, err := models.ParseDay(models.DayKey(now), now.Location()); err != nil {
		return fmt.Errorf("failed to round-trip today's date: %w", err)
	}
	return nil
}
