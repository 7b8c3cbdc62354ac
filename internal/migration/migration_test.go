package migration

import (
	"database/sql"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/pomolit/migrations"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func writeMigrations(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write migration %s: %v", name, err)
		}
	}
	return dir
}

func newTestRunner(t *testing.T, files map[string]string) (*Runner, *sql.DB, string) {
	t.Helper()
	db := openTestDB(t)
	dir := writeMigrations(t, files)
	return NewRunner(db, os.DirFS(dir), DriverSQLite), db, dir
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n); err != nil {
		t.Fatalf("sqlite_master query failed: %v", err)
	}
	return n == 1
}

func TestCurrentVersionRoundTrip(t *testing.T) {
	runner, _, _ := newTestRunner(t, map[string]string{
		"001_records.sql": "CREATE TABLE records (id TEXT);",
	})

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("fresh database version = %d, want 0", version)
	}

	if err := runner.SetVersion(7); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 7 {
		t.Errorf("version = %d, want 7", version)
	}
}

func TestReadMigrationFilesSortsByVersion(t *testing.T) {
	runner, _, _ := newTestRunner(t, map[string]string{
		"003_target_index.sql": "CREATE INDEX idx ON records (daily_target);",
		"001_records.sql":      "CREATE TABLE records (id TEXT);",
		"002_target.sql":       "ALTER TABLE records ADD COLUMN daily_target INTEGER;",
		"README.md":            "ignored",
	})

	got, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	want := []struct {
		version int
		name    string
	}{
		{1, "records"},
		{2, "target"},
		{3, "target_index"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d migrations, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Version != w.version || got[i].Name != w.name {
			t.Errorf("migration %d = (%d, %q), want (%d, %q)", i, got[i].Version, got[i].Name, w.version, w.name)
		}
	}
}

func TestReadMigrationFilesRejectsBadNames(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "missing underscore",
			files:   map[string]string{"001records.sql": "SELECT 1;"},
			wantErr: "invalid migration filename",
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_records.sql": "SELECT 1;"},
			wantErr: "version must be at least 1",
		},
		{
			name:    "non numeric version",
			files:   map[string]string{"abc_records.sql": "SELECT 1;"},
			wantErr: "invalid version number",
		},
		{
			name: "duplicate version",
			files: map[string]string{
				"001_records.sql":  "SELECT 1;",
				"001_settings.sql": "SELECT 1;",
			},
			wantErr: "duplicate migration version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, _, _ := newTestRunner(t, tt.files)
			_, err := runner.ReadMigrationFiles()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	runner, db, _ := newTestRunner(t, map[string]string{
		"001_records.sql":  "CREATE TABLE records (id TEXT PRIMARY KEY, date TEXT);",
		"002_settings.sql": "CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT);",
	})

	var logged []string
	count, err := runner.ApplyMigrations(func(s string) { logged = append(logged, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("applied = %d, want 2", count)
	}
	if len(logged) == 0 {
		t.Error("expected progress messages to be logged")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}
	for _, table := range []string{"records", "settings"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s was not created", table)
		}
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	runner, _, dir := newTestRunner(t, map[string]string{
		"001_records.sql": "CREATE TABLE records (id TEXT PRIMARY KEY);",
	})

	if count, err := runner.ApplyMigrations(nil); err != nil || count != 1 {
		t.Fatalf("first ApplyMigrations = (%d, %v), want (1, nil)", count, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "002_settings.sql"), []byte("CREATE TABLE settings (key TEXT);"), 0644); err != nil {
		t.Fatalf("failed to write migration: %v", err)
	}

	pending, err := runner.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if pending != 1 {
		t.Errorf("pending = %d, want 1", pending)
	}

	if count, err := runner.ApplyMigrations(nil); err != nil || count != 1 {
		t.Fatalf("second ApplyMigrations = (%d, %v), want (1, nil)", count, err)
	}
	if count, err := runner.ApplyMigrations(nil); err != nil || count != 0 {
		t.Fatalf("third ApplyMigrations = (%d, %v), want (0, nil)", count, err)
	}
}

func TestApplyMigrationsRollsBackFailedMigration(t *testing.T) {
	runner, db, _ := newTestRunner(t, map[string]string{
		"001_records.sql": `
			CREATE TABLE records (id TEXT PRIMARY KEY);
			NOT VALID SQL;
		`,
	})

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("expected ApplyMigrations to fail on invalid SQL")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("version after failure = %d, want 0", version)
	}
	if tableExists(t, db, "records") {
		t.Error("records table should not exist after rollback")
	}
}

func TestNewerDatabaseIsRejected(t *testing.T) {
	runner, _, _ := newTestRunner(t, map[string]string{
		"001_records.sql": "CREATE TABLE records (id TEXT);",
	})

	if err := runner.SetVersion(10); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Error("ValidateVersion should fail for a newer database")
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations should fail for a newer database")
	}
}

func TestGetLatestVersion(t *testing.T) {
	runner, _, _ := newTestRunner(t, map[string]string{
		"001_records.sql":  "SELECT 1;",
		"004_cleanup.sql":  "SELECT 1;",
		"002_settings.sql": "SELECT 1;",
	})

	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if latest != 4 {
		t.Errorf("latest = %d, want 4", latest)
	}
}

func TestEmbeddedSQLiteSchemaApplies(t *testing.T) {
	db := openTestDB(t)
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub failed: %v", err)
	}
	runner := NewRunner(db, sub, DriverSQLite)

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	for _, table := range []string{"records", "settings"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s missing after embedded migrations", table)
		}
	}

	if _, err := db.Exec(`INSERT INTO records (id, date, sessions_completed, daily_target, created_at, updated_at)
		VALUES ('a', '2026-01-01', 0, 0, '', '')`); err == nil {
		t.Error("daily_target below 1 should violate the check constraint")
	}
}
