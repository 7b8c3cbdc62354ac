package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T, sessions int) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "pomolit.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE records (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL UNIQUE,
		sessions_completed INTEGER NOT NULL
	)`); err != nil {
		t.Fatalf("failed to create records table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO records (id, date, sessions_completed) VALUES ('r1', '2026-10-16', ?)", sessions); err != nil {
		t.Fatalf("failed to insert record: %v", err)
	}
	return dbPath
}

func sessionsIn(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT sessions_completed FROM records WHERE id = 'r1'").Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return n
}

func fixedManager(dbPath string, at time.Time) *Manager {
	m := NewManager(dbPath)
	m.now = func() time.Time { return at }
	return m
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t, 3)
	at := time.Date(2026, time.October, 16, 8, 5, 0, 0, time.Local)
	mgr := fixedManager(dbPath, at)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Base(backupPath) != "pomolit-20261016-0805.db" {
		t.Errorf("backup name = %s", filepath.Base(backupPath))
	}
	if got := sessionsIn(t, backupPath); got != 3 {
		t.Errorf("backup sessions = %d, want 3", got)
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t, 1)
	mgr := fixedManager(dbPath, time.Date(2026, time.October, 16, 8, 5, 30, 0, time.Local))

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 4 {
		t.Errorf("listed %d backups, want 4", len(backups))
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t, 1)
	mgr := NewManager(dbPath)
	mgr.keep = 3

	start := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		at := start.AddDate(0, 0, i)
		mgr.now = func() time.Time { return at }
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup failed: %v", err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("kept %d backups, want 3", len(backups))
	}
	if backups[0].Timestamp.Day() != 5 || backups[2].Timestamp.Day() != 3 {
		t.Errorf("kept the wrong backups: newest day %d, oldest day %d", backups[0].Timestamp.Day(), backups[2].Timestamp.Day())
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t, 1)
	mgr := NewManager(dbPath)

	if backups, err := mgr.ListBackups(); err != nil || len(backups) != 0 {
		t.Fatalf("ListBackups without directory = (%v, %v)", backups, err)
	}

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "pomolit-garbage.db", "pomolit-20261016-0805-2.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("listed %d backups, want 1", len(backups))
	}
}

func TestParseStamp(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"pomolit-20261016-0805.db", true},
		{"pomolit-20261016-080530.db", true},
		{"pomolit-20261016-080530-7.db", true},
		{"pomolit-2026.db", false},
		{"notes-20261016-0805.db", false},
	}
	for _, tt := range tests {
		if _, ok := parseStamp(tt.name); ok != tt.ok {
			t.Errorf("parseStamp(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t, 2)
	mgr := fixedManager(dbPath, time.Date(2026, time.October, 16, 9, 0, 0, 0, time.Local))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE records SET sessions_completed = 9"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := sessionsIn(t, dbPath); got != 2 {
		t.Errorf("restored sessions = %d, want 2", got)
	}
	if safety == "" {
		t.Fatal("expected a safety backup of the replaced database")
	}
	if got := sessionsIn(t, safety); got != 9 {
		t.Errorf("safety backup sessions = %d, want 9", got)
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t, 1)
	mgr := NewManager(dbPath)

	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected an error for a missing backup")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	empty, err := sql.Open("sqlite", bogus)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := empty.Exec("CREATE TABLE other (id INTEGER)"); err != nil {
		t.Fatal(err)
	}
	empty.Close()

	if _, err := mgr.RestoreBackup(bogus); err == nil {
		t.Error("expected an error for a database without records")
	}
	if got := sessionsIn(t, dbPath); got != 1 {
		t.Errorf("database changed after rejected restore: %d", got)
	}
}

func TestAutoBackup(t *testing.T) {
	dbPath := setupTestDB(t, 1)
	at := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.Local)
	mgr := fixedManager(dbPath, at)

	_, created, err := mgr.AutoBackup(24 * time.Hour)
	if err != nil || !created {
		t.Fatalf("first AutoBackup = (created %v, err %v)", created, err)
	}

	mgr.now = func() time.Time { return at.Add(2 * time.Hour) }
	if _, created, _ := mgr.AutoBackup(24 * time.Hour); created {
		t.Error("AutoBackup should skip when a recent backup exists")
	}

	mgr.now = func() time.Time { return at.Add(25 * time.Hour) }
	if _, created, _ := mgr.AutoBackup(24 * time.Hour); !created {
		t.Error("AutoBackup should run once the newest backup is stale")
	}
}
