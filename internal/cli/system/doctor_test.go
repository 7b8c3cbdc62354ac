package system

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/pomolit/internal/backup"
	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/models"
	"github.com/julianstephens/pomolit/internal/storage/sqlite"
)

func setupTestDoctorDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	ctx := &cli.Context{
		Store:     store,
		ConfigDir: tempDir,
	}

	cleanup := func() {
		store.Close()
	}

	return ctx, cleanup
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	if err := checkBackupsPresent(ctx); err != nil {
		t.Errorf("expected backups check to pass, got: %v", err)
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	db := ctx.Store.(*sqlite.Store).GetDB()
	if db == nil {
		t.Fatal("database connection is nil")
	}

	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to clear schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to set schema version: %v", err)
	}

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected doctor command to fail on unsupported schema version")
	}
}

func TestDoctorCmd_FutureRecord(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	now := time.Now()
	future := models.NewRecord(now.AddDate(0, 0, 3), 4)
	if err := ctx.Store.CreateRecord(future); err != nil {
		t.Fatalf("failed to create record: %v", err)
	}

	if err := (&DoctorCmd{}).checkRecords(ctx); err == nil {
		t.Error("expected future-dated record to be reported")
	}

	// --fix only removes duplicates
	if err := (&DoctorCmd{Fix: true}).checkRecords(ctx); err == nil {
		t.Error("expected future-dated record to survive --fix")
	}
}

func TestDoctorCmd_ValidRecords(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	now := time.Now()
	for i := 0; i < 3; i++ {
		r := models.NewRecord(now.AddDate(0, 0, -i), 4)
		r.SessionsCompleted = i
		if err := ctx.Store.CreateRecord(r); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}
	}

	if err := (&DoctorCmd{}).checkRecords(ctx); err != nil {
		t.Errorf("expected records check to pass, got: %v", err)
	}
}

func TestCheckClockTimezone(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{name: "current", now: time.Date(2026, 5, 20, 9, 0, 0, 0, time.Local)},
		{name: "too old", now: time.Date(2001, 1, 1, 0, 0, 0, 0, time.Local), wantErr: true},
		{name: "too far", now: time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkClockTimezone(tt.now)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkClockTimezone(%v) error = %v, wantErr %v", tt.now, err, tt.wantErr)
			}
		})
	}
}

func TestCheckRunningTimer_NoLock(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	if err := checkRunningTimer(ctx); err != nil {
		t.Errorf("expected no running timer, got: %v", err)
	}
}
