package system

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/pomolit/internal/cli"
	"github.com/julianstephens/pomolit/internal/clock"
	"github.com/julianstephens/pomolit/internal/config"
	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/models"
	"github.com/julianstephens/pomolit/internal/storage/jsonstore"
)

func setupJSONContext(t *testing.T) *cli.Context {
	t.Helper()
	dir := t.TempDir()
	store := jsonstore.New(filepath.Join(dir, "pomolit.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Notifications.Enabled = false
	cfg.KeepAlive.Enabled = false
	cfg.Metrics.Enabled = false

	return &cli.Context{
		Store:     store,
		Config:    cfg,
		ConfigDir: dir,
		Clock:     &clock.Fixed{T: time.Date(2026, 5, 20, 9, 0, 0, 0, time.Local)},
	}
}

func TestRunCmd_StopsAfterSessions(t *testing.T) {
	ctx := setupJSONContext(t)
	svc := ctx.Settings()
	for key, value := range map[string]string{
		constants.SettingWorkDuration:       "1",
		constants.SettingShortBreakDuration: "1",
		constants.SettingLongBreakDuration:  "1",
	} {
		if err := svc.SetRaw(key, value); err != nil {
			t.Fatalf("SetRaw(%s) error = %v", key, err)
		}
	}

	coord, err := ctx.NewCoordinator(context.Background())
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}

	runCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := &RunCmd{Sessions: 2, Interval: 5 * time.Millisecond}
	if err := cmd.loop(runCtx, coord); err != nil {
		t.Fatalf("loop() error = %v", err)
	}
	if runCtx.Err() != nil {
		t.Fatal("loop() ran until timeout instead of stopping after two sessions")
	}

	rec, found, err := ctx.Store.GetRecordByDate(ctx.Now())
	if err != nil || !found {
		t.Fatalf("expected today's record, found=%v err=%v", found, err)
	}
	if rec.SessionsCompleted != 2 {
		t.Errorf("SessionsCompleted = %d, want 2", rec.SessionsCompleted)
	}
}

func TestRunCmd_CancelledContext(t *testing.T) {
	ctx := setupJSONContext(t)
	coord, err := ctx.NewCoordinator(context.Background())
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := (&RunCmd{Interval: time.Millisecond}).loop(runCtx, coord); err != nil {
		t.Errorf("loop() error = %v, want nil", err)
	}
}

func TestStatusCmd(t *testing.T) {
	ctx := setupJSONContext(t)

	if err := (&StatusCmd{}).Run(ctx); err != nil {
		t.Fatalf("StatusCmd.Run() without record error = %v", err)
	}

	rec := models.NewRecord(ctx.Now(), 4)
	rec.SessionsCompleted = 4
	if err := ctx.Store.CreateRecord(rec); err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}
	if err := (&StatusCmd{}).Run(ctx); err != nil {
		t.Errorf("StatusCmd.Run() with record error = %v", err)
	}
}

func TestDebugCmds(t *testing.T) {
	ctx := setupJSONContext(t)

	rec := models.NewRecord(ctx.Now(), 4)
	if err := ctx.Store.CreateRecord(rec); err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Errorf("db-path error = %v", err)
	}
	if err := (&DebugDumpRecordCmd{Date: "today"}).Run(ctx); err != nil {
		t.Errorf("dump-record today error = %v", err)
	}
	if err := (&DebugDumpRecordCmd{Date: "yesterday"}).Run(ctx); err == nil {
		t.Error("dump-record yesterday should fail without a record")
	}
	if err := (&DebugDumpRecordCmd{Date: "20-05-2026"}).Run(ctx); err == nil {
		t.Error("dump-record should reject malformed dates")
	}
	if err := (&DebugDumpRecordsCmd{}).Run(ctx); err != nil {
		t.Errorf("dump-records error = %v", err)
	}
	if err := (&DebugDumpSettingsCmd{}).Run(ctx); err != nil {
		t.Errorf("dump-settings error = %v", err)
	}
	if err := (&DebugDumpSettingsCmd{Raw: true}).Run(ctx); err != nil {
		t.Errorf("dump-settings --raw error = %v", err)
	}
}

func TestNotifyCmd_DryRun(t *testing.T) {
	ctx := setupJSONContext(t)

	if err := (&NotifyCmd{Text: "hello", DryRun: true}).Run(ctx); err != nil {
		t.Errorf("dry run error = %v", err)
	}

	if err := ctx.Settings().SetToggle(constants.SettingNotificationsEnabled, false); err != nil {
		t.Fatalf("SetToggle() error = %v", err)
	}
	// disabled notifications never reach the tray app, dry run or not
	if err := (&NotifyCmd{Text: "hello"}).Run(ctx); err != nil {
		t.Errorf("disabled notify error = %v", err)
	}
}

func TestConfigInitCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")
	ctx := &cli.Context{ConfigPath: path}

	if err := (&ConfigInitCmd{}).Run(ctx); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if err := (&ConfigInitCmd{}).Run(ctx); err == nil {
		t.Error("expected second config init without --force to fail")
	}
	if err := (&ConfigInitCmd{Force: true}).Run(ctx); err != nil {
		t.Errorf("config init --force error = %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	ctx.Config = cfg
	if err := (&ConfigShowCmd{}).Run(ctx); err != nil {
		t.Errorf("config show error = %v", err)
	}
}
