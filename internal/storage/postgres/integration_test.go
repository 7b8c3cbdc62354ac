package postgres

import (
	"os"
	"testing"
	"time"

	"github.com/julianstephens/pomolit/internal/models"
	"github.com/julianstephens/pomolit/internal/storage"
)

// TestStore_Integration exercises the store against a real database.
// Example: POSTGRES_TEST_URL="postgres://pomolit@localhost:5432/pomolit_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	if err := store.DeleteAllRecords(); err != nil {
		t.Fatalf("Failed to clear records: %v", err)
	}

	t.Run("Settings", func(t *testing.T) {
		if err := store.SetSettingValue("daily_target", "9"); err != nil {
			t.Fatalf("Failed to set setting: %v", err)
		}
		settings, err := storage.LoadSettings(store)
		if err != nil {
			t.Fatalf("Failed to load settings: %v", err)
		}
		if settings.DailyTarget != 9 {
			t.Errorf("Expected daily target 9, got %d", settings.DailyTarget)
		}
	})

	t.Run("Records", func(t *testing.T) {
		date := time.Date(2026, time.April, 2, 0, 0, 0, 0, time.Local)
		rec := models.NewRecord(date, 9)
		rec.SessionsCompleted = 1
		if err := store.CreateRecord(rec); err != nil {
			t.Fatalf("Failed to create record: %v", err)
		}

		got, found, err := store.GetRecordByDate(date)
		if err != nil || !found {
			t.Fatalf("GetRecordByDate = (found %v, err %v)", found, err)
		}
		got.SessionsCompleted++
		if err := store.UpdateRecord(got); err != nil {
			t.Fatalf("Failed to update record: %v", err)
		}

		all, err := store.GetAllRecords()
		if err != nil {
			t.Fatalf("Failed to list records: %v", err)
		}
		if len(all) != 1 || all[0].SessionsCompleted != 2 {
			t.Errorf("Unexpected records: %+v", all)
		}
	})
}
