package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/pomolit/internal/models"
)

var today = time.Date(2026, 5, 20, 14, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return today }

func day(offset int) time.Time {
	return models.StartOfDay(today).AddDate(0, 0, offset)
}

func TestValidateRecords_Clean(t *testing.T) {
	v := New(fixedNow)
	records := []models.Record{
		{ID: "a", Date: day(0), SessionsCompleted: 3, DailyTarget: 12},
		{ID: "b", Date: day(-1), SessionsCompleted: 12, DailyTarget: 12},
	}

	result := v.ValidateRecords(records)
	if result.HasConflicts() {
		t.Fatalf("expected no conflicts, got %v", result.Conflicts)
	}
	if got := result.FormatReport(); got != "No conflicts detected." {
		t.Errorf("unexpected report: %q", got)
	}
}

func TestValidateRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []models.Record
		want    ConflictType
	}{
		{
			name: "duplicate day",
			records: []models.Record{
				{ID: "a", Date: day(-2), SessionsCompleted: 1, DailyTarget: 4},
				{ID: "b", Date: day(-2).Add(3 * time.Hour), SessionsCompleted: 2, DailyTarget: 4},
			},
			want: ConflictDuplicateDate,
		},
		{
			name:    "negative sessions",
			records: []models.Record{{ID: "a", Date: day(-1), SessionsCompleted: -1, DailyTarget: 4}},
			want:    ConflictNegativeSessions,
		},
		{
			name:    "zero target",
			records: []models.Record{{ID: "a", Date: day(-1), SessionsCompleted: 1, DailyTarget: 0}},
			want:    ConflictInvalidTarget,
		},
		{
			name:    "tomorrow",
			records: []models.Record{{ID: "a", Date: day(1), SessionsCompleted: 1, DailyTarget: 4}},
			want:    ConflictFutureRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(fixedNow).ValidateRecords(tt.records)
			if len(result.Conflicts) != 1 {
				t.Fatalf("expected 1 conflict, got %d: %v", len(result.Conflicts), result.Conflicts)
			}
			if result.Conflicts[0].Type != tt.want {
				t.Errorf("expected %s, got %s", tt.want, result.Conflicts[0].Type)
			}
			if !strings.Contains(result.FormatReport(), "Conflicts detected:") {
				t.Errorf("report missing header: %q", result.FormatReport())
			}
		})
	}
}

func TestValidateSettings(t *testing.T) {
	v := New(fixedNow)
	result := v.ValidateSettings(map[string]string{
		"work_duration":       "1500",
		"daily_target":        "0",
		"auto_continue":       "maybe",
		"theme":               "dark",
		"max_sessions":        "4",
		"long_break_duration": "1800",
	})

	got := map[string]ConflictType{}
	for _, c := range result.Conflicts {
		got[c.Key] = c.Type
	}
	want := map[string]ConflictType{
		"daily_target":  ConflictInvalidSetting,
		"auto_continue": ConflictInvalidSetting,
		"theme":         ConflictUnknownSetting,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d conflicts, got %v", len(want), result.Conflicts)
	}
	for k, typ := range want {
		if got[k] != typ {
			t.Errorf("%s: expected %s, got %s", k, typ, got[k])
		}
	}
}

func TestAutoFixDuplicateRecords(t *testing.T) {
	records := []models.Record{
		{ID: "low", Date: day(-3), SessionsCompleted: 2, DailyTarget: 4},
		{ID: "high", Date: day(-3), SessionsCompleted: 5, DailyTarget: 4},
		{ID: "other", Date: day(-1), SessionsCompleted: 1, DailyTarget: 4},
	}
	result := New(fixedNow).ValidateRecords(records)

	var deleted []string
	actions := AutoFixDuplicateRecords(result.Conflicts, records, func(r models.Record) error {
		deleted = append(deleted, r.ID)
		return nil
	})

	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if len(deleted) != 1 || deleted[0] != "low" {
		t.Errorf("expected only %q deleted, got %v", "low", deleted)
	}
	if !strings.Contains(actions[0].Action, "kept ID: high") {
		t.Errorf("unexpected action text: %q", actions[0].Action)
	}
}

func TestAutoFixDuplicateRecords_DeleteFails(t *testing.T) {
	records := []models.Record{
		{ID: "a", Date: day(-3), SessionsCompleted: 1, DailyTarget: 4},
		{ID: "b", Date: day(-3), SessionsCompleted: 1, DailyTarget: 4},
	}
	result := New(fixedNow).ValidateRecords(records)

	actions := AutoFixDuplicateRecords(result.Conflicts, records, func(models.Record) error {
		return errors.New("locked")
	})

	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if !strings.HasPrefix(actions[0].Action, "Failed to remove duplicates") {
		t.Errorf("unexpected action text: %q", actions[0].Action)
	}
}
