package validation

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/julianstephens/pomolit/internal/models"
	"github.com/julianstephens/pomolit/internal/settings"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateDate    ConflictType = "duplicate_date"
	ConflictNegativeSessions ConflictType = "negative_sessions"
	ConflictInvalidTarget    ConflictType = "invalid_target"
	ConflictFutureRecord     ConflictType = "future_record"
	ConflictInvalidSetting   ConflictType = "invalid_setting"
	ConflictUnknownSetting   ConflictType = "unknown_setting"
)

// Conflict represents a problem found in stored records or settings
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Key         string   // setting key (if applicable)
	RecordIDs   []string // IDs of records involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Merge appends the conflicts of other
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks stored records and settings for inconsistencies
type Validator struct {
	now func() time.Time
}

// New creates a Validator that treats now() as the present
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// ValidateRecords checks records for duplicate days and impossible counts
func (v *Validator) ValidateRecords(records []models.Record) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byDay := make(map[string][]string)
	for _, r := range records {
		byDay[r.Day()] = append(byDay[r.Day()], r.ID)
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		ids := byDay[day]
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateDate,
				Description: fmt.Sprintf("Duplicate records for %s (IDs: %v)", day, ids),
				Date:        day,
				RecordIDs:   ids,
			})
		}
	}

	tomorrow := models.NextDay(v.now())
	for _, r := range records {
		if r.SessionsCompleted < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNegativeSessions,
				Description: fmt.Sprintf("Record for %s has negative session count: %d", r.Day(), r.SessionsCompleted),
				Date:        r.Day(),
				RecordIDs:   []string{r.ID},
			})
		}
		if r.DailyTarget < 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTarget,
				Description: fmt.Sprintf("Record for %s has invalid daily target: %d", r.Day(), r.DailyTarget),
				Date:        r.Day(),
				RecordIDs:   []string{r.ID},
			})
		}
		if !r.Date.Before(tomorrow) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureRecord,
				Description: fmt.Sprintf("Record for %s is dated in the future", r.Day()),
				Date:        r.Day(),
				RecordIDs:   []string{r.ID},
			})
		}
	}

	return result
}

// ValidateSettings checks raw stored setting values. Bad values are read
// back as defaults, so these are warnings about what the user typed in.
func (v *Validator) ValidateSettings(values map[string]string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := values[key]
		if !settings.IsNumeric(key) && !settings.IsToggle(key) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownSetting,
				Description: fmt.Sprintf("Unknown setting %q", key),
				Key:         key,
			})
			continue
		}
		if _, err := settings.Validate(key, raw); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidSetting,
				Description: fmt.Sprintf("Setting %s has invalid value %s (default will be used)", key, strconv.Quote(raw)),
				Key:         key,
			})
		}
	}

	return result
}

// AutoFixDuplicateRecords keeps, for each duplicated day, the record with
// the most sessions and deletes the others through deleteFunc.
func AutoFixDuplicateRecords(conflicts []Conflict, records []models.Record, deleteFunc func(models.Record) error) []FixAction {
	actions := []FixAction{}

	recordMap := make(map[string]models.Record)
	for _, r := range records {
		recordMap[r.ID] = r
	}

	for _, conflict := range conflicts {
		if conflict.Type != ConflictDuplicateDate || len(conflict.RecordIDs) <= 1 {
			continue
		}

		var dupes []models.Record
		for _, id := range conflict.RecordIDs {
			if r, ok := recordMap[id]; ok {
				dupes = append(dupes, r)
			}
		}
		if len(dupes) <= 1 {
			continue
		}

		// ties broken by ID so repeated runs agree
		sort.Slice(dupes, func(i, j int) bool {
			if dupes[i].SessionsCompleted != dupes[j].SessionsCompleted {
				return dupes[i].SessionsCompleted > dupes[j].SessionsCompleted
			}
			return dupes[i].ID < dupes[j].ID
		})

		keep := dupes[0]
		var deletedIDs, failedIDs []string
		for _, r := range dupes[1:] {
			if err := deleteFunc(r); err == nil {
				deletedIDs = append(deletedIDs, r.ID)
			} else {
				failedIDs = append(failedIDs, r.ID)
			}
		}

		if len(deletedIDs) > 0 {
			msg := fmt.Sprintf("Removed %d duplicate record(s) for %s (kept ID: %s, removed: %v)", len(deletedIDs), conflict.Date, keep.ID, deletedIDs)
			if len(failedIDs) > 0 {
				msg += fmt.Sprintf(" (failed to remove: %v)", failedIDs)
			}
			actions = append(actions, FixAction{Action: msg, SourceConflict: conflict})
		} else if len(failedIDs) > 0 {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to remove duplicates for %s: %v", conflict.Date, failedIDs),
				SourceConflict: conflict,
			})
		}
	}

	return actions
}
