// Package aggregator derives reporting views from the stored daily records:
// calendar slices, totals and streaks. It never writes.
package aggregator

import (
	"sync"
	"time"

	"github.com/julianstephens/pomolit/internal/constants"
	apperrors "github.com/julianstephens/pomolit/internal/errors"
	"github.com/julianstephens/pomolit/internal/models"
)

// Source supplies the full record collection
type Source interface {
	GetAllRecords() ([]models.Record, error)
}

// TargetFunc returns the current global daily target
type TargetFunc func() int

// Summary bundles the numbers shown by the stats views
type Summary struct {
	Date          time.Time     `json:"date"`
	Today         models.Record `json:"today"`
	WeekSessions  int           `json:"week_sessions"`
	MonthSessions int           `json:"month_sessions"`
	TotalSessions int           `json:"total_sessions"`
	CurrentStreak int           `json:"current_streak"`
	LongestStreak int           `json:"longest_streak"`
	DaysTargetMet int           `json:"days_target_met"`
	DaysTracked   int           `json:"days_tracked"`
}

type Aggregator struct {
	source Source
	target TargetFunc

	mu      sync.RWMutex
	records []models.Record
}

func New(source Source, target TargetFunc) *Aggregator {
	if target == nil {
		target = func() int { return constants.DefaultDailyTarget }
	}
	return &Aggregator{source: source, target: target}
}

// Refresh reloads the cached collection from the source
func (a *Aggregator) Refresh() error {
	records, err := a.source.GetAllRecords()
	if err != nil {
		return apperrors.StoreUnavailable("refresh records", err)
	}
	cp := make([]models.Record, len(records))
	copy(cp, records)

	a.mu.Lock()
	a.records = cp
	a.mu.Unlock()
	return nil
}

func (a *Aggregator) snapshot() []models.Record {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.records
}

// RecordForDate returns the record for the day containing d, or an unsaved
// record with zero sessions and the current global target.
func (a *Aggregator) RecordForDate(d time.Time) models.Record {
	key := models.DayKey(d)
	for _, r := range a.snapshot() {
		if r.Day() == key {
			return r
		}
	}
	return models.Record{
		Date:        models.StartOfDay(d),
		DailyTarget: a.defaultTarget(),
	}
}

func (a *Aggregator) defaultTarget() int {
	if t := a.target(); t > 0 {
		return t
	}
	return constants.DefaultDailyTarget
}

// RecordsInRange returns records dated in [lower, upper), in collection order
func (a *Aggregator) RecordsInRange(lower, upper time.Time) []models.Record {
	return InRange(a.snapshot(), lower, upper)
}

// AllRecords returns the collection newest first
func (a *Aggregator) AllRecords() []models.Record {
	return Normalize(a.snapshot())
}

// WeekRecords returns the records of the Monday-based week containing asOf
func (a *Aggregator) WeekRecords(asOf time.Time) []models.Record {
	start := models.StartOfWeek(asOf)
	return a.RecordsInRange(start, start.AddDate(0, 0, 7))
}

// MonthRecords returns the records of the calendar month containing asOf
func (a *Aggregator) MonthRecords(asOf time.Time) []models.Record {
	start := models.StartOfMonth(asOf)
	return a.RecordsInRange(start, start.AddDate(0, 1, 0))
}

// TotalSessions sums completed sessions over every record
func (a *Aggregator) TotalSessions() int {
	return Sum(a.snapshot())
}

// SessionsInRange sums completed sessions in [lower, upper)
func (a *Aggregator) SessionsInRange(lower, upper time.Time) int {
	return Sum(a.RecordsInRange(lower, upper))
}

func (a *Aggregator) CurrentStreak(asOf time.Time) int {
	return CurrentStreak(a.snapshot(), asOf)
}

func (a *Aggregator) LongestStreak() int {
	return LongestStreak(a.snapshot())
}

// Summary computes every stats figure for the day containing asOf
func (a *Aggregator) Summary(asOf time.Time) Summary {
	records := a.snapshot()
	week := models.StartOfWeek(asOf)
	month := models.StartOfMonth(asOf)
	return Summary{
		Date:          models.StartOfDay(asOf),
		Today:         a.RecordForDate(asOf),
		WeekSessions:  Sum(InRange(records, week, week.AddDate(0, 0, 7))),
		MonthSessions: Sum(InRange(records, month, month.AddDate(0, 1, 0))),
		TotalSessions: Sum(records),
		CurrentStreak: CurrentStreak(records, asOf),
		LongestStreak: LongestStreak(records),
		DaysTargetMet: DaysTargetMet(records),
		DaysTracked:   len(Normalize(records)),
	}
}

// InRange filters records dated in [lower, upper), keeping their order
func InRange(records []models.Record, lower, upper time.Time) []models.Record {
	lo, hi := models.StartOfDay(lower), models.StartOfDay(upper)
	out := []models.Record{}
	for _, r := range records {
		d := models.StartOfDay(r.Date)
		if !d.Before(lo) && d.Before(hi) {
			out = append(out, r)
		}
	}
	return out
}

// Sum adds up completed sessions
func Sum(records []models.Record) int {
	total := 0
	for _, r := range records {
		total += r.SessionsCompleted
	}
	return total
}
