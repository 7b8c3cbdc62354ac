package aggregator

import (
	"sort"
	"time"

	"github.com/julianstephens/pomolit/internal/models"
)

// Normalize returns records sorted newest first with one record per
// calendar day. When a day appears more than once the record with the
// most completed sessions wins.
func Normalize(records []models.Record) []models.Record {
	byDay := make(map[string]models.Record, len(records))
	for _, r := range records {
		key := r.Day()
		if existing, ok := byDay[key]; ok && existing.SessionsCompleted >= r.SessionsCompleted {
			continue
		}
		byDay[key] = r
	}

	out := make([]models.Record, 0, len(byDay))
	for _, r := range byDay {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return models.StartOfDay(out[i].Date).After(models.StartOfDay(out[j].Date))
	})
	return out
}

// CurrentStreak counts consecutive days ending at asOf whose target was met.
// A missing day or an unmet target ends the streak.
func CurrentStreak(records []models.Record, asOf time.Time) int {
	byDay := make(map[string]models.Record, len(records))
	for _, r := range Normalize(records) {
		byDay[r.Day()] = r
	}

	streak := 0
	day := models.StartOfDay(asOf)
	for {
		r, ok := byDay[models.DayKey(day)]
		if !ok || !r.IsDailyTargetMet() {
			return streak
		}
		streak++
		day = models.PreviousDay(day)
	}
}

// LongestStreak returns the longest run of consecutive calendar days that
// all met their target.
func LongestStreak(records []models.Record) int {
	sorted := Normalize(records)

	longest, run := 0, 0
	var prev time.Time
	for _, r := range sorted {
		if !r.IsDailyTargetMet() {
			run = 0
			continue
		}
		day := models.StartOfDay(r.Date)
		if run > 0 && models.DayKey(models.PreviousDay(prev)) == models.DayKey(day) {
			run++
		} else {
			run = 1
		}
		prev = day
		if run > longest {
			longest = run
		}
	}
	return longest
}

// DaysTargetMet counts distinct days whose target was met
func DaysTargetMet(records []models.Record) int {
	n := 0
	for _, r := range Normalize(records) {
		if r.IsDailyTargetMet() {
			n++
		}
	}
	return n
}
