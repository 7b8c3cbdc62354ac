package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/pomolit/internal/constants"
)

// Record tracks completed work sessions for one calendar day
type Record struct {
	ID                string    `json:"id"`
	Date              time.Time `json:"date"`               // normalized to local midnight
	SessionsCompleted int       `json:"sessions_completed"` // completed work sessions
	DailyTarget       int       `json:"daily_target"`       // target snapshot taken when the record was created
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewRecord builds an unsaved record for the day containing date
func NewRecord(date time.Time, dailyTarget int) Record {
	if dailyTarget < 1 {
		dailyTarget = constants.DefaultDailyTarget
	}
	return Record{
		ID:          uuid.New().String(),
		Date:        StartOfDay(date),
		DailyTarget: dailyTarget,
	}
}

// IsDailyTargetMet reports whether enough sessions were completed that day
func (r Record) IsDailyTargetMet() bool {
	return r.SessionsCompleted >= r.DailyTarget
}

// Day returns the record key (YYYY-MM-DD)
func (r Record) Day() string {
	return DayKey(r.Date)
}

// Progress returns completed/target clamped to [0, 1]
func (r Record) Progress() float64 {
	if r.DailyTarget <= 0 {
		return 0
	}
	p := float64(r.SessionsCompleted) / float64(r.DailyTarget)
	if p > 1 {
		return 1
	}
	return p
}
