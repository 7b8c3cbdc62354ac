package models

// Settings represents application-wide settings
type Settings struct {
	WorkDuration         int  `json:"work_duration"`         // seconds
	ShortBreakDuration   int  `json:"short_break_duration"`  // seconds
	LongBreakDuration    int  `json:"long_break_duration"`   // seconds
	MaxSessions          int  `json:"max_sessions"`          // work sessions per cycle
	DailyTarget          int  `json:"daily_target"`          // work sessions per successful day
	AutoContinue         bool `json:"auto_continue"`         // start the next session automatically
	NotificationsEnabled bool `json:"notifications_enabled"` // whether reminders are scheduled
}

// DurationFor returns the configured duration of a session type in seconds
func (s Settings) DurationFor(st SessionType) int {
	switch st {
	case ShortBreak:
		return s.ShortBreakDuration
	case LongBreak:
		return s.LongBreakDuration
	default:
		return s.WorkDuration
	}
}
