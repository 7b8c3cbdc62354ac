package constants

const (
	// Timer Settings
	SettingWorkDuration       = "work_duration"
	SettingShortBreakDuration = "short_break_duration"
	SettingLongBreakDuration  = "long_break_duration"
	SettingMaxSessions        = "max_sessions"

	// Tracking Settings
	SettingDailyTarget = "daily_target"

	// Behaviour Settings
	SettingAutoContinue         = "auto_continue"
	SettingNotificationsEnabled = "notifications_enabled"

	// Default Settings Values (durations in seconds)
	DefaultWorkDuration         = 1500
	DefaultShortBreakDuration   = 300
	DefaultLongBreakDuration    = 1800
	DefaultMaxSessions          = 4
	DefaultDailyTarget          = 12
	DefaultAutoContinue         = false
	DefaultNotificationsEnabled = true

	// Upper bounds accepted from user input
	MaxDurationSeconds = 4 * 60 * 60
	MaxDailyTarget     = 100
	MaxCycleSessions   = 12
)
