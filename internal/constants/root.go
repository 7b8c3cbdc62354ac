package constants

import "time"

// SessionState represents the active tab of the TUI application
type SessionState int

const (
	AppName            = "pomolit"
	DefaultKeyringUser = "database-connection"
	DefaultDBPath      = "~/.config/pomolit/pomolit.db"
	DefaultConfigFile  = "~/.config/pomolit/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	AutoBackupMaxAge = 12 * time.Hour
	BackupDirName    = "backups"
	BackupFilePrefix = "pomolit-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "pomolit-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.pomolit"
	TrayExecutablePrefix   = "pomolit-tray"

	// Notification identifiers prefixes
	NotificationResumeReminder = "resume-reminder"
	NotificationBreakOver      = "break-over"
	NotificationManual         = "manual"

	// ResumeReminderDelay is how long a paused or finished session waits before nudging the user
	ResumeReminderDelay = 10 * time.Minute

	// Keep-alive constants
	KeepAliveLockfileName = "pomolit-timer.lock"

	// TickInterval drives the countdown
	TickInterval = time.Second

	// Server defaults
	DefaultServerAddr = "127.0.0.1:8787"
)

// Session States
const (
	StateTimer SessionState = iota
	StateStats
	StateSettings
	StateEditSettings
	StateConfirmEndCycle
)
