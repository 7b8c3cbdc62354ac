package timer

import (
	"fmt"

	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/models"
)

// Durations holds the configured length of each session type in seconds
type Durations struct {
	Work       int
	ShortBreak int
	LongBreak  int
}

// DefaultDurations returns the factory session lengths
func DefaultDurations() Durations {
	return Durations{
		Work:       constants.DefaultWorkDuration,
		ShortBreak: constants.DefaultShortBreakDuration,
		LongBreak:  constants.DefaultLongBreakDuration,
	}
}

// DurationsFromSettings extracts the session lengths from settings
func DurationsFromSettings(s models.Settings) Durations {
	return Durations{
		Work:       s.WorkDuration,
		ShortBreak: s.ShortBreakDuration,
		LongBreak:  s.LongBreakDuration,
	}
}

// For returns the duration of st in seconds
func (d Durations) For(st models.SessionType) int {
	switch st {
	case models.ShortBreak:
		return d.ShortBreak
	case models.LongBreak:
		return d.LongBreak
	default:
		return d.Work
	}
}

func (d Durations) clamped() Durations {
	def := DefaultDurations()
	if d.Work <= 0 {
		d.Work = def.Work
	}
	if d.ShortBreak <= 0 {
		d.ShortBreak = def.ShortBreak
	}
	if d.LongBreak <= 0 {
		d.LongBreak = def.LongBreak
	}
	return d
}

// Transition describes a move from one session to the next
type Transition struct {
	From          models.SessionType
	To            models.SessionType
	SessionNumber int // completed work sessions in the cycle after the move
}

// State is a read-only copy of the timer
type State struct {
	CurrentSession       models.SessionType
	CurrentSessionNumber int
	MaxSessions          int
	RemainingTime        int
	Duration             int
	IsActive             bool
}

// Timer is the Pomodoro state machine. It never schedules its own ticks:
// the owner calls Tick once per second while the session runs and is the
// only goroutine touching it.
type Timer struct {
	durations            Durations
	maxSessions          int
	currentSession       models.SessionType
	currentSessionNumber int
	remainingTime        int
	isActive             bool
}

// New creates a timer positioned at the start of a work session
func New(durations Durations, maxSessions int) *Timer {
	if maxSessions < 1 {
		maxSessions = constants.DefaultMaxSessions
	}
	t := &Timer{
		durations:      durations.clamped(),
		maxSessions:    maxSessions,
		currentSession: models.Work,
	}
	t.remainingTime = t.durations.Work
	return t
}

func (t *Timer) CurrentSession() models.SessionType { return t.currentSession }
func (t *Timer) CurrentSessionNumber() int          { return t.currentSessionNumber }
func (t *Timer) MaxSessions() int                   { return t.maxSessions }
func (t *Timer) RemainingTime() int                 { return t.remainingTime }
func (t *Timer) IsActive() bool                     { return t.isActive }
func (t *Timer) Durations() Durations               { return t.durations }

// Duration returns the full length of the current session
func (t *Timer) Duration() int {
	return t.durations.For(t.currentSession)
}

// Start marks the countdown as running. No-op if already active.
func (t *Timer) Start() {
	t.isActive = true
}

// Pause stops the countdown. No-op if already paused.
func (t *Timer) Pause() {
	t.isActive = false
}

// Reset refills the current session without changing type, count or active state
func (t *Timer) Reset() {
	t.remainingTime = t.Duration()
}

// SetDurations swaps the configured durations. The running countdown is left
// alone; call Reset to apply the new length to the current session.
func (t *Timer) SetDurations(d Durations) {
	t.durations = d.clamped()
	if t.remainingTime > t.Duration() {
		t.remainingTime = t.Duration()
	}
}

// SetMaxSessions changes the cycle length. The current count is capped so it
// never exceeds the new maximum.
func (t *Timer) SetMaxSessions(n int) {
	if n < 1 {
		n = constants.DefaultMaxSessions
	}
	t.maxSessions = n
	if t.currentSessionNumber > n {
		t.currentSessionNumber = n
	}
}

// Tick advances the countdown by one second. When the remaining time reaches
// zero the timer moves to the next session and reports the transition; that
// is the only case where ok is true.
func (t *Timer) Tick() (Transition, bool) {
	if t.remainingTime <= 0 {
		return Transition{}, false
	}
	t.remainingTime--
	if t.remainingTime > 0 {
		return Transition{}, false
	}
	return t.AdvanceToNextSession(), true
}

// AdvanceToNextSession applies the cycle rules. It is used both for natural
// expiry and for a manual skip.
func (t *Timer) AdvanceToNextSession() Transition {
	from := t.currentSession

	if from.IsWork() {
		t.currentSessionNumber++
		if t.currentSessionNumber >= t.maxSessions {
			t.currentSessionNumber = t.maxSessions
			t.currentSession = models.LongBreak
		} else {
			t.currentSession = models.ShortBreak
		}
	} else {
		// the count stays at its maximum for the whole long break
		if t.currentSessionNumber >= t.maxSessions {
			t.currentSessionNumber = 0
		}
		t.currentSession = models.Work
	}

	t.remainingTime = t.Duration()
	t.isActive = false

	return Transition{
		From:          from,
		To:            t.currentSession,
		SessionNumber: t.currentSessionNumber,
	}
}

// EndCycle abandons the cycle and returns to an idle work session
func (t *Timer) EndCycle() {
	t.currentSession = models.Work
	t.currentSessionNumber = 0
	t.isActive = false
	t.remainingTime = t.durations.Work
}

// Snapshot copies the current state
func (t *Timer) Snapshot() State {
	return State{
		CurrentSession:       t.currentSession,
		CurrentSessionNumber: t.currentSessionNumber,
		MaxSessions:          t.maxSessions,
		RemainingTime:        t.remainingTime,
		Duration:             t.Duration(),
		IsActive:             t.isActive,
	}
}

// Progress returns the elapsed fraction of the current session
func (s State) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Duration-s.RemainingTime) / float64(s.Duration)
}

// FormatRemaining renders the remaining time as MM:SS
func (s State) FormatRemaining() string {
	return FormatSeconds(s.RemainingTime)
}

// FormatSeconds renders seconds as MM:SS, letting minutes run past 59
func FormatSeconds(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}
