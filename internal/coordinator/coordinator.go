// Package coordinator drives the session timer and applies its side effects:
// recording completed work sessions, scheduling reminders and holding the
// keep-alive while a session runs.
package coordinator

import (
	"context"
	"time"

	"github.com/julianstephens/pomolit/internal/clock"
	"github.com/julianstephens/pomolit/internal/constants"
	apperrors "github.com/julianstephens/pomolit/internal/errors"
	"github.com/julianstephens/pomolit/internal/keepalive"
	"github.com/julianstephens/pomolit/internal/logger"
	"github.com/julianstephens/pomolit/internal/metrics"
	"github.com/julianstephens/pomolit/internal/models"
	"github.com/julianstephens/pomolit/internal/notifier"
	"github.com/julianstephens/pomolit/internal/timer"
)

// RecordStore is the part of storage.Provider that records completed sessions
type RecordStore interface {
	GetRecordByDate(date time.Time) (models.Record, bool, error)
	CreateRecord(models.Record) error
	UpdateRecord(models.Record) error
}

// Settings supplies the persisted user settings
type Settings interface {
	Load() (models.Settings, error)
	Set(key string, value int) error
}

type Options struct {
	Store     RecordStore
	Settings  Settings
	Notifier  notifier.Scheduler
	KeepAlive keepalive.Session
	Metrics   metrics.Recorder
	Clock     clock.Clock
}

// Coordinator owns the single timer of the process. It takes no locks:
// every call must come from the same goroutine that delivers ticks.
type Coordinator struct {
	timer     *timer.Timer
	store     RecordStore
	settings  Settings
	notifier  notifier.Scheduler
	keepAlive keepalive.Session
	metrics   metrics.Recorder
	clock     clock.Clock

	current models.Settings
	// durations read while a session was running, applied at the next boundary
	pendingDurations *timer.Durations

	resumeID string
	breakID  string
}

// New wires a coordinator around t. Missing collaborators fall back to no-ops.
func New(t *timer.Timer, opts Options) *Coordinator {
	c := &Coordinator{
		timer:     t,
		store:     opts.Store,
		settings:  opts.Settings,
		notifier:  opts.Notifier,
		keepAlive: opts.KeepAlive,
		metrics:   opts.Metrics,
		clock:     opts.Clock,
		current:   models.DefaultSettings(),
	}
	if c.notifier == nil {
		c.notifier = notifier.Noop{}
	}
	if c.keepAlive == nil {
		c.keepAlive = keepalive.Noop{}
	}
	if c.metrics == nil {
		c.metrics = metrics.Noop{}
	}
	if c.clock == nil {
		c.clock = clock.SystemClock{}
	}
	return c
}

// NewFromSettings loads settings and builds a timer configured from them
func NewFromSettings(ctx context.Context, opts Options) (*Coordinator, error) {
	c := New(timer.New(timer.DefaultDurations(), constants.DefaultMaxSessions), opts)
	if err := c.ReloadSettings(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Timer exposes the underlying timer for read access
func (c *Coordinator) Timer() *timer.Timer {
	return c.timer
}

// Settings returns the settings applied at the last reload
func (c *Coordinator) Settings() models.Settings {
	return c.current
}

// Snapshot returns the timer state for rendering
func (c *Coordinator) Snapshot() timer.State {
	return c.timer.Snapshot()
}

// Start resumes the countdown. Calling it on a running timer does nothing.
func (c *Coordinator) Start(ctx context.Context) {
	if c.timer.IsActive() {
		return
	}
	c.timer.Start()
	c.cancelResumeReminder()
	if !c.timer.CurrentSession().IsWork() {
		c.scheduleBreakOver(c.timer.RemainingTime())
	}
	if err := c.keepAlive.Start(); err != nil {
		logger.Warn("Keep-alive unavailable", "error", err)
	}
	logger.Debug("Session started", "session", c.timer.CurrentSession().String(), "remaining", c.timer.RemainingTime())
}

// Pause halts the countdown and queues a resume reminder
func (c *Coordinator) Pause(ctx context.Context) {
	if !c.timer.IsActive() {
		return
	}
	c.timer.Pause()
	c.cancelBreakOver()
	c.scheduleResumeReminder()
	c.keepAlive.Stop()
	logger.Debug("Session paused", "session", c.timer.CurrentSession().String(), "remaining", c.timer.RemainingTime())
}

// Toggle starts a paused timer or pauses a running one
func (c *Coordinator) Toggle(ctx context.Context) {
	if c.timer.IsActive() {
		c.Pause(ctx)
	} else {
		c.Start(ctx)
	}
}

// Tick advances the countdown by one second. ok is true on the tick that
// finished a session. A store failure while recording a finished work
// session is returned alongside the transition, which has already happened.
func (c *Coordinator) Tick(ctx context.Context) (timer.Transition, bool, error) {
	tr, ok := c.timer.Tick()
	if !ok {
		return tr, false, nil
	}

	c.metrics.SessionCompleted(ctx, tr.From, c.timer.Durations().For(tr.From))
	logger.Info("Session finished", "from", tr.From.String(), "to", tr.To.String(), "number", tr.SessionNumber)

	var err error
	if tr.From.IsWork() {
		err = c.OnWorkSessionCompleted(ctx)
	}

	c.breakID = ""
	c.applyPendingDurations()

	if c.current.AutoContinue {
		c.Start(ctx)
	} else {
		c.keepAlive.Stop()
		c.scheduleResumeReminder()
	}
	return tr, true, err
}

// OnWorkSessionCompleted adds one completed session to today's record,
// creating the record with the current daily target when absent.
func (c *Coordinator) OnWorkSessionCompleted(ctx context.Context) error {
	now := c.clock.Now()
	rec, found, err := c.store.GetRecordByDate(now)
	if err != nil {
		return apperrors.StoreUnavailable("read today's record", err)
	}

	if !found {
		target := c.current.DailyTarget
		if c.settings != nil {
			s, err := c.settings.Load()
			if err != nil {
				logger.Warn("Using last loaded daily target", "target", target, "error", err)
			} else {
				target = s.DailyTarget
			}
		}
		rec = models.NewRecord(now, target)
		rec.SessionsCompleted = 1
		if err := c.store.CreateRecord(rec); err != nil {
			return apperrors.StoreUnavailable("create today's record", err)
		}
	} else {
		rec.SessionsCompleted++
		if err := c.store.UpdateRecord(rec); err != nil {
			return apperrors.StoreUnavailable("update today's record", err)
		}
	}

	logger.Info("Work session recorded", "date", rec.Day(), "completed", rec.SessionsCompleted, "target", rec.DailyTarget)
	return nil
}

// UpdateDailyTargetSetting stores a new global target and applies it to
// today's record if one exists. Earlier days keep their snapshot.
func (c *Coordinator) UpdateDailyTargetSetting(ctx context.Context, n int) error {
	if n <= 0 {
		n = constants.DefaultDailyTarget
	}
	if c.settings != nil {
		if err := c.settings.Set(constants.SettingDailyTarget, n); err != nil {
			return apperrors.StoreUnavailable("save daily target", err)
		}
	}
	c.current.DailyTarget = n

	rec, found, err := c.store.GetRecordByDate(c.clock.Now())
	if err != nil {
		return apperrors.StoreUnavailable("read today's record", err)
	}
	if !found || rec.DailyTarget == n {
		return nil
	}
	rec.DailyTarget = n
	if err := c.store.UpdateRecord(rec); err != nil {
		return apperrors.StoreUnavailable("update today's record", err)
	}
	return nil
}

// Skip jumps to the next session without counting the current one
func (c *Coordinator) Skip(ctx context.Context) timer.Transition {
	tr := c.timer.AdvanceToNextSession()
	c.cancelBreakOver()
	c.cancelResumeReminder()
	c.keepAlive.Stop()
	c.applyPendingDurations()
	logger.Debug("Session skipped", "from", tr.From.String(), "to", tr.To.String())
	return tr
}

// ResetSession restarts the countdown of the current session
func (c *Coordinator) ResetSession(ctx context.Context) {
	c.timer.Reset()
	if c.timer.IsActive() && !c.timer.CurrentSession().IsWork() {
		c.cancelBreakOver()
		c.scheduleBreakOver(c.timer.RemainingTime())
	}
}

// EndCycle returns to a fresh work session and drops every pending alert
func (c *Coordinator) EndCycle(ctx context.Context) {
	c.timer.EndCycle()
	c.notifier.CancelAll()
	c.resumeID, c.breakID = "", ""
	c.keepAlive.Stop()
	logger.Debug("Cycle ended")
}

// ReloadSettings re-reads settings. New durations apply immediately when
// the timer is idle and at the next session boundary otherwise.
func (c *Coordinator) ReloadSettings(ctx context.Context) error {
	if c.settings == nil {
		return nil
	}
	s, err := c.settings.Load()
	if err != nil {
		return apperrors.StoreUnavailable("load settings", err)
	}
	c.current = s
	c.timer.SetMaxSessions(s.MaxSessions)

	d := timer.DurationsFromSettings(s)
	if c.timer.IsActive() {
		c.pendingDurations = &d
		return nil
	}
	c.pendingDurations = nil
	c.timer.SetDurations(d)
	c.timer.Reset()
	return nil
}

// Shutdown drops pending alerts, releases the keep-alive and flushes metrics
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.notifier.CancelAll()
	c.keepAlive.Stop()
	return c.metrics.Close(ctx)
}

func (c *Coordinator) applyPendingDurations() {
	if c.pendingDurations == nil {
		return
	}
	c.timer.SetDurations(*c.pendingDurations)
	c.timer.Reset()
	c.pendingDurations = nil
}

func (c *Coordinator) scheduleResumeReminder() {
	if !c.current.NotificationsEnabled {
		return
	}
	c.cancelResumeReminder()
	id, err := c.notifier.ScheduleResumeReminder()
	if err != nil {
		logger.Warn("Failed to schedule resume reminder", "error", err)
		return
	}
	c.resumeID = id
}

func (c *Coordinator) scheduleBreakOver(afterSeconds int) {
	if !c.current.NotificationsEnabled {
		return
	}
	id, err := c.notifier.ScheduleBreakOverAlert(afterSeconds)
	if err != nil {
		logger.Warn("Failed to schedule break alert", "error", err)
		return
	}
	c.breakID = id
}

func (c *Coordinator) cancelResumeReminder() {
	if c.resumeID != "" {
		c.notifier.Cancel(c.resumeID)
		c.resumeID = ""
	}
}

func (c *Coordinator) cancelBreakOver() {
	if c.breakID != "" {
		c.notifier.Cancel(c.breakID)
		c.breakID = ""
	}
}
