// Package notifier schedules the reminders shown while a session is paused
// or a break is running. Delivery goes to the desktop tray app.
package notifier

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/logger"
)

// Scheduler queues delayed alerts that can be cancelled by identifier
type Scheduler interface {
	ScheduleResumeReminder() (string, error)
	ScheduleBreakOverAlert(afterSeconds int) (string, error)
	Cancel(identifier string)
	CancelAll()
}

const (
	resumeReminderText = "Your focus session is paused. Ready to get back to it?"
	breakOverText      = "Break's over. Time to focus."
)

type pendingTimer interface {
	Stop() bool
}

// Tray schedules alerts with time.AfterFunc and delivers them to the tray app
type Tray struct {
	mu      sync.Mutex
	pending map[string]pendingTimer

	resumeDelay time.Duration
	send        func(Alert) error
	afterFunc   func(d time.Duration, f func()) pendingTimer
}

func NewTray() *Tray {
	return &Tray{
		pending:     make(map[string]pendingTimer),
		resumeDelay: constants.ResumeReminderDelay,
		send:        Send,
		afterFunc: func(d time.Duration, f func()) pendingTimer {
			return time.AfterFunc(d, f)
		},
	}
}

func (t *Tray) ScheduleResumeReminder() (string, error) {
	return t.schedule(constants.NotificationResumeReminder, t.resumeDelay, resumeReminderText), nil
}

func (t *Tray) ScheduleBreakOverAlert(afterSeconds int) (string, error) {
	if afterSeconds < 0 {
		afterSeconds = 0
	}
	return t.schedule(constants.NotificationBreakOver, time.Duration(afterSeconds)*time.Second, breakOverText), nil
}

func (t *Tray) schedule(kind string, delay time.Duration, text string) string {
	id := kind + "-" + uuid.New().String()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[id] = t.afterFunc(delay, func() {
		t.mu.Lock()
		_, live := t.pending[id]
		delete(t.pending, id)
		t.mu.Unlock()
		if !live {
			return
		}
		if err := t.send(Alert{ID: id, Kind: kind, Text: text}); err != nil {
			logger.Warn("Notification not delivered", "id", id, "error", err)
		}
	})
	logger.Debug("Notification scheduled", "id", id, "delay", delay)
	return id
}

// Cancel drops a pending alert; unknown identifiers are ignored
func (t *Tray) Cancel(identifier string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.pending[identifier]; ok {
		timer.Stop()
		delete(t.pending, identifier)
	}
}

func (t *Tray) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.pending {
		timer.Stop()
		delete(t.pending, id)
	}
}

// Pending reports how many alerts are waiting to fire
func (t *Tray) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Noop satisfies Scheduler without delivering anything
type Noop struct{}

func (Noop) ScheduleResumeReminder() (string, error) { return "", nil }

func (Noop) ScheduleBreakOverAlert(int) (string, error) { return "", nil }

func (Noop) Cancel(string) {}

func (Noop) CancelAll() {}
