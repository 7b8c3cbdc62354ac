// Package keepalive advertises a running timer so the process is not
// mistaken for idle while it is in the background. The core never relies
// on it succeeding.
package keepalive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/pomolit/internal/constants"
)

// Session is an opaque background-execution extension
type Session interface {
	Start() error
	Stop()
}

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrAlreadyRunning is returned when another live timer holds the lockfile
var ErrAlreadyRunning = errors.New("another pomolit timer is already running")

// Lockfile writes the current PID to a lockfile while a session runs
type Lockfile struct {
	mu     sync.Mutex
	path   string
	active bool
}

func NewLockfile(dir string) *Lockfile {
	return &Lockfile{path: filepath.Join(dir, constants.KeepAliveLockfileName)}
}

// Path returns the lockfile location
func (l *Lockfile) Path() string {
	return l.path
}

// Start claims the lockfile. Calling it while already started is a no-op.
func (l *Lockfile) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active {
		return nil
	}

	if pid, alive := l.holder(); alive && pid != getpidFunc() {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	if err := os.WriteFile(l.path, []byte(strconv.Itoa(getpidFunc())), 0600); err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	l.active = true
	return nil
}

// Stop releases the lockfile if this process holds it
func (l *Lockfile) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active {
		return
	}
	l.active = false
	if pid, _ := l.holder(); pid == getpidFunc() {
		_ = os.Remove(l.path)
	}
}

// Running reports the PID of another live timer process, if any
func (l *Lockfile) Running() (int, bool) {
	pid, alive := l.holder()
	if !alive || pid == getpidFunc() {
		return 0, false
	}
	return pid, true
}

func (l *Lockfile) holder() (int, bool) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return pid, false
	}
	return pid, true
}

// Noop does nothing
type Noop struct{}

func (Noop) Start() error { return nil }

func (Noop) Stop() {}
