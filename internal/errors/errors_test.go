package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
	if got := Format(stderrors.New("boom")); got != "Error: boom" {
		t.Errorf("Format() = %q", got)
	}
	if got := Formatf("bad %d", 3); got != "Error: bad 3" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestStoreUnavailable(t *testing.T) {
	if StoreUnavailable("read", nil) != nil {
		t.Error("expected nil for nil error")
	}

	err := StoreUnavailable("read record", stderrors.New("disk I/O error"))
	if !stderrors.Is(err, ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "read record") || !strings.Contains(err.Error(), "disk I/O error") {
		t.Errorf("expected op and cause in message, got %q", err.Error())
	}

	// wrapping twice keeps a single prefix
	again := StoreUnavailable("outer", err)
	if again != err {
		t.Errorf("expected already-wrapped error to pass through, got %v", again)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	err := InvalidConfiguration("work_duration must be positive, got %d", -5)
	if !stderrors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
	if !strings.Contains(err.Error(), "-5") {
		t.Errorf("expected detail in message, got %q", err.Error())
	}
}
