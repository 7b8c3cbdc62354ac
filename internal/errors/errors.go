package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/pomolit/internal/logger"
)

var (
	// ErrStoreUnavailable wraps any failure of the persistence layer.
	// The operation that hit it is abandoned; nothing retries.
	ErrStoreUnavailable = stderrors.New("record store unavailable")
	// ErrInvalidConfiguration is returned for explicit out-of-range setting input
	ErrInvalidConfiguration = stderrors.New("invalid configuration")
)

// StoreUnavailable wraps err so callers can match ErrStoreUnavailable
func StoreUnavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

// InvalidConfiguration builds an ErrInvalidConfiguration with detail
func InvalidConfiguration(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
