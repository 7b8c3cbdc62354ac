// Package keyring keeps PostgreSQL connection strings, which may carry a
// password, in the OS keyring instead of config files or shell history.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/pomolit/internal/constants"
)

// RefPrefix marks a --db value that names a keyring entry ("keyring" or "keyring:work")
const RefPrefix = "keyring"

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func account(profile string) string {
	if profile == "" {
		return constants.DefaultKeyringUser
	}
	return constants.DefaultKeyringUser + ":" + profile
}

// GetConnectionString retrieves the connection string stored for profile
// ("" is the default profile).
func GetConnectionString(profile string) (string, error) {
	connStr, err := keyring.Get(constants.AppName, account(profile))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores connStr for profile
func SetConnectionString(profile, connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, account(profile), connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the connection string stored for profile
func DeleteConnectionString(profile string) error {
	if err := keyring.Delete(constants.AppName, account(profile)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsRef reports whether a --db value refers to the keyring
func IsRef(dsn string) bool {
	return dsn == RefPrefix || strings.HasPrefix(dsn, RefPrefix+":")
}

// Resolve swaps a keyring reference for the stored connection string and
// returns any other value unchanged.
func Resolve(dsn string) (string, error) {
	if !IsRef(dsn) {
		return dsn, nil
	}
	profile := strings.TrimPrefix(strings.TrimPrefix(dsn, RefPrefix), ":")
	return GetConnectionString(profile)
}

// IsAvailable is a best-effort probe of the OS keyring
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
