package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/pomolit/internal/constants"
)

// DefaultSettings returns the factory configuration
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:         constants.DefaultWorkDuration,
		ShortBreakDuration:   constants.DefaultShortBreakDuration,
		LongBreakDuration:    constants.DefaultLongBreakDuration,
		MaxSessions:          constants.DefaultMaxSessions,
		DailyTarget:          constants.DefaultDailyTarget,
		AutoContinue:         constants.DefaultAutoContinue,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys that are absent keep their default value. A value that does not parse
// also keeps its default; the returned settings are still usable and the
// error lists every key that was rejected.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()
	ints := map[string]*int{
		constants.SettingWorkDuration:       &settings.WorkDuration,
		constants.SettingShortBreakDuration: &settings.ShortBreakDuration,
		constants.SettingLongBreakDuration:  &settings.LongBreakDuration,
		constants.SettingMaxSessions:        &settings.MaxSessions,
		constants.SettingDailyTarget:        &settings.DailyTarget,
	}

	var errs []error
	for key, value := range data {
		switch key {
		case constants.SettingAutoContinue:
			settings.AutoContinue = value == "true"
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		default:
			dst, ok := ints[key]
			if !ok {
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				errs = append(errs, fmt.Errorf("parsing %s: %w", key, err))
				continue
			}
			*dst = n
		}
	}

	ApplyDefaultSettings(&settings)
	return settings, errors.Join(errs...)
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingWorkDuration:         strconv.Itoa(settings.WorkDuration),
		constants.SettingShortBreakDuration:   strconv.Itoa(settings.ShortBreakDuration),
		constants.SettingLongBreakDuration:    strconv.Itoa(settings.LongBreakDuration),
		constants.SettingMaxSessions:          strconv.Itoa(settings.MaxSessions),
		constants.SettingDailyTarget:          strconv.Itoa(settings.DailyTarget),
		constants.SettingAutoContinue:         strconv.FormatBool(settings.AutoContinue),
		constants.SettingNotificationsEnabled: strconv.FormatBool(settings.NotificationsEnabled),
	}
}

// ApplyDefaultSettings replaces zero or negative numeric settings with their defaults.
// Nothing below 1 is ever handed to the timer.
func ApplyDefaultSettings(settings *Settings) {
	if settings.WorkDuration <= 0 {
		settings.WorkDuration = constants.DefaultWorkDuration
	}
	if settings.ShortBreakDuration <= 0 {
		settings.ShortBreakDuration = constants.DefaultShortBreakDuration
	}
	if settings.LongBreakDuration <= 0 {
		settings.LongBreakDuration = constants.DefaultLongBreakDuration
	}
	if settings.MaxSessions <= 0 {
		settings.MaxSessions = constants.DefaultMaxSessions
	}
	if settings.DailyTarget <= 0 {
		settings.DailyTarget = constants.DefaultDailyTarget
	}
}
