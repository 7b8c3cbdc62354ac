// Package settings reads and writes user settings through the store's
// key/value table. Numeric values below 1 are never handed out: they are
// replaced by their defaults on both read and write.
package settings

import (
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/pomolit/internal/constants"
	apperrors "github.com/julianstephens/pomolit/internal/errors"
	"github.com/julianstephens/pomolit/internal/logger"
	"github.com/julianstephens/pomolit/internal/models"
)

// Store is the slice of storage.Provider the service needs
type Store interface {
	GetSettingValues() (map[string]string, error)
	SetSettingValue(key, value string) error
	DeleteSettingValue(key string) error
}

type numericRule struct {
	def int
	max int
}

var numeric = map[string]numericRule{
	constants.SettingWorkDuration:       {constants.DefaultWorkDuration, constants.MaxDurationSeconds},
	constants.SettingShortBreakDuration: {constants.DefaultShortBreakDuration, constants.MaxDurationSeconds},
	constants.SettingLongBreakDuration:  {constants.DefaultLongBreakDuration, constants.MaxDurationSeconds},
	constants.SettingMaxSessions:        {constants.DefaultMaxSessions, constants.MaxCycleSessions},
	constants.SettingDailyTarget:        {constants.DefaultDailyTarget, constants.MaxDailyTarget},
}

var toggles = map[string]bool{
	constants.SettingAutoContinue:         constants.DefaultAutoContinue,
	constants.SettingNotificationsEnabled: constants.DefaultNotificationsEnabled,
}

// Entry is one row of the settings listing
type Entry struct {
	Key       string
	Value     string
	Default   string
	IsDefault bool
}

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Keys returns every known setting key in sorted order
func Keys() []string {
	keys := make([]string, 0, len(numeric)+len(toggles))
	for k := range numeric {
		keys = append(keys, k)
	}
	for k := range toggles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsNumeric reports whether key holds an integer setting
func IsNumeric(key string) bool {
	_, ok := numeric[key]
	return ok
}

// IsToggle reports whether key holds a boolean setting
func IsToggle(key string) bool {
	_, ok := toggles[key]
	return ok
}

// Load returns all settings with defaults substituted
func (s *Service) Load() (models.Settings, error) {
	values, err := s.store.GetSettingValues()
	if err != nil {
		return models.Settings{}, apperrors.StoreUnavailable("load settings", err)
	}
	settings, err := models.MapToSettings(values)
	if err != nil {
		// unparsable keys keep their defaults, the rest still apply
		logger.Warn("Ignoring malformed settings", "error", err)
	}
	return settings, nil
}

// Get returns a numeric setting; unset, malformed or non-positive values yield the default
func (s *Service) Get(key string) (int, error) {
	rule, ok := numeric[key]
	if !ok {
		return 0, apperrors.InvalidConfiguration("unknown numeric setting %q", key)
	}
	values, err := s.store.GetSettingValues()
	if err != nil {
		return 0, apperrors.StoreUnavailable("get setting "+key, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(values[key]))
	if err != nil || n <= 0 {
		return rule.def, nil
	}
	return n, nil
}

// Set persists a numeric setting. Non-positive values are replaced by the default.
func (s *Service) Set(key string, value int) error {
	rule, ok := numeric[key]
	if !ok {
		return apperrors.InvalidConfiguration("unknown numeric setting %q", key)
	}
	if value <= 0 {
		value = rule.def
	}
	return s.store.SetSettingValue(key, strconv.Itoa(value))
}

// GetToggle returns a boolean setting or its default
func (s *Service) GetToggle(key string) (bool, error) {
	def, ok := toggles[key]
	if !ok {
		return false, apperrors.InvalidConfiguration("unknown toggle %q", key)
	}
	values, err := s.store.GetSettingValues()
	if err != nil {
		return false, apperrors.StoreUnavailable("get setting "+key, err)
	}
	raw, present := values[key]
	if !present {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def, nil
	}
	return b, nil
}

// SetToggle persists a boolean setting
func (s *Service) SetToggle(key string, value bool) error {
	if _, ok := toggles[key]; !ok {
		return apperrors.InvalidConfiguration("unknown toggle %q", key)
	}
	return s.store.SetSettingValue(key, strconv.FormatBool(value))
}

// AutoContinue reports whether the next session starts automatically
func (s *Service) AutoContinue() (bool, error) {
	return s.GetToggle(constants.SettingAutoContinue)
}

// ToggleAutoContinue flips auto_continue and returns the new value
func (s *Service) ToggleAutoContinue() (bool, error) {
	current, err := s.AutoContinue()
	if err != nil {
		return false, err
	}
	if err := s.SetToggle(constants.SettingAutoContinue, !current); err != nil {
		return false, err
	}
	return !current, nil
}

// ResetToDefault writes the default value for key
func (s *Service) ResetToDefault(key string) error {
	if rule, ok := numeric[key]; ok {
		return s.store.SetSettingValue(key, strconv.Itoa(rule.def))
	}
	if def, ok := toggles[key]; ok {
		return s.store.SetSettingValue(key, strconv.FormatBool(def))
	}
	return apperrors.InvalidConfiguration("unknown setting %q", key)
}

// ResetAll writes the default value for every key
func (s *Service) ResetAll() error {
	for _, key := range Keys() {
		if err := s.ResetToDefault(key); err != nil {
			return err
		}
	}
	return nil
}

// IsAtDefault reports whether the effective value of key equals its default
func (s *Service) IsAtDefault(key string) (bool, error) {
	if rule, ok := numeric[key]; ok {
		v, err := s.Get(key)
		return v == rule.def, err
	}
	if def, ok := toggles[key]; ok {
		v, err := s.GetToggle(key)
		return v == def, err
	}
	return false, apperrors.InvalidConfiguration("unknown setting %q", key)
}

// List returns the effective value of every setting
func (s *Service) List() ([]Entry, error) {
	var entries []Entry
	for _, key := range Keys() {
		var value, def string
		if rule, ok := numeric[key]; ok {
			v, err := s.Get(key)
			if err != nil {
				return nil, err
			}
			value, def = strconv.Itoa(v), strconv.Itoa(rule.def)
		} else {
			v, err := s.GetToggle(key)
			if err != nil {
				return nil, err
			}
			value, def = strconv.FormatBool(v), strconv.FormatBool(toggles[key])
		}
		entries = append(entries, Entry{Key: key, Value: value, Default: def, IsDefault: value == def})
	}
	return entries, nil
}

// Validate parses raw user input for key. Out of range numbers and
// unparsable toggles are rejected with ErrInvalidConfiguration.
func Validate(key, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if rule, ok := numeric[key]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return "", apperrors.InvalidConfiguration("%s must be an integer, got %q", key, raw)
		}
		if n < 1 || n > rule.max {
			return "", apperrors.InvalidConfiguration("%s must be between 1 and %d, got %d", key, rule.max, n)
		}
		return strconv.Itoa(n), nil
	}
	if _, ok := toggles[key]; ok {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return "", apperrors.InvalidConfiguration("%s must be true or false, got %q", key, raw)
		}
		return strconv.FormatBool(b), nil
	}
	return "", apperrors.InvalidConfiguration("unknown setting %q", key)
}

// ValidateDailyTarget checks an explicit daily target
func ValidateDailyTarget(n int) error {
	if n < 1 || n > constants.MaxDailyTarget {
		return apperrors.InvalidConfiguration("daily target must be between 1 and %d, got %d", constants.MaxDailyTarget, n)
	}
	return nil
}

// SetRaw validates raw input and persists it
func (s *Service) SetRaw(key, raw string) error {
	value, err := Validate(key, raw)
	if err != nil {
		return err
	}
	return s.store.SetSettingValue(key, value)
}
