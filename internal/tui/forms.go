package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/pomolit/internal/constants"
	"github.com/julianstephens/pomolit/internal/models"
	"github.com/julianstephens/pomolit/internal/settings"
)

// SettingsFormModel holds the settings form inputs. Durations are edited
// in minutes and stored in seconds.
type SettingsFormModel struct {
	WorkMinutes          string
	ShortBreakMinutes    string
	LongBreakMinutes     string
	MaxSessions          string
	DailyTarget          string
	AutoContinue         bool
	NotificationsEnabled bool
}

type ConfirmationFormModel struct {
	Confirmed bool
}

func newSettingsFormModel(s models.Settings) *SettingsFormModel {
	return &SettingsFormModel{
		WorkMinutes:          strconv.Itoa(s.WorkDuration / 60),
		ShortBreakMinutes:    strconv.Itoa(s.ShortBreakDuration / 60),
		LongBreakMinutes:     strconv.Itoa(s.LongBreakDuration / 60),
		MaxSessions:          strconv.Itoa(s.MaxSessions),
		DailyTarget:          strconv.Itoa(s.DailyTarget),
		AutoContinue:         s.AutoContinue,
		NotificationsEnabled: s.NotificationsEnabled,
	}
}

// values converts the form back to raw setting values keyed by setting name
func (fm *SettingsFormModel) values() map[string]string {
	toSeconds := func(raw string) string {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return raw
		}
		return strconv.Itoa(n * 60)
	}
	return map[string]string{
		constants.SettingWorkDuration:         toSeconds(fm.WorkMinutes),
		constants.SettingShortBreakDuration:   toSeconds(fm.ShortBreakMinutes),
		constants.SettingLongBreakDuration:    toSeconds(fm.LongBreakMinutes),
		constants.SettingMaxSessions:          strings.TrimSpace(fm.MaxSessions),
		constants.SettingAutoContinue:         strconv.FormatBool(fm.AutoContinue),
		constants.SettingNotificationsEnabled: strconv.FormatBool(fm.NotificationsEnabled),
	}
}

func validateMinutes(key string) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("must be a whole number of minutes")
		}
		_, err = settings.Validate(key, strconv.Itoa(n*60))
		return err
	}
}

func validateSetting(key string) func(string) error {
	return func(s string) error {
		_, err := settings.Validate(key, s)
		return err
	}
}

// NewSettingsForm creates a new form for editing settings
func NewSettingsForm(fm *SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Focus (minutes)").
				Value(&fm.WorkMinutes).
				Validate(validateMinutes(constants.SettingWorkDuration)),
			huh.NewInput().
				Title("Short Break (minutes)").
				Value(&fm.ShortBreakMinutes).
				Validate(validateMinutes(constants.SettingShortBreakDuration)),
			huh.NewInput().
				Title("Long Break (minutes)").
				Value(&fm.LongBreakMinutes).
				Validate(validateMinutes(constants.SettingLongBreakDuration)),
			huh.NewInput().
				Title("Sessions per Cycle").
				Value(&fm.MaxSessions).
				Validate(validateSetting(constants.SettingMaxSessions)),
			huh.NewInput().
				Title("Daily Target (sessions)").
				Value(&fm.DailyTarget).
				Validate(validateSetting(constants.SettingDailyTarget)),
			huh.NewConfirm().
				Title("Auto Continue").
				Value(&fm.AutoContinue),
			huh.NewConfirm().
				Title("Notifications").
				Value(&fm.NotificationsEnabled),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewEndCycleForm asks before the cycle is thrown away
func NewEndCycleForm(fm *ConfirmationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("End the current cycle?").
				Description("The session count returns to zero. Completed sessions stay recorded.").
				Affirmative("End cycle").
				Negative("Keep going").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
