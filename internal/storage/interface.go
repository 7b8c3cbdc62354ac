package storage

import (
	"time"

	"github.com/julianstephens/pomolit/internal/models"
)

// Provider persists one Record per calendar day plus the settings key/value table.
// Every failure is reported as apperrors.ErrStoreUnavailable.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettingValues() (map[string]string, error)
	SetSettingValue(key, value string) error
	DeleteSettingValue(key string) error

	// Records
	CreateRecord(models.Record) error
	// GetRecordByDate looks up the record for the calendar day containing date.
	// A missing record is reported with found == false, not an error.
	GetRecordByDate(date time.Time) (record models.Record, found bool, err error)
	GetAllRecords() ([]models.Record, error)
	UpdateRecord(models.Record) error
	DeleteRecord(models.Record) error
	DeleteAllRecords() error

	// Utils
	GetConfigPath() string
}

// SaveSettings writes every field of s through SetSettingValue
func SaveSettings(p Provider, s models.Settings) error {
	for key, value := range models.SettingsToMap(s) {
		if err := p.SetSettingValue(key, value); err != nil {
			return err
		}
	}
	return nil
}

// LoadSettings reads the settings table, substituting defaults for missing or non-positive values.
// Malformed values are reported in the error alongside the usable settings.
func LoadSettings(p Provider) (models.Settings, error) {
	values, err := p.GetSettingValues()
	if err != nil {
		return models.Settings{}, err
	}
	return models.MapToSettings(values)
}

// CopyAll copies settings and records from src into dst. Records already present
// in dst for the same day are overwritten with the source values.
func CopyAll(src, dst Provider) (int, error) {
	values, err := src.GetSettingValues()
	if err != nil {
		return 0, err
	}
	for key, value := range values {
		if err := dst.SetSettingValue(key, value); err != nil {
			return 0, err
		}
	}

	records, err := src.GetAllRecords()
	if err != nil {
		return 0, err
	}
	copied := 0
	for _, r := range records {
		existing, found, err := dst.GetRecordByDate(r.Date)
		if err != nil {
			return copied, err
		}
		if found {
			r.ID = existing.ID
			err = dst.UpdateRecord(r)
		} else {
			err = dst.CreateRecord(r)
		}
		if err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}
