// Package jsonstore keeps records and settings in a single JSON document.
// Useful for portable exports and for tests that don't want a database.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/pomolit/internal/errors"
	"github.com/julianstephens/pomolit/internal/models"
	"github.com/julianstephens/pomolit/internal/storage"
)

const documentVersion = 1

type document struct {
	Version  int                      `json:"version"`
	Settings map[string]string        `json:"settings"`
	Records  map[string]models.Record `json:"records"` // keyed by YYYY-MM-DD
}

type Store struct {
	path string
	doc  *document
}

var _ storage.Provider = (*Store)(nil)

var errNotLoaded = fmt.Errorf("storage not loaded")

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return apperrors.StoreUnavailable("create config directory", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := s.Load(); err != nil {
			return err
		}
	} else {
		s.doc = &document{
			Version:  documentVersion,
			Settings: make(map[string]string),
			Records:  make(map[string]models.Record),
		}
	}

	return s.update("init", func(doc *document) error {
		for key, value := range models.SettingsToMap(models.DefaultSettings()) {
			if _, ok := doc.Settings[key]; !ok {
				doc.Settings[key] = value
			}
		}
		return nil
	})
}

func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.StoreUnavailable("load", fmt.Errorf("storage not initialized, run 'pomolit init' first"))
		}
		return apperrors.StoreUnavailable("load", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return apperrors.StoreUnavailable("load", fmt.Errorf("failed to parse storage: %w", err))
	}
	if doc.Version > documentVersion {
		return apperrors.StoreUnavailable("load", fmt.Errorf("storage version %d is newer than supported version %d", doc.Version, documentVersion))
	}
	if doc.Settings == nil {
		doc.Settings = make(map[string]string)
	}
	if doc.Records == nil {
		doc.Records = make(map[string]models.Record)
	}

	// the key is authoritative; re-anchor each date to local midnight
	for key, r := range doc.Records {
		date, err := models.ParseDay(key, time.Local)
		if err != nil {
			return apperrors.StoreUnavailable("load", fmt.Errorf("invalid record key %q: %w", key, err))
		}
		r.Date = date
		doc.Records[key] = r
	}

	s.doc = doc
	return nil
}

func (s *Store) Close() error {
	return nil
}

// save writes doc to a temp file and renames it into place
func (s *Store) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.StoreUnavailable("save", fmt.Errorf("failed to serialize storage: %w", err))
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return apperrors.StoreUnavailable("save", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return apperrors.StoreUnavailable("save", err)
	}
	return nil
}

func (d *document) clone() *document {
	cp := &document{
		Version:  d.Version,
		Settings: make(map[string]string, len(d.Settings)),
		Records:  make(map[string]models.Record, len(d.Records)),
	}
	for k, v := range d.Settings {
		cp.Settings[k] = v
	}
	for k, r := range d.Records {
		cp.Records[k] = r
	}
	return cp
}

// update applies fn to a copy of the document and keeps the copy only once
// it is on disk, so a failed write leaves memory matching the file.
func (s *Store) update(op string, fn func(doc *document) error) error {
	if s.doc == nil {
		return apperrors.StoreUnavailable(op, errNotLoaded)
	}
	next := s.doc.clone()
	if err := fn(next); err != nil {
		return apperrors.StoreUnavailable(op, err)
	}
	if err := s.save(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

func (s *Store) GetSettingValues() (map[string]string, error) {
	if s.doc == nil {
		return nil, apperrors.StoreUnavailable("get settings", errNotLoaded)
	}
	values := make(map[string]string, len(s.doc.Settings))
	for k, v := range s.doc.Settings {
		values[k] = v
	}
	return values, nil
}

func (s *Store) SetSettingValue(key, value string) error {
	return s.update("set setting "+key, func(doc *document) error {
		doc.Settings[key] = value
		return nil
	})
}

func (s *Store) DeleteSettingValue(key string) error {
	return s.update("delete setting "+key, func(doc *document) error {
		delete(doc.Settings, key)
		return nil
	})
}

func (s *Store) CreateRecord(r models.Record) error {
	key := r.Day()
	return s.update("create record "+key, func(doc *document) error {
		if _, exists := doc.Records[key]; exists {
			return fmt.Errorf("record for %s already exists", key)
		}
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		now := time.Now().UTC()
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		r.UpdatedAt = now
		r.Date = models.StartOfDay(r.Date)
		doc.Records[key] = r
		return nil
	})
}

func (s *Store) GetRecordByDate(date time.Time) (models.Record, bool, error) {
	if s.doc == nil {
		return models.Record{}, false, apperrors.StoreUnavailable("get record", errNotLoaded)
	}
	r, ok := s.doc.Records[models.DayKey(date)]
	return r, ok, nil
}

func (s *Store) GetAllRecords() ([]models.Record, error) {
	if s.doc == nil {
		return nil, apperrors.StoreUnavailable("get records", errNotLoaded)
	}
	records := make([]models.Record, 0, len(s.doc.Records))
	for _, r := range s.doc.Records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records, nil
}

func (s *Store) UpdateRecord(r models.Record) error {
	newKey := r.Day()
	return s.update("update record "+newKey, func(doc *document) error {
		oldKey := ""
		for key, existing := range doc.Records {
			if existing.ID == r.ID {
				oldKey = key
				break
			}
		}
		if oldKey == "" {
			return fmt.Errorf("record %s not found", r.ID)
		}
		if other, exists := doc.Records[newKey]; exists && other.ID != r.ID {
			return fmt.Errorf("record for %s already exists", newKey)
		}

		delete(doc.Records, oldKey)
		r.Date = models.StartOfDay(r.Date)
		r.UpdatedAt = time.Now().UTC()
		doc.Records[newKey] = r
		return nil
	})
}

func (s *Store) DeleteRecord(r models.Record) error {
	if s.doc == nil {
		return apperrors.StoreUnavailable("delete record", errNotLoaded)
	}
	for key, existing := range s.doc.Records {
		if existing.ID == r.ID {
			return s.update("delete record "+key, func(doc *document) error {
				delete(doc.Records, key)
				return nil
			})
		}
	}
	return nil
}

func (s *Store) DeleteAllRecords() error {
	return s.update("delete records", func(doc *document) error {
		doc.Records = make(map[string]models.Record)
		return nil
	})
}

func (s *Store) GetConfigPath() string {
	return s.path
}
