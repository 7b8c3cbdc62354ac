package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	apperrors "github.com/julianstephens/pomolit/internal/errors"
	"github.com/julianstephens/pomolit/internal/logger"
	"github.com/julianstephens/pomolit/internal/migration"
	"github.com/julianstephens/pomolit/internal/models"
	"github.com/julianstephens/pomolit/internal/storage"
	"github.com/julianstephens/pomolit/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return apperrors.StoreUnavailable("create config directory", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(); err != nil {
		return apperrors.StoreUnavailable("run migrations", err)
	}

	// seed defaults only for keys that are missing
	values, err := s.GetSettingValues()
	if err != nil {
		return err
	}
	for key, value := range models.SettingsToMap(models.DefaultSettings()) {
		if _, ok := values[key]; ok {
			continue
		}
		if err := s.SetSettingValue(key, value); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return apperrors.StoreUnavailable("load", fmt.Errorf("storage not initialized, run 'pomolit init' first"))
	}

	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.runner()
	if err != nil {
		return apperrors.StoreUnavailable("load", err)
	}
	if err := runner.ValidateVersion(); err != nil {
		return apperrors.StoreUnavailable("validate schema", err)
	}
	pending, err := runner.Pending()
	if err != nil {
		return apperrors.StoreUnavailable("validate schema", err)
	}
	if pending > 0 {
		logger.Warn("Database schema is behind, run 'pomolit migrate'", "pending", pending, "path", s.path)
	}

	return nil
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return apperrors.StoreUnavailable("open database", err)
	}
	// single writer; modernc serializes on one connection without lock errors
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return apperrors.StoreUnavailable("open database", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.DriverSQLite), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

// Migrate applies pending schema migrations, reporting progress through logFn
func (s *Store) Migrate(logFn func(string)) (int, error) {
	if s.db == nil {
		if err := s.open(); err != nil {
			return 0, err
		}
	}
	runner, err := s.runner()
	if err != nil {
		return 0, apperrors.StoreUnavailable("migrate", err)
	}
	n, err := runner.ApplyMigrations(logFn)
	if err != nil {
		return n, apperrors.StoreUnavailable("migrate", err)
	}
	return n, nil
}

// SchemaVersion reports the applied and latest available schema versions
func (s *Store) SchemaVersion() (current, latest int, err error) {
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, apperrors.StoreUnavailable("schema version", err)
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

var _ storage.Provider = (*Store)(nil)
