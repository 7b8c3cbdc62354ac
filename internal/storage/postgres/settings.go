package postgres

import (
	apperrors "github.com/julianstephens/pomolit/internal/errors"
)

func (s *Store) GetSettingValues() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, apperrors.StoreUnavailable("get settings", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, apperrors.StoreUnavailable("get settings", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreUnavailable("get settings", err)
	}
	return values, nil
}

func (s *Store) SetSettingValue(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return apperrors.StoreUnavailable("set setting "+key, err)
}

func (s *Store) DeleteSettingValue(key string) error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = $1", key)
	return apperrors.StoreUnavailable("delete setting "+key, err)
}
