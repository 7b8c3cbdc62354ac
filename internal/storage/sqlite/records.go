package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/pomolit/internal/errors"
	"github.com/julianstephens/pomolit/internal/models"
)

const recordColumns = "id, date, sessions_completed, daily_target, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.Record, error) {
	var (
		r                    models.Record
		day                  string
		createdAt, updatedAt string
	)
	if err := row.Scan(&r.ID, &day, &r.SessionsCompleted, &r.DailyTarget, &createdAt, &updatedAt); err != nil {
		return models.Record{}, err
	}

	date, err := models.ParseDay(day, time.Local)
	if err != nil {
		return models.Record{}, fmt.Errorf("parsing record date %q: %w", day, err)
	}
	r.Date = date
	// timestamps are informational; a malformed value leaves the zero time
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return r, nil
}

func (s *Store) CreateRecord(r models.Record) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	_, err := s.db.Exec(
		"INSERT INTO records ("+recordColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		r.ID, models.DayKey(r.Date), r.SessionsCompleted, r.DailyTarget,
		r.CreatedAt.UTC().Format(time.RFC3339), r.UpdatedAt.Format(time.RFC3339),
	)
	return apperrors.StoreUnavailable("create record "+r.Day(), err)
}

func (s *Store) GetRecordByDate(date time.Time) (models.Record, bool, error) {
	row := s.db.QueryRow("SELECT "+recordColumns+" FROM records WHERE date = ?", models.DayKey(date))
	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Record{}, false, nil
		}
		return models.Record{}, false, apperrors.StoreUnavailable("get record "+models.DayKey(date), err)
	}
	return r, true, nil
}

func (s *Store) GetAllRecords() ([]models.Record, error) {
	rows, err := s.db.Query("SELECT " + recordColumns + " FROM records ORDER BY date DESC")
	if err != nil {
		return nil, apperrors.StoreUnavailable("get records", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.StoreUnavailable("get records", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreUnavailable("get records", err)
	}
	return records, nil
}

func (s *Store) UpdateRecord(r models.Record) error {
	res, err := s.db.Exec(
		"UPDATE records SET date = ?, sessions_completed = ?, daily_target = ?, updated_at = ? WHERE id = ?",
		models.DayKey(r.Date), r.SessionsCompleted, r.DailyTarget, time.Now().UTC().Format(time.RFC3339), r.ID,
	)
	if err != nil {
		return apperrors.StoreUnavailable("update record "+r.Day(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.StoreUnavailable("update record "+r.Day(), err)
	}
	if n == 0 {
		return apperrors.StoreUnavailable("update record "+r.Day(), fmt.Errorf("record %s not found", r.ID))
	}
	return nil
}

func (s *Store) DeleteRecord(r models.Record) error {
	_, err := s.db.Exec("DELETE FROM records WHERE id = ?", r.ID)
	return apperrors.StoreUnavailable("delete record "+r.Day(), err)
}

func (s *Store) DeleteAllRecords() error {
	_, err := s.db.Exec("DELETE FROM records")
	return apperrors.StoreUnavailable("delete records", err)
}
