package postgres

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
		r   models.Record
		day string
	)
	if err := row.Scan(&r.ID, &day, &r.SessionsCompleted, &r.DailyTarget, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return models.Record{}, err
	}
	date, err := models.ParseDay(day, time.Local)
	if err != nil {
		return models.Record{}, fmt.Errorf("parsing record date %q: %w", day, err)
	}
	r.Date = date
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

	_, err := s.db.Exec(
		"INSERT INTO records ("+recordColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		r.ID, models.DayKey(r.Date), r.SessionsCompleted, r.DailyTarget, r.CreatedAt, now,
	)
	return apperrors.StoreUnavailable("create record "+r.Day(), err)
}

func (s *Store) GetRecordByDate(date time.Time) (models.Record, bool, error) {
	row := s.db.QueryRow("SELECT "+recordColumns+" FROM records WHERE date = $1", models.DayKey(date))
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
		"UPDATE records SET date = $1, sessions_completed = $2, daily_target = $3, updated_at = $4 WHERE id = $5",
		models.DayKey(r.Date), r.SessionsCompleted, r.DailyTarget, time.Now().UTC(), r.ID,
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
	_, err := s.db.Exec("DELETE FROM records WHERE id = $1", r.ID)
	return apperrors.StoreUnavailable("delete record "+r.Day(), err)
}

func (s *Store) DeleteAllRecords() error {
	_, err := s.db.Exec("DELETE FROM records")
	return apperrors.StoreUnavailable("delete records", err)
}
