package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/lox/weatherlog/internal/models"
	"github.com/lox/weatherlog/internal/simulate"
)

// Store archives simulated runs in SQLite.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the SQLite database at path and applies
// the schema. The caller closes the Store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := New(db)
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) InsertRun(run models.Run) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, started_at, days, seed)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.StartedAt.UTC(), run.Days, int64(run.Seed))
	return err
}

func (s *Store) CountRuns() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

// InsertDailyLog stores log and its 24 readings as day number position of
// runID, in one transaction.
func (s *Store) InsertDailyLog(runID string, position int, log models.DailyLog) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO daily_logs (run_id, position, date, temp_avg, temp_min, temp_max)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, position, log.Date, log.AvgTemperature, log.MinTemperature, log.MaxTemperature); err != nil {
		tx.Rollback()
		return fmt.Errorf("insert daily log %s: %w", log.Date, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO hourly_readings (run_id, position, hour, temperature, humidity, wind_speed, qc_flags)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare hourly insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range log.Entries {
		var flags sql.NullString
		if f := simulate.QualityFlagsToJSON(simulate.ValidateReading(e)); f != "" {
			flags = sql.NullString{String: f, Valid: true}
		}
		if _, err := stmt.Exec(runID, position, e.Hour, e.Temperature, e.Humidity, e.WindSpeed, flags); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert hour %d of %s: %w", e.Hour, log.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit daily log %s: %w", log.Date, err)
	}
	return nil
}

// GetDailyLogs returns the archived days of runID in position order.
func (s *Store) GetDailyLogs(runID string) ([]models.DailyLog, error) {
	rows, err := s.db.Query(`
		SELECT position, date, temp_avg, temp_min, temp_max
		FROM daily_logs
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.DailyLog
	var positions []int
	for rows.Next() {
		var pos int
		var log models.DailyLog
		if err := rows.Scan(&pos, &log.Date, &log.AvgTemperature, &log.MinTemperature, &log.MaxTemperature); err != nil {
			return nil, err
		}
		logs = append(logs, log)
		positions = append(positions, pos)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range logs {
		if err := s.loadReadings(runID, positions[i], &logs[i]); err != nil {
			return nil, err
		}
	}
	return logs, nil
}

func (s *Store) loadReadings(runID string, position int, log *models.DailyLog) error {
	rows, err := s.db.Query(`
		SELECT hour, temperature, humidity, wind_speed
		FROM hourly_readings
		WHERE run_id = ? AND position = ?
		ORDER BY hour ASC
	`, runID, position)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r models.HourlyReading
		if err := rows.Scan(&r.Hour, &r.Temperature, &r.Humidity, &r.WindSpeed); err != nil {
			return err
		}
		if r.Hour < 0 || r.Hour >= models.HoursPerDay {
			return fmt.Errorf("archived reading for %s has hour %d", log.Date, r.Hour)
		}
		log.Entries[r.Hour] = r
	}
	return rows.Err()
}

// FlaggedReadings counts archived readings of runID that carry quality flags.
func (s *Store) FlaggedReadings(runID string) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM hourly_readings WHERE run_id = ? AND qc_flags IS NOT NULL
	`, runID).Scan(&n)
	return n, err
}
