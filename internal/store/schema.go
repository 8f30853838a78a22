package store

import "fmt"

// schema is applied on every Init; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at DATETIME NOT NULL,
    days INTEGER NOT NULL,
    seed INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS daily_logs (
    run_id TEXT NOT NULL REFERENCES runs(id),
    position INTEGER NOT NULL,
    date TEXT NOT NULL,
    temp_avg REAL NOT NULL,
    temp_min REAL NOT NULL,
    temp_max REAL NOT NULL,
    PRIMARY KEY (run_id, position)
)`,
	`CREATE TABLE IF NOT EXISTS hourly_readings (
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    hour INTEGER NOT NULL CHECK (hour BETWEEN 0 AND 23),
    temperature REAL NOT NULL,
    humidity REAL NOT NULL,
    wind_speed REAL NOT NULL,
    qc_flags TEXT,
    PRIMARY KEY (run_id, position, hour),
    FOREIGN KEY (run_id, position) REFERENCES daily_logs(run_id, position)
)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_logs_date ON daily_logs(date)`,
}

// Init creates the archive tables if they do not exist.
func (s *Store) Init() error {
	for i, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
