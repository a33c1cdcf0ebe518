package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"immofolio/models"
)

// SQLiteStore holds operational data: extraction and search run records
// plus their logs. Domain data lives in Postgres; this file is local
// bookkeeping that survives without the network.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS extract_runs (
		id INTEGER PRIMARY KEY,
		kind TEXT NOT NULL,
		source TEXT,
		target TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		fields_found INTEGER DEFAULT 0,
		listings_new INTEGER DEFAULT 0,
		errors_count INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS extract_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		level TEXT,
		message TEXT,
		source TEXT,
		FOREIGN KEY (run_id) REFERENCES extract_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON extract_runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_logs_run ON extract_logs(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateRun(run *models.ExtractRun) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO extract_runs (kind, source, target, started_at, status)
		 VALUES (?, ?, ?, ?, ?)`,
		run.Kind, run.Source, run.Target, run.StartedAt, run.Status,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpdateRun(run *models.ExtractRun) error {
	_, err := s.db.Exec(
		`UPDATE extract_runs
		 SET finished_at = ?, status = ?, fields_found = ?, listings_new = ?, errors_count = ?
		 WHERE id = ?`,
		run.FinishedAt, run.Status, run.FieldsFound, run.ListingsNew, run.ErrorsCount, run.ID,
	)
	return err
}

func (s *SQLiteStore) Log(runID *int64, level models.LogLevel, message, source string) error {
	_, err := s.db.Exec(
		`INSERT INTO extract_logs (run_id, timestamp, level, message, source) VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now(), level, message, source,
	)
	return err
}

// RecentRuns returns the latest run records, newest first.
func (s *SQLiteStore) RecentRuns(limit int) ([]models.ExtractRun, error) {
	rows, err := s.db.Query(
		`SELECT id, kind, source, target, started_at, finished_at, status,
		        fields_found, listings_new, errors_count
		 FROM extract_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.ExtractRun
	for rows.Next() {
		var r models.ExtractRun
		if err := rows.Scan(&r.ID, &r.Kind, &r.Source, &r.Target, &r.StartedAt,
			&r.FinishedAt, &r.Status, &r.FieldsFound, &r.ListingsNew, &r.ErrorsCount); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
