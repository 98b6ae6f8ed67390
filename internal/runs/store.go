package runs

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Run states recorded in the index. The orchestrator walks the stage
// states in order; Done and Failed are terminal.
const (
	StatePending  = "pending"
	StateBuild    = "build"
	StateSearch   = "search"
	StateEvaluate = "evaluate"
	StateAnnotate = "annotate"
	StateReport   = "report"
	StateDone     = "done"
	StateFailed   = "failed"
)

// Record is one indexed run.
type Record struct {
	ID        string    `json:"id"`
	Dir       string    `json:"dir"`
	State     string    `json:"state"`
	Seed      string    `json:"seed,omitempty"`
	EValue    float64   `json:"e_value,omitempty"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Error     string    `json:"error,omitempty"`
}

// Store is the SQLite run index.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the run index at the given path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening run index: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			dir TEXT NOT NULL,
			state TEXT NOT NULL,
			seed TEXT,
			e_value REAL,
			started_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			error TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Create inserts a new run row.
func (s *Store) Create(rec Record) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, dir, state, seed, e_value, started_at, updated_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Dir, rec.State, nullable(rec.Seed), rec.EValue,
		rec.StartedAt.Unix(), rec.UpdatedAt.Unix(), nullable(rec.Error))
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", rec.ID, err)
	}
	return nil
}

// SetState records a state transition. A non-empty errMsg is stored with
// it, so a failed run keeps its diagnosis.
func (s *Store) SetState(id, state, errMsg string) error {
	_, err := s.db.Exec(`
		UPDATE runs SET state = ?, error = ?, updated_at = ? WHERE id = ?
	`, state, nullable(errMsg), time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", id, err)
	}
	return nil
}

// Get retrieves a run by ID. Returns nil without error when absent.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(`
		SELECT id, dir, state, seed, e_value, started_at, updated_at, error
		FROM runs WHERE id = ?
	`, id)
	return scanRecord(row)
}

// List returns runs, newest first. A non-positive limit returns all.
func (s *Store) List(limit int) ([]Record, error) {
	query := `
		SELECT id, dir, state, seed, e_value, started_at, updated_at, error
		FROM runs ORDER BY started_at DESC, id DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Latest returns the newest run in the given state, or the newest run of
// any state when state is empty. Returns nil without error when the index
// has no matching row.
func (s *Store) Latest(state string) (*Record, error) {
	query := `
		SELECT id, dir, state, seed, e_value, started_at, updated_at, error
		FROM runs
	`
	var args []interface{}
	if state != "" {
		query += " WHERE state = ?"
		args = append(args, state)
	}
	query += " ORDER BY started_at DESC, id DESC LIMIT 1"

	return scanRecord(s.db.QueryRow(query, args...))
}

// Rebuild replaces the index contents with the given records. It is the
// recovery path when the index is lost or stale: the run directories are
// the truth and the index only mirrors them.
func (s *Store) Rebuild(records []Record) (int, error) {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return 0, fmt.Errorf("clearing runs table: %w", err)
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO runs (id, dir, state, seed, e_value, started_at, updated_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.Exec(rec.ID, rec.Dir, rec.State, nullable(rec.Seed), rec.EValue,
			rec.StartedAt.Unix(), rec.UpdatedAt.Unix(), nullable(rec.Error))
		if err != nil {
			return 0, fmt.Errorf("inserting run %s: %w", rec.ID, err)
		}
	}

	return len(records), nil
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	var seed, errMsg sql.NullString
	var evalue sql.NullFloat64
	var started, updated int64

	err := s.Scan(&rec.ID, &rec.Dir, &rec.State, &seed, &evalue, &started, &updated, &errMsg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rec.Seed = seed.String
	rec.EValue = evalue.Float64
	rec.Error = errMsg.String
	rec.StartedAt = time.Unix(started, 0)
	rec.UpdatedAt = time.Unix(updated, 0)
	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			recs = append(recs, *rec)
		}
	}
	return recs, rows.Err()
}

// nullable converts a string to sql.NullString, treating empty as NULL.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
