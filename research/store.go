package research

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists experiment results in a SQLite database so evaluation runs
// survive process restarts and can be compared across sessions.
type Store struct {
	db    *sql.DB
	runID string
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS experiment_results (
	id              TEXT PRIMARY KEY,
	run_id          TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL,
	query           TEXT NOT NULL,
	technique       TEXT NOT NULL,
	parameters      TEXT NOT NULL,
	quality_score   REAL NOT NULL,
	iterations_used INTEGER NOT NULL,
	time_taken      REAL NOT NULL,
	final_prompt    TEXT NOT NULL,
	role_used       TEXT NOT NULL,
	reasoning       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_experiment_results_run ON experiment_results(run_id);
`

// OpenStore opens (or creates) the results database at path. Use ":memory:"
// for an ephemeral store. Each Store instance gets its own run ID.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening results database: %w", err)
	}
	// A ":memory:" database exists per connection; cap the pool so every
	// statement sees the same data. Single-writer is also what SQLite wants.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing results schema: %w", err)
	}
	return &Store{db: db, runID: uuid.NewString()}, nil
}

// RunID identifies the evaluation run this store instance writes under.
func (s *Store) RunID() string { return s.runID }

// SaveResult persists one experiment result under the current run.
func (s *Store) SaveResult(ctx context.Context, r ExperimentResult) error {
	paramsJSON, err := json.Marshal(r.Parameters)
	if err != nil {
		return fmt.Errorf("encoding parameters: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO experiment_results
		(id, run_id, created_at, query, technique, parameters,
		 quality_score, iterations_used, time_taken, final_prompt, role_used, reasoning)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), s.runID, time.Now().UTC(), r.Query, r.Technique, string(paramsJSON),
		r.QualityScore, r.IterationsUsed, r.TimeTaken, r.FinalPrompt, r.RoleUsed, r.Reasoning)
	if err != nil {
		return fmt.Errorf("saving experiment result: %w", err)
	}
	return nil
}

// SaveAll persists a batch of results in one transaction.
func (s *Store) SaveAll(ctx context.Context, results []ExperimentResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	for _, r := range results {
		paramsJSON, err := json.Marshal(r.Parameters)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encoding parameters: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO experiment_results
			(id, run_id, created_at, query, technique, parameters,
			 quality_score, iterations_used, time_taken, final_prompt, role_used, reasoning)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), s.runID, time.Now().UTC(), r.Query, r.Technique, string(paramsJSON),
			r.QualityScore, r.IterationsUsed, r.TimeTaken, r.FinalPrompt, r.RoleUsed, r.Reasoning); err != nil {
			tx.Rollback()
			return fmt.Errorf("saving experiment result: %w", err)
		}
	}
	return tx.Commit()
}

// LoadRun reads back every result saved under a run ID, in insertion order.
func (s *Store) LoadRun(ctx context.Context, runID string) ([]ExperimentResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT query, technique, parameters, quality_score, iterations_used,
		       time_taken, final_prompt, role_used, reasoning
		FROM experiment_results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []ExperimentResult
	for rows.Next() {
		var r ExperimentResult
		var paramsJSON string
		if err := rows.Scan(&r.Query, &r.Technique, &paramsJSON, &r.QualityScore,
			&r.IterationsUsed, &r.TimeTaken, &r.FinalPrompt, &r.RoleUsed, &r.Reasoning); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		if err := json.Unmarshal([]byte(paramsJSON), &r.Parameters); err != nil {
			return nil, fmt.Errorf("decoding parameters: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
