// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package results persists completed review runs in a SQLite database
// and exports them as CSV or annotated RIS.
package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kevinchung58/LatteReview/internal/review"
	"github.com/kevinchung58/LatteReview/pkg/types"
)

const dbFile = "reviews.db"

// Store manages the review-results SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the results database at
// resultsDir/reviews.db, creating the schema if it does not exist.
func NewStore(cfg types.ResultsConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	dbPath := filepath.Join(cfg.ResultsDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			rounds INTEGER NOT NULL,
			records INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			record_id TEXT NOT NULL,
			final_decision TEXT NOT NULL,
			final_score REAL,
			reasoning_summary TEXT,
			detailed_log TEXT,
			extracted_concepts TEXT,
			UNIQUE(run_id, record_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			record_id TEXT NOT NULL,
			round_id TEXT NOT NULL,
			agent_name TEXT NOT NULL,
			agent_type TEXT NOT NULL,
			decision TEXT NOT NULL,
			reasoning TEXT,
			score TEXT,
			decision_after_debate TEXT,
			rebuttal TEXT,
			extracted_concepts TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='results_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE results_fts USING fts5(reasoning_summary, detailed_log, content=results, content_rowid=rowid)`,
			`CREATE TRIGGER results_ai AFTER INSERT ON results BEGIN
				INSERT INTO results_fts(rowid, reasoning_summary, detailed_log) VALUES (new.rowid, new.reasoning_summary, new.detailed_log);
			END`,
			`CREATE TRIGGER results_ad AFTER DELETE ON results BEGIN
				INSERT INTO results_fts(results_fts, rowid, reasoning_summary, detailed_log) VALUES('delete', old.rowid, old.reasoning_summary, old.detailed_log);
			END`,
			`CREATE TRIGGER results_au AFTER UPDATE ON results BEGIN
				INSERT INTO results_fts(results_fts, rowid, reasoning_summary, detailed_log) VALUES('delete', old.rowid, old.reasoning_summary, old.detailed_log);
				INSERT INTO results_fts(rowid, reasoning_summary, detailed_log) VALUES (new.rowid, new.reasoning_summary, new.detailed_log);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// RunMeta summarizes one stored run.
type RunMeta struct {
	ID        string
	CreatedAt time.Time
	Rounds    int
	Records   int
}

// SaveRun stores a completed run, its per-record results, and the full
// outcome log in one transaction. rounds is the number of configured
// workflow rounds.
func (s *Store) SaveRun(ctx context.Context, run *review.RunResult, rounds int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, rounds, records) VALUES (?, ?, ?, ?)`,
		run.RunID, createdAt, rounds, len(run.Results),
	); err != nil {
		return fmt.Errorf("inserting run %s: %w", run.RunID, err)
	}

	resStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, record_id, final_decision, final_score, reasoning_summary, detailed_log, extracted_concepts)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing results insert: %w", err)
	}
	defer resStmt.Close()

	for _, r := range run.Results {
		var score any
		if r.FinalScore != nil {
			score = *r.FinalScore
		}
		conceptsJSON, _ := json.Marshal(r.ExtractedConcepts)
		if _, err := resStmt.ExecContext(ctx,
			run.RunID, r.RecordID, string(r.FinalDecision), score,
			r.ReasoningSummary, r.DetailedLog, string(conceptsJSON),
		); err != nil {
			return fmt.Errorf("inserting result for %s: %w", r.RecordID, err)
		}
	}

	outStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, record_id, round_id, agent_name, agent_type, decision, reasoning, score, decision_after_debate, rebuttal, extracted_concepts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing outcomes insert: %w", err)
	}
	defer outStmt.Close()

	for _, o := range run.Outcomes {
		conceptsJSON, _ := json.Marshal(o.ExtractedConcepts)
		if _, err := outStmt.ExecContext(ctx,
			run.RunID, o.RecordID, o.RoundID, o.AgentName, string(o.AgentType),
			string(o.Decision), o.Reasoning, o.Score,
			string(o.DecisionAfterDebate), o.Rebuttal, string(conceptsJSON),
		); err != nil {
			return fmt.Errorf("inserting outcome for %s: %w", o.RecordID, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, rounds, records FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMeta
	for rows.Next() {
		var m RunMeta
		var createdAt string
		if err := rows.Scan(&m.ID, &createdAt, &m.Rounds, &m.Records); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		m.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp: %w", err)
		}
		runs = append(runs, m)
	}
	return runs, rows.Err()
}

// Results returns the per-record results of one run in insertion order.
func (s *Store) Results(ctx context.Context, runID string) ([]types.FinalResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, final_decision, final_score, reasoning_summary, detailed_log, extracted_concepts
		 FROM results WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []types.FinalResult
	for rows.Next() {
		var r types.FinalResult
		var decision string
		var score sql.NullFloat64
		var conceptsJSON string
		if err := rows.Scan(&r.RecordID, &decision, &score, &r.ReasoningSummary, &r.DetailedLog, &conceptsJSON); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.FinalDecision = types.Decision(decision)
		if score.Valid {
			v := score.Float64
			r.FinalScore = &v
		}
		if err := json.Unmarshal([]byte(conceptsJSON), &r.ExtractedConcepts); err != nil {
			return nil, fmt.Errorf("parsing concepts for %s: %w", r.RecordID, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Outcomes returns one run's outcome log in insertion order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]types.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, round_id, agent_name, agent_type, decision, reasoning, score, decision_after_debate, rebuttal, extracted_concepts
		 FROM outcomes WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []types.Outcome
	for rows.Next() {
		var o types.Outcome
		var agentType, decision, afterDebate, conceptsJSON string
		if err := rows.Scan(&o.RecordID, &o.RoundID, &o.AgentName, &agentType,
			&decision, &o.Reasoning, &o.Score, &afterDebate, &o.Rebuttal, &conceptsJSON); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.AgentType = types.AgentType(agentType)
		o.Decision = types.Decision(decision)
		o.DecisionAfterDebate = types.Decision(afterDebate)
		if err := json.Unmarshal([]byte(conceptsJSON), &o.ExtractedConcepts); err != nil {
			return nil, fmt.Errorf("parsing concepts for %s: %w", o.RecordID, err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// SearchHit is one full-text match over a run's stored results.
type SearchHit struct {
	RunID    string
	RecordID string
	Snippet  string
}

// Search runs an FTS5 query over reasoning summaries and detailed logs
// across all stored runs. limit caps the number of hits; 0 means 20.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.run_id, r.record_id, snippet(results_fts, 0, '[', ']', '...', 12)
		 FROM results_fts f
		 JOIN results r ON r.rowid = f.rowid
		 WHERE results_fts MATCH ?
		 ORDER BY rank LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching results: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.RunID, &h.RecordID, &h.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
