package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ironsheep/xai-saliency-mcp/internal/config"
	"github.com/ironsheep/xai-saliency-mcp/internal/experiment"
	"github.com/ironsheep/xai-saliency-mcp/internal/saliency"
)

// FileName is the database file created inside the store directory.
const FileName = "results.db"

// timeLayout is fixed width and always UTC, so text order is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when a run ID is not in the database.
var ErrRunNotFound = errors.New("run not found")

// Store is a SQLite results database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	path := filepath.Join(dir, FileName)

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, path: path}
	if err := s.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started TEXT NOT NULL,
		finished TEXT,
		dataset TEXT NOT NULL,
		methods TEXT NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		sample_id TEXT NOT NULL,
		method TEXT NOT NULL,
		tumour_present INTEGER NOT NULL,
		tp INTEGER NOT NULL,
		tn INTEGER NOT NULL,
		fp INTEGER NOT NULL,
		fn INTEGER NOT NULL,
		accuracy REAL NOT NULL,
		precision REAL NOT NULL,
		recall REAL NOT NULL,
		f1 REAL NOT NULL,
		UNIQUE(run_id, sample_id, method)
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_method ON results(method);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Run describes one stored evaluation run.
type Run struct {
	ID       uuid.UUID
	Started  time.Time
	Finished time.Time // zero while the run is in progress
	Dataset  string
	Methods  []saliency.Method
}

// Result is one stored score row.
type Result struct {
	RunID         uuid.UUID
	SampleID      string
	Method        saliency.Method
	TumourPresent bool
	Scores        saliency.ScoreSet
}

// BeginRun records a new run for cfg and returns its ID.
func (s *Store) BeginRun(ctx context.Context, cfg *config.Config, started time.Time) (uuid.UUID, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	methods, err := cfg.ParsedMethods()
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started, dataset, methods, config_json) VALUES (?, ?, ?, ?, ?)`,
		id.String(),
		started.UTC().Format(timeLayout),
		cfg.Dataset.Root,
		joinMethods(methods),
		string(cfgJSON),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// FinishRun stamps the end time of a run.
func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID, finished time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished = ? WHERE id = ?`,
		finished.UTC().Format(timeLayout), runID.String())
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// SaveResult stores one score row. Saving the same sample and method twice
// for a run replaces the earlier row.
func (s *Store) SaveResult(ctx context.Context, r Result) error {
	return saveResult(ctx, s.db, r)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func saveResult(ctx context.Context, db execer, r Result) error {
	sc := r.Scores
	_, err := db.ExecContext(ctx, `
	INSERT INTO results (run_id, sample_id, method, tumour_present, tp, tn, fp, fn, accuracy, precision, recall, f1)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, sample_id, method) DO UPDATE SET
		tumour_present = excluded.tumour_present,
		tp = excluded.tp, tn = excluded.tn, fp = excluded.fp, fn = excluded.fn,
		accuracy = excluded.accuracy, precision = excluded.precision,
		recall = excluded.recall, f1 = excluded.f1
	`,
		r.RunID.String(), r.SampleID, r.Method.String(), r.TumourPresent,
		sc.TruePositive, sc.TrueNegative, sc.FalsePositive, sc.FalseNegative,
		sc.Accuracy, sc.Precision, sc.Recall, sc.F1,
	)
	if err != nil {
		return fmt.Errorf("failed to insert result %s/%s: %w", r.SampleID, r.Method, err)
	}
	return nil
}

// SaveRun stores every scored row of run under runID in one transaction
// and marks the run finished.
func (s *Store) SaveRun(ctx context.Context, runID uuid.UUID, run *experiment.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range run.Methods {
		for _, row := range run.Rows(m) {
			r := Result{RunID: runID, SampleID: row.ID, Method: m, TumourPresent: row.TumourPresent, Scores: row.Scores}
			if err := saveResult(ctx, tx, r); err != nil {
				return err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}
	return s.FinishRun(ctx, runID, run.Finished)
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started, COALESCE(finished, ''), dataset, methods FROM runs ORDER BY started DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var id, started, finished, dataset, methods string
		if err := rows.Scan(&id, &started, &finished, &dataset, &methods); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r, err := decodeRun(id, started, finished, dataset, methods)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunResults returns the stored rows of a run ordered by sample then method.
func (s *Store) RunResults(ctx context.Context, runID uuid.UUID) ([]Result, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID.String()).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT sample_id, method, tumour_present, tp, tn, fp, fn, accuracy, precision, recall, f1
	FROM results WHERE run_id = ?
	ORDER BY sample_id, method`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		r := Result{RunID: runID}
		var method string
		sc := &r.Scores
		if err := rows.Scan(&r.SampleID, &method, &r.TumourPresent,
			&sc.TruePositive, &sc.TrueNegative, &sc.FalsePositive, &sc.FalseNegative,
			&sc.Accuracy, &sc.Precision, &sc.Recall, &sc.F1); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if r.Method, err = saliency.ParseMethod(method); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func decodeRun(id, started, finished, dataset, methods string) (Run, error) {
	r := Run{Dataset: dataset}
	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return r, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	if r.Started, err = time.Parse(timeLayout, started); err != nil {
		return r, fmt.Errorf("invalid start time %q: %w", started, err)
	}
	if finished != "" {
		if r.Finished, err = time.Parse(timeLayout, finished); err != nil {
			return r, fmt.Errorf("invalid finish time %q: %w", finished, err)
		}
	}
	for _, name := range strings.Split(methods, ",") {
		if name == "" {
			continue
		}
		m, err := saliency.ParseMethod(name)
		if err != nil {
			return r, err
		}
		r.Methods = append(r.Methods, m)
	}
	return r, nil
}

func joinMethods(methods []saliency.Method) string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	return strings.Join(names, ",")
}
