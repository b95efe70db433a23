package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/vk/varcar/internal/ctxlog"
	"github.com/vk/varcar/internal/resolve"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	document    TEXT NOT NULL,
	recorded_at INTEGER NOT NULL,
	all_modes   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_document ON runs (document, recorded_at);
CREATE TABLE IF NOT EXISTS collection_results (
	run_id     TEXT NOT NULL REFERENCES runs (id),
	position   INTEGER NOT NULL,
	collection TEXT NOT NULL,
	broken     INTEGER NOT NULL,
	white      INTEGER NOT NULL,
	payload    BLOB NOT NULL,
	PRIMARY KEY (run_id, position)
);`

// SQLite is a Store backed by a sqlite database file.
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens (and if needed creates) the database at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("history database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history tables: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("History database opened.", "path", path)
	return &SQLite{db: db, path: path}, nil
}

// Record stores run and its collection results in one transaction. A run id
// that is already stored is an error.
func (s *SQLite) Record(ctx context.Context, run Run) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, document, recorded_at, all_modes) VALUES (?, ?, ?, ?)`,
		run.ID, run.Document, run.RecordedAt.UnixNano(), boolToInt(run.AllModes),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	for i, c := range run.Collections {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode %s: %w", c.CollectionName, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collection_results (run_id, position, collection, broken, white, payload) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, i, c.CollectionName, c.Broken, c.White, payload,
		); err != nil {
			return fmt.Errorf("insert result %s: %w", c.CollectionName, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Run recorded.", "id", run.ID, "document", run.Document, "collections", len(run.Collections))
	return nil
}

// Runs returns the runs of document, newest first. An empty document
// selects every document and a limit of zero or less returns all runs.
func (s *SQLite) Runs(ctx context.Context, document string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, recorded_at, all_modes FROM runs
		 WHERE ? = '' OR document = ?
		 ORDER BY recorded_at DESC, rowid DESC
		 LIMIT ?`,
		document, document, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	var runs []Run
	for rows.Next() {
		var (
			r        Run
			nanos    int64
			allModes int
		)
		if err := rows.Scan(&r.ID, &r.Document, &nanos, &allModes); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.RecordedAt = time.Unix(0, nanos).UTC()
		r.AllModes = allModes != 0
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	_ = rows.Close()

	for i := range runs {
		results, err := s.results(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Collections = results
	}
	return runs, nil
}

// Latest returns the newest run of document, or ErrNoRuns.
func (s *SQLite) Latest(ctx context.Context, document string) (Run, error) {
	runs, err := s.Runs(ctx, document, 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return runs[0], nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) results(ctx context.Context, runID string) ([]resolve.CollectionResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM collection_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("select results of %s: %w", runID, err)
	}
	defer func() { _ = rows.Close() }()

	results := []resolve.CollectionResult{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var c resolve.CollectionResult
		if err := json.Unmarshal(payload, &c); err != nil {
			return nil, fmt.Errorf("decode result of %s: %w", runID, err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
