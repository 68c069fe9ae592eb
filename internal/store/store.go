// Package store persists per-subset scoring results in SQLite so that
// interrupted or repeated runs reuse scores instead of re-invoking the
// oracle. Keys are the canonical subset ID plus the criterion the score
// was computed under.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/partseek/partseek/internal/errors"
	"github.com/partseek/partseek/internal/scheme"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS subset_results (
	subset_id  TEXT NOT NULL,
	criterion  TEXT NOT NULL,
	lnl        REAL NOT NULL,
	params     INTEGER NOT NULL,
	sites      INTEGER NOT NULL,
	rate       REAL NOT NULL,
	alpha      REAL NOT NULL,
	freqs      TEXT NOT NULL,
	score      REAL NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (subset_id, criterion)
);`

// Store is a SQLite-backed subset result cache. Safe for concurrent use;
// a single writer connection prevents lock contention.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// Open opens (or creates) the store at path. An empty path opens an
// in-memory store for tests.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreOpen, err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreOpen, err)
	}

	// Single writer to prevent lock contention
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL mode for concurrent readers; busy timeout handles contention.
	// The driver ignores DSN query parameters, so set these explicitly.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(errors.ErrCodeStoreOpen, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeStoreOpen, err)
	}

	return &Store{db: db}, nil
}

// Get returns the stored result for a subset under a criterion.
func (s *Store) Get(ctx context.Context, id string, criterion string) (*scheme.SubsetResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, errors.New(errors.ErrCodeStoreIO, "store is closed", nil)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT lnl, params, sites, rate, alpha, freqs, score
		 FROM subset_results WHERE subset_id = ? AND criterion = ?`,
		id, criterion)

	var res scheme.SubsetResult
	var freqsJSON string
	err := row.Scan(&res.LogLikelihood, &res.ParamCount, &res.SiteCount,
		&res.Rate, &res.Alpha, &freqsJSON, &res.Score)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStoreIO, err)
	}
	if err := json.Unmarshal([]byte(freqsJSON), &res.Freqs); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStoreIO,
			fmt.Errorf("corrupt freqs for subset %s: %w", id, err))
	}

	return &res, true, nil
}

// Put stores a subset result, replacing any previous record for the same
// subset and criterion.
func (s *Store) Put(ctx context.Context, id string, criterion string, res *scheme.SubsetResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New(errors.ErrCodeStoreIO, "store is closed", nil)
	}

	freqsJSON, err := json.Marshal(res.Freqs)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreIO, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO subset_results
		 (subset_id, criterion, lnl, params, sites, rate, alpha, freqs, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, criterion, res.LogLikelihood, res.ParamCount, res.SiteCount,
		res.Rate, res.Alpha, string(freqsJSON), res.Score)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreIO, err)
	}
	return nil
}

// Count returns the number of stored subset results.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errors.New(errors.ErrCodeStoreIO, "store is closed", nil)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subset_results`).Scan(&n); err != nil {
		return 0, errors.Wrap(errors.ErrCodeStoreIO, err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
