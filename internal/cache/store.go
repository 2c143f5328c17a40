// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists screening results in a sqlite database keyed by
// query fingerprint. Expiry is lazy: stale and corrupted rows are removed
// when read, never by a background sweep. The store also tracks the last
// upstream attempt per fingerprint, which drives throttling independently
// of cache freshness.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meshintel/partlens/pkg/types"
)

// Store is the sqlite-backed analysis cache.
type Store struct {
	db             *sql.DB
	ttl            time.Duration
	throttleWindow time.Duration

	// now is the clock source; tests substitute it to simulate expiry.
	now func() time.Time
}

// NewStore opens or creates the cache database at cfg.Path and creates
// the schema if it does not exist.
func NewStore(cfg types.CacheConfig) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{
		db:             db,
		ttl:            cfg.TTL,
		throttleWindow: cfg.ThrottleWindow,
		now:            time.Now,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	// stored_at is the last successful result write; last_attempt is the
	// last upstream call. Rows with a NULL payload exist only to carry
	// last_attempt for throttling.
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		fingerprint TEXT PRIMARY KEY,
		stored_at TEXT,
		last_attempt TEXT NOT NULL,
		payload TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get returns the cached result for fp when present and within the TTL.
// Expired and corrupted rows are deleted on read and reported as absent.
func (s *Store) Get(ctx context.Context, fp string) (types.AnalysisResult, bool, error) {
	var storedAt sql.NullString
	var payload sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT stored_at, payload FROM entries WHERE fingerprint = ?`, fp,
	).Scan(&storedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return types.AnalysisResult{}, false, nil
	}
	if err != nil {
		return types.AnalysisResult{}, false, fmt.Errorf("reading cache entry: %w", err)
	}

	// Attempt-only row: throttle bookkeeping, not a cached result.
	if !storedAt.Valid || !payload.Valid {
		return types.AnalysisResult{}, false, nil
	}

	stored, err := time.Parse(time.RFC3339Nano, storedAt.String)
	if err != nil {
		s.delete(ctx, fp)
		return types.AnalysisResult{}, false, nil
	}
	if s.now().Sub(stored) > s.ttl {
		s.delete(ctx, fp)
		return types.AnalysisResult{}, false, nil
	}

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(payload.String), &result); err != nil {
		// Corrupted payload: drop it and treat as a miss.
		s.delete(ctx, fp)
		return types.AnalysisResult{}, false, nil
	}
	return result, true, nil
}

// Put stores a result under fp with the current timestamp, overwriting
// any prior entry. The write also refreshes last_attempt.
func (s *Store) Put(ctx context.Context, fp string, result types.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding cache payload: %w", err)
	}

	now := s.now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries (fingerprint, stored_at, last_attempt, payload)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET
			stored_at=excluded.stored_at,
			last_attempt=excluded.last_attempt,
			payload=excluded.payload`,
		fp, now, now, string(payload),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// MarkAttempt records an upstream call for fp without touching any cached
// payload, so failed attempts throttle without masquerading as results.
func (s *Store) MarkAttempt(ctx context.Context, fp string) error {
	now := s.now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (fingerprint, last_attempt)
		 VALUES (?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET last_attempt=excluded.last_attempt`,
		fp, now,
	)
	if err != nil {
		return fmt.Errorf("marking attempt: %w", err)
	}
	return nil
}

// IsThrottled reports whether fp was attempted within the throttle
// window. Independent of TTL expiry: an expired entry still throttles
// while its last attempt is recent.
func (s *Store) IsThrottled(ctx context.Context, fp string) (bool, error) {
	var lastAttempt string
	err := s.db.QueryRowContext(ctx,
		`SELECT last_attempt FROM entries WHERE fingerprint = ?`, fp,
	).Scan(&lastAttempt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading attempt time: %w", err)
	}

	attempted, err := time.Parse(time.RFC3339Nano, lastAttempt)
	if err != nil {
		return false, nil
	}
	return s.now().Sub(attempted) < s.throttleWindow, nil
}

// Clear removes all entries.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, fp string) {
	// Lazy eviction is best effort; a failed delete just means another
	// read retries it.
	s.db.ExecContext(ctx, `DELETE FROM entries WHERE fingerprint = ?`, fp)
}
