// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/partlens/pkg/types"
)

// ExportEntry holds one cached analysis with its timestamps for export.
type ExportEntry struct {
	Fingerprint string               `json:"fingerprint" yaml:"fingerprint"`
	StoredAt    string               `json:"stored_at" yaml:"stored_at"`
	LastAttempt string               `json:"last_attempt" yaml:"last_attempt"`
	Result      types.AnalysisResult `json:"result" yaml:"result"`
}

// ExportYAML writes all non-expired cached analyses to w as YAML.
// Attempt-only and corrupted rows are skipped.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, stored_at, last_attempt, payload
		 FROM entries WHERE payload IS NOT NULL ORDER BY fingerprint`)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	defer rows.Close()

	var entries []ExportEntry
	for rows.Next() {
		var fp, lastAttempt string
		var storedAt sql.NullString
		var payload string
		if err := rows.Scan(&fp, &storedAt, &lastAttempt, &payload); err != nil {
			return nil, fmt.Errorf("scanning export row: %w", err)
		}

		stored, err := time.Parse(time.RFC3339Nano, storedAt.String)
		if err != nil || s.now().Sub(stored) > s.ttl {
			continue
		}

		var result types.AnalysisResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			continue
		}

		entries = append(entries, ExportEntry{
			Fingerprint: fp,
			StoredAt:    storedAt.String,
			LastAttempt: lastAttempt,
			Result:      result,
		})
	}
	return entries, rows.Err()
}
