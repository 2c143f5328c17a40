// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screener

import (
	"strconv"

	"github.com/meshintel/partlens/pkg/types"
)

// Defaults substituted when the upstream omits a field. Kept stable for
// compatibility with the historical response contract.
const (
	defaultPatentNumber = "UNKNOWN"
	defaultPatentTitle  = "Patent Title"
	defaultApplicant    = "Unknown"
	defaultDate         = "2024-01-01"
	defaultScore        = 0.5
)

// normalizePatents maps the heterogeneous upstream patent list into
// canonical PatentRecords. The upstream puts the list under "results" or
// "patents" and varies its field names release to release; the precedence
// table below coalesces the known spellings:
//
//	patent_number:    publication_number > patent_number > "UNKNOWN"
//	title:            title > "Patent Title"
//	applicant:        applicant > assignee > "Unknown"
//	publication_date: publication_date > filing_date > "2024-01-01"
//	relevance_score:  score > relevance_score > 0.5
//
// A payload whose list entries are not objects produces a processing
// error; an absent list normalizes to zero patents.
func normalizePatents(body map[string]any) ([]types.PatentRecord, error) {
	raw, ok := body["results"]
	if !ok {
		raw = body["patents"]
	}
	if raw == nil {
		return nil, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, apiErrorf(types.ErrProcessing, "upstream result list has unexpected type %T", raw)
	}

	records := make([]types.PatentRecord, 0, len(list))
	for i, entry := range list {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, apiErrorf(types.ErrProcessing, "upstream result entry %d has unexpected type %T", i, entry)
		}

		records = append(records, types.PatentRecord{
			PatentNumber:    stringField(fields, defaultPatentNumber, "publication_number", "patent_number"),
			Title:           stringField(fields, defaultPatentTitle, "title"),
			Applicant:       stringField(fields, defaultApplicant, "applicant", "assignee"),
			PublicationDate: stringField(fields, defaultDate, "publication_date", "filing_date"),
			RelevanceScore:  scoreField(fields, "score", "relevance_score"),
		})
	}
	return records, nil
}

// stringField returns the first present non-empty string among keys, or
// fallback.
func stringField(fields map[string]any, fallback string, keys ...string) string {
	for _, key := range keys {
		if s, ok := fields[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// scoreField returns the first present numeric value among keys, clamped
// to [0, 1]. The upstream has been observed sending scores as both JSON
// numbers and numeric strings.
func scoreField(fields map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case float64:
			return clampScore(v)
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return clampScore(f)
			}
		}
	}
	return defaultScore
}

func clampScore(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
