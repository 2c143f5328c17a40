// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the partlens screening
// pipeline: canonical patent records, analysis results, the legacy response
// shape, and per-stage configuration.
package types

// PatentRecord is the canonical shape of one upstream patent after
// normalization. Heterogeneous upstream field names (publication_number vs
// patent_number, applicant vs assignee, score vs relevance_score) are
// coalesced into this record; absent fields receive documented defaults.
type PatentRecord struct {
	// PatentNumber is the publication identifier (e.g. "EP1234567").
	// Defaults to "UNKNOWN" when the upstream omits it.
	PatentNumber string `json:"patent_number" yaml:"patent_number"`

	// Title is the patent title. Defaults to "Patent Title".
	Title string `json:"title" yaml:"title"`

	// Applicant is the filing party. Defaults to "Unknown".
	Applicant string `json:"applicant" yaml:"applicant"`

	// PublicationDate is the publication (or filing) date as an ISO date
	// string. Defaults to "2024-01-01".
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// RelevanceScore is the upstream similarity score clamped to [0, 1].
	// Defaults to 0.5.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}

// ErrorKind discriminates analysis failure causes. Callers rely on these
// values for user-facing messaging and retry policy.
type ErrorKind string

const (
	ErrConfiguration  ErrorKind = "configuration"
	ErrValidation     ErrorKind = "validation"
	ErrAuthentication ErrorKind = "authentication"
	ErrAPI            ErrorKind = "api_error"
	ErrResponseFormat ErrorKind = "response_format"
	ErrThrottled      ErrorKind = "throttled"
	ErrProcessing     ErrorKind = "processing"
	ErrUnexpected     ErrorKind = "unexpected"
)

// QueryInfo echoes the inputs of a screening query alongside a result.
type QueryInfo struct {
	Title     string `json:"title" yaml:"title"`
	Summary   string `json:"summary" yaml:"summary"`
	Reference string `json:"reference" yaml:"reference"`
}

// AnalysisResult is the uniform outcome of one screening call. It is
// constructed fresh per call and is always well-formed: failures carry an
// Error and ErrorType instead of a raw error crossing the service boundary.
// Only results with Success true are ever cached.
type AnalysisResult struct {
	// Success reports whether the upstream analysis completed.
	Success bool `json:"success" yaml:"success"`

	// Patents holds the normalized patent list (empty on failure).
	Patents []PatentRecord `json:"patents" yaml:"patents"`

	// PatentCount is len(Patents), kept explicit for API consumers.
	PatentCount int `json:"patent_count" yaml:"patent_count"`

	// ComponentName is the component this analysis was run for.
	ComponentName string `json:"component_name,omitempty" yaml:"component_name,omitempty"`

	// Error is a human-readable failure description.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// ErrorType classifies the failure for retry policy.
	ErrorType ErrorKind `json:"error_type,omitempty" yaml:"error_type,omitempty"`

	// RetryAfter is the suggested wait in seconds before retrying.
	// Set on throttled results.
	RetryAfter int `json:"retry_after,omitempty" yaml:"retry_after,omitempty"`

	// FromCache reports whether the payload was served from the cache
	// store without an upstream call.
	FromCache bool `json:"from_cache" yaml:"from_cache"`

	// Throttled reports whether local rate policy blocked the call.
	Throttled bool `json:"throttled" yaml:"throttled"`

	// QueryInfo echoes the query inputs for diagnostics.
	QueryInfo QueryInfo `json:"query_info,omitempty" yaml:"query_info,omitempty"`
}
