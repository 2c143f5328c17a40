// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LegacyPatent is a patent row in the legacy response shape consumed by the
// original visualization UI. Field names are camelCase by contract.
type LegacyPatent struct {
	// ID is the patent publication identifier.
	ID string `json:"id"`

	// Title is the patent title.
	Title string `json:"title"`

	// Assignee is the patent holder shown in the UI.
	Assignee string `json:"assignee"`

	// FilingDate is an ISO date string.
	FilingDate string `json:"filingDate"`

	// SimilarityScore is the relevance score in [0, 1].
	SimilarityScore float64 `json:"similarityScore"`

	// Status is the legal status; the upstream does not report it, so
	// converted rows carry "granted".
	Status string `json:"status"`

	// RelevanceScore is the similarity score scaled to 0-100.
	RelevanceScore int `json:"relevanceScore"`
}

// LegacyInnovation describes an innovation opportunity row in the legacy
// response shape.
type LegacyInnovation struct {
	Title                 string `json:"title"`
	Description           string `json:"description"`
	MarketPotential       string `json:"marketPotential"`
	DevelopmentStage      string `json:"developmentStage"`
	EstimatedTimeToMarket string `json:"estimatedTimeToMarket"`
	InvestmentRequired    string `json:"investmentRequired"`
}

// LegacySummary aggregates the risk assessment of a legacy analysis.
type LegacySummary struct {
	RiskLevel          string   `json:"riskLevel"`
	RecommendedActions []string `json:"recommendedActions"`
	KeyFindings        []string `json:"keyFindings"`
}

// LegacyAnalysis is the older externally-consumed analysis shape. Both the
// live-data adapter and the simulation fallback produce it; IsSimulated
// distinguishes synthetic from live data and is mandatory on every
// simulated response.
type LegacyAnalysis struct {
	PatentCount     int                `json:"patentCount"`
	InnovationScore int                `json:"innovationScore"`
	IsSimulated     bool               `json:"isSimulated"`
	Patents         []LegacyPatent     `json:"patents"`
	Innovations     []LegacyInnovation `json:"innovations"`
	Summary         LegacySummary      `json:"summary"`
}
