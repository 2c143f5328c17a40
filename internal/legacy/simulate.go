// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package legacy

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/meshintel/partlens/pkg/types"
)

// assignees are the patent holders used for synthetic rows.
var assignees = []string{
	"Robert Bosch GmbH",
	"Continental AG",
	"ZF Friedrichshafen AG",
	"Schaeffler Group",
	"Magna International",
	"Valeo SA",
}

// categoryBaselines biases the synthetic patent count by component
// category keyword. The default baseline is 15.
var categoryBaselines = []struct {
	keyword string
	count   int
}{
	{"engine", 25},
	{"transmission", 20},
	{"brake", 18},
}

// Simulator generates synthetic degraded-mode analyses. The random source
// is injectable so tests are deterministic.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator returns a simulator seeded from the current time.
func NewSimulator() *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSimulatorWithSource returns a simulator using the given source.
func NewSimulatorWithSource(src rand.Source) *Simulator {
	return &Simulator{rng: rand.New(src)}
}

// Simulate synthesizes a bounded, plausible legacy analysis for a
// component. Every simulated response carries IsSimulated true; callers
// must never strip the flag, since downstream UIs rely on it to disclose
// synthetic data.
func (s *Simulator) Simulate(componentName string) types.LegacyAnalysis {
	base := 15
	lower := strings.ToLower(componentName)
	for _, cb := range categoryBaselines {
		if strings.Contains(lower, cb.keyword) {
			base = cb.count
			break
		}
	}

	patentCount := base + s.rng.Intn(21) - 5 // jitter in [-5, 15]
	if patentCount < 1 {
		patentCount = 1
	}
	score := 55 + s.rng.Intn(41) // [55, 95]

	rowCount := patentCount
	if rowCount > displayPatentLimit {
		rowCount = displayPatentLimit
	}

	return types.LegacyAnalysis{
		PatentCount:     patentCount,
		InnovationScore: score,
		IsSimulated:     true,
		Patents:         s.mockPatents(componentName, rowCount),
		Innovations:     s.sampleInnovations(),
		Summary: types.LegacySummary{
			RiskLevel:          riskLevel(score),
			RecommendedActions: recommendedActions(score),
			KeyFindings:        simulatedKeyFindings(patentCount, score),
		},
	}
}

// mockPatents builds count synthetic rows sorted by similarity descending.
func (s *Simulator) mockPatents(componentName string, count int) []types.LegacyPatent {
	patents := make([]types.LegacyPatent, count)
	for i := range patents {
		office := "EP"
		if s.rng.Float64() > 0.5 {
			office = "US"
		}
		filed := time.Now().AddDate(0, 0, -(365 + s.rng.Intn(2190)))
		similarity := 0.65 + s.rng.Float64()*0.3

		patents[i] = types.LegacyPatent{
			ID:              fmt.Sprintf("%s%d", office, 1000000+s.rng.Intn(9000000)),
			Title:           fmt.Sprintf("Advanced %s Technology", componentName),
			Assignee:        assignees[s.rng.Intn(len(assignees))],
			FilingDate:      filed.Format("2006-01-02"),
			SimilarityScore: round2(similarity),
			Status:          "granted",
			RelevanceScore:  70 + s.rng.Intn(26),
		}
	}

	sort.Slice(patents, func(i, j int) bool {
		return patents[i].SimilarityScore > patents[j].SimilarityScore
	})
	return patents
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// defaultInnovations returns the full catalog for live conversions, which
// keep the innovation panel populated without randomness.
func defaultInnovations() []types.LegacyInnovation {
	return append([]types.LegacyInnovation(nil), innovationCatalog...)
}

// innovationCatalog holds the opportunity templates sampled into
// synthetic analyses.
var innovationCatalog = []types.LegacyInnovation{
	{
		Title:                 "AI-Powered Predictive Maintenance",
		Description:           "Machine learning algorithms for component failure prediction",
		MarketPotential:       "High",
		DevelopmentStage:      "Research",
		EstimatedTimeToMarket: "2-3 years",
		InvestmentRequired:    "€3-7M",
	},
	{
		Title:                 "Next-Generation Material Technology",
		Description:           "Advanced composite materials for improved performance",
		MarketPotential:       "Medium",
		DevelopmentStage:      "Prototype",
		EstimatedTimeToMarket: "1-2 years",
		InvestmentRequired:    "€2-5M",
	},
}

// sampleInnovations picks one or two catalog entries.
func (s *Simulator) sampleInnovations() []types.LegacyInnovation {
	n := 1 + s.rng.Intn(2)
	perm := s.rng.Perm(len(innovationCatalog))
	out := make([]types.LegacyInnovation, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, innovationCatalog[idx])
	}
	return out
}

func simulatedKeyFindings(patentCount, score int) []string {
	findings := []string{densityFinding(patentCount)}

	switch {
	case score > 80:
		findings = append(findings, "Strong innovation potential with multiple development opportunities")
	case score > 60:
		findings = append(findings, "Good innovation potential with selective development focus")
	default:
		findings = append(findings, "Focus on incremental improvements and cost optimization")
	}
	return findings
}
