// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package legacy converts screening results into the older response shape
// the original visualization UI consumes, and synthesizes plausible patent
// data when the live path is unusable. Synthetic responses always carry
// isSimulated true so downstream consumers can disclose them.
package legacy

import (
	"fmt"
	"math"

	"github.com/meshintel/partlens/pkg/types"
)

// displayPatentLimit caps how many patent rows the UI renders.
const displayPatentLimit = 8

// Convert maps a successful AnalysisResult into the legacy shape.
// The innovation score follows the historical formula
// min(95, round(avg_relevance*100 + count/10*10)); risk is high above 80,
// medium above 60, low otherwise.
func Convert(result types.AnalysisResult, componentName string) types.LegacyAnalysis {
	patents := result.Patents
	count := len(patents)

	rows := make([]types.LegacyPatent, 0, displayPatentLimit)
	for _, p := range patents {
		if len(rows) == displayPatentLimit {
			break
		}
		rows = append(rows, types.LegacyPatent{
			ID:              p.PatentNumber,
			Title:           p.Title,
			Assignee:        p.Applicant,
			FilingDate:      p.PublicationDate,
			SimilarityScore: p.RelevanceScore,
			// Upstream does not report legal status.
			Status:         "granted",
			RelevanceScore: int(p.RelevanceScore * 100),
		})
	}

	score := innovationScore(patents)
	return types.LegacyAnalysis{
		PatentCount:     count,
		InnovationScore: score,
		IsSimulated:     false,
		Patents:         rows,
		Innovations:     defaultInnovations(),
		Summary: types.LegacySummary{
			RiskLevel:          riskLevel(score),
			RecommendedActions: recommendedActions(score),
			KeyFindings:        liveKeyFindings(patents, count, score),
		},
	}
}

// innovationScore derives a 0-95 score from mean relevance and patent count.
// An empty list averages to zero, so a zero-patent conversion scores 0.
func innovationScore(patents []types.PatentRecord) int {
	var avg float64
	if len(patents) > 0 {
		var sum float64
		for _, p := range patents {
			sum += p.RelevanceScore
		}
		avg = sum / float64(len(patents))
	}

	score := int(math.Round(avg*100 + float64(len(patents))/10*10))
	if score > 95 {
		score = 95
	}
	return score
}

func riskLevel(score int) string {
	switch {
	case score > 80:
		return "high"
	case score > 60:
		return "medium"
	default:
		return "low"
	}
}

func recommendedActions(score int) []string {
	switch {
	case score > 80:
		return []string{
			"Consider patent filing for key innovations",
			"Conduct comprehensive freedom-to-operate analysis",
			"Monitor competitor patent activity closely",
		}
	case score > 60:
		return []string{
			"Review existing patent landscape thoroughly",
			"Identify potential innovation gaps",
			"Consider R&D investment priorities",
		}
	default:
		return []string{
			"Focus on incremental improvements",
			"Monitor industry trends",
			"Consider partnership opportunities",
		}
	}
}

// liveKeyFindings summarizes real API data: patent density, the top
// applicants, and the share of highly relevant hits.
func liveKeyFindings(patents []types.PatentRecord, count, score int) []string {
	findings := []string{densityFinding(count)}

	if len(patents) > 0 {
		// Sample holders from the first 5 rows only, deduplicated to 3,
		// matching the historical summary contract.
		sample := patents
		if len(sample) > 5 {
			sample = sample[:5]
		}
		seen := make(map[string]bool)
		var top []string
		for _, p := range sample {
			if len(top) == 3 {
				break
			}
			if p.Applicant == "" || seen[p.Applicant] {
				continue
			}
			seen[p.Applicant] = true
			top = append(top, p.Applicant)
		}
		if len(top) > 0 {
			findings = append(findings, "Key patent holders: "+joinComma(top))
		}

		high := 0
		for _, p := range patents {
			if p.RelevanceScore > 0.8 {
				high++
			}
		}
		if high > 0 {
			findings = append(findings, fmt.Sprintf("%d highly relevant patents found", high))
		}
	}

	return findings
}

func densityFinding(count int) string {
	switch {
	case count > 30:
		return fmt.Sprintf("High patent density (%d patents) indicates active innovation area", count)
	case count > 15:
		return fmt.Sprintf("Moderate patent activity (%d patents) in this technology space", count)
	default:
		return fmt.Sprintf("Limited patent activity (%d patents) suggests opportunity for innovation", count)
	}
}

func joinComma(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}
