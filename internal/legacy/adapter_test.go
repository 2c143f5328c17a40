// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package legacy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/meshintel/partlens/pkg/types"
)

func patentsWithScore(n int, score float64) []types.PatentRecord {
	patents := make([]types.PatentRecord, n)
	for i := range patents {
		patents[i] = types.PatentRecord{
			PatentNumber:    fmt.Sprintf("EP%07d", 1000000+i),
			Title:           "Test Patent",
			Applicant:       fmt.Sprintf("Applicant %d", i),
			PublicationDate: "2023-01-01",
			RelevanceScore:  score,
		}
	}
	return patents
}

func TestInnovationScore(t *testing.T) {
	tests := []struct {
		name    string
		patents []types.PatentRecord
		want    int
	}{
		// avg*100 + count/10*10, capped at 95; empty list averages 0.
		{"no patents", nil, 0},
		{"ten at 0.5", patentsWithScore(10, 0.5), 60},
		{"five at 0.8", patentsWithScore(5, 0.8), 85},
		{"capped at 95", patentsWithScore(30, 0.9), 95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := innovationScore(tt.patents); got != tt.want {
				t.Errorf("innovationScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "high"},
		{81, "high"},
		{80, "medium"},
		{61, "medium"},
		{60, "low"},
		{0, "low"},
	}
	for _, tt := range tests {
		if got := riskLevel(tt.score); got != tt.want {
			t.Errorf("riskLevel(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestConvertTruncatesDisplayRows(t *testing.T) {
	result := types.AnalysisResult{
		Success: true,
		Patents: patentsWithScore(20, 0.7),
	}

	analysis := Convert(result, "Gearbox")
	if analysis.PatentCount != 20 {
		t.Errorf("patent count = %d, want the full 20", analysis.PatentCount)
	}
	if len(analysis.Patents) != 8 {
		t.Errorf("display rows = %d, want 8", len(analysis.Patents))
	}
	if analysis.IsSimulated {
		t.Error("live conversion flagged as simulated")
	}
}

func TestConvertRowMapping(t *testing.T) {
	result := types.AnalysisResult{
		Success: true,
		Patents: []types.PatentRecord{{
			PatentNumber:    "US7654321",
			Title:           "Torque Converter Lockup",
			Applicant:       "Schaeffler Group",
			PublicationDate: "2022-06-30",
			RelevanceScore:  0.83,
		}},
	}

	analysis := Convert(result, "Torque Converter")
	row := analysis.Patents[0]
	if row.ID != "US7654321" {
		t.Errorf("id = %q", row.ID)
	}
	if row.Assignee != "Schaeffler Group" {
		t.Errorf("assignee = %q", row.Assignee)
	}
	if row.FilingDate != "2022-06-30" {
		t.Errorf("filingDate = %q", row.FilingDate)
	}
	if row.SimilarityScore != 0.83 {
		t.Errorf("similarityScore = %v", row.SimilarityScore)
	}
	if row.Status != "granted" {
		t.Errorf("status = %q, want granted", row.Status)
	}
	if row.RelevanceScore != 83 {
		t.Errorf("relevanceScore = %d, want 83", row.RelevanceScore)
	}
}

func TestConvertSummary(t *testing.T) {
	patents := patentsWithScore(20, 0.9)
	patents[0].RelevanceScore = 0.95
	result := types.AnalysisResult{Success: true, Patents: patents}

	analysis := Convert(result, "Engine Block")
	if analysis.Summary.RiskLevel != "high" {
		t.Errorf("risk = %q, want high", analysis.Summary.RiskLevel)
	}
	if len(analysis.Summary.RecommendedActions) != 3 {
		t.Errorf("got %d recommended actions, want 3", len(analysis.Summary.RecommendedActions))
	}

	findings := analysis.Summary.KeyFindings
	if len(findings) == 0 {
		t.Fatal("no key findings")
	}
	if !strings.Contains(findings[0], "Moderate patent activity (20 patents)") {
		t.Errorf("density finding = %q", findings[0])
	}

	var hasHolders, hasHighCount bool
	for _, f := range findings {
		if strings.HasPrefix(f, "Key patent holders: ") {
			hasHolders = true
			if strings.Count(f, ",") != 2 {
				t.Errorf("holders finding lists wrong number of applicants: %q", f)
			}
		}
		if f == "20 highly relevant patents found" {
			hasHighCount = true
		}
	}
	if !hasHolders {
		t.Error("missing patent holders finding")
	}
	if !hasHighCount {
		t.Errorf("missing high-relevance finding in %v", findings)
	}
}

func TestConvertHoldersSampledFromFirstFive(t *testing.T) {
	// Applicants beyond the fifth row never appear in the holders
	// finding, even when the first rows repeat.
	patents := patentsWithScore(10, 0.7)
	for i := 0; i < 5; i++ {
		patents[i].Applicant = "Robert Bosch GmbH"
	}
	patents[5].Applicant = "Continental AG"

	analysis := Convert(types.AnalysisResult{Success: true, Patents: patents}, "Sensor")
	for _, f := range analysis.Summary.KeyFindings {
		if !strings.HasPrefix(f, "Key patent holders: ") {
			continue
		}
		if f != "Key patent holders: Robert Bosch GmbH" {
			t.Errorf("holders finding = %q, want only the sampled applicant", f)
		}
		return
	}
	t.Error("missing patent holders finding")
}

func TestConvertEmptyResult(t *testing.T) {
	analysis := Convert(types.AnalysisResult{Success: true}, "Washer")
	if analysis.PatentCount != 0 {
		t.Errorf("patent count = %d, want 0", analysis.PatentCount)
	}
	if len(analysis.Patents) != 0 {
		t.Errorf("display rows = %d, want 0", len(analysis.Patents))
	}
	if analysis.InnovationScore != 0 {
		t.Errorf("score = %d, want 0", analysis.InnovationScore)
	}
	if analysis.Summary.RiskLevel != "low" {
		t.Errorf("risk = %q, want low", analysis.Summary.RiskLevel)
	}
	if len(analysis.Innovations) == 0 {
		t.Error("live conversion has no innovations")
	}
	if !strings.Contains(analysis.Summary.KeyFindings[0], "Limited patent activity") {
		t.Errorf("density finding = %q", analysis.Summary.KeyFindings[0])
	}
}

func TestDensityFinding(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{31, "High patent density"},
		{30, "Moderate patent activity"},
		{16, "Moderate patent activity"},
		{15, "Limited patent activity"},
		{0, "Limited patent activity"},
	}
	for _, tt := range tests {
		if got := densityFinding(tt.count); !strings.Contains(got, tt.want) {
			t.Errorf("densityFinding(%d) = %q, want prefix %q", tt.count, got, tt.want)
		}
	}
}
