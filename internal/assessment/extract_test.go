package assessment

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func canonicalResultJSON() string {
	scores := make([]ViabilityScore, 0, len(ViabilityDimensions))
	for i, d := range ViabilityDimensions {
		scores = append(scores, ViabilityScore{Dimension: d, Score: (i % 5) + 1, Rationale: "because"})
	}
	risks := make([]ResponsibleAIRisk, 0, len(RiskDimensions))
	levels := []RiskLevel{RiskLow, RiskMedium, RiskHigh}
	for i, d := range RiskDimensions {
		risks = append(risks, ResponsibleAIRisk{Dimension: d, Level: levels[i%3], Rationale: "because"})
	}
	var report strings.Builder
	report.WriteString("# AI Solution Assessment\n\n")
	for _, h := range RequiredReportSections {
		fmt.Fprintf(&report, "## %s\n\nContent.\n\n", h)
	}
	b, _ := json.Marshal(AssessmentResult{
		ViabilityScores:       scores,
		MostConstraining:      []string{"Build Complexity", "Differentiation"},
		ResponsibleAIRisks:    risks,
		EUAIActClassification: "Limited Risk (transparency obligations apply)",
		ReportMarkdown:        report.String(),
	})
	return string(b)
}

func TestExtractJSONCandidateFencedBlock(t *testing.T) {
	raw := "Here you go:\n```json\n" + `{"a":1}` + "\n```\nEnjoy"
	got, err := extractJSONCandidate(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != `{"a":1}` {
		t.Fatalf("expected fenced interior, got %q", got)
	}
}

func TestExtractJSONCandidateFencedBlockNoTag(t *testing.T) {
	raw := "```\n{\"a\":1}\n```"
	got, err := extractJSONCandidate(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != `{"a":1}` {
		t.Fatalf("expected fenced interior, got %q", got)
	}
}

func TestExtractJSONCandidateBareObject(t *testing.T) {
	raw := `{"a":1}`
	got, err := extractJSONCandidate(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != raw {
		t.Fatalf("expected raw object, got %q", got)
	}
}

func TestExtractJSONCandidateBraceSpan(t *testing.T) {
	raw := `The model says: {"a":{"b":2}} and that is all.`
	got, err := extractJSONCandidate(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != `{"a":{"b":2}}` {
		t.Fatalf("expected brace span, got %q", got)
	}
}

func TestExtractJSONCandidateNoJSON(t *testing.T) {
	for _, raw := range []string{"", "no json here", "only } a closing brace"} {
		if _, err := extractJSONCandidate(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseAssessmentCanonical(t *testing.T) {
	raw := "Sure, here is the assessment:\n```json\n" + canonicalResultJSON() + "\n```\nLet me know if you need anything else."
	result, err := parseAssessment(raw)
	if err != nil {
		t.Fatalf("parseAssessment: %v", err)
	}
	if len(result.ViabilityScores) != 7 {
		t.Fatalf("expected 7 viability scores, got %d", len(result.ViabilityScores))
	}
	if len(result.ResponsibleAIRisks) != 6 {
		t.Fatalf("expected 6 risks, got %d", len(result.ResponsibleAIRisks))
	}
	for _, h := range RequiredReportSections {
		if !strings.Contains(result.ReportMarkdown, "## "+h) {
			t.Fatalf("report missing section %q", h)
		}
	}
}

func TestParseAssessmentInvalidJSON(t *testing.T) {
	if _, err := parseAssessment("```json\n{not json}\n```"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseAssessmentValidation(t *testing.T) {
	base := func() AssessmentResult {
		var r AssessmentResult
		_ = json.Unmarshal([]byte(canonicalResultJSON()), &r)
		return r
	}
	cases := []struct {
		name   string
		mutate func(*AssessmentResult)
	}{
		{"score too high", func(r *AssessmentResult) { r.ViabilityScores[0].Score = 6 }},
		{"score too low", func(r *AssessmentResult) { r.ViabilityScores[2].Score = 0 }},
		{"bad risk level", func(r *AssessmentResult) { r.ResponsibleAIRisks[1].Level = "Severe" }},
		{"no scores", func(r *AssessmentResult) { r.ViabilityScores = nil }},
		{"no risks", func(r *AssessmentResult) { r.ResponsibleAIRisks = nil }},
		{"no constraining dimensions", func(r *AssessmentResult) { r.MostConstraining = nil }},
		{"no classification", func(r *AssessmentResult) { r.EUAIActClassification = " " }},
		{"no report", func(r *AssessmentResult) { r.ReportMarkdown = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := base()
			tc.mutate(&r)
			b, _ := json.Marshal(r)
			if _, err := parseAssessment(string(b)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestParseAssessmentToleratesDimensionDrift(t *testing.T) {
	var r AssessmentResult
	_ = json.Unmarshal([]byte(canonicalResultJSON()), &r)
	r.ViabilityScores[0].Dimension = "Market Pull"
	b, _ := json.Marshal(r)
	got, err := parseAssessment(string(b))
	if err != nil {
		t.Fatalf("drifted dimensions should pass through: %v", err)
	}
	if got.ViabilityScores[0].Dimension != "Market Pull" {
		t.Fatalf("expected drifted dimension preserved, got %q", got.ViabilityScores[0].Dimension)
	}
}
