package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
)

var errNoJSONCandidate = errors.New("no JSON object found in model output")

// extractJSONCandidate pulls the most likely JSON payload out of free-form
// model text. Strategies run in order, first success wins:
//  1. interior of the first fenced code block (``` or ```json)
//  2. the raw text itself, if it already starts with '{'
//  3. greedy first-to-last-brace span
//
// There is no repair pass; a candidate that fails to parse fails the call.
func extractJSONCandidate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errNoJSONCandidate
	}
	if fenced, ok := fencedBlock(raw); ok {
		return fenced, nil
	}
	if strings.HasPrefix(raw, "{") {
		return raw, nil
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", errNoJSONCandidate
	}
	return raw[start : end+1], nil
}

func fencedBlock(s string) (string, bool) {
	open := strings.Index(s, "```")
	if open < 0 {
		return "", false
	}
	rest := s[open+3:]
	// Drop an optional language tag on the opening fence line.
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		tag := strings.TrimSpace(rest[:nl])
		if tag == "" || strings.EqualFold(tag, "json") {
			rest = rest[nl+1:]
		}
	}
	closing := strings.Index(rest, "```")
	if closing < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:closing]), true
}

// parseAssessment coerces raw model output into an AssessmentResult and
// applies the structural checks the prompt contract promises.
func parseAssessment(raw string) (AssessmentResult, error) {
	var result AssessmentResult
	candidate, err := extractJSONCandidate(raw)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return result, fmt.Errorf("model output is not valid JSON: %w", err)
	}
	if err := validateResult(result); err != nil {
		return result, err
	}
	return result, nil
}

func validateResult(r AssessmentResult) error {
	if len(r.ViabilityScores) == 0 {
		return errors.New("viabilityScores missing")
	}
	if len(r.MostConstraining) == 0 {
		return errors.New("mostConstraining missing")
	}
	if len(r.ResponsibleAIRisks) == 0 {
		return errors.New("responsibleAIRisks missing")
	}
	if strings.TrimSpace(r.EUAIActClassification) == "" {
		return errors.New("euAiActClassification missing")
	}
	if strings.TrimSpace(r.ReportMarkdown) == "" {
		return errors.New("reportMarkdown missing")
	}
	for _, vs := range r.ViabilityScores {
		if vs.Score < 1 || vs.Score > 5 {
			return fmt.Errorf("viability score out of range for %q: %d", vs.Dimension, vs.Score)
		}
	}
	for _, risk := range r.ResponsibleAIRisks {
		switch risk.Level {
		case RiskLow, RiskMedium, RiskHigh:
		default:
			return fmt.Errorf("invalid risk level for %q: %q", risk.Dimension, risk.Level)
		}
	}
	// Dimension sets that drift from the fixed lists are tolerated; the
	// scorecards render whatever came back, so only log the drift.
	if !sameDimensions(viabilityDims(r.ViabilityScores), ViabilityDimensions) {
		log.Printf("solution-assessment dimension_drift kind=viability got=%d", len(r.ViabilityScores))
	}
	if !sameDimensions(riskDims(r.ResponsibleAIRisks), RiskDimensions) {
		log.Printf("solution-assessment dimension_drift kind=risk got=%d", len(r.ResponsibleAIRisks))
	}
	return nil
}

func viabilityDims(scores []ViabilityScore) []string {
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = s.Dimension
	}
	return out
}

func riskDims(risks []ResponsibleAIRisk) []string {
	out := make([]string, len(risks))
	for i, r := range risks {
		out[i] = r.Dimension
	}
	return out
}

func sameDimensions(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	seen := map[string]struct{}{}
	for _, d := range got {
		seen[strings.TrimSpace(d)] = struct{}{}
	}
	for _, d := range want {
		if _, ok := seen[d]; !ok {
			return false
		}
	}
	return true
}
