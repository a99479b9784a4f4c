package assessment

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
	systems  []string
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) ModelName() string { return "fake-model" }

func sampleInput() SubmissionInput {
	return SubmissionInput{
		SolutionConcept:   "An AI copilot that drafts and validates clinical shift handover notes for nurses.",
		PrimaryUser:       "HR managers",
		IndustryDomain:    "Healthcare",
		DeploymentContext: DeploymentUnknown,
		Geography:         GeographyUnknown,
	}
}

func TestClientFetchSuccess(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n" + canonicalResultJSON() + "\n```"}
	result, err := NewClient(gen).Fetch(context.Background(), sampleInput(), "research context here")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(result.ViabilityScores) != 7 || len(result.ResponsibleAIRisks) != 6 {
		t.Fatalf("unexpected result shape: %d scores, %d risks", len(result.ViabilityScores), len(result.ResponsibleAIRisks))
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected single generation attempt, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "research context here") {
		t.Fatal("prompt missing research text")
	}
	if gen.systems[0] != assessmentSystemPrompt {
		t.Fatal("wrong system prompt")
	}
}

func TestClientFetchPromptSubstitutions(t *testing.T) {
	gen := &fakeGenerator{response: canonicalResultJSON()}
	input := sampleInput()
	input.HighStakesDecisions = true
	if _, err := NewClient(gen).Fetch(context.Background(), input, FallbackResearchText); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	prompt := gen.prompts[0]
	for _, want := range []string{
		"PROBLEM / PAIN POINT: Not specified",
		"CONSTRAINTS: None specified",
		"KNOWN COMPETITORS: None specified",
		"HIGH-STAKES DECISIONS: Yes",
		FallbackResearchText,
		"Required JSON schema",
		"## Executive Summary",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestClientFetchTransportError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("status code: 500")}
	_, err := NewClient(gen).Fetch(context.Background(), sampleInput(), "research")
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GenerationError, got %v", err)
	}
}

func TestClientFetchUnparseableOutput(t *testing.T) {
	gen := &fakeGenerator{response: "I could not produce a structured assessment, sorry."}
	_, err := NewClient(gen).Fetch(context.Background(), sampleInput(), "research")
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GenerationError, got %v", err)
	}
}

func TestClientFetchEmptyOutput(t *testing.T) {
	gen := &fakeGenerator{response: "   \n  "}
	_, err := NewClient(gen).Fetch(context.Background(), sampleInput(), "research")
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GenerationError, got %v", err)
	}
}
