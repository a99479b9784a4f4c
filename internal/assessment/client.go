package assessment

import (
	"context"
	"log"
	"strings"
	"time"
)

const generationTimeout = 120 * time.Second

// Client turns a submission plus research context into a validated
// AssessmentResult with a single generation call. Every unrecoverable fault
// surfaces as *GenerationError; there is no retry.
type Client struct {
	generator Generator
}

func NewClient(generator Generator) *Client {
	return &Client{generator: generator}
}

func (c *Client) Fetch(ctx context.Context, input SubmissionInput, researchText string) (AssessmentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	prompt := buildAssessmentPrompt(input, researchText)
	start := time.Now()
	log.Printf("solution-assessment generate_start model=%s prompt_chars=%d", c.generator.ModelName(), len(prompt))

	raw, err := c.generator.Generate(ctx, assessmentSystemPrompt, prompt)
	if err != nil {
		log.Printf("solution-assessment generate_transport_error elapsed_ms=%d err=%q", time.Since(start).Milliseconds(), err.Error())
		return AssessmentResult{}, &GenerationError{Reason: "generation request failed", Err: err}
	}
	if strings.TrimSpace(raw) == "" {
		log.Printf("solution-assessment generate_empty elapsed_ms=%d", time.Since(start).Milliseconds())
		return AssessmentResult{}, &GenerationError{Reason: "empty model response"}
	}

	result, err := parseAssessment(raw)
	if err != nil {
		log.Printf("solution-assessment generate_coercion_error elapsed_ms=%d err=%q", time.Since(start).Milliseconds(), err.Error())
		return AssessmentResult{}, &GenerationError{Reason: "could not extract assessment from model output", Err: err}
	}
	log.Printf("solution-assessment generate_success elapsed_ms=%d response_chars=%d scores=%d risks=%d",
		time.Since(start).Milliseconds(), len(raw), len(result.ViabilityScores), len(result.ResponsibleAIRisks))
	return result, nil
}
