package assessment

import (
	"context"
	"log"
	"time"
)

type ResearchFetcher interface {
	FetchMarketResearch(ctx context.Context, input SubmissionInput) string
}

type AssessmentFetcher interface {
	Fetch(ctx context.Context, input SubmissionInput, researchText string) (AssessmentResult, error)
}

type SubmissionNotifier interface {
	Enabled() bool
	Send(ctx context.Context, input SubmissionInput)
}

// Pipeline sequences notification (detached) -> research -> assessment.
// Research always yields text (fallback on failure); only the assessment step
// can fail the run, and it fails with *GenerationError.
type Pipeline struct {
	research ResearchFetcher
	assess   AssessmentFetcher
	notifier SubmissionNotifier
}

func NewPipeline(research ResearchFetcher, assess AssessmentFetcher, notifier SubmissionNotifier) *Pipeline {
	return &Pipeline{research: research, assess: assess, notifier: notifier}
}

func (p *Pipeline) Run(ctx context.Context, input SubmissionInput) (AssessmentResult, error) {
	start := time.Now()

	if p.notifier != nil && p.notifier.Enabled() {
		// Detached from the request lifecycle so a reset or completion
		// cannot cancel it, and its failure cannot surface here.
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		go func() {
			defer cancel()
			p.notifier.Send(notifyCtx, input)
		}()
	}

	researchText := p.research.FetchMarketResearch(ctx, input)

	result, err := p.assess.Fetch(ctx, input, researchText)
	if err != nil {
		log.Printf("solution-pipeline failed elapsed_ms=%d err=%q", time.Since(start).Milliseconds(), err.Error())
		return AssessmentResult{}, err
	}
	log.Printf("solution-pipeline complete elapsed_ms=%d", time.Since(start).Milliseconds())
	return result, nil
}
