package webapp

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joelkehle/solution-navigator/internal/assessment"
)

type Metrics struct {
	registry *prometheus.Registry

	SubmissionsTotal       prometheus.Counter
	SucceededTotal         prometheus.Counter
	FailedTotal            prometheus.Counter
	ResearchFallbacksTotal prometheus.Counter
	RunDuration            prometheus.Histogram
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		SubmissionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "navigator_submissions_total",
			Help: "Assessment submissions accepted.",
		}),
		SucceededTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "navigator_assessments_succeeded_total",
			Help: "Pipeline runs that produced a result.",
		}),
		FailedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "navigator_assessments_failed_total",
			Help: "Pipeline runs that ended in a generation error.",
		}),
		ResearchFallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "navigator_research_fallbacks_total",
			Help: "Research fetches that degraded to the fallback text.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "navigator_pipeline_duration_seconds",
			Help:    "Wall time of one pipeline run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	reg.MustRegister(m.SubmissionsTotal, m.SucceededTotal, m.FailedTotal, m.ResearchFallbacksTotal, m.RunDuration)
	return m
}

// instrumentedRunner wraps the pipeline so outcome counters track every run,
// including resubmits, without touching the core package.
type instrumentedRunner struct {
	inner   assessment.Runner
	metrics *Metrics
}

func (r *instrumentedRunner) Run(ctx context.Context, input assessment.SubmissionInput) (assessment.AssessmentResult, error) {
	start := time.Now()
	result, err := r.inner.Run(ctx, input)
	r.metrics.RunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		r.metrics.FailedTotal.Inc()
		return result, err
	}
	r.metrics.SucceededTotal.Inc()
	return result, nil
}

// InstrumentResearch wraps a research fetcher so degraded fetches are counted.
// The fetcher interface has no error channel, so a fallback is recognized by
// the sentinel text itself.
func (m *Metrics) InstrumentResearch(inner assessment.ResearchFetcher) assessment.ResearchFetcher {
	return &instrumentedResearch{inner: inner, metrics: m}
}

type instrumentedResearch struct {
	inner   assessment.ResearchFetcher
	metrics *Metrics
}

func (f *instrumentedResearch) FetchMarketResearch(ctx context.Context, input assessment.SubmissionInput) string {
	text := f.inner.FetchMarketResearch(ctx, input)
	if text == assessment.FallbackResearchText {
		f.metrics.ResearchFallbacksTotal.Inc()
	}
	return text
}
