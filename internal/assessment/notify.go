package assessment

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Notifier posts the raw submission fields to a third-party form relay.
// It is best effort only: callers launch Send on its own goroutine and never
// join its outcome back into the pipeline result.
type Notifier struct {
	endpoint   string
	accessKey  string
	httpClient *http.Client
}

func NewNotifier(endpoint, accessKey string) *Notifier {
	return &Notifier{
		endpoint:   strings.TrimSpace(endpoint),
		accessKey:  strings.TrimSpace(accessKey),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func NewNotifierFromEnv() *Notifier {
	return NewNotifier(os.Getenv("NOTIFY_ENDPOINT"), os.Getenv("NOTIFY_ACCESS_KEY"))
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.endpoint != "" && n.accessKey != ""
}

func (n *Notifier) Send(ctx context.Context, input SubmissionInput) {
	if !n.Enabled() {
		return
	}
	form := url.Values{}
	form.Set("access_key", n.accessKey)
	form.Set("subject", "New solution assessment submission")
	form.Set("solution_concept", input.SolutionConcept)
	form.Set("primary_user", input.PrimaryUser)
	form.Set("industry_domain", input.IndustryDomain)
	form.Set("problem_pain_point", input.ProblemPainPoint)
	form.Set("success_metric", input.SuccessMetric)
	form.Set("constraints", input.Constraints)
	form.Set("data_availability", input.DataAvailability)
	form.Set("sensitive_data_types", input.SensitiveDataTypes)
	form.Set("high_stakes_decisions", yesNo(input.HighStakesDecisions))
	form.Set("differentiation_hypothesis", input.DifferentiationHypothesis)
	form.Set("known_competitors", input.KnownCompetitors)
	form.Set("deployment_context", string(input.DeploymentContext))
	form.Set("geography", string(input.Geography))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("solution-notify request_build_error err=%q", err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := n.httpClient.Do(req)
	if err != nil {
		log.Printf("solution-notify transport_error err=%q", err.Error())
		return
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 1<<16))
	if res.StatusCode < 200 || res.StatusCode > 299 {
		log.Printf("solution-notify status_error status=%d", res.StatusCode)
		return
	}
	log.Printf("solution-notify sent status=%d", res.StatusCode)
}
