package assessment

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

const genericFailureMessage = "assessment failed"

var ErrSubmissionInFlight = errors.New("a submission is already in flight")

type Runner interface {
	Run(ctx context.Context, input SubmissionInput) (AssessmentResult, error)
}

// Session drives one logical generate-assessment operation through
// idle -> submitting -> succeeded|failed. Result and error live in a single
// slot written only by the transition handlers.
//
// The UI disables its trigger while submitting, but the session still defends
// against re-entrant submits, and it guards stale completions by request id:
// a run whose id no longer matches (after a reset or a newer submit) resolves
// into a no-op.
type Session struct {
	runner Runner

	mu        sync.Mutex
	state     State
	result    *AssessmentResult
	errorMsg  string
	requestID string
	lastInput SubmissionInput
}

func NewSession(runner Runner) *Session {
	return &Session{runner: runner, state: StateIdle}
}

type Snapshot struct {
	State        State             `json:"state"`
	Result       *AssessmentResult `json:"result,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, Result: s.result, ErrorMessage: s.errorMsg}
}

// Submit starts a run. Legal from idle, succeeded, and failed; rejected while
// one is already submitting.
func (s *Session) Submit(ctx context.Context, input SubmissionInput) error {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrSubmissionInFlight
	}
	id := uuid.NewString()
	s.state = StateSubmitting
	s.errorMsg = ""
	s.result = nil
	s.requestID = id
	s.lastInput = input
	s.mu.Unlock()

	// Outlive the submitting HTTP request; the run is resolved via polling.
	runCtx := context.WithoutCancel(ctx)
	go s.run(runCtx, id, input)
	return nil
}

// Resubmit re-runs the previous submission, the retry action after a failure.
func (s *Session) Resubmit(ctx context.Context) error {
	s.mu.Lock()
	input := s.lastInput
	if strings.TrimSpace(input.SolutionConcept) == "" {
		s.mu.Unlock()
		return errors.New("nothing to resubmit")
	}
	s.mu.Unlock()
	return s.Submit(ctx, input)
}

// Reset returns to idle from any state and discards the held result and
// error. Idempotent; an in-flight run becomes stale and resolves as a no-op.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.result = nil
	s.errorMsg = ""
	s.requestID = ""
	s.lastInput = SubmissionInput{}
}

func (s *Session) run(ctx context.Context, id string, input SubmissionInput) {
	result, err := s.runner.Run(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requestID != id {
		log.Printf("solution-session stale_completion request_id=%s", id)
		return
	}
	if err != nil {
		msg := strings.TrimSpace(err.Error())
		if msg == "" {
			msg = genericFailureMessage
		}
		s.state = StateFailed
		s.errorMsg = msg
		s.result = nil
		return
	}
	s.state = StateSucceeded
	s.result = &result
	s.errorMsg = ""
}
