package webapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joelkehle/solution-navigator/internal/assessment"
)

type Server struct {
	runner      assessment.Runner
	store       *SessionStore
	webDir      string
	pdfRenderer ReportPDFRenderer
	metrics     *Metrics
}

func NewServer(runner assessment.Runner, webDir string, metrics *Metrics) http.Handler {
	return newServer(runner, webDir, NewChromiumPDFRenderer(webDir), metrics)
}

func newServer(runner assessment.Runner, webDir string, pdfRenderer ReportPDFRenderer, metrics *Metrics) http.Handler {
	s := &Server{
		runner:      &instrumentedRunner{inner: runner, metrics: metrics},
		store:       NewSessionStore(),
		webDir:      webDir,
		pdfRenderer: pdfRenderer,
		metrics:     metrics,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/submit", s.handleSubmit)
	mux.HandleFunc("/status/", s.handleStatus)
	mux.HandleFunc("/result/", s.handleResult)
	mux.HandleFunc("/report/", s.handleReport)
	mux.HandleFunc("/report-pdf/", s.handleReportPDF)
	mux.HandleFunc("/resubmit/", s.handleResubmit)
	mux.HandleFunc("/reset/", s.handleReset)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	// Prevent stale frontend bundles from breaking the UI after deploys.
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Path == "/" || r.URL.Path == "/index.html" {
		http.ServeFile(w, r, filepath.Join(s.webDir, "index.html"))
		return
	}
	path := filepath.Join(s.webDir, filepath.Clean(r.URL.Path))
	if _, err := fs.Stat(os.DirFS(s.webDir), strings.TrimPrefix(filepath.Clean(r.URL.Path), "/")); err == nil {
		http.ServeFile(w, r, path)
		return
	}
	http.NotFound(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, 400, "invalid form")
		return
	}
	input := inputFromForm(r)
	if err := validateInput(input); err != nil {
		writeError(w, 400, err.Error())
		return
	}

	session := assessment.NewSession(s.runner)
	token := s.store.Create(session)
	if err := session.Submit(r.Context(), input); err != nil {
		writeError(w, 409, err.Error())
		return
	}
	s.metrics.SubmissionsTotal.Inc()
	log.Printf("navigator-web submitted token=%s industry=%q", token, input.IndustryDomain)
	writeJSON(w, 200, map[string]any{"token": token, "state": assessment.StateSubmitting})
}

func inputFromForm(r *http.Request) assessment.SubmissionInput {
	get := func(key string) string { return strings.TrimSpace(r.FormValue(key)) }
	return assessment.SubmissionInput{
		SolutionConcept:           get("solution_concept"),
		PrimaryUser:               get("primary_user"),
		IndustryDomain:            get("industry_domain"),
		ProblemPainPoint:          get("problem_pain_point"),
		SuccessMetric:             get("success_metric"),
		Constraints:               get("constraints"),
		DataAvailability:          get("data_availability"),
		SensitiveDataTypes:        get("sensitive_data_types"),
		DifferentiationHypothesis: get("differentiation_hypothesis"),
		KnownCompetitors:          get("known_competitors"),
		HighStakesDecisions:       get("high_stakes_decisions") == "true" || get("high_stakes_decisions") == "on",
		DeploymentContext:         parseDeployment(get("deployment_context")),
		Geography:                 parseGeography(get("geography")),
	}
}

func parseDeployment(v string) assessment.DeploymentContext {
	switch assessment.DeploymentContext(strings.ToLower(v)) {
	case assessment.DeploymentInternal, assessment.DeploymentExternal:
		return assessment.DeploymentContext(strings.ToLower(v))
	default:
		return assessment.DeploymentUnknown
	}
}

func parseGeography(v string) assessment.Geography {
	switch assessment.Geography(strings.ToLower(v)) {
	case assessment.GeographyUS, assessment.GeographyEU, assessment.GeographyGlobal:
		return assessment.Geography(strings.ToLower(v))
	default:
		return assessment.GeographyUnknown
	}
}

func validateInput(input assessment.SubmissionInput) error {
	if len(input.SolutionConcept) < assessment.MinConceptChars {
		return fmt.Errorf("solution_concept must be at least %d characters", assessment.MinConceptChars)
	}
	if input.PrimaryUser == "" {
		return errors.New("primary_user is required")
	}
	if input.IndustryDomain == "" {
		return errors.New("industry_domain is required")
	}
	return nil
}

func (s *Server) sessionFromPath(w http.ResponseWriter, r *http.Request, prefix string) (*assessment.Session, string) {
	token := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if token == "" {
		writeError(w, 400, "token is required")
		return nil, ""
	}
	session := s.store.Get(token)
	if session == nil {
		writeError(w, 404, "session not found")
		return nil, ""
	}
	return session, token
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := s.sessionFromPath(w, r, "/status/")
	if session == nil {
		return
	}
	snap := session.Snapshot()
	writeJSON(w, 200, map[string]any{
		"state":         snap.State,
		"error_message": snap.ErrorMessage,
		"ready":         snap.State == assessment.StateSucceeded,
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := s.sessionFromPath(w, r, "/result/")
	if session == nil {
		return
	}
	snap := session.Snapshot()
	if snap.State != assessment.StateSucceeded || snap.Result == nil {
		writeError(w, 409, "assessment not ready")
		return
	}
	writeJSON(w, 200, snap.Result)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, token := s.sessionFromPath(w, r, "/report/")
	if session == nil {
		return
	}
	snap := session.Snapshot()
	if snap.State != assessment.StateSucceeded || snap.Result == nil {
		writeError(w, 409, "assessment not ready")
		return
	}
	pageHTML, err := buildReportPage(*snap.Result, token)
	if err != nil {
		log.Printf("navigator-web report_render_error token=%s err=%q", token, err.Error())
		writeError(w, 500, "failed to render report")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(pageHTML))
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := s.sessionFromPath(w, r, "/report-pdf/")
	if session == nil {
		return
	}
	snap := session.Snapshot()
	if snap.State != assessment.StateSucceeded || snap.Result == nil {
		writeError(w, 409, "assessment not ready")
		return
	}
	pdf, err := s.pdfRenderer.Render(r.Context(), *snap.Result)
	if err != nil {
		log.Printf("navigator-web pdf_render_error err=%q", err.Error())
		writeError(w, 500, "failed to render PDF")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="solution-assessment.pdf"`)
	_, _ = w.Write(pdf)
}

func (s *Server) handleResubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := s.sessionFromPath(w, r, "/resubmit/")
	if session == nil {
		return
	}
	if err := session.Resubmit(r.Context()); err != nil {
		status := 400
		if errors.Is(err, assessment.ErrSubmissionInFlight) {
			status = 409
		}
		writeError(w, status, err.Error())
		return
	}
	s.metrics.SubmissionsTotal.Inc()
	writeJSON(w, 200, map[string]any{"state": assessment.StateSubmitting})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := s.sessionFromPath(w, r, "/reset/")
	if session == nil {
		return
	}
	session.Reset()
	writeJSON(w, 200, map[string]any{"state": assessment.StateIdle})
}
