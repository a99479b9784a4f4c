package assessment

const (
	CapabilitySolutionAssessment = "solution-assessment-pipeline"

	// Producer-enforced minimum for the solution concept field. The web form
	// disables submission below this; the server re-checks it.
	MinConceptChars = 50

	FallbackResearchText = "market research unavailable"
)

type DeploymentContext string

const (
	DeploymentInternal DeploymentContext = "internal"
	DeploymentExternal DeploymentContext = "external"
	DeploymentUnknown  DeploymentContext = "unknown"
)

type Geography string

const (
	GeographyUS      Geography = "us"
	GeographyEU      Geography = "eu"
	GeographyGlobal  Geography = "global"
	GeographyUnknown Geography = "unknown"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ViabilityDimensions are the seven fixed scorecard axes, in report order.
var ViabilityDimensions = []string{
	"Demand Signal",
	"Differentiation",
	"Distribution Ease",
	"Build Complexity",
	"Regulatory Risk",
	"Defensibility",
	"Time-to-Value",
}

// RiskDimensions are the six fixed responsible-AI axes, in report order.
var RiskDimensions = []string{
	"Privacy & Data Protection",
	"Bias & Fairness",
	"Transparency",
	"Safety & Harm",
	"Security & Misuse",
	"Human Oversight",
}

// RequiredReportSections are the headings the generated report must follow.
// The section nav derives anchors from these via SectionID.
var RequiredReportSections = []string{
	"Executive Summary",
	"Problem Framing & Assumptions",
	"Proposed Solution Concept",
	"AI Feasibility Snapshot",
	"Market & Competitive Snapshot",
	"Viability Analysis",
	"Risks, Kill Criteria & Responsible AI",
	"Next Steps for Validation",
}

// SubmissionInput is an immutable snapshot of the form fields at submit time.
// The pipeline never mutates it.
type SubmissionInput struct {
	SolutionConcept string `json:"solution_concept"`
	PrimaryUser     string `json:"primary_user"`
	IndustryDomain  string `json:"industry_domain"`

	ProblemPainPoint          string `json:"problem_pain_point,omitempty"`
	SuccessMetric             string `json:"success_metric,omitempty"`
	Constraints               string `json:"constraints,omitempty"`
	DataAvailability          string `json:"data_availability,omitempty"`
	SensitiveDataTypes        string `json:"sensitive_data_types,omitempty"`
	DifferentiationHypothesis string `json:"differentiation_hypothesis,omitempty"`
	KnownCompetitors          string `json:"known_competitors,omitempty"`
	HighStakesDecisions       bool   `json:"high_stakes_decisions"`

	DeploymentContext DeploymentContext `json:"deployment_context"`
	Geography         Geography         `json:"geography"`
}

type ViabilityScore struct {
	Dimension string `json:"dimension"`
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}

type ResponsibleAIRisk struct {
	Dimension string    `json:"dimension"`
	Level     RiskLevel `json:"level"`
	Rationale string    `json:"rationale"`
}

// AssessmentResult is produced exactly once per successful pipeline run and
// owned by the session afterwards; a reset discards it.
type AssessmentResult struct {
	ViabilityScores       []ViabilityScore    `json:"viabilityScores"`
	MostConstraining      []string            `json:"mostConstraining"`
	ResponsibleAIRisks    []ResponsibleAIRisk `json:"responsibleAIRisks"`
	EUAIActClassification string              `json:"euAiActClassification"`
	ReportMarkdown        string              `json:"reportMarkdown"`
}

// GenerationError is the only error kind that crosses the pipeline boundary.
// Research and notification failures are absorbed before reaching it.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return "assessment generation failed: " + e.Reason + ": " + e.Err.Error()
	}
	return "assessment generation failed: " + e.Reason
}

func (e *GenerationError) Unwrap() error { return e.Err }
