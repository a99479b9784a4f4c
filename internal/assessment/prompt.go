package assessment

import (
	"fmt"
	"strings"
)

const researchSystemPrompt = "You are a factual, well-sourced market analyst. " +
	"Summarize current market conditions, named competitors, and adoption signals. Cite source URLs inline."

const assessmentSystemPrompt = "You are a pragmatic AI product analyst for an enterprise assessment tool. " +
	"You evaluate proposed AI solutions conservatively, you do not invent facts, and you return exactly one JSON object."

const assessmentSchemaPrompt = `Required JSON schema:
{
  "viabilityScores": [{"dimension":"string","score":"int 1-5","rationale":"string"}],
  "mostConstraining": ["string"],
  "responsibleAIRisks": [{"dimension":"string","level":"Low|Medium|High","rationale":"string"}],
  "euAiActClassification": "string",
  "reportMarkdown": "string"
}

viabilityScores must contain exactly these 7 dimensions, in order:
Demand Signal, Differentiation, Distribution Ease, Build Complexity, Regulatory Risk, Defensibility, Time-to-Value.

responsibleAIRisks must contain exactly these 6 dimensions, in order:
Privacy & Data Protection, Bias & Fairness, Transparency, Safety & Harm, Security & Misuse, Human Oversight.

mostConstraining lists the 2-3 viability dimensions that most limit this concept.`

const reportStructurePrompt = `reportMarkdown must be a complete GitHub-flavored markdown report using exactly these H2 sections, in order:
## Executive Summary
## Problem Framing & Assumptions
## Proposed Solution Concept
## AI Feasibility Snapshot
## Market & Competitive Snapshot
## Viability Analysis
## Risks, Kill Criteria & Responsible AI
## Next Steps for Validation

Viability Analysis and Risks, Kill Criteria & Responsible AI must include markdown tables mirroring the JSON scores and risk levels. Next Steps for Validation must include concrete validation actions and go/no-go criteria.`

// buildResearchQuery interpolates the submission into a single research
// question for the market-research service.
func buildResearchQuery(input SubmissionInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provide a concise market and competitive snapshot for the following proposed AI product.\n\n")
	fmt.Fprintf(&b, "Industry: %s\n", input.IndustryDomain)
	fmt.Fprintf(&b, "Primary user: %s\n", input.PrimaryUser)
	fmt.Fprintf(&b, "Solution concept: %s\n", input.SolutionConcept)
	if strings.TrimSpace(input.KnownCompetitors) != "" {
		fmt.Fprintf(&b, "Known competitors to verify and expand on: %s\n", input.KnownCompetitors)
	}
	fmt.Fprintf(&b, "\nCover market size signals, named competitors, buyer behavior, and recent relevant developments. Cite URLs.")
	return b.String()
}

// buildAssessmentPrompt renders every submission field plus the research text
// and the literal output contracts into one user message. Empty optional
// fields are substituted explicitly so the model never sees blank values.
func buildAssessmentPrompt(input SubmissionInput, researchText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assess the following proposed AI solution.\n\n")
	fmt.Fprintf(&b, "SOLUTION CONCEPT:\n%s\n\n", input.SolutionConcept)
	fmt.Fprintf(&b, "PRIMARY USER: %s\n", input.PrimaryUser)
	fmt.Fprintf(&b, "INDUSTRY / DOMAIN: %s\n", input.IndustryDomain)
	fmt.Fprintf(&b, "PROBLEM / PAIN POINT: %s\n", orNotSpecified(input.ProblemPainPoint))
	fmt.Fprintf(&b, "SUCCESS METRIC: %s\n", orNotSpecified(input.SuccessMetric))
	fmt.Fprintf(&b, "CONSTRAINTS: %s\n", orNoneSpecified(input.Constraints))
	fmt.Fprintf(&b, "DATA AVAILABILITY: %s\n", orNotSpecified(input.DataAvailability))
	fmt.Fprintf(&b, "SENSITIVE DATA TYPES: %s\n", orNoneSpecified(input.SensitiveDataTypes))
	fmt.Fprintf(&b, "HIGH-STAKES DECISIONS: %s\n", yesNo(input.HighStakesDecisions))
	fmt.Fprintf(&b, "DIFFERENTIATION HYPOTHESIS: %s\n", orNotSpecified(input.DifferentiationHypothesis))
	fmt.Fprintf(&b, "KNOWN COMPETITORS: %s\n", orNoneSpecified(input.KnownCompetitors))
	fmt.Fprintf(&b, "DEPLOYMENT CONTEXT: %s\n", input.DeploymentContext)
	fmt.Fprintf(&b, "GEOGRAPHY: %s\n\n", input.Geography)
	fmt.Fprintf(&b, "MARKET RESEARCH CONTEXT:\n%s\n\n", researchText)
	b.WriteString(assessmentSchemaPrompt)
	b.WriteString("\n\n")
	b.WriteString(reportStructurePrompt)
	b.WriteString("\n\nReturn the JSON object only. No prose before or after it.")
	return b.String()
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

func orNoneSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None specified"
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
