package llm

import (
	"fmt"
	"strings"

	"litgo/pkg/schema"
)

// BuildAnalysisPrompt creates the prompt for preliminary case analysis.
func BuildAnalysisPrompt(caseDescription string) string {
	return fmt.Sprintf(`You are performing the initial triage of a legal case submitted by a client.

CASE DESCRIPTION:
"%s"

Classify the case and produce a one-paragraph synthesis.

RULES:
1. legal_area is a short classification label (e.g. "Civil Law", "Labor Law", "Consumer Law", "Family Law", "Criminal Law")
2. urgency is exactly one of: low, medium, high
3. summary is one paragraph restating the case in neutral legal language

Return ONLY valid JSON with this exact structure:
{
  "legal_area": "string",
  "urgency": "low|medium|high",
  "summary": "string"
}`, caseDescription)
}

// BuildQuestionPlanPrompt creates the prompt for area-specific follow-up
// questions. The plan must stay multiple-choice so answers can be validated
// against a closed option list.
func BuildQuestionPlanPrompt(analysis *schema.PreliminaryAnalysis) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`Plan follow-up intake questions for a legal case already classified as:
- Legal area: %s
- Urgency: %s
- Summary: %s

`, analysis.LegalArea, analysis.Urgency, analysis.Summary))

	sb.WriteString(`RULES:
1. Between 1 and 6 questions
2. Every question is multiple-choice with 2 to 6 short options
3. Options within a question must be unique
4. Questions must help a lawyer assess the case, not re-ask the description

Return ONLY valid JSON with this exact structure:
{
  "questions": [
    {
      "prompt": "string",
      "options": ["string", "string"]
    }
  ]
}`)

	return sb.String()
}
