package schema

import "fmt"

// Urgency represents the AI-assessed urgency of a case.
type Urgency string

const (
	UrgencyLow    Urgency = "low"    // No imminent deadline or harm
	UrgencyMedium Urgency = "medium" // Should be handled within weeks
	UrgencyHigh   Urgency = "high"   // Imminent deadline or ongoing harm
)

// ParseUrgency converts a boundary string into an Urgency.
func ParseUrgency(s string) (Urgency, error) {
	switch Urgency(s) {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return Urgency(s), nil
	default:
		return "", fmt.Errorf("invalid urgency: %q", s)
	}
}

// SessionState represents the lifecycle state of a triage session.
type SessionState string

const (
	StateCollecting   SessionState = "collecting"
	StateAnalyzing    SessionState = "analyzing"
	StateQuestioning  SessionState = "questioning"
	StateSynthesizing SessionState = "synthesizing"
	StateCompleted    SessionState = "completed"
	StateFailed       SessionState = "failed"
)

// FailureReason categorizes why a session is parked in StateFailed.
type FailureReason string

const (
	ReasonNone                FailureReason = ""
	ReasonAnalysisUnavailable FailureReason = "analysis_unavailable"
	ReasonSynthesisFailed     FailureReason = "synthesis_failed"
)

// ValidationLimits defines the constraints for intake and question fields.
const (
	ClientNameMax      = 200
	CaseDescriptionMax = 5000
	QuestionPromptMax  = 300
	QuestionOptionMax  = 120
)
