package schema

// PreliminaryAnalysis is the AI-produced classification of a case.
// Produced only from a completed IntakeSubmission; never mutated.
type PreliminaryAnalysis struct {
	LegalArea string  `json:"legal_area" yaml:"legal_area"`
	Urgency   Urgency `json:"urgency" yaml:"urgency"`
	Summary   string  `json:"summary" yaml:"summary"`
}
