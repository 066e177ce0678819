package schema

// IntakeSubmission is the client identity and case description captured by
// the intake form. Immutable once submitted; consumed exactly once by the
// analysis client.
type IntakeSubmission struct {
	ClientName      string `json:"client_name" yaml:"client_name"`
	ClientEmail     string `json:"client_email" yaml:"client_email"`
	CaseDescription string `json:"case_description" yaml:"case_description"`
}
