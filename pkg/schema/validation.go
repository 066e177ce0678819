package schema

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidationError reports a rejected intake field. It never creates a session.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateSubmission checks intake form fields before a session is created.
// Returns *ValidationError for the first rejected field.
func ValidateSubmission(s *IntakeSubmission) error {
	if strings.TrimSpace(s.ClientName) == "" {
		return &ValidationError{Field: "client_name", Reason: "required"}
	}
	if len(s.ClientName) > ClientNameMax {
		return &ValidationError{Field: "client_name", Reason: fmt.Sprintf("must be at most %d characters", ClientNameMax)}
	}
	if strings.TrimSpace(s.ClientEmail) == "" {
		return &ValidationError{Field: "client_email", Reason: "required"}
	}
	if !emailPattern.MatchString(s.ClientEmail) {
		return &ValidationError{Field: "client_email", Reason: "malformed email address"}
	}
	if strings.TrimSpace(s.CaseDescription) == "" {
		return &ValidationError{Field: "case_description", Reason: "required"}
	}
	if len(s.CaseDescription) > CaseDescriptionMax {
		return &ValidationError{Field: "case_description", Reason: fmt.Sprintf("must be at most %d characters", CaseDescriptionMax)}
	}
	return nil
}

// ValidateQuestion checks a generated question before it enters a session.
func ValidateQuestion(q *Question) error {
	if q.ID == "" {
		return fmt.Errorf("question id is required")
	}
	if q.Prompt == "" || len(q.Prompt) > QuestionPromptMax {
		return fmt.Errorf("prompt must be 1-%d characters", QuestionPromptMax)
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("question %s: at least one option is required", q.ID)
	}
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if opt == "" || len(opt) > QuestionOptionMax {
			return fmt.Errorf("question %s: options must be 1-%d characters", q.ID, QuestionOptionMax)
		}
		if seen[opt] {
			return fmt.Errorf("question %s: duplicate option %q", q.ID, opt)
		}
		seen[opt] = true
	}
	return nil
}

// ValidateAnalysis checks an analysis received from the AI boundary.
func ValidateAnalysis(a *PreliminaryAnalysis) error {
	if strings.TrimSpace(a.LegalArea) == "" {
		return fmt.Errorf("legal area is required")
	}
	if _, err := ParseUrgency(string(a.Urgency)); err != nil {
		return err
	}
	if strings.TrimSpace(a.Summary) == "" {
		return fmt.Errorf("summary is required")
	}
	return nil
}
