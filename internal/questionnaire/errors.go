package questionnaire

import "fmt"

// UnknownQuestionError reports an answer for a question that was never
// generated for the session. Rejecting the call leaves the answer set
// untouched; the session itself stays usable.
type UnknownQuestionError struct {
	QuestionID string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("unknown question: %s", e.QuestionID)
}

// InvalidOptionError reports a selected option that is not among the
// question's options.
type InvalidOptionError struct {
	QuestionID string
	Option     string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("question %s has no option %q", e.QuestionID, e.Option)
}
