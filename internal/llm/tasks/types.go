package tasks

// Analysis Task Types

// AnalysisInput is the input for the preliminary case analysis task.
type AnalysisInput struct {
	CaseDescription string `json:"case_description"`
}

// AnalysisOutput is the output from the analysis task.
type AnalysisOutput struct {
	LegalArea string `json:"legal_area"`
	Urgency   string `json:"urgency"`
	Summary   string `json:"summary"`
}

// Question Plan Task Types

// QuestionPlanInput is the input for the follow-up question planning task.
type QuestionPlanInput struct {
	LegalArea string `json:"legal_area"`
	Urgency   string `json:"urgency"`
	Summary   string `json:"summary"`
}

// PlannedQuestion is one multiple-choice question in a plan. IDs are
// assigned by the questionnaire engine, not the model.
type PlannedQuestion struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// QuestionPlanOutput is the output from the question planning task.
type QuestionPlanOutput struct {
	Questions []PlannedQuestion `json:"questions"`
}
