package questionnaire

import (
	"context"
	"fmt"

	"litgo/internal/catalog"
	"litgo/internal/llm"
	"litgo/internal/llm/tasks"
	"litgo/pkg/schema"
)

// QuestionPlanner decides which follow-up questions a completed analysis
// gets. Implementations may vary questions by legal area or urgency; the
// default plan is fixed.
type QuestionPlanner interface {
	Plan(ctx context.Context, analysis *schema.PreliminaryAnalysis) ([]schema.Question, error)
}

// baseQuestions is the fixed intake set every planner starts from.
func baseQuestions() []schema.Question {
	return []schema.Question{
		{
			ID:     "q-incident-time",
			Prompt: "How much time has passed since the incident?",
			Options: []string{
				"Less than 30 days",
				"1 to 6 months",
				"6 months to 2 years",
				"More than 2 years",
			},
		},
		{
			ID:     "q-documents",
			Prompt: "Do you have documents related to the case (contracts, receipts, messages)?",
			Options: []string{
				"Yes, all of them",
				"Some of them",
				"No",
			},
		},
		{
			ID:     "q-prior-consultation",
			Prompt: "Have you consulted a lawyer about this matter before?",
			Options: []string{
				"Yes",
				"No",
			},
		},
	}
}

// StaticPlanner returns the fixed three-question intake set regardless of
// the analysis. Deterministic for a given analysis.
type StaticPlanner struct{}

// Plan implements QuestionPlanner.
func (StaticPlanner) Plan(_ context.Context, _ *schema.PreliminaryAnalysis) ([]schema.Question, error) {
	return baseQuestions(), nil
}

// CatalogPlanner extends the fixed set with the area-specific questions from
// the triage catalog. Still deterministic per analysis.
type CatalogPlanner struct {
	Catalog *catalog.Catalog
}

// Plan implements QuestionPlanner.
func (p *CatalogPlanner) Plan(_ context.Context, analysis *schema.PreliminaryAnalysis) ([]schema.Question, error) {
	questions := baseQuestions()
	profile := p.Catalog.Profile(analysis.LegalArea)
	questions = append(questions, profile.Questions...)
	return questions, nil
}

// LLMPlanner asks the analysis model for an area-specific question plan.
// Question IDs are assigned locally; the model only proposes prompts and
// options.
type LLMPlanner struct {
	Client *llm.Client
}

// Plan implements QuestionPlanner.
func (p *LLMPlanner) Plan(ctx context.Context, analysis *schema.PreliminaryAnalysis) ([]schema.Question, error) {
	out, err := tasks.ExecuteQuestionPlanTask(p.Client, ctx, &tasks.QuestionPlanInput{
		LegalArea: analysis.LegalArea,
		Urgency:   string(analysis.Urgency),
		Summary:   analysis.Summary,
	})
	if err != nil {
		return nil, fmt.Errorf("plan questions: %w", err)
	}

	questions := make([]schema.Question, 0, len(out.Questions))
	for _, planned := range out.Questions {
		id, err := schema.NewQuestionID()
		if err != nil {
			return nil, fmt.Errorf("generate question id: %w", err)
		}
		questions = append(questions, schema.Question{
			ID:      id,
			Prompt:  planned.Prompt,
			Options: planned.Options,
		})
	}
	return questions, nil
}
