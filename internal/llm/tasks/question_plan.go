package tasks

import (
	"context"
	"fmt"

	"litgo/internal/llm"
	"litgo/pkg/schema"
)

// Plan size bounds for LLM-generated questionnaires.
const (
	PlanQuestionsMin = 1
	PlanQuestionsMax = 6
	PlanOptionsMin   = 2
	PlanOptionsMax   = 6
)

// ExecuteQuestionPlanTask generates area-specific follow-up questions for a
// completed analysis.
func ExecuteQuestionPlanTask(
	client *llm.Client,
	ctx context.Context,
	input *QuestionPlanInput,
) (*QuestionPlanOutput, error) {
	prompt := llm.BuildQuestionPlanPrompt(&schema.PreliminaryAnalysis{
		LegalArea: input.LegalArea,
		Urgency:   schema.Urgency(input.Urgency),
		Summary:   input.Summary,
	})

	validate := func(output *QuestionPlanOutput) error {
		if len(output.Questions) < PlanQuestionsMin || len(output.Questions) > PlanQuestionsMax {
			return fmt.Errorf("plan must have %d-%d questions, got %d",
				PlanQuestionsMin, PlanQuestionsMax, len(output.Questions))
		}
		for i, q := range output.Questions {
			if q.Prompt == "" {
				return fmt.Errorf("questions[%d]: prompt is required", i)
			}
			if len(q.Options) < PlanOptionsMin || len(q.Options) > PlanOptionsMax {
				return fmt.Errorf("questions[%d]: must have %d-%d options, got %d",
					i, PlanOptionsMin, PlanOptionsMax, len(q.Options))
			}
			seen := make(map[string]bool, len(q.Options))
			for _, opt := range q.Options {
				if opt == "" {
					return fmt.Errorf("questions[%d]: empty option", i)
				}
				if seen[opt] {
					return fmt.Errorf("questions[%d]: duplicate option %q", i, opt)
				}
				seen[opt] = true
			}
		}
		return nil
	}

	result, err := llm.GenerateStructured[QuestionPlanOutput](
		client,
		ctx,
		"", // Use default model from config
		prompt,
		validate,
	)

	if err != nil {
		return nil, fmt.Errorf("question plan task failed: %w", err)
	}

	return result, nil
}
