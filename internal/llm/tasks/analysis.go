package tasks

import (
	"context"
	"fmt"
	"strings"

	"litgo/internal/llm"
	"litgo/pkg/schema"
)

// ExecuteAnalysisTask classifies a case description into a preliminary
// analysis. Single call per session; the caller owns retry decisions.
func ExecuteAnalysisTask(
	client *llm.Client,
	ctx context.Context,
	input *AnalysisInput,
) (*AnalysisOutput, error) {
	prompt := llm.BuildAnalysisPrompt(input.CaseDescription)

	validate := func(output *AnalysisOutput) error {
		if strings.TrimSpace(output.LegalArea) == "" {
			return fmt.Errorf("legal_area is required")
		}
		if _, err := schema.ParseUrgency(output.Urgency); err != nil {
			return fmt.Errorf("urgency must be low, medium or high, got %q", output.Urgency)
		}
		if strings.TrimSpace(output.Summary) == "" {
			return fmt.Errorf("summary is required")
		}
		return nil
	}

	result, err := llm.GenerateStructured[AnalysisOutput](
		client,
		ctx,
		"", // Use default model from config
		prompt,
		validate,
	)

	if err != nil {
		return nil, fmt.Errorf("analysis task failed: %w", err)
	}

	return result, nil
}
