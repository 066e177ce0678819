package core

import (
	"context"
	"time"

	"litgo/internal/llm"
	"litgo/internal/llm/tasks"
)

// AnalysisExecutor abstracts the AI analysis boundary for testability.
type AnalysisExecutor interface {
	ExecuteAnalysis(ctx context.Context, input *tasks.AnalysisInput) (*tasks.AnalysisOutput, error)
}

// RealAnalysisExecutor implements AnalysisExecutor using real LLM calls.
type RealAnalysisExecutor struct {
	client *llm.Client
}

// NewRealAnalysisExecutor creates an executor that calls the real analysis API.
func NewRealAnalysisExecutor(client *llm.Client) *RealAnalysisExecutor {
	return &RealAnalysisExecutor{client: client}
}

func (e *RealAnalysisExecutor) ExecuteAnalysis(ctx context.Context, input *tasks.AnalysisInput) (*tasks.AnalysisOutput, error) {
	return tasks.ExecuteAnalysisTask(e.client, ctx, input)
}

// MockAnalysisExecutor implements AnalysisExecutor for testing with canned
// responses, optional error injection and an artificial delay.
type MockAnalysisExecutor struct {
	AnalysisOutput *tasks.AnalysisOutput
	AnalysisError  error
	Delay          time.Duration

	AnalysisCalls int
}

// NewMockAnalysisExecutor creates a mock executor with a default successful
// response.
func NewMockAnalysisExecutor() *MockAnalysisExecutor {
	return &MockAnalysisExecutor{
		AnalysisOutput: &tasks.AnalysisOutput{
			LegalArea: "Civil Law",
			Urgency:   "medium",
			Summary:   "Preliminary assessment of a contract dispute.",
		},
	}
}

func (m *MockAnalysisExecutor) ExecuteAnalysis(ctx context.Context, input *tasks.AnalysisInput) (*tasks.AnalysisOutput, error) {
	m.AnalysisCalls++
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.AnalysisError != nil {
		return nil, m.AnalysisError
	}
	return m.AnalysisOutput, nil
}
