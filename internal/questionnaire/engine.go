// Package questionnaire drives the follow-up question sub-flow of a triage
// session: question generation from a completed analysis, answer recording
// with option validation, and completion tracking.
package questionnaire

import (
	"context"
	"fmt"

	"litgo/pkg/schema"
)

// FlowState is the questionnaire sub-flow state. Pending -> Answering
// (zero or more times) -> Complete; questions are never removed once
// generated.
type FlowState string

const (
	FlowPending   FlowState = "pending"
	FlowAnswering FlowState = "answering"
	FlowComplete  FlowState = "complete"
)

// Engine generates questions through a pluggable planner and records
// answers against a session. All operations are synchronous local state
// mutations.
type Engine struct {
	planner QuestionPlanner
}

// NewEngine creates an engine. A nil planner falls back to the fixed
// StaticPlanner set.
func NewEngine(planner QuestionPlanner) *Engine {
	if planner == nil {
		planner = StaticPlanner{}
	}
	return &Engine{planner: planner}
}

// GenerateQuestions produces the follow-up questions for a completed
// analysis. Every question is validated and IDs must be unique within the
// batch.
func (e *Engine) GenerateQuestions(ctx context.Context, analysis *schema.PreliminaryAnalysis) ([]schema.Question, error) {
	questions, err := e.planner.Plan(ctx, analysis)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("planner produced no questions")
	}

	seen := make(map[string]bool, len(questions))
	for i := range questions {
		if err := schema.ValidateQuestion(&questions[i]); err != nil {
			return nil, err
		}
		if seen[questions[i].ID] {
			return nil, fmt.Errorf("duplicate question id: %s", questions[i].ID)
		}
		seen[questions[i].ID] = true
	}

	return questions, nil
}

// RecordAnswer records one answer on the session. Fails with
// *UnknownQuestionError or *InvalidOptionError without touching the answer
// set; re-answering a question overwrites the prior answer. Returns a copy
// of the updated answer set.
func (e *Engine) RecordAnswer(session *schema.TriageSession, questionID, option string) (schema.AnswerSet, error) {
	if session.State != schema.StateQuestioning {
		return nil, fmt.Errorf("%w: cannot answer in state %s", schema.ErrInvalidTransition, session.State)
	}

	var question *schema.Question
	for i := range session.Questions {
		if session.Questions[i].ID == questionID {
			question = &session.Questions[i]
			break
		}
	}
	if question == nil {
		return nil, &UnknownQuestionError{QuestionID: questionID}
	}

	if !question.HasOption(option) {
		return nil, &InvalidOptionError{QuestionID: questionID, Option: option}
	}

	session.Answers[questionID] = option
	return session.Answers.Clone(), nil
}

// IsComplete reports whether every generated question has an answer.
func (e *Engine) IsComplete(session *schema.TriageSession) bool {
	return session.AnswersComplete()
}

// State returns the questionnaire sub-flow state for a session.
func (e *Engine) State(session *schema.TriageSession) FlowState {
	switch {
	case session.AnswersComplete():
		return FlowComplete
	case len(session.Answers) > 0:
		return FlowAnswering
	default:
		return FlowPending
	}
}
