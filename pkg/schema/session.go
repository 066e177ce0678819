package schema

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned for any state change that would move a
// session backward or skip a stage.
var ErrInvalidTransition = errors.New("invalid session transition")

// TriageSession is the aggregate root of one intake/triage flow. It owns the
// submission, at most one analysis, the generated questions and their answers,
// and at most one synthesis record.
//
// Transitions are monotonic: collecting -> analyzing -> questioning ->
// synthesizing -> completed. StateFailed is reachable only from analyzing and
// synthesizing, and the only way out is Retry, which returns to the state the
// failure occurred in.
type TriageSession struct {
	ID         string               `json:"id" yaml:"id"`
	State      SessionState         `json:"state" yaml:"state"`
	Submission IntakeSubmission     `json:"submission" yaml:"submission"`
	Analysis   *PreliminaryAnalysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Questions  []Question           `json:"questions" yaml:"questions"`
	Answers    AnswerSet            `json:"answers" yaml:"answers"`
	Synthesis  *SynthesisRecord     `json:"synthesis,omitempty" yaml:"synthesis,omitempty"`

	FailureReason FailureReason `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
	FailedFrom    SessionState  `json:"failed_from,omitempty" yaml:"failed_from,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewTriageSession creates a session in StateCollecting for a validated
// submission.
func NewTriageSession(id string, submission IntakeSubmission) *TriageSession {
	now := time.Now().UTC()
	return &TriageSession{
		ID:         id,
		State:      StateCollecting,
		Submission: submission,
		Questions:  []Question{},
		Answers:    make(AnswerSet),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// BeginAnalysis hands the submission to the analysis client.
func (s *TriageSession) BeginAnalysis() error {
	if s.State != StateCollecting {
		return transitionError(s.State, StateAnalyzing)
	}
	s.setState(StateAnalyzing)
	return nil
}

// AttachAnalysis records the completed analysis and its generated questions,
// moving the session into StateQuestioning. Both become read-only afterward.
func (s *TriageSession) AttachAnalysis(analysis PreliminaryAnalysis, questions []Question) error {
	if s.State != StateAnalyzing {
		return transitionError(s.State, StateQuestioning)
	}
	s.Analysis = &analysis
	s.Questions = questions
	s.Answers = make(AnswerSet)
	s.setState(StateQuestioning)
	return nil
}

// AnswersComplete reports whether every generated question has an answer.
func (s *TriageSession) AnswersComplete() bool {
	if len(s.Questions) == 0 {
		return false
	}
	for _, q := range s.Questions {
		if _, ok := s.Answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

// BeginSynthesis freezes the answer set and moves to StateSynthesizing.
// It fails deterministically, without mutating state, if any question is
// still unanswered.
func (s *TriageSession) BeginSynthesis() error {
	if s.State != StateQuestioning {
		return transitionError(s.State, StateSynthesizing)
	}
	if !s.AnswersComplete() {
		return fmt.Errorf("%w: %d of %d questions answered",
			ErrInvalidTransition, len(s.Answers), len(s.Questions))
	}
	s.setState(StateSynthesizing)
	return nil
}

// CompleteSynthesis records the synthesis and moves to StateCompleted.
func (s *TriageSession) CompleteSynthesis(record SynthesisRecord) error {
	if s.State != StateSynthesizing {
		return transitionError(s.State, StateCompleted)
	}
	s.Synthesis = &record
	s.setState(StateCompleted)
	return nil
}

// Fail parks the session in StateFailed, remembering where it failed from.
// Only the two suspending stages can fail.
func (s *TriageSession) Fail(reason FailureReason) error {
	if s.State != StateAnalyzing && s.State != StateSynthesizing {
		return transitionError(s.State, StateFailed)
	}
	s.FailedFrom = s.State
	s.FailureReason = reason
	s.setState(StateFailed)
	return nil
}

// Retry returns a failed session to the state it failed from. Previously
// recorded answers and analysis are preserved.
func (s *TriageSession) Retry() error {
	if s.State != StateFailed {
		return transitionError(s.State, s.FailedFrom)
	}
	s.setState(s.FailedFrom)
	s.FailedFrom = ""
	s.FailureReason = ReasonNone
	return nil
}

// Clone creates a deep copy of the session.
func (s *TriageSession) Clone() *TriageSession {
	clone := *s
	clone.Questions = make([]Question, len(s.Questions))
	copy(clone.Questions, s.Questions)
	clone.Answers = s.Answers.Clone()
	if s.Analysis != nil {
		analysis := *s.Analysis
		clone.Analysis = &analysis
	}
	if s.Synthesis != nil {
		synthesis := *s.Synthesis
		clone.Synthesis = &synthesis
	}
	return &clone
}

func (s *TriageSession) setState(next SessionState) {
	s.State = next
	s.UpdatedAt = time.Now().UTC()
}

func transitionError(from, to SessionState) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
