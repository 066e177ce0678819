package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"litgo/internal/handoff"
	"litgo/internal/llm/tasks"
	"litgo/internal/questionnaire"
	"litgo/internal/synthesis"
	"litgo/pkg/schema"
)

// SessionStore persists triage session aggregates. Implementations must be
// safe for concurrent use.
type SessionStore interface {
	Save(ctx context.Context, sess *schema.TriageSession) error
	Load(ctx context.Context, id string) (*schema.TriageSession, error)
	Delete(ctx context.Context, id string) error
}

// Orchestrator drives a triage session through its full lifecycle: intake,
// analysis, questionnaire, synthesis and handoff. Each operation loads the
// session, applies one step and persists the result.
type Orchestrator struct {
	executor   AnalysisExecutor
	sessions   SessionStore
	engine     *questionnaire.Engine
	generator  *synthesis.Generator
	dispatcher *handoff.Dispatcher
	logger     Logger

	analysisTimeout time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewOrchestrator creates an orchestrator. A zero analysisTimeout disables
// the per-call deadline.
func NewOrchestrator(
	executor AnalysisExecutor,
	sessions SessionStore,
	engine *questionnaire.Engine,
	generator *synthesis.Generator,
	dispatcher *handoff.Dispatcher,
	logger Logger,
	analysisTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		executor:        executor,
		sessions:        sessions,
		engine:          engine,
		generator:       generator,
		dispatcher:      dispatcher,
		logger:          logger,
		analysisTimeout: analysisTimeout,
		inflight:        make(map[string]struct{}),
	}
}

// Submit validates an intake form and creates a new session ready for
// analysis. Validation failure returns *schema.ValidationError and no
// session is persisted.
func (o *Orchestrator) Submit(ctx context.Context, clientName, clientEmail, caseDescription string) (*schema.TriageSession, error) {
	submission := schema.IntakeSubmission{
		ClientName:      clientName,
		ClientEmail:     clientEmail,
		CaseDescription: caseDescription,
	}
	if err := schema.ValidateSubmission(&submission); err != nil {
		return nil, err
	}

	id, err := schema.NewSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	sess := schema.NewTriageSession(id, submission)
	if err := sess.BeginAnalysis(); err != nil {
		return nil, err
	}
	if err := o.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	o.logger.Info("session created", "session_id", sess.ID, "state", sess.State)
	return sess, nil
}

// Analyze runs the preliminary AI analysis and generates the follow-up
// questions. At most one call per session may be in flight; a failure or
// timeout parks the session in the failed state with reason
// analysis_unavailable, preserving the submission for retry.
func (o *Orchestrator) Analyze(ctx context.Context, sessionID string) (*schema.TriageSession, error) {
	if !o.acquire(sessionID) {
		return nil, fmt.Errorf("%w: %s", ErrSessionBusy, sessionID)
	}
	defer o.release(sessionID)

	sess, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if sess.State != schema.StateAnalyzing {
		return nil, fmt.Errorf("%w: cannot analyze in state %s", schema.ErrInvalidTransition, sess.State)
	}

	callCtx := ctx
	if o.analysisTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.analysisTimeout)
		defer cancel()
	}

	output, err := o.executor.ExecuteAnalysis(callCtx, &tasks.AnalysisInput{
		CaseDescription: sess.Submission.CaseDescription,
	})
	if err != nil {
		return nil, o.parkSession(ctx, sess, schema.ReasonAnalysisUnavailable, err)
	}

	analysis := schema.PreliminaryAnalysis{
		LegalArea: output.LegalArea,
		Urgency:   schema.Urgency(output.Urgency),
		Summary:   output.Summary,
	}
	if err := schema.ValidateAnalysis(&analysis); err != nil {
		return nil, o.parkSession(ctx, sess, schema.ReasonAnalysisUnavailable, err)
	}

	questions, err := o.engine.GenerateQuestions(callCtx, &analysis)
	if err != nil {
		return nil, o.parkSession(ctx, sess, schema.ReasonAnalysisUnavailable, err)
	}

	if err := sess.AttachAnalysis(analysis, questions); err != nil {
		return nil, err
	}
	if err := o.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	o.logger.Info("analysis attached",
		"session_id", sess.ID,
		"legal_area", analysis.LegalArea,
		"urgency", analysis.Urgency,
		"questions", len(questions))
	return sess, nil
}

// RecordAnswer records one questionnaire answer and persists the session.
// Rejected answers leave the answer set untouched.
func (o *Orchestrator) RecordAnswer(ctx context.Context, sessionID, questionID, option string) (schema.AnswerSet, error) {
	sess, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	answers, err := o.engine.RecordAnswer(sess, questionID, option)
	if err != nil {
		return nil, err
	}
	if err := o.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	o.logger.Debug("answer recorded",
		"session_id", sess.ID,
		"question_id", questionID,
		"answered", len(answers),
		"total", len(sess.Questions))
	return answers, nil
}

// IsComplete reports whether every question of a session has an answer.
func (o *Orchestrator) IsComplete(ctx context.Context, sessionID string) (bool, error) {
	sess, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return o.engine.IsComplete(sess), nil
}

// Synthesize generates the final synthesis record for a session whose
// questionnaire is complete. An internal failure parks the session in the
// failed state with reason synthesis_failed; answers and analysis are kept
// so the call is retry-safe.
func (o *Orchestrator) Synthesize(ctx context.Context, sessionID string) (*schema.SynthesisRecord, error) {
	if !o.acquire(sessionID) {
		return nil, fmt.Errorf("%w: %s", ErrSessionBusy, sessionID)
	}
	defer o.release(sessionID)

	sess, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	// A retried session is already in synthesizing.
	if sess.State == schema.StateQuestioning {
		if err := sess.BeginSynthesis(); err != nil {
			return nil, err
		}
		if err := o.sessions.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	} else if sess.State != schema.StateSynthesizing {
		return nil, fmt.Errorf("%w: cannot synthesize in state %s", schema.ErrInvalidTransition, sess.State)
	}

	record, err := o.generator.Synthesize(ctx, sess)
	if err != nil {
		return nil, o.parkSession(ctx, sess, schema.ReasonSynthesisFailed, err)
	}

	if err := sess.CompleteSynthesis(*record); err != nil {
		return nil, err
	}
	if err := o.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	o.logger.Info("synthesis completed",
		"session_id", sess.ID,
		"protocol_number", record.ProtocolNumber)
	return record, nil
}

// Handoff delivers a completed session's synthesis to the case-assignment
// collaborator. Idempotent per protocol number.
func (o *Orchestrator) Handoff(ctx context.Context, sessionID string) (*schema.HandoffReceipt, error) {
	sess, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	receipt, err := o.dispatcher.Dispatch(ctx, sess)
	if err != nil {
		return nil, err
	}

	o.logger.Info("session handed off",
		"session_id", sess.ID,
		"protocol_number", receipt.ProtocolNumber,
		"token", receipt.Token)
	return receipt, nil
}

// Retry returns a failed session to the stage it failed in and re-runs it.
func (o *Orchestrator) Retry(ctx context.Context, sessionID string) (*schema.TriageSession, error) {
	sess, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if err := sess.Retry(); err != nil {
		return nil, err
	}
	if err := o.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	o.logger.Info("session retrying", "session_id", sess.ID, "state", sess.State)

	switch sess.State {
	case schema.StateAnalyzing:
		return o.Analyze(ctx, sessionID)
	case schema.StateSynthesizing:
		if _, err := o.Synthesize(ctx, sessionID); err != nil {
			return nil, err
		}
		return o.sessions.Load(ctx, sessionID)
	default:
		return sess, nil
	}
}

// Abandon deletes a session that has not completed. No downstream effects.
func (o *Orchestrator) Abandon(ctx context.Context, sessionID string) error {
	sess, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if sess.State == schema.StateCompleted {
		return fmt.Errorf("%w: cannot abandon a completed session", schema.ErrInvalidTransition)
	}
	if err := o.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	o.logger.Info("session abandoned", "session_id", sessionID)
	return nil
}

// Session returns the current persisted state of a session.
func (o *Orchestrator) Session(ctx context.Context, sessionID string) (*schema.TriageSession, error) {
	return o.sessions.Load(ctx, sessionID)
}

// parkSession moves a session to the failed state and persists it, returning
// the typed error for the failed stage.
func (o *Orchestrator) parkSession(ctx context.Context, sess *schema.TriageSession, reason schema.FailureReason, cause error) error {
	if err := sess.Fail(reason); err != nil {
		return err
	}
	if err := o.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save failed session: %w", err)
	}

	o.logger.Warn("session parked",
		"session_id", sess.ID,
		"reason", reason,
		"error", cause.Error())

	switch reason {
	case schema.ReasonSynthesisFailed:
		return &SynthesisFailedError{SessionID: sess.ID, Err: cause}
	default:
		return &AnalysisUnavailableError{SessionID: sess.ID, Err: cause}
	}
}

func (o *Orchestrator) acquire(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inflight[sessionID]; busy {
		return false
	}
	o.inflight[sessionID] = struct{}{}
	return true
}

func (o *Orchestrator) release(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inflight, sessionID)
}
