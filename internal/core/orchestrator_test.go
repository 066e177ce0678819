package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"litgo/internal/catalog"
	"litgo/internal/handoff"
	"litgo/internal/llm/tasks"
	"litgo/internal/questionnaire"
	"litgo/internal/synthesis"
	"litgo/pkg/schema"
)

func newTestOrchestrator(t *testing.T, executor AnalysisExecutor, timeout time.Duration) (*Orchestrator, *handoff.MockPublisher) {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)

	publisher := &handoff.MockPublisher{}
	return NewOrchestrator(
		executor,
		NewMemorySessionStore(),
		questionnaire.NewEngine(&questionnaire.CatalogPlanner{Catalog: cat}),
		synthesis.NewGenerator(synthesis.NewMemoryAllocator(), cat, nil),
		handoff.NewDispatcher(publisher, handoff.NewMemoryLedger(), nil),
		NewLogger("error"),
		timeout,
	), publisher
}

func submitAndAnalyze(t *testing.T, o *Orchestrator) *schema.TriageSession {
	t.Helper()
	ctx := context.Background()

	sess, err := o.Submit(ctx, "Maria Silva", "maria@example.com",
		"A contractor abandoned a renovation halfway through and refuses to refund the advance payment.")
	require.NoError(t, err)

	sess, err = o.Analyze(ctx, sess.ID)
	require.NoError(t, err)
	return sess
}

func answerAll(t *testing.T, o *Orchestrator, sess *schema.TriageSession) {
	t.Helper()
	for _, q := range sess.Questions {
		_, err := o.RecordAnswer(context.Background(), sess.ID, q.ID, q.Options[0])
		require.NoError(t, err)
	}
}

func TestSubmit_ValidationFailureCreatesNoSession(t *testing.T) {
	o, _ := newTestOrchestrator(t, NewMockAnalysisExecutor(), 0)

	_, err := o.Submit(context.Background(), "", "maria@example.com", "A dispute.")
	var vErr *schema.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "client_name", vErr.Field)
}

func TestSubmitAndAnalyze(t *testing.T) {
	executor := NewMockAnalysisExecutor()
	o, _ := newTestOrchestrator(t, executor, 0)

	sess := submitAndAnalyze(t, o)

	assert.Equal(t, schema.StateQuestioning, sess.State)
	require.NotNil(t, sess.Analysis)
	assert.Equal(t, "Civil Law", sess.Analysis.LegalArea)
	assert.NotEmpty(t, sess.Questions)
	assert.Equal(t, 1, executor.AnalysisCalls)
}

func TestAnalyze_TimeoutParksSessionAndRetrySucceeds(t *testing.T) {
	executor := NewMockAnalysisExecutor()
	executor.Delay = 200 * time.Millisecond
	o, _ := newTestOrchestrator(t, executor, 10*time.Millisecond)
	ctx := context.Background()

	sess, err := o.Submit(ctx, "Maria Silva", "maria@example.com", "A contract dispute.")
	require.NoError(t, err)

	_, err = o.Analyze(ctx, sess.ID)
	var unavailable *AnalysisUnavailableError
	require.ErrorAs(t, err, &unavailable)

	parked, err := o.Session(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, schema.StateFailed, parked.State)
	assert.Equal(t, schema.ReasonAnalysisUnavailable, parked.FailureReason)
	assert.Equal(t, "A contract dispute.", parked.Submission.CaseDescription)

	executor.Delay = 0
	retried, err := o.Retry(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, schema.StateQuestioning, retried.State)
	assert.Equal(t, 2, executor.AnalysisCalls)
}

// blockingExecutor parks inside the analysis call until released, so tests
// can observe a session with an analysis in flight.
type blockingExecutor struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingExecutor) ExecuteAnalysis(_ context.Context, _ *tasks.AnalysisInput) (*tasks.AnalysisOutput, error) {
	close(b.entered)
	<-b.release
	return &tasks.AnalysisOutput{
		LegalArea: "Civil Law",
		Urgency:   "medium",
		Summary:   "Preliminary assessment of a contract dispute.",
	}, nil
}

func TestAnalyze_SecondConcurrentCallRefused(t *testing.T) {
	executor := &blockingExecutor{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	o, _ := newTestOrchestrator(t, executor, 0)
	ctx := context.Background()

	sess, err := o.Submit(ctx, "Maria Silva", "maria@example.com", "A contract dispute.")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := o.Analyze(ctx, sess.ID)
		done <- err
	}()

	// The first call is parked inside the executor and holds the guard.
	<-executor.entered
	_, err = o.Analyze(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionBusy)

	close(executor.release)
	require.NoError(t, <-done)

	current, err := o.Session(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, schema.StateQuestioning, current.State)
}

func TestAnalyze_ServiceErrorParksSession(t *testing.T) {
	executor := NewMockAnalysisExecutor()
	executor.AnalysisError = fmt.Errorf("upstream 503")
	o, _ := newTestOrchestrator(t, executor, 0)
	ctx := context.Background()

	sess, err := o.Submit(ctx, "Maria Silva", "maria@example.com", "A contract dispute.")
	require.NoError(t, err)

	_, err = o.Analyze(ctx, sess.ID)
	var unavailable *AnalysisUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, sess.ID, unavailable.SessionID)
}

func TestRecordAnswer_RejectionsLeaveAnswersUntouched(t *testing.T) {
	o, _ := newTestOrchestrator(t, NewMockAnalysisExecutor(), 0)
	ctx := context.Background()
	sess := submitAndAnalyze(t, o)

	_, err := o.RecordAnswer(ctx, sess.ID, "q-nonexistent", "Yes")
	var unknown *questionnaire.UnknownQuestionError
	assert.ErrorAs(t, err, &unknown)

	q := sess.Questions[0]
	_, err = o.RecordAnswer(ctx, sess.ID, q.ID, "not an option")
	var invalid *questionnaire.InvalidOptionError
	assert.ErrorAs(t, err, &invalid)

	current, err := o.Session(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, current.Answers)
}

func TestRecordAnswer_OverwriteIsIdempotent(t *testing.T) {
	o, _ := newTestOrchestrator(t, NewMockAnalysisExecutor(), 0)
	ctx := context.Background()
	sess := submitAndAnalyze(t, o)

	q := sess.Questions[0]
	_, err := o.RecordAnswer(ctx, sess.ID, q.ID, q.Options[0])
	require.NoError(t, err)
	answers, err := o.RecordAnswer(ctx, sess.ID, q.ID, q.Options[1])
	require.NoError(t, err)

	assert.Equal(t, q.Options[1], answers[q.ID])
	assert.Len(t, answers, 1)
}

func TestSynthesize_BeforeCompleteFailsWithoutMutation(t *testing.T) {
	o, _ := newTestOrchestrator(t, NewMockAnalysisExecutor(), 0)
	ctx := context.Background()
	sess := submitAndAnalyze(t, o)

	_, err := o.Synthesize(ctx, sess.ID)
	assert.ErrorIs(t, err, schema.ErrInvalidTransition)

	current, err := o.Session(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, schema.StateQuestioning, current.State)
}

func TestFullFlow(t *testing.T) {
	o, publisher := newTestOrchestrator(t, NewMockAnalysisExecutor(), 0)
	ctx := context.Background()

	sess := submitAndAnalyze(t, o)
	answerAll(t, o, sess)

	complete, err := o.IsComplete(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, complete)

	record, err := o.Synthesize(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, schema.ValidProtocolNumber(record.ProtocolNumber))
	assert.Equal(t, schema.Disclaimer, record.Disclaimer)

	receipt, err := o.Handoff(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ProtocolNumber, receipt.ProtocolNumber)
	assert.Equal(t, 1, publisher.Count())

	// Second handoff returns the original receipt without re-publishing.
	again, err := o.Handoff(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt.Token, again.Token)
	assert.Equal(t, 1, publisher.Count())
}

func TestSynthesize_ConcurrentSessionsGetDistinctProtocols(t *testing.T) {
	o, _ := newTestOrchestrator(t, NewMockAnalysisExecutor(), 0)

	const n = 8
	protocols := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := context.Background()
			sess, err := o.Submit(ctx, "Maria Silva", "maria@example.com", "A contract dispute.")
			assert.NoError(t, err)
			sess, err = o.Analyze(ctx, sess.ID)
			assert.NoError(t, err)
			for _, q := range sess.Questions {
				_, err := o.RecordAnswer(ctx, sess.ID, q.ID, q.Options[0])
				assert.NoError(t, err)
			}
			record, err := o.Synthesize(ctx, sess.ID)
			assert.NoError(t, err)
			protocols <- record.ProtocolNumber
		}()
	}
	wg.Wait()
	close(protocols)

	seen := make(map[string]bool, n)
	for p := range protocols {
		assert.False(t, seen[p], "duplicate protocol %s", p)
		seen[p] = true
	}
	assert.Len(t, seen, n)
}

func TestAbandon(t *testing.T) {
	o, _ := newTestOrchestrator(t, NewMockAnalysisExecutor(), 0)
	ctx := context.Background()
	sess := submitAndAnalyze(t, o)

	require.NoError(t, o.Abandon(ctx, sess.ID))
	_, err := o.Session(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAbandon_CompletedSessionRefused(t *testing.T) {
	o, _ := newTestOrchestrator(t, NewMockAnalysisExecutor(), 0)
	ctx := context.Background()
	sess := submitAndAnalyze(t, o)
	answerAll(t, o, sess)

	_, err := o.Synthesize(ctx, sess.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, o.Abandon(ctx, sess.ID), schema.ErrInvalidTransition)
}
