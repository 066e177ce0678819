package questionnaire

import (
	"context"
	"testing"

	"litgo/internal/catalog"
	"litgo/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func civilAnalysis() *schema.PreliminaryAnalysis {
	return &schema.PreliminaryAnalysis{
		LegalArea: "Civil Law",
		Urgency:   schema.UrgencyMedium,
		Summary:   "A contract dispute over unfinished renovation work.",
	}
}

func questioningSession(t *testing.T, engine *Engine) *schema.TriageSession {
	t.Helper()
	questions, err := engine.GenerateQuestions(context.Background(), civilAnalysis())
	require.NoError(t, err)

	sess := schema.NewTriageSession("TRI-test", schema.IntakeSubmission{
		ClientName:      "Maria Silva",
		ClientEmail:     "maria@example.com",
		CaseDescription: "Contract dispute with a contractor",
	})
	require.NoError(t, sess.BeginAnalysis())
	require.NoError(t, sess.AttachAnalysis(*civilAnalysis(), questions))
	return sess
}

func TestEngine_GenerateQuestions_StaticPlanner(t *testing.T) {
	engine := NewEngine(nil)

	first, err := engine.GenerateQuestions(context.Background(), civilAnalysis())
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Deterministic given the same analysis.
	second, err := engine.GenerateQuestions(context.Background(), civilAnalysis())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	ids := map[string]bool{}
	for _, q := range first {
		assert.NotEmpty(t, q.Prompt)
		assert.NotEmpty(t, q.Options)
		assert.False(t, ids[q.ID], "question ids must be unique")
		ids[q.ID] = true
	}
}

func TestEngine_GenerateQuestions_CatalogPlanner(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)
	engine := NewEngine(&CatalogPlanner{Catalog: c})

	questions, err := engine.GenerateQuestions(context.Background(), civilAnalysis())
	require.NoError(t, err)
	require.Greater(t, len(questions), 3, "catalog planner should add area questions")

	unknownArea := &schema.PreliminaryAnalysis{
		LegalArea: "Maritime Law",
		Urgency:   schema.UrgencyLow,
		Summary:   "A dispute at sea.",
	}
	fallback, err := engine.GenerateQuestions(context.Background(), unknownArea)
	require.NoError(t, err)
	assert.Len(t, fallback, 3, "unknown areas fall back to the base set")
}

func TestEngine_RecordAnswer(t *testing.T) {
	engine := NewEngine(nil)
	sess := questioningSession(t, engine)

	answers, err := engine.RecordAnswer(sess, "q-documents", "Some of them")
	require.NoError(t, err)
	assert.Equal(t, "Some of them", answers["q-documents"])

	// Re-answering overwrites; the set reflects only the latest answer.
	answers, err = engine.RecordAnswer(sess, "q-documents", "No")
	require.NoError(t, err)
	assert.Equal(t, "No", answers["q-documents"])
	assert.Len(t, answers, 1)
}

func TestEngine_RecordAnswer_UnknownQuestion(t *testing.T) {
	engine := NewEngine(nil)
	sess := questioningSession(t, engine)

	_, err := engine.RecordAnswer(sess, "q-nonexistent", "Yes")

	var unknownErr *UnknownQuestionError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "q-nonexistent", unknownErr.QuestionID)
	assert.Empty(t, sess.Answers, "rejected answers must not mutate the set")
}

func TestEngine_RecordAnswer_InvalidOption(t *testing.T) {
	engine := NewEngine(nil)
	sess := questioningSession(t, engine)

	_, err := engine.RecordAnswer(sess, "q-documents", "Maybe")

	var invalidErr *InvalidOptionError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "q-documents", invalidErr.QuestionID)
	assert.Empty(t, sess.Answers)
}

func TestEngine_RecordAnswer_WrongState(t *testing.T) {
	engine := NewEngine(nil)
	sess := schema.NewTriageSession("TRI-test", schema.IntakeSubmission{
		ClientName:      "Maria Silva",
		ClientEmail:     "maria@example.com",
		CaseDescription: "Contract dispute",
	})

	_, err := engine.RecordAnswer(sess, "q-documents", "No")
	assert.ErrorIs(t, err, schema.ErrInvalidTransition)
}

func TestEngine_CompletionAndFlowState(t *testing.T) {
	engine := NewEngine(nil)
	sess := questioningSession(t, engine)

	assert.False(t, engine.IsComplete(sess))
	assert.Equal(t, FlowPending, engine.State(sess))

	_, err := engine.RecordAnswer(sess, "q-incident-time", "Less than 30 days")
	require.NoError(t, err)
	assert.Equal(t, FlowAnswering, engine.State(sess))
	assert.False(t, engine.IsComplete(sess))

	_, err = engine.RecordAnswer(sess, "q-documents", "No")
	require.NoError(t, err)
	_, err = engine.RecordAnswer(sess, "q-prior-consultation", "No")
	require.NoError(t, err)

	assert.True(t, engine.IsComplete(sess))
	assert.Equal(t, FlowComplete, engine.State(sess))
}
