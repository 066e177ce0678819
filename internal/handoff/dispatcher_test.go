package handoff

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"litgo/pkg/schema"
)

func completedSession(t *testing.T) *schema.TriageSession {
	t.Helper()
	sess := schema.NewTriageSession("TRI-test", schema.IntakeSubmission{
		ClientName:      "Maria Silva",
		ClientEmail:     "maria@example.com",
		CaseDescription: "Contract dispute.",
	})
	require.NoError(t, sess.BeginAnalysis())
	require.NoError(t, sess.AttachAnalysis(
		schema.PreliminaryAnalysis{LegalArea: "Civil Law", Urgency: schema.UrgencyLow, Summary: "Dispute."},
		[]schema.Question{{ID: "q1", Prompt: "When?", Options: []string{"Recently", "Long ago"}}},
	))
	sess.Answers["q1"] = "Recently"
	require.NoError(t, sess.BeginSynthesis())
	require.NoError(t, sess.CompleteSynthesis(schema.SynthesisRecord{
		ProtocolNumber: "LITGO-2025-0001",
		GeneratedAt:    time.Now().UTC(),
		LegalArea:      "Civil Law",
		Urgency:        schema.UrgencyLow,
		Summary:        "Dispute.",
		Disclaimer:     schema.Disclaimer,
	}))
	return sess
}

func TestDispatch(t *testing.T) {
	publisher := &MockPublisher{}
	dispatcher := NewDispatcher(publisher, NewMemoryLedger(), nil)

	receipt, err := dispatcher.Dispatch(context.Background(), completedSession(t))
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.Token)
	assert.Equal(t, "LITGO-2025-0001", receipt.ProtocolNumber)
	assert.False(t, receipt.AcknowledgedAt.IsZero())
	assert.Equal(t, 1, publisher.Count())
}

func TestDispatch_Idempotent(t *testing.T) {
	publisher := &MockPublisher{}
	dispatcher := NewDispatcher(publisher, NewMemoryLedger(), nil)
	sess := completedSession(t)

	first, err := dispatcher.Dispatch(context.Background(), sess)
	require.NoError(t, err)
	second, err := dispatcher.Dispatch(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, first.AcknowledgedAt, second.AcknowledgedAt)
	assert.Equal(t, 1, publisher.Count(), "duplicate dispatch must not re-publish")
}

func TestDispatch_ConcurrentDuplicates(t *testing.T) {
	publisher := &MockPublisher{}
	dispatcher := NewDispatcher(publisher, NewMemoryLedger(), nil)
	sess := completedSession(t)

	const n = 10
	tokens := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			receipt, err := dispatcher.Dispatch(context.Background(), sess)
			assert.NoError(t, err)
			tokens <- receipt.Token
		}()
	}
	wg.Wait()
	close(tokens)

	unique := make(map[string]bool)
	for tok := range tokens {
		unique[tok] = true
	}
	assert.Len(t, unique, 1)
	assert.Equal(t, 1, publisher.Count())
}

func TestDispatch_RequiresCompletedSession(t *testing.T) {
	dispatcher := NewDispatcher(&MockPublisher{}, NewMemoryLedger(), nil)
	sess := schema.NewTriageSession("TRI-test", schema.IntakeSubmission{})

	_, err := dispatcher.Dispatch(context.Background(), sess)
	assert.Error(t, err)
}

func TestDispatch_PublishFailureIssuesNoReceipt(t *testing.T) {
	publisher := &MockPublisher{Err: fmt.Errorf("assignment queue down")}
	ledger := NewMemoryLedger()
	dispatcher := NewDispatcher(publisher, ledger, nil)
	sess := completedSession(t)

	_, err := dispatcher.Dispatch(context.Background(), sess)
	require.Error(t, err)

	found, err := ledger.Find(context.Background(), "LITGO-2025-0001")
	require.NoError(t, err)
	assert.Nil(t, found, "failed publish must not leave a receipt behind")

	// Retry after the publisher recovers succeeds with a fresh receipt.
	publisher.Err = nil
	receipt, err := dispatcher.Dispatch(context.Background(), sess)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.Token)
}
