package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisUnavailableError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := &AnalysisUnavailableError{SessionID: "TRI-abc", Err: cause}

	assert.Contains(t, err.Error(), "TRI-abc")
	assert.ErrorIs(t, err, cause)

	var target *AnalysisUnavailableError
	assert.ErrorAs(t, fmt.Errorf("analyze: %w", err), &target)
}

func TestSynthesisFailedError(t *testing.T) {
	cause := errors.New("sequence store unavailable")
	err := &SynthesisFailedError{SessionID: "TRI-abc", Err: cause}

	assert.Contains(t, err.Error(), "synthesis failed")
	assert.ErrorIs(t, err, cause)
}
