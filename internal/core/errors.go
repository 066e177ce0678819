package core

import (
	"errors"
	"fmt"
)

// ErrSessionBusy is returned when an analysis is already in flight for a
// session.
var ErrSessionBusy = errors.New("session operation already in progress")

// AnalysisUnavailableError reports that the AI analysis boundary could not
// produce a result (network failure, service error or timeout). The session
// is parked in the failed state and can be retried.
type AnalysisUnavailableError struct {
	SessionID string
	Err       error
}

func (e *AnalysisUnavailableError) Error() string {
	return fmt.Sprintf("analysis unavailable for session %s: %v", e.SessionID, e.Err)
}

func (e *AnalysisUnavailableError) Unwrap() error {
	return e.Err
}

// SynthesisFailedError reports an internal failure while generating the
// synthesis record. Answers and analysis are preserved for retry.
type SynthesisFailedError struct {
	SessionID string
	Err       error
}

func (e *SynthesisFailedError) Error() string {
	return fmt.Sprintf("synthesis failed for session %s: %v", e.SessionID, e.Err)
}

func (e *SynthesisFailedError) Unwrap() error {
	return e.Err
}
