package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"litgo/pkg/schema"
)

// SessionStore persists triage session aggregates. Questions and answers are
// stored as JSON documents; the synthesis record lives in its own table so
// the protocol number can carry a uniqueness constraint.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a SessionStore.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save upserts the full session aggregate.
func (s *SessionStore) Save(ctx context.Context, sess *schema.TriageSession) error {
	questionsJSON, err := json.Marshal(sess.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}
	answersJSON, err := json.Marshal(sess.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	var analysisJSON sql.NullString
	if sess.Analysis != nil {
		raw, err := json.Marshal(sess.Analysis)
		if err != nil {
			return fmt.Errorf("failed to encode analysis: %w", err)
		}
		analysisJSON = sql.NullString{String: string(raw), Valid: true}
	}

	query := `
		INSERT INTO sessions (
			id, state, client_name, client_email, case_description,
			analysis_json, questions_json, answers_json,
			failure_reason, failed_from, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			analysis_json = excluded.analysis_json,
			questions_json = excluded.questions_json,
			answers_json = excluded.answers_json,
			failure_reason = excluded.failure_reason,
			failed_from = excluded.failed_from,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		sess.ID,
		sess.State,
		sess.Submission.ClientName,
		sess.Submission.ClientEmail,
		sess.Submission.CaseDescription,
		analysisJSON,
		string(questionsJSON),
		string(answersJSON),
		sess.FailureReason,
		sess.FailedFrom,
		sess.CreatedAt,
		sess.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if sess.Synthesis != nil {
		if err := s.saveSynthesis(ctx, sess.ID, sess.Synthesis); err != nil {
			return err
		}
	}
	return nil
}

func (s *SessionStore) saveSynthesis(ctx context.Context, sessionID string, record *schema.SynthesisRecord) error {
	query := `
		INSERT INTO syntheses (
			protocol_number, session_id, generated_at, legal_area,
			urgency, summary, full_analysis_text, disclaimer
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(protocol_number) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ProtocolNumber,
		sessionID,
		record.GeneratedAt,
		record.LegalArea,
		record.Urgency,
		record.Summary,
		record.FullAnalysisText,
		record.Disclaimer,
	)
	if err != nil {
		return fmt.Errorf("failed to save synthesis: %w", err)
	}
	return nil
}

// Load retrieves a session aggregate by ID. Returns ErrNotFound when no
// session exists.
func (s *SessionStore) Load(ctx context.Context, id string) (*schema.TriageSession, error) {
	query := `
		SELECT
			id, state, client_name, client_email, case_description,
			analysis_json, questions_json, answers_json,
			failure_reason, failed_from, created_at, updated_at
		FROM sessions
		WHERE id = ?
	`

	var sess schema.TriageSession
	var analysisJSON sql.NullString
	var questionsJSON, answersJSON string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID,
		&sess.State,
		&sess.Submission.ClientName,
		&sess.Submission.ClientEmail,
		&sess.Submission.CaseDescription,
		&analysisJSON,
		&questionsJSON,
		&answersJSON,
		&sess.FailureReason,
		&sess.FailedFrom,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if analysisJSON.Valid {
		var analysis schema.PreliminaryAnalysis
		if err := json.Unmarshal([]byte(analysisJSON.String), &analysis); err != nil {
			return nil, fmt.Errorf("failed to decode analysis: %w", err)
		}
		sess.Analysis = &analysis
	}
	if err := json.Unmarshal([]byte(questionsJSON), &sess.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	if err := json.Unmarshal([]byte(answersJSON), &sess.Answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	if sess.Answers == nil {
		sess.Answers = make(schema.AnswerSet)
	}

	synthesis, err := s.loadSynthesis(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Synthesis = synthesis

	return &sess, nil
}

func (s *SessionStore) loadSynthesis(ctx context.Context, sessionID string) (*schema.SynthesisRecord, error) {
	query := `
		SELECT protocol_number, generated_at, legal_area, urgency,
		       summary, full_analysis_text, disclaimer
		FROM syntheses
		WHERE session_id = ?
	`

	var record schema.SynthesisRecord
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(
		&record.ProtocolNumber,
		&record.GeneratedAt,
		&record.LegalArea,
		&record.Urgency,
		&record.Summary,
		&record.FullAnalysisText,
		&record.Disclaimer,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load synthesis: %w", err)
	}
	return &record, nil
}

// ListByState returns the IDs of all sessions in a given state, oldest first.
func (s *SessionStore) ListByState(ctx context.Context, state schema.SessionState) ([]string, error) {
	query := `SELECT id FROM sessions WHERE state = ? ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, state)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return ids, nil
}

// Delete removes a session and any dependent rows. Returns ErrNotFound when
// no session exists.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM handoffs WHERE protocol_number IN (SELECT protocol_number FROM syntheses WHERE session_id = ?)`, id); err != nil {
		return fmt.Errorf("failed to delete handoffs: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM syntheses WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete syntheses: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
