package schema

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewSessionID generates a new triage session ID in format TRI-{nanoid(10)}.
func NewSessionID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TRI-%s", id), nil
}

// NewQuestionID generates a new question ID in format Q-{nanoid(8)}.
// Planners with a fixed question set use stable slugs instead.
func NewQuestionID() (string, error) {
	id, err := gonanoid.New(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Q-%s", id), nil
}
