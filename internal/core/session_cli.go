package core

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"litgo/pkg/schema"
)

// CLISession manages an interactive triage session on the terminal.
type CLISession struct {
	Orchestrator *Orchestrator
	in           *bufio.Reader
}

// NewCLISession creates a new CLI session.
func NewCLISession(orchestrator *Orchestrator) *CLISession {
	return &CLISession{
		Orchestrator: orchestrator,
		in:           bufio.NewReader(os.Stdin),
	}
}

// Run executes the interactive intake loop: collect the form, run the
// analysis, walk through the questionnaire, then synthesize and hand off.
func (s *CLISession) Run(ctx context.Context) error {
	fmt.Println("⚖️  Legal intake triage")
	fmt.Println()

	name := s.prompt("Client name: ")
	email := s.prompt("Client email: ")
	description := s.prompt("Describe the case: ")

	sess, err := s.Orchestrator.Submit(ctx, name, email, description)
	if err != nil {
		var vErr *schema.ValidationError
		if errors.As(err, &vErr) {
			fmt.Printf("❌ %s: %s\n", vErr.Field, vErr.Reason)
			return err
		}
		return err
	}
	fmt.Printf("✅ Session %s created\n", sess.ID)

	fmt.Println("🤖 Analyzing case...")
	sess, err = s.Orchestrator.Analyze(ctx, sess.ID)
	if err != nil {
		var unavailable *AnalysisUnavailableError
		if errors.As(err, &unavailable) {
			fmt.Println("⚠️  Analysis service unavailable. Retrying...")
			sess, err = s.Orchestrator.Retry(ctx, unavailable.SessionID)
		}
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
	}

	fmt.Printf("📋 Area: %s (urgency: %s)\n", sess.Analysis.LegalArea, sess.Analysis.Urgency)
	fmt.Printf("   %s\n\n", sess.Analysis.Summary)

	for _, q := range sess.Questions {
		if err := s.askQuestion(ctx, sess.ID, q); err != nil {
			return err
		}
	}

	fmt.Println("\n🧾 Generating synthesis...")
	record, err := s.Orchestrator.Synthesize(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	fmt.Printf("\nProtocol: %s\n\n", record.ProtocolNumber)
	fmt.Println(record.FullAnalysisText)
	fmt.Printf("\n%s\n", record.Disclaimer)

	receipt, err := s.Orchestrator.Handoff(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("handoff failed: %w", err)
	}
	fmt.Printf("\n✨ Case forwarded for assignment (receipt %s)\n", receipt.Token)
	return nil
}

// askQuestion prints one question with numbered options and records the
// chosen answer, re-prompting on invalid input.
func (s *CLISession) askQuestion(ctx context.Context, sessionID string, q schema.Question) error {
	fmt.Printf("❓ %s\n", q.Prompt)
	for i, opt := range q.Options {
		fmt.Printf("   %d) %s\n", i+1, opt)
	}

	for {
		choice := s.prompt("> ")
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(q.Options) {
			fmt.Printf("   Enter a number between 1 and %d\n", len(q.Options))
			continue
		}

		if _, err := s.Orchestrator.RecordAnswer(ctx, sessionID, q.ID, q.Options[idx-1]); err != nil {
			return err
		}
		return nil
	}
}

func (s *CLISession) prompt(label string) string {
	fmt.Print(label)
	line, _ := s.in.ReadString('\n')
	return strings.TrimSpace(line)
}
