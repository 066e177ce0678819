package main

import (
	"context"
	"fmt"
	"os"

	"litgo/internal/catalog"
	"litgo/internal/core"
	"litgo/internal/handoff"
	"litgo/internal/llm"
	"litgo/internal/questionnaire"
	"litgo/internal/store"
	"litgo/internal/synthesis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := core.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := core.NewLogger(cfg.LogLevel)

	lock := store.NewFileLock(cfg.DBPath+".lock", "cli")
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release lock", "error", err.Error())
		}
	}()

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	executor, planner, err := buildAnalysisStack(cfg, logger)
	if err != nil {
		return err
	}

	orchestrator := core.NewOrchestrator(
		executor,
		store.NewSessionStore(db),
		questionnaire.NewEngine(planner),
		synthesis.NewGenerator(store.NewProtocolAllocator(db), cat, nil),
		handoff.NewDispatcher(&handoff.FilePublisher{Dir: cfg.OutboxDir}, store.NewReceiptLedger(db), nil),
		logger,
		cfg.AnalysisTimeout,
	)

	return core.NewCLISession(orchestrator).Run(context.Background())
}

// buildAnalysisStack returns the real AI boundary when an API key is
// configured and a deterministic offline stack otherwise.
func buildAnalysisStack(cfg *core.Config, logger core.Logger) (core.AnalysisExecutor, questionnaire.QuestionPlanner, error) {
	if cfg.OpenRouterAPIKey == "" {
		logger.Warn("OPENROUTER_API_KEY not set, using offline analysis")
		cat, err := catalog.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog: %w", err)
		}
		return core.NewMockAnalysisExecutor(), &questionnaire.CatalogPlanner{Catalog: cat}, nil
	}

	client, err := llm.NewClient(&llm.Config{
		APIKey:       cfg.OpenRouterAPIKey,
		BaseURL:      "https://openrouter.ai/api/v1",
		DefaultModel: cfg.DefaultModel,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create analysis client: %w", err)
	}
	return core.NewRealAnalysisExecutor(client), &questionnaire.LLMPlanner{Client: client}, nil
}
