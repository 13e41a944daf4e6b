package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"gmprompt/internal/catalog"
	"gmprompt/internal/clipboard"
	"gmprompt/internal/config"
	"gmprompt/internal/debug"
	"gmprompt/internal/history"
	"gmprompt/internal/llm"
	"gmprompt/internal/observability"
	"gmprompt/internal/prompt"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg       config.Config
	ctx       context.Context
	sessionID string

	debug     *debug.Logger
	tracer    *observability.TracerProvider
	store     *catalog.Store
	history   *history.Store
	clipboard clipboard.Writer
	sender    *prompt.Sender
}

// newApp wires the application from cfg. OSC 52 sequences are written to
// term.
func newApp(ctx context.Context, cfg config.Config, term io.Writer) (*app, error) {
	debugLogger, err := debug.NewLogger(cfg.Debug, cfg.DebugLogPath)
	if err != nil {
		return nil, err
	}

	tracerProvider, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		debugLogger.Printf("Failed to initialize tracing: %v", err)
	} else if tracerProvider.IsEnabled() {
		debugLogger.Println("OpenTelemetry tracing initialized and enabled")
	} else {
		debugLogger.Println("OpenTelemetry tracing disabled (set OTEL_TRACES_ENABLED=true to enable)")
	}

	sessionID := uuid.NewString()
	ctx = observability.WithSessionID(ctx, sessionID)

	writer, err := clipboard.New(cfg.Clipboard, term)
	if err != nil {
		return nil, err
	}

	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open prompt history: %w", err)
	}

	var service *llm.Service
	if cfg.ModelAvailable() {
		service = llm.NewService(cfg.OpenAIAPIKey, cfg.Model, debugLogger)
	} else {
		debugLogger.Println("OPENAI_API_KEY not set; sending prompts to a model is disabled")
	}

	debugLogger.Debugw("application ready",
		"session_id", sessionID,
		"catalog", cfg.CatalogSource,
		"clipboard", cfg.Clipboard,
		"history", cfg.HistoryPath)

	return &app{
		cfg:       cfg,
		ctx:       ctx,
		sessionID: sessionID,
		debug:     debugLogger,
		tracer:    tracerProvider,
		store:     catalog.NewStore(),
		history:   store,
		clipboard: writer,
		sender:    prompt.NewSender(service, store, cfg.MaxTokens, cfg.ReasoningEffort, debugLogger),
	}, nil
}

func (a *app) publisherConfig(notifier prompt.Notifier) prompt.PublisherConfig {
	return prompt.PublisherConfig{
		Clipboard: a.clipboard,
		Notifier:  notifier,
		Recorder:  a.history,
		Duration:  a.cfg.NotificationDuration,
		Debug:     a.debug,
	}
}

// loadCatalog populates the store synchronously.
func (a *app) loadCatalog() (*catalog.Catalog, error) {
	if err := a.store.Load(a.ctx, a.cfg.CatalogSource); err != nil {
		return nil, err
	}
	return a.store.Catalog()
}

func (a *app) Close() {
	if err := a.history.Close(); err != nil {
		a.debug.Printf("Failed to close history: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(shutdownCtx); err != nil {
		a.debug.Printf("Failed to flush traces: %v", err)
	}
	a.debug.Sync()
}
