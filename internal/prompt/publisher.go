package prompt

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gmprompt/internal/debug"
	"gmprompt/internal/history"
	"gmprompt/internal/observability"
)

const (
	NotificationMessage = "Adventure prompt copied to clipboard"
	NotificationAction  = "Dismiss"

	DefaultNotificationDuration = 3000 * time.Millisecond
)

// NotificationConfig controls how long a notification stays visible.
type NotificationConfig struct {
	Duration time.Duration
}

// ClipboardWriter receives the prompt text.
type ClipboardWriter interface {
	Write(text string) error
}

// Notifier shows a transient message with an optional action label.
type Notifier interface {
	Notify(message, action string, cfg NotificationConfig)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message, action string, cfg NotificationConfig)

func (f NotifierFunc) Notify(message, action string, cfg NotificationConfig) {
	f(message, action, cfg)
}

// Recorder stores published prompts.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (history.Entry, error)
}

type PublisherConfig struct {
	Clipboard ClipboardWriter
	Notifier  Notifier
	// Recorder is optional.
	Recorder Recorder
	Duration time.Duration
	Debug    *debug.Logger
}

// Publisher delivers generated prompts: clipboard first, then the
// notification, then the history log.
type Publisher struct {
	clipboard ClipboardWriter
	notifier  Notifier
	recorder  Recorder
	duration  time.Duration
	debug     *debug.Logger
	tracer    trace.Tracer
}

func NewPublisher(cfg PublisherConfig) *Publisher {
	duration := cfg.Duration
	if duration <= 0 {
		duration = DefaultNotificationDuration
	}
	return &Publisher{
		clipboard: cfg.Clipboard,
		notifier:  cfg.Notifier,
		recorder:  cfg.Recorder,
		duration:  duration,
		debug:     cfg.Debug,
		tracer:    otel.Tracer("prompt"),
	}
}

// Publish writes res to the clipboard and shows the notification. The
// clipboard result is only logged. When a recorder is configured the
// returned ID identifies the history entry.
func (p *Publisher) Publish(ctx context.Context, res Result) (string, error) {
	ctx, span := p.tracer.Start(ctx, "prompt.publish", trace.WithAttributes(
		attribute.String("prompt.system", res.System),
		attribute.StringSlice("prompt.adventure_types", res.AdventureTypes),
		attribute.StringSlice("prompt.settings", res.Settings),
		attribute.Int("prompt.length", len(res.Text)),
	))
	defer span.End()
	span.SetAttributes(observability.CreateLangfuseAttributes(
		"adventure-prompt", observability.GetSessionIDFromContext(ctx), []string{res.System})...)

	if p.clipboard != nil {
		if err := p.clipboard.Write(res.Text); err != nil {
			span.RecordError(err)
			p.debug.Warnw("clipboard write failed", "error", err)
		}
	}

	if p.notifier != nil {
		p.notifier.Notify(NotificationMessage, NotificationAction, NotificationConfig{Duration: p.duration})
	}

	if p.recorder == nil {
		return "", nil
	}

	entry, err := p.recorder.Record(ctx, history.Entry{
		System:         res.System,
		AdventureTypes: res.AdventureTypes,
		Settings:       res.Settings,
		Prompt:         res.Text,
	})
	if err != nil {
		span.RecordError(err)
		p.debug.Warnw("failed to record prompt", "error", err)
		return "", err
	}

	span.SetAttributes(attribute.String("prompt.history_id", entry.ID))
	return entry.ID, nil
}
