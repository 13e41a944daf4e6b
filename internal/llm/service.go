package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gmprompt/internal/debug"
	"gmprompt/internal/observability"
)

// Context keys for operation tracing
type contextKey string

const (
	operationTypeKey contextKey = "operation_type"
	promptContextKey contextKey = "prompt_context"
)

type Service struct {
	client *openai.Client
	model  string
	debug  *debug.Logger
	tracer trace.Tracer
}

// NewService builds a chat completion service. Extra request options are
// applied after the API key, so tests can point the client elsewhere.
func NewService(apiKey, model string, debug *debug.Logger, opts ...option.RequestOption) *Service {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &Service{
		client: &client,
		model:  model,
		debug:  debug,
		tracer: otel.Tracer("llm-service"),
	}
}

func (s *Service) Model() string {
	return s.model
}

type TextCompletionRequest struct {
	SystemPrompt    string
	UserPrompt      string
	MaxTokens       int
	ReasoningEffort string // optional: minimal, low, medium, high
}

// TextCompletion is the model's reply plus what it cost.
type TextCompletion struct {
	Content      string
	Model        string
	InputTokens  int64
	OutputTokens int64
	Duration     time.Duration
}

func (s *Service) CompleteText(ctx context.Context, req TextCompletionRequest) (TextCompletion, error) {
	operationType := "text_completion"
	if opType := getOperationType(ctx); opType != "" {
		operationType = opType
	}

	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		s.debug.Printf("NO PARENT: ctx missing active span for %s", operationType)
	} else {
		s.debug.Printf("CompleteText trace=%s parentSpan=%s op=%s", sc.TraceID(), sc.SpanID(), operationType)
	}

	model := s.model
	ctx, span := s.tracer.Start(ctx, operationType,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			observability.CreateGenAIAttributes("openai", model, 0, 0)...,
		),
	)
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.Int("gen_ai.request.max_tokens", req.MaxTokens),
		attribute.String("langfuse.observation.type", "generation"),
		attribute.String("prompt.operation_type", operationType),
	}
	if sessionID := observability.GetSessionIDFromContext(ctx); sessionID != "" {
		attrs = append(attrs,
			attribute.String("langfuse.session.id", sessionID),
			attribute.String("session.id", sessionID),
		)
	}
	attrs = append(attrs, promptContextAttributes(ctx)...)
	span.SetAttributes(attrs...)

	span.AddEvent("gen_ai.user.message", trace.WithAttributes(
		attribute.String("gen_ai.system", "openai"),
		attribute.String("content", req.UserPrompt),
	))

	startTime := time.Now()

	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.UserPrompt))

	openaiReq := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		openaiReq.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.ReasoningEffort != "" {
		openaiReq.ReasoningEffort = shared.ReasoningEffort(req.ReasoningEffort)
	}

	s.debug.Printf("LLM Text Completion - MaxTokens: %d, SystemPrompt length: %d", req.MaxTokens, len(req.SystemPrompt))

	resp, err := s.client.Chat.Completions.New(ctx, openaiReq)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "llm_completion_error"))
		span.RecordError(err)
		s.debug.Printf("LLM Text Completion error: %v", err)
		return TextCompletion{}, fmt.Errorf("text completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no completion choices returned")
		span.RecordError(err)
		return TextCompletion{}, err
	}

	content := resp.Choices[0].Message.Content
	duration := time.Since(startTime)

	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
		attribute.Int64("response_time_ms", duration.Milliseconds()),
		attribute.String("langfuse.observation.input", req.SystemPrompt+"\n\n"+req.UserPrompt),
		attribute.String("langfuse.observation.output", content),
		attribute.String("langfuse.observation.output_format", "text"),
		attribute.String("langfuse.observation.model.name", model),
	)

	span.AddEvent("gen_ai.choice", trace.WithAttributes(
		attribute.String("gen_ai.system", "openai"),
		attribute.String("content", content),
	))

	s.debug.Printf("LLM Text Completion response length: %d, tokens: %d/%d, duration: %v, finish_reason=%s",
		len(content), resp.Usage.PromptTokens, resp.Usage.CompletionTokens, duration, resp.Choices[0].FinishReason)

	return TextCompletion{
		Content:      content,
		Model:        model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Duration:     duration,
	}, nil
}

func WithOperationType(ctx context.Context, opType string) context.Context {
	return context.WithValue(ctx, operationTypeKey, opType)
}

// WithPromptContext attaches values recorded as prompt.* span attributes,
// merging with any already present.
func WithPromptContext(ctx context.Context, values map[string]interface{}) context.Context {
	if existing, ok := ctx.Value(promptContextKey).(map[string]interface{}); ok && existing != nil {
		merged := make(map[string]interface{}, len(existing)+len(values))
		for k, v := range existing {
			merged[k] = v
		}
		for k, v := range values {
			merged[k] = v
		}
		return context.WithValue(ctx, promptContextKey, merged)
	}
	return context.WithValue(ctx, promptContextKey, values)
}

func getOperationType(ctx context.Context) string {
	if opType, ok := ctx.Value(operationTypeKey).(string); ok {
		return opType
	}
	return ""
}

func promptContextAttributes(ctx context.Context) []attribute.KeyValue {
	values, ok := ctx.Value(promptContextKey).(map[string]interface{})
	if !ok {
		return nil
	}
	var attrs []attribute.KeyValue
	for k, v := range values {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String("prompt."+k, val))
		case int:
			attrs = append(attrs, attribute.Int("prompt."+k, val))
		case []string:
			attrs = append(attrs, attribute.StringSlice("prompt."+k, val))
		}
	}
	return attrs
}
