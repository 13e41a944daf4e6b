package prompt

import (
	"context"

	"gmprompt/internal/debug"
	"gmprompt/internal/errors"
	"gmprompt/internal/history"
	"gmprompt/internal/llm"
)

// GameMasterInstructions is the system message sent with a prompt.
const GameMasterInstructions = "You are an experienced tabletop game master. " +
	"Write adventure outlines that a busy game master can run with little preparation."

// ResponseRecorder stores a model reply against a history entry.
type ResponseRecorder interface {
	AttachResponse(ctx context.Context, id, response string, metadata history.Metadata) error
}

// Sender submits rendered prompts to a model.
type Sender struct {
	llm             *llm.Service
	recorder        ResponseRecorder
	maxTokens       int
	reasoningEffort string
	debug           *debug.Logger
}

// NewSender returns a Sender. A nil service makes every Send fail with
// UNAVAILABLE; a nil recorder skips storing replies. An empty
// reasoningEffort leaves the model default.
func NewSender(service *llm.Service, recorder ResponseRecorder, maxTokens int, reasoningEffort string, debug *debug.Logger) *Sender {
	return &Sender{
		llm:             service,
		recorder:        recorder,
		maxTokens:       maxTokens,
		reasoningEffort: reasoningEffort,
		debug:           debug,
	}
}

// Available reports whether a model is configured.
func (s *Sender) Available() bool {
	return s != nil && s.llm != nil
}

// Send asks the model to expand res. When historyID is set the reply, or the
// failure, is attached to that history entry.
func (s *Sender) Send(ctx context.Context, res Result, historyID string) (string, error) {
	if !s.Available() {
		return "", errors.Unavailable("model unavailable: set OPENAI_API_KEY")
	}

	ctx = llm.WithOperationType(ctx, "adventure.send")
	ctx = llm.WithPromptContext(ctx, map[string]interface{}{
		"system":          res.System,
		"adventure_types": res.AdventureTypes,
		"settings":        res.Settings,
	})

	completion, err := s.llm.CompleteText(ctx, llm.TextCompletionRequest{
		SystemPrompt:    GameMasterInstructions,
		UserPrompt:      res.Text,
		MaxTokens:       s.maxTokens,
		ReasoningEffort: s.reasoningEffort,
	})

	meta := history.Metadata{
		Model:           s.llm.Model(),
		MaxTokens:       s.maxTokens,
		ReasoningEffort: s.reasoningEffort,
		ResponseTime:    completion.Duration,
	}
	if err != nil {
		msg := err.Error()
		meta.Error = &msg
	} else {
		meta.Model = completion.Model
	}

	if historyID != "" && s.recorder != nil {
		if attachErr := s.recorder.AttachResponse(ctx, historyID, completion.Content, meta); attachErr != nil {
			s.debug.Warnw("failed to attach response", "id", historyID, "error", attachErr)
		}
	}

	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeUnavailable, "model request failed")
	}
	return completion.Content, nil
}
