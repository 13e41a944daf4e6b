package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmprompt/internal/debug"
	"gmprompt/internal/llm"
)

type chatRequest struct {
	Model               string `json:"model"`
	MaxCompletionTokens int    `json:"max_completion_tokens"`
	ReasoningEffort     string `json:"reasoning_effort"`
	Messages            []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newFakeOpenAI(t *testing.T, got *chatRequest, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   got.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
			"usage": map[string]any{"prompt_tokens": 42, "completion_tokens": 7, "total_tokens": 49},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleteText(t *testing.T) {
	var got chatRequest
	srv := newFakeOpenAI(t, &got, "A lighthouse keeper vanishes.")

	svc := llm.NewService("test-key", "gpt-test", debug.NewNop(),
		option.WithBaseURL(srv.URL+"/v1/"),
		option.WithMaxRetries(0),
	)

	ctx := llm.WithOperationType(context.Background(), "adventure.send")
	ctx = llm.WithPromptContext(ctx, map[string]interface{}{"system": "Call of Cthulhu"})

	res, err := svc.CompleteText(ctx, llm.TextCompletionRequest{
		SystemPrompt: "You are a game master.",
		UserPrompt:   "Create a Call of Cthulhu adventure",
		MaxTokens:    300,
	})
	require.NoError(t, err)

	assert.Equal(t, "A lighthouse keeper vanishes.", res.Content)
	assert.Equal(t, "gpt-test", res.Model)
	assert.Equal(t, int64(42), res.InputTokens)
	assert.Equal(t, int64(7), res.OutputTokens)

	assert.Equal(t, "gpt-test", got.Model)
	assert.Equal(t, 300, got.MaxCompletionTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "Create a Call of Cthulhu adventure", got.Messages[1].Content)
}

func TestCompleteTextReasoningEffort(t *testing.T) {
	testCases := []struct {
		name   string
		effort string
	}{
		{name: "unset", effort: ""},
		{name: "low", effort: "low"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got chatRequest
			srv := newFakeOpenAI(t, &got, "ok")

			svc := llm.NewService("test-key", "gpt-test", nil,
				option.WithBaseURL(srv.URL+"/v1/"),
				option.WithMaxRetries(0),
			)

			_, err := svc.CompleteText(context.Background(), llm.TextCompletionRequest{
				UserPrompt:      "hello",
				ReasoningEffort: tc.effort,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.effort, got.ReasoningEffort)
			assert.Zero(t, got.MaxCompletionTokens)
			assert.Len(t, got.Messages, 1)
		})
	}
}

func TestCompleteTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	svc := llm.NewService("test-key", "gpt-test", nil,
		option.WithBaseURL(srv.URL+"/v1/"),
		option.WithMaxRetries(0),
	)

	_, err := svc.CompleteText(context.Background(), llm.TextCompletionRequest{UserPrompt: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text completion failed")
}
