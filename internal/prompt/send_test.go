package prompt_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmprompt/internal/errors"
	"gmprompt/internal/history"
	"gmprompt/internal/llm"
	"gmprompt/internal/prompt"
)

func newReplyServer(t *testing.T, reply string, body *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-test",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSendWithoutModel(t *testing.T) {
	sender := prompt.NewSender(nil, nil, 100, "", nil)

	assert.False(t, sender.Available())
	_, err := sender.Send(context.Background(), prompt.Result{Text: "x"}, "")
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))
}

func TestSendAttachesResponse(t *testing.T) {
	var body map[string]any
	srv := newReplyServer(t, "The vault door is already open.", &body)
	svc := llm.NewService("test-key", "gpt-test", nil,
		option.WithBaseURL(srv.URL+"/v1/"),
		option.WithMaxRetries(0),
	)

	store, err := history.Open(filepath.Join(t.TempDir(), "prompts.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	entry, err := store.Record(ctx, history.Entry{System: "Shadowrun", Prompt: "Create a Shadowrun adventure"})
	require.NoError(t, err)

	sender := prompt.NewSender(svc, store, 500, "minimal", nil)
	reply, err := sender.Send(ctx, prompt.Result{Text: entry.Prompt, System: "Shadowrun"}, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "The vault door is already open.", reply)

	entries, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, reply, entries[0].Response)
	assert.Equal(t, "gpt-test", entries[0].Metadata.Model)
	assert.Equal(t, 500, entries[0].Metadata.MaxTokens)
	assert.Equal(t, "minimal", entries[0].Metadata.ReasoningEffort)
	assert.Nil(t, entries[0].Metadata.Error)
	assert.Equal(t, "minimal", body["reasoning_effort"])
}
