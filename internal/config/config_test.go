package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmprompt/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "builtin", cfg.CatalogSource)
	assert.Equal(t, "auto", cfg.Clipboard)
	assert.Equal(t, "./prompts.db", cfg.HistoryPath)
	assert.Equal(t, 3*time.Second, cfg.NotificationDuration)
	assert.False(t, cfg.ModelAvailable())
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "https://cloud.langfuse.com", cfg.Tracing.LangfuseHost)
	assert.Equal(t, "gmprompt", cfg.Tracing.ServiceName)
	assert.Empty(t, cfg.ReasoningEffort)
}

func TestLoadFromEnv(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"GMPROMPT_CATALOG":          "/srv/catalog.yaml",
		"GMPROMPT_CLIPBOARD":        "osc52",
		"GMPROMPT_NOTIFY_DURATION":  "1500ms",
		"OPENAI_API_KEY":            "sk-test",
		"DEBUG":                     "1",
		"OTEL_TRACES_ENABLED":       "true",
		"ENVIRONMENT":               "staging",
		"GMPROMPT_REASONING_EFFORT": "minimal",
	})
	require.NoError(t, err)

	assert.Equal(t, "/srv/catalog.yaml", cfg.CatalogSource)
	assert.Equal(t, "osc52", cfg.Clipboard)
	assert.Equal(t, 1500*time.Millisecond, cfg.NotificationDuration)
	assert.True(t, cfg.ModelAvailable())
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "staging", cfg.Tracing.Environment)
	assert.Equal(t, "minimal", cfg.ReasoningEffort)
}

func TestLoadRejectsUnknownReasoningEffort(t *testing.T) {
	_, err := config.LoadFrom(map[string]string{"GMPROMPT_REASONING_EFFORT": "extreme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extreme")
}

func TestLoadRejectsUnknownClipboard(t *testing.T) {
	_, err := config.LoadFrom(map[string]string{"GMPROMPT_CLIPBOARD": "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	_, err := config.LoadFrom(map[string]string{"GMPROMPT_NOTIFY_DURATION": "soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestLoadRejectsNonPositiveDuration(t *testing.T) {
	_, err := config.LoadFrom(map[string]string{"GMPROMPT_NOTIFY_DURATION": "0s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}
