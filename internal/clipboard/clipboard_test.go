package clipboard_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmprompt/internal/clipboard"
)

type stubWriter struct {
	err   error
	texts []string
}

func (s *stubWriter) Write(text string) error {
	s.texts = append(s.texts, text)
	return s.err
}

func TestOSC52WritesEscapeSequence(t *testing.T) {
	var buf bytes.Buffer

	err := clipboard.OSC52{Out: &buf}.Write("Create a Pathfinder adventure")
	require.NoError(t, err)

	encoded := base64.StdEncoding.EncodeToString([]byte("Create a Pathfinder adventure"))
	assert.Contains(t, buf.String(), "\x1b]52;c;"+encoded)
}

func TestFallbackStopsAtFirstSuccess(t *testing.T) {
	failing := &stubWriter{err: errors.New("no display")}
	working := &stubWriter{}
	unused := &stubWriter{}

	err := clipboard.Fallback{failing, working, unused}.Write("prompt")
	require.NoError(t, err)

	assert.Equal(t, []string{"prompt"}, failing.texts)
	assert.Equal(t, []string{"prompt"}, working.texts)
	assert.Empty(t, unused.texts)
}

func TestFallbackJoinsErrors(t *testing.T) {
	err := clipboard.Fallback{
		&stubWriter{err: errors.New("no display")},
		&stubWriter{err: errors.New("not a terminal")},
	}.Write("prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")
	assert.Contains(t, err.Error(), "not a terminal")

	assert.Error(t, clipboard.Fallback{}.Write("prompt"))
}

func TestNewModes(t *testing.T) {
	var buf bytes.Buffer

	w, err := clipboard.New(clipboard.ModeOSC52, &buf)
	require.NoError(t, err)
	assert.IsType(t, clipboard.OSC52{}, w)

	w, err = clipboard.New(clipboard.ModeSystem, &buf)
	require.NoError(t, err)
	assert.IsType(t, clipboard.System{}, w)

	w, err = clipboard.New(clipboard.ModeAuto, &buf)
	require.NoError(t, err)
	assert.IsType(t, clipboard.Fallback{}, w)

	_, err = clipboard.New("carrier-pigeon", &buf)
	assert.Error(t, err)
}
