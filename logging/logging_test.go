package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EligibilityBot/config"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.Log{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("step", "age").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"step":"age"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.Log{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tui.log")
	logger, closer, err := NewFile(config.Log{Level: "info", Format: "json", File: path})
	require.NoError(t, err)
	logger.Info().Msg("written")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "written")

	_, closer, err = NewFile(config.Log{Level: "info"})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
}
