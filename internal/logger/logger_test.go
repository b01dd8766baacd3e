package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("debug", false, &buf)

	For("pipeline").Info().Str("channel", "recruitment").Msg("feed built")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "pipeline", line["component"])
	assert.Equal(t, "recruitment", line["channel"])
	assert.Equal(t, "feed built", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("warn", false, &buf)
	t.Cleanup(func() { InitWithWriter("info", false, &bytes.Buffer{}) })

	For("cache").Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	For("cache").Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("loud", false, &buf)

	For("api").Debug().Msg("hidden")
	For("api").Info().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
