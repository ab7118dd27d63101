package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestSetupJSON(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	var buf bytes.Buffer
	Setup(&buf, FormatJSON, "info")

	LogError("store failed", errors.New("boom"), "op", "create row")
	LogDebug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "store failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "create row", entry["op"])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestConsoleHandler(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	Setup(&buf, FormatConsole, "warn")

	LogInfo("filtered")
	Logger.With("request_id", "abc").Warn("slow request", "ms", 1200)

	out := buf.String()
	assert.NotContains(t, out, "filtered")
	assert.Contains(t, out, "WARN:")
	assert.Contains(t, out, "slow request")
	assert.Contains(t, out, "request_id=abc")
	assert.Contains(t, out, "ms=1200")
}

func TestSourceIsCaller(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	var buf bytes.Buffer
	Setup(&buf, FormatJSON, "info")

	LogInfo("from test")

	var entry struct {
		Source struct {
			Function string `json:"function"`
			File     string `json:"file"`
		} `json:"source"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.True(t, strings.HasSuffix(entry.Source.File, "logger_test.go"), entry.Source.File)
	assert.Contains(t, entry.Source.Function, "TestSourceIsCaller")
}
