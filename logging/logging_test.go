package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: FormatJSON, Output: &buf, Name: "issueflow"})
	require.NoError(t, err)

	logger.Info("tool invoked", "action", "get_issue", "call_id", "abc")
	require.NoError(t, logger.Zap().Sync())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "tool invoked", line["msg"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "get_issue", line["action"])
	assert.Equal(t, "abc", line["call_id"])
	assert.Equal(t, "issueflow", line["logger"])
	assert.Contains(t, line, "time")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: FormatConsole, Output: &buf})
	require.NoError(t, err)

	logger.Warn("rate limited", "retry_after", 3)
	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "rate limited")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
}

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"WARN", false, false},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(Options{Level: tt.level, Output: &buf})
			require.NoError(t, err)

			logger.Debug("debug line")
			logger.Info("info line")
			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "debug line"))
			assert.Equal(t, tt.wantInfo, strings.Contains(buf.String(), "info line"))
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.ErrorContains(t, err, "parse log level")

	_, err = New(Options{Format: "xml"})
	assert.ErrorContains(t, err, "unknown log format")
}

func TestLogger_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf})
	require.NoError(t, err)

	logger.With("component", "jira").Info("request")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "jira", line["component"])
}

func TestSync_Buffer(t *testing.T) {
	logger, err := New(Options{Output: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.NoError(t, logger.Sync())
}

func TestDiscard(t *testing.T) {
	Discard().Error("dropped")
}
