package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, format LogFormat, level LogLevel) (*ConsoleLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	l, err := NewLogger(&LoggerConfig{Level: level, Format: format, Output: buf})
	require.NoError(t, err)
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l, buf
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	l, buf := newTestLogger(t, LogFormatText, LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("shown %d", 1)
	l.Error("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[2026-01-02 03:04:05] WARN shown 1")
	assert.Contains(t, out, "ERROR shown 2")
}

func TestConsoleLogger_FieldsAreSortedAndCopied(t *testing.T) {
	l, buf := newTestLogger(t, LogFormatText, LogLevelDebug)

	child := l.WithFields(map[string]interface{}{"b": 2, "a": 1})
	child.Info("with fields")
	l.Info("without fields")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "{a=1, b=2} with fields")
	assert.NotContains(t, lines[1], "{")
}

func TestConsoleLogger_JSONFormat(t *testing.T) {
	l, buf := newTestLogger(t, LogFormatJSON, LogLevelInfo)

	l.WithField("path", `C:\keys\"upload".jks`).Info("Keystore FOUND")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "Keystore FOUND", entry["message"])
	assert.Equal(t, `C:\keys\"upload".jks`, entry["path"])
}

func TestConsoleLogger_CompactFormat(t *testing.T) {
	l, buf := newTestLogger(t, LogFormatCompact, LogLevelInfo)
	l.Info("short")
	assert.Equal(t, "I 03:04:05 short\n", buf.String())
}

func TestConsoleLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "signcfg.log")
	l, err := NewLogger(&LoggerConfig{Level: LogLevelInfo, Output: &bytes.Buffer{}, FilePath: path})
	require.NoError(t, err)

	l.Info("to file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, LogFormatJSON, ParseLogFormat("JSON"))
	assert.Equal(t, LogFormatCompact, ParseLogFormat("compact"))
	assert.Equal(t, LogFormatText, ParseLogFormat("whatever"))
}
