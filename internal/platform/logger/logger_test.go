package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"tcubridge/pkg/platform/privacy"
)

func TestMasksSensitiveAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", "json")

	log.Info("calling authority",
		"session_token", "tok-3f9a",
		"postgres_dsn", "postgres://u:pw@db/x",
		"identity", privacy.NewSecret("tok-3f9a"),
		"operation", "applicants.checkStatus",
	)

	out := buf.String()
	assert.NotContains(t, out, "tok-3f9a")
	assert.NotContains(t, out, "pw@db")
	assert.Contains(t, out, "applicants.checkStatus")
	assert.Contains(t, out, "[REDACTED]")
}

func TestLevels(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))

	var buf bytes.Buffer
	NewWithWriter(&buf, "warn", "text").Info("dropped")
	assert.Empty(t, buf.String())
}
