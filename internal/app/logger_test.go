package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger_TextOmitsTime(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	var buf bytes.Buffer
	logger := newLogger("info", "text", &buf)

	// --- Act ---
	logger.Info("Document parsed.", "items", 2)

	// --- Assert ---
	assert.Equal(t, "level=INFO msg=\"Document parsed.\" items=2\n", buf.String())
}

func TestNewLogger_JSONKeepsTime(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	var buf bytes.Buffer
	logger := newLogger("debug", "json", &buf)

	// --- Act ---
	logger.Debug("Runtime probed.", "runtime", "node")

	// --- Assert ---
	assert.Contains(t, buf.String(), `"time":`)
	assert.Contains(t, buf.String(), `"runtime":"node"`)
}

func TestNewLogger_UnknownLevelFallsBackToWarn(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	var buf bytes.Buffer
	logger := newLogger("verbose", "text", &buf)

	// --- Act ---
	logger.Info("hidden")
	logger.Warn("shown")

	// --- Assert ---
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
