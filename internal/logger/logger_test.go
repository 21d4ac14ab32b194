package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DevelopmentWritesTextWithDebug(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	log := Init(Options{Development: true, Output: &buf})

	log.Debug("photo replaced", "user_id", "u-1")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "msg=\"photo replaced\"")
	assert.Contains(t, out, "user_id=u-1")
	assert.Same(t, log, slog.Default())
}

func TestInit_ProductionWritesJSONAndDropsDebug(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	log := Init(Options{Output: &buf})

	log.Debug("hidden")
	log.Info("orphaned profile photo", "ref", "1700000000000-abc.png")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "orphaned profile photo", rec["msg"])
	assert.Equal(t, "1700000000000-abc.png", rec["ref"])
}
