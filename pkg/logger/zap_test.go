package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := InitializeZapLogger(ZapConfig{Level: "warn", Mode: "production", Encoding: "json", Output: &buf})

	ctx := context.Background()
	l.Infow(ctx, "hidden")
	l.Warnw(ctx, "shown", "gate_id", "gate_1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"gate_id":"gate_1"`)
}

func TestZapLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	l := InitializeZapLogger(ZapConfig{Level: "debug", Mode: "production", Encoding: "json", Output: &buf})

	ctx := l.WithFields(context.Background(), "conn_id", "abc")
	l.Info(ctx, "connected")

	assert.Contains(t, buf.String(), `"conn_id":"abc"`)
}

func TestZapLogger_UnknownLevelDefaultsToDebug(t *testing.T) {
	var buf bytes.Buffer
	l := InitializeZapLogger(ZapConfig{Level: "verbose", Encoding: "json", Output: &buf})

	l.Debug(context.Background(), "debug line")
	require.Contains(t, buf.String(), "debug line")
}
