package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferLogger(t *testing.T, cfg *Config) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := newLogger(cfg, zapcore.AddSync(&buf), nil)
	require.NoError(t, err)
	return logger, &buf
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(NewDefaultConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, logger.Underlying())
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLogger_JSONOutput(t *testing.T) {
	logger, buf := newBufferLogger(t, NewDefaultConfig())

	ctx := WithRequestID(context.Background(), "req-1")
	logger.Info(ctx, "explanation served", zap.Int("horizon", 6))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "explanation served", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "req-1", entry["request.id"])
	assert.Equal(t, "collegeroi", entry["service"])
	assert.EqualValues(t, 6, entry["horizon"])
	assert.Contains(t, entry, "ts")
}

func TestLogger_ConsoleOutput(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "console"
	logger, buf := newBufferLogger(t, cfg)

	logger.Warn(context.Background(), "artifact load slow")

	assert.Contains(t, buf.String(), "artifact load slow")
	assert.False(t, strings.HasPrefix(buf.String(), "{"))
}

func TestLogger_LevelFiltering(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Level = zapcore.WarnLevel
	logger, buf := newBufferLogger(t, cfg)

	ctx := context.Background()
	logger.Debug(ctx, "hidden debug")
	logger.Info(ctx, "hidden info")
	logger.Trace(ctx, "hidden trace")
	logger.Error(ctx, "visible error")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible error")
	assert.False(t, logger.Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Enabled(zapcore.ErrorLevel))
}

func TestLogger_ChildLoggers(t *testing.T) {
	tl := NewTestLogger()

	child := tl.With(zap.String("component", "artifact")).Named("store")
	child.Info(context.Background(), "cached")

	entries := tl.FilterMessage("cached").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "store", entries[0].LoggerName)
	assert.Equal(t, "artifact", entries[0].ContextMap()["component"])
}

func TestIsStdoutSyncError(t *testing.T) {
	assert.True(t, isStdoutSyncError(syscall.EINVAL))
	assert.True(t, isStdoutSyncError(syscall.ENOTTY))
	assert.False(t, isStdoutSyncError(syscall.EIO))
	assert.False(t, isStdoutSyncError(assert.AnError))
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"trace", TraceLevel, false},
		{"DEBUG", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := LevelFromString(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromSettings(t *testing.T) {
	cfg, err := FromSettings("debug", "console")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level)
	assert.Equal(t, "console", cfg.Format)

	_, err = FromSettings("nope", "json")
	assert.Error(t, err)

	_, err = FromSettings("info", "xml")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad output", func(c *Config) { c.Output = "file" }},
		{"zero tick", func(c *Config) { c.Sampling.Tick = 0 }},
		{"zero initial", func(c *Config) { c.Sampling.Initial = 0 }},
		{"negative thereafter", func(c *Config) { c.Sampling.Thereafter = -1 }},
		{"empty field key", func(c *Config) { c.Fields[""] = "x" }},
		{"empty field value", func(c *Config) { c.Fields["env"] = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, NewDefaultConfig().Validate())
}
