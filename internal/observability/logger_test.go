package observability

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies case-insensitive parsing with an info fallback.
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in     string
		expect zapcore.Level
	}{
		{"", zap.InfoLevel},
		{"INFO", zap.InfoLevel},
		{"DEBUG", zap.DebugLevel},
		{"WARN", zap.WarnLevel},
		{"ERROR", zap.ErrorLevel},
		{"debug", zap.DebugLevel},
		{"  warn  ", zap.WarnLevel},
		{"invalid", zap.InfoLevel},
	}
	for _, tt := range tests {
		level := ParseLogLevel(tt.in)
		if got := level.Level(); got != tt.expect {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.expect)
		}
	}
}

func TestNewLogger_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	logger.Info("day simulated", zap.String("date", "2024-01-02"))
	logger.Debug("hidden")
	_ = logger.Sync()

	out := buf.String()
	if !strings.Contains(out, "day simulated") || !strings.Contains(out, "2024-01-02") {
		t.Errorf("log output missing message or field: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug message written at info level")
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "error")

	logger.Warn("warned")
	logger.Error("failed")
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "warned") {
		t.Error("warn message written at error level")
	}
	if !strings.Contains(out, "failed") {
		t.Error("error message missing")
	}
}
