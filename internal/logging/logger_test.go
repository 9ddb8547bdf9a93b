package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not valid JSON: %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestNewLogger(t *testing.T) {
	t.Run("creates log file in directory", func(t *testing.T) {
		dir := t.TempDir()

		logger, err := NewLogger(dir, LevelDebug, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		defer logger.Close()

		if _, err := os.Stat(filepath.Join(dir, LogFileName)); os.IsNotExist(err) {
			t.Errorf("log file was not created in %s", dir)
		}
	})

	t.Run("writes to stderr when dir is empty", func(t *testing.T) {
		logger, err := NewLogger("", LevelInfo, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		if logger.writer != nil {
			t.Error("expected no file writer when dir is empty")
		}
		if err := logger.Close(); err != nil {
			t.Errorf("Close on stderr logger should be a no-op, got %v", err)
		}
	})
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := decodeLines(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("expected 2 log lines at WARN, got %d", len(entries))
	}
	if entries[0]["msg"] != "warn message" || entries[1]["msg"] != "error message" {
		t.Errorf("unexpected messages: %v", entries)
	}

	if logger.Enabled(LevelInfo) {
		t.Error("INFO should be disabled on a WARN logger")
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "verbose")

	logger.Debug("hidden")
	logger.Info("shown")

	if entries := decodeLines(t, buf.Bytes()); len(entries) != 1 {
		t.Errorf("expected INFO fallback to log 1 line, got %d", len(entries))
	}
}

func TestChildLoggersCarryAttributes(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, LevelDebug)

	runLog := base.WithRun("run-42").WithPhase("pass")
	runLog.With("place", 2, 99, "ignored").Info("pass started", "digits", 3)
	base.Info("no attributes")

	entries := decodeLines(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(entries))
	}

	first := entries[0]
	if first["run_id"] != "run-42" || first["phase"] != "pass" {
		t.Errorf("child attributes missing: %v", first)
	}
	if first["place"] != float64(2) || first["digits"] != float64(3) {
		t.Errorf("key-value attributes missing: %v", first)
	}
	if _, ok := entries[1]["run_id"]; ok {
		t.Error("parent logger must not inherit child attributes")
	}
}

func TestWithNoArgsReturnsSameLogger(t *testing.T) {
	logger := NopLogger()
	if logger.With() != logger {
		t.Error("With() without args should return the receiver")
	}
}

func TestValidLevels(t *testing.T) {
	levels := ValidLevels()
	if len(levels) != 4 || levels[0] != LevelDebug || levels[3] != LevelError {
		t.Errorf("ValidLevels() = %v", levels)
	}
}
