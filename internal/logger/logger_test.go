package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "json")

	log.Info("dropped")
	log.Warn("kept", slog.String("city", "Windhoek"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "kept" || entry["city"] != "Windhoek" {
		t.Errorf("entry = %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestIDContext(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	SetupTo(&buf, "info", "text")
	defer slog.SetDefault(prev)

	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestID(ctx); got != "req-123" {
		t.Fatalf("RequestID() = %q", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID() on empty ctx = %q", got)
	}

	Error(ctx, "weather fetch failed", errors.New("boom"))
	out := buf.String()
	if !strings.Contains(out, "request_id=req-123") || !strings.Contains(out, "error=boom") {
		t.Errorf("log output missing attributes: %q", out)
	}
}
