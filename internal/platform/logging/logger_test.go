package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/trace"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := sonic.UnmarshalString(line, &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestLogger_WritesKeyValuesAndServiceFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{
		Level:       LevelInfo,
		Writer:      &buf,
		ServiceName: "quiniela",
		Environment: "test",
	})

	logger.Debug("hidden")
	logger.Info("ticket submitted", "ticket_id", "t-1", "picks", 3)
	logger.With("component", "sync").Warn("round skipped", "error", errors.New("boom"), "dangling")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %s", len(entries), buf.String())
	}

	first := entries[0]
	if first["msg"] != "ticket submitted" || first["ticket_id"] != "t-1" || first["picks"] != float64(3) {
		t.Fatalf("unexpected first entry: %v", first)
	}
	if first["service"] != "quiniela" || first["env"] != "test" {
		t.Fatalf("service fields missing: %v", first)
	}

	second := entries[1]
	if second["component"] != "sync" || second["error"] != "boom" {
		t.Fatalf("unexpected second entry: %v", second)
	}
	if _, ok := second["dangling"]; !ok {
		t.Fatalf("dangling key should be kept: %v", second)
	}
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Writer: &buf})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "traced")
	logger.InfoContext(context.Background(), "untraced")

	entries := decodeLines(t, &buf)
	if entries[0]["trace_id"] != traceID.String() || entries[0]["span_id"] != spanID.String() {
		t.Fatalf("trace ids missing: %v", entries[0])
	}
	if _, ok := entries[1]["trace_id"]; ok {
		t.Fatalf("untraced entry should not carry trace id: %v", entries[1])
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q): expected %v, got %v", input, want, got)
		}
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("no panic")
	if logger.With("k", "v") == nil {
		t.Fatalf("With on nil logger should return a usable logger")
	}
}
