package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"clipforge/internal/services"
)

func TestConsoleHandlerHeaderAndFields(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("segment normalized",
		String(FieldComponent, "compose"),
		String(FieldJobID, "01ARZ3NDEKTSV4RRFFQ69G5FAV"),
		String(FieldStage, "normalizing"),
		Int(FieldPartIndex, 3),
	)

	out := buf.String()
	if !strings.Contains(out, "[compose]") {
		t.Fatalf("component missing from header: %q", out)
	}
	if !strings.Contains(out, "job=01ARZ3NDEKTSV4RRFFQ69G5FAV") {
		t.Fatalf("job missing from header: %q", out)
	}
	if !strings.Contains(out, "stage=normalizing") {
		t.Fatalf("stage missing from header: %q", out)
	}
	if !strings.Contains(out, "- part_index: 3") {
		t.Fatalf("field line missing: %q", out)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Fatalf("info line not filtered: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, levelVar))

	logger.Error("encode failed", Error(nil), String(FieldStage, "concatenating"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if record["msg"] != "encode failed" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if record["level"] != "error" {
		t.Fatalf("unexpected level: %v", record["level"])
	}
	if record["stage"] != "concatenating" {
		t.Fatalf("unexpected stage: %v", record["stage"])
	}
}

func TestWithContextAddsIdentityFields(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	ctx := services.WithJobID(context.Background(), "abc123")
	ctx = services.WithStage(ctx, "resolving")

	WithContext(ctx, logger).Info("resolving assets")

	out := buf.String()
	if !strings.Contains(out, "job=abc123") || !strings.Contains(out, "stage=resolving") {
		t.Fatalf("context fields missing: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
