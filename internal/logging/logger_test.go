package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandlerFormatsComponentAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl))

	logger = logger.With(String(FieldComponent, "catalog"))
	logger.Info("search complete", Int("results", 20), String("term", "hip hop"))

	line := buf.String()
	if !strings.Contains(line, "INFO catalog: search complete") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "results=20") {
		t.Fatalf("missing attr in line: %q", line)
	}
	if !strings.Contains(line, `term="hip hop"`) {
		t.Fatalf("expected quoted value in line: %q", line)
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, lvl))

	logger.Info("suppressed")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info line should be suppressed: %q", out)
	}
	if !strings.Contains(out, "WARN kept") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewJSONFormat(t *testing.T) {
	t.Parallel()

	logger, err := New(Options{Format: "json", Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger")
	}
}
