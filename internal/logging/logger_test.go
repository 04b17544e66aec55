package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	WithComponent(logger, "scanner").Info("file cataloged",
		String(FieldPath, "/roms/snes/game.sfc"),
		Int("size", 42),
	)

	out := buf.String()
	if !strings.Contains(out, "[scanner]") {
		t.Fatalf("missing component tag: %q", out)
	}
	if !strings.Contains(out, "file cataloged") {
		t.Fatalf("missing message: %q", out)
	}
	if !strings.Contains(out, "path=/roms/snes/game.sfc") {
		t.Fatalf("missing path attr: %q", out)
	}
	if !strings.Contains(out, "size=42") {
		t.Fatalf("missing size attr: %q", out)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("warn suppressed: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
