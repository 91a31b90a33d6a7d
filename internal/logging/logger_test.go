package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, "production", "info")
	if err != nil {
		t.Fatalf("NewWithWriter failed: %v", err)
	}

	logger.Debug().Msg("hidden")
	logger.Info().Str("lang", "en").Msg("translated")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Log line is not JSON: %v", err)
	}
	if entry["service"] != "gorelay" {
		t.Errorf("service = %v, want gorelay", entry["service"])
	}
	if entry["lang"] != "en" || entry["message"] != "translated" {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, "LOCAL", "debug")
	if err != nil {
		t.Fatalf("NewWithWriter failed: %v", err)
	}

	logger.Debug().Msg("starting")

	out := buf.String()
	if !strings.Contains(out, "starting") || !strings.Contains(out, "service=gorelay") {
		t.Errorf("Unexpected console output: %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Error("Local environment should not log JSON")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("local", "loud"); err == nil {
		t.Error("Expected error for invalid level")
	}
}
