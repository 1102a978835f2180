package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewJSONLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: "warn", Format: "json"})
	logger.Info().Msg("hidden")
	logger.Warn().Str("component", "scanner").Msg("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if entry["level"] != "warn" || entry["component"] != "scanner" || entry["time"] == nil {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewConsoleDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Format: "console"})
	logger.Debug().Msg("hidden")
	logger.Info().Msg("page parsed")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "page parsed") || strings.HasPrefix(out, "{") {
		t.Fatalf("unexpected console output %q", out)
	}
}

func TestOpenWritesAndClosesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.log")
	logger, closeLog := Open(Config{Level: "debug", Output: path})
	logger.Debug().Msg("to file")
	if err := closeLog(); err != nil {
		t.Fatalf("close log: %v", err)
	}
	if err := closeLog(); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected file to be closed already, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"message":"to file"`) {
		t.Fatalf("unexpected log file %q", data)
	}

	_, closeStderr := Open(Config{})
	if err := closeStderr(); err != nil {
		t.Fatalf("closing stderr logger should be a no-op: %v", err)
	}
	if terminal(&bytes.Buffer{}) {
		t.Fatalf("buffer reported as terminal")
	}
}
