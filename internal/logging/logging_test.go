package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		out = append(out, m)
	}
	return out
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sheetboard.log")
	logger, err := New(path, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("load finished")
	logger.Debug("hidden")
	logger.Sync()

	lines := readLines(t, path)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line at info level, got %d", len(lines))
	}
	if lines[0]["msg"] != "load finished" || lines[0]["level"] != "info" {
		t.Errorf("unexpected entry: %v", lines[0])
	}
	if _, ok := lines[0]["time"]; !ok {
		t.Error("expected time key")
	}
}

func TestNewVerboseLogsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheetboard.log")
	logger, err := New(path, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("column fallback")
	logger.Sync()

	lines := readLines(t, path)
	if len(lines) != 1 || lines[0]["level"] != "debug" {
		t.Fatalf("expected one debug line, got %v", lines)
	}
}
