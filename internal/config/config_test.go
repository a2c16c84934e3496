package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var envKeys = []string{
	"SHEETBOARD_CONFIG", "SHEETS_API_KEY", "SHEETS_ENDPOINT",
	"PROJECTS_SPREADSHEET_ID", "TODO_SPREADSHEET_ID", "SHEETBOARD_DB_PATH",
	"SHEETBOARD_LOG_PATH", "REFRESH_SCHEDULE", "HTTP_TIMEOUT_SECONDS",
	"DEPARTMENT_SHEETS",
}

func cleanEnv(t *testing.T) string {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalYAML = `
api_key: key-1
projects_spreadsheet_id: proj-1
todo_spreadsheet_id: todo-1
`

func TestLoadDefaults(t *testing.T) {
	cleanEnv(t)
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(DefaultDepartments(), cfg.Departments); diff != "" {
		t.Errorf("departments mismatch (-want +got):\n%s", diff)
	}
	if cfg.ProjectsRange != "A:M" || cfg.TodoSheet != "Sheet1" || cfg.TodoRange != "A:G" {
		t.Errorf("ranges = %q %q %q", cfg.ProjectsRange, cfg.TodoSheet, cfg.TodoRange)
	}
	if cfg.HTTPTimeout() != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.HTTPTimeout())
	}
	if !strings.HasSuffix(cfg.DBPath, filepath.Join("sheetboard", "sheetboard.db")) {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.Schedule != nil {
		t.Error("schedule should be nil when unset")
	}
	if !cfg.NextRefresh(time.Now()).IsZero() {
		t.Error("NextRefresh should be zero without a schedule")
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	dir := cleanEnv(t)
	t.Setenv("SHEETS_API_KEY", "env-key")
	t.Setenv("PROJECTS_SPREADSHEET_ID", "env-proj")
	t.Setenv("TODO_SPREADSHEET_ID", "env-todo")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "12")
	t.Setenv("DEPARTMENT_SHEETS", "Ops, Finance")

	cfg, err := Load(filepath.Join(dir, "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "env-key" || cfg.ProjectsSpreadsheetID != "env-proj" || cfg.TodoSpreadsheetID != "env-todo" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.HTTPTimeoutSeconds != 12 {
		t.Errorf("timeout = %d, want 12", cfg.HTTPTimeoutSeconds)
	}
	if diff := cmp.Diff([]string{"Ops", "Finance"}, cfg.DepartmentNames()); diff != "" {
		t.Errorf("departments mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	cleanEnv(t)
	t.Setenv("SHEETS_API_KEY", "from-env")
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "from-env" {
		t.Errorf("api key = %q, want from-env", cfg.APIKey)
	}
}

func TestLoadViaConfigEnvVar(t *testing.T) {
	cleanEnv(t)
	t.Setenv("SHEETBOARD_CONFIG", writeConfig(t, minimalYAML))
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "key-1" {
		t.Errorf("api key = %q", cfg.APIKey)
	}
}

func TestDepartmentNameDefaultsToSheet(t *testing.T) {
	cleanEnv(t)
	cfg, err := Load(writeConfig(t, minimalYAML+`
departments:
  - sheet: Riset
  - sheet: SysDev
    name: System Development
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []Department{{Sheet: "Riset", Name: "Riset"}, {Sheet: "SysDev", Name: "System Development"}}
	if diff := cmp.Diff(want, cfg.Departments); diff != "" {
		t.Errorf("departments mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing api key", "projects_spreadsheet_id: p\ntodo_spreadsheet_id: t\n", "api_key"},
		{"missing todo id", "api_key: k\nprojects_spreadsheet_id: p\n", "todo_spreadsheet_id"},
		{"timeout too small", minimalYAML + "http_timeout_seconds: 2\n", "http_timeout_seconds"},
		{"bad schedule", minimalYAML + "refresh_schedule: \"every tuesday\"\n", "refresh_schedule"},
		{"duplicate department", minimalYAML + "departments:\n  - sheet: A\n    name: X\n  - sheet: B\n    name: X\n", "duplicate"},
		{"bad yaml", "api_key: [unterminated\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			_, err := Load(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRefreshSchedule(t *testing.T) {
	cleanEnv(t)
	cfg, err := Load(writeConfig(t, minimalYAML+"refresh_schedule: \"*/15 * * * *\"\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	now := time.Date(2026, 10, 19, 9, 7, 0, 0, time.UTC)
	want := time.Date(2026, 10, 19, 9, 15, 0, 0, time.UTC)
	if got := cfg.NextRefresh(now); !got.Equal(want) {
		t.Errorf("NextRefresh = %v, want %v", got, want)
	}
}
