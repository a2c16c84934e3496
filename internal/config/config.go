// Package config loads sheetboard settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPTimeoutSeconds = 30
	defaultProjectsRange      = "A:M"
	defaultTodoSheet          = "Sheet1"
	defaultTodoRange          = "A:G"
)

// Department maps a sheet tab to the department name shown in the UI.
type Department struct {
	Sheet string `yaml:"sheet"`
	Name  string `yaml:"name"`
}

type Config struct {
	APIKey         string `yaml:"api_key"`
	SheetsEndpoint string `yaml:"sheets_endpoint"`

	ProjectsSpreadsheetID string       `yaml:"projects_spreadsheet_id"`
	ProjectsRange         string       `yaml:"projects_range"`
	Departments           []Department `yaml:"departments"`

	TodoSpreadsheetID string `yaml:"todo_spreadsheet_id"`
	TodoSheet         string `yaml:"todo_sheet"`
	TodoRange         string `yaml:"todo_range"`

	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
	RefreshSchedule    string `yaml:"refresh_schedule"`

	DBPath  string `yaml:"db_path"`
	LogPath string `yaml:"log_path"`

	Schedule cron.Schedule `yaml:"-"` // parsed from RefreshSchedule, nil when unset
}

// DefaultDepartments are the three department tabs of the projects workbook.
func DefaultDepartments() []Department {
	return []Department{
		{Sheet: "Riset", Name: "Riset"},
		{Sheet: "Digitalisasi", Name: "Digitalisasi"},
		{Sheet: "System Development", Name: "System Development"},
	}
}

// DefaultDir returns <UserConfigDir>/sheetboard.
func DefaultDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "sheetboard"), nil
}

// DefaultPath is where Load looks when SHEETBOARD_CONFIG is unset.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path (a missing file is fine), applies env overrides and
// defaults, and validates the result. An empty path selects
// SHEETBOARD_CONFIG or DefaultPath.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("SHEETBOARD_CONFIG")
	}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(&cfg)
	if err := applyDefaults(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envOverride(&cfg.APIKey, "SHEETS_API_KEY")
	envOverride(&cfg.SheetsEndpoint, "SHEETS_ENDPOINT")
	envOverride(&cfg.ProjectsSpreadsheetID, "PROJECTS_SPREADSHEET_ID")
	envOverride(&cfg.TodoSpreadsheetID, "TODO_SPREADSHEET_ID")
	envOverride(&cfg.DBPath, "SHEETBOARD_DB_PATH")
	envOverride(&cfg.LogPath, "SHEETBOARD_LOG_PATH")
	envOverride(&cfg.RefreshSchedule, "REFRESH_SCHEDULE")
	envOverrideInt(&cfg.HTTPTimeoutSeconds, "HTTP_TIMEOUT_SECONDS")

	if depts := os.Getenv("DEPARTMENT_SHEETS"); depts != "" {
		cfg.Departments = nil
		for _, d := range strings.Split(depts, ",") {
			d = strings.TrimSpace(d)
			if d != "" {
				cfg.Departments = append(cfg.Departments, Department{Sheet: d, Name: d})
			}
		}
	}
}

func applyDefaults(cfg *Config) error {
	if len(cfg.Departments) == 0 {
		cfg.Departments = DefaultDepartments()
	}
	for i := range cfg.Departments {
		if cfg.Departments[i].Name == "" {
			cfg.Departments[i].Name = cfg.Departments[i].Sheet
		}
	}
	if cfg.ProjectsRange == "" {
		cfg.ProjectsRange = defaultProjectsRange
	}
	if cfg.TodoSheet == "" {
		cfg.TodoSheet = defaultTodoSheet
	}
	if cfg.TodoRange == "" {
		cfg.TodoRange = defaultTodoRange
	}
	if cfg.HTTPTimeoutSeconds == 0 {
		cfg.HTTPTimeoutSeconds = defaultHTTPTimeoutSeconds
	}

	if cfg.DBPath == "" || cfg.LogPath == "" {
		dir, err := DefaultDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(dir, "sheetboard.db")
		}
		if cfg.LogPath == "" {
			cfg.LogPath = filepath.Join(dir, "sheetboard.log")
		}
	}
	return nil
}

// Validate checks required fields and parses the refresh schedule.
func (c *Config) Validate() error {
	required := []struct{ name, val string }{
		{"api_key", c.APIKey},
		{"projects_spreadsheet_id", c.ProjectsSpreadsheetID},
		{"todo_spreadsheet_id", c.TodoSpreadsheetID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			return fmt.Errorf("required config %q is not set (via config.yaml or env var)", r.name)
		}
	}

	seen := make(map[string]bool)
	for _, d := range c.Departments {
		if strings.TrimSpace(d.Sheet) == "" {
			return fmt.Errorf("department %q has no sheet name", d.Name)
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate department %q", d.Name)
		}
		seen[d.Name] = true
	}

	if c.HTTPTimeoutSeconds < 5 {
		return fmt.Errorf("invalid http_timeout_seconds '%d': must be >= 5", c.HTTPTimeoutSeconds)
	}

	c.Schedule = nil
	if s := strings.TrimSpace(c.RefreshSchedule); s != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		sched, err := parser.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid refresh_schedule '%s': %w", s, err)
		}
		c.Schedule = sched
	}
	return nil
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// DepartmentNames lists department display names in configured order.
func (c Config) DepartmentNames() []string {
	names := make([]string, len(c.Departments))
	for i, d := range c.Departments {
		names[i] = d.Name
	}
	return names
}

// NextRefresh returns the next scheduled reload after now, or the zero time
// when no schedule is configured.
func (c Config) NextRefresh(now time.Time) time.Time {
	if c.Schedule == nil {
		return time.Time{}
	}
	return c.Schedule.Next(now)
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		}
	}
}
