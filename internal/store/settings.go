package store

import (
	"fmt"
	"strconv"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

const (
	KeyDefaultDepartment = "default_department"
	KeyDefaultStatus     = "default_status"
	KeyDefaultDue        = "default_due"
	KeyDefaultTodoStatus = "default_todo_status"
	KeyDashboardLimit    = "dashboard_limit"
	KeyProjectSort       = "project_sort"
)

const defaultDashboardLimit = 5

// Preferences reads the typed preferences, falling back to defaults for
// missing or malformed values.
func (s *Store) Preferences() (Preferences, error) {
	p := Preferences{
		DefaultDepartment: "all",
		DefaultStatus:     "all",
		DefaultDue:        "all",
		DefaultTodoStatus: "outstanding",
		DashboardLimit:    defaultDashboardLimit,
		ProjectSort:       "source",
	}
	all, err := s.GetAllSettings()
	if err != nil {
		return p, err
	}
	for _, kv := range all {
		switch kv.Key {
		case KeyDefaultDepartment:
			p.DefaultDepartment = kv.Value
		case KeyDefaultStatus:
			p.DefaultStatus = kv.Value
		case KeyDefaultDue:
			p.DefaultDue = kv.Value
		case KeyDefaultTodoStatus:
			p.DefaultTodoStatus = kv.Value
		case KeyDashboardLimit:
			if n, err := strconv.Atoi(kv.Value); err == nil && n > 0 {
				p.DashboardLimit = n
			}
		case KeyProjectSort:
			p.ProjectSort = kv.Value
		}
	}
	return p, nil
}

func (s *Store) SavePreferences(p Preferences) error {
	if p.DashboardLimit <= 0 {
		return fmt.Errorf("dashboard limit must be positive, got %d", p.DashboardLimit)
	}
	pairs := []Setting{
		{KeyDefaultDepartment, p.DefaultDepartment},
		{KeyDefaultStatus, p.DefaultStatus},
		{KeyDefaultDue, p.DefaultDue},
		{KeyDefaultTodoStatus, p.DefaultTodoStatus},
		{KeyDashboardLimit, strconv.Itoa(p.DashboardLimit)},
		{KeyProjectSort, p.ProjectSort},
	}
	for _, kv := range pairs {
		if err := s.SetSetting(kv.Key, kv.Value); err != nil {
			return fmt.Errorf("save %s: %w", kv.Key, err)
		}
	}
	return nil
}
