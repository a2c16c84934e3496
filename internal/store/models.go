package store

import "time"

type Setting struct {
	Key   string
	Value string
}

// LoadRun records one load cycle, successful or not.
type LoadRun struct {
	ID          string
	StartedAt   time.Time
	Duration    time.Duration
	Departments int
	Activities  int
	Projects    int
	Todos       int
	EmptySheets []string // sheets that answered with no data
	Error       string
}

func (r LoadRun) OK() bool {
	return r.Error == ""
}

// Preferences is the typed view over the settings table.
type Preferences struct {
	DefaultDepartment string
	DefaultStatus     string
	DefaultDue        string
	DefaultTodoStatus string
	DashboardLimit    int
	ProjectSort       string
}
