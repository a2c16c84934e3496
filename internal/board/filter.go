package board

import (
	"fmt"
	"time"
)

// Criteria selects projects or activities. Empty fields and All pass
// everything; set fields compose with AND.
type Criteria struct {
	Department string
	// Status matches a project's derived classification, or an activity's
	// own status when filtering activities.
	Status  string
	Project *ProjectIdentity
}

func pass(v string) bool { return v == "" || v == All }

func (c Criteria) matchDepartment(dept string) bool {
	return pass(c.Department) || c.Department == dept
}

func (c Criteria) matchStatus(s Status) bool {
	if pass(c.Status) {
		return true
	}
	want, ok := ParseStatus(c.Status)
	return ok && want == s
}

func (c Criteria) matchProject(id ProjectIdentity) bool {
	return c.Project == nil || *c.Project == id
}

// Active reports whether any criterion narrows the result.
func (c Criteria) Active() bool {
	return !pass(c.Department) || !pass(c.Status) || c.Project != nil
}

// FilterProjects returns the projects matching c. The input is not modified.
func FilterProjects(projects []Project, c Criteria) []Project {
	var out []Project
	for _, p := range projects {
		if c.matchDepartment(p.Department) && c.matchProject(p.Identity()) && c.matchStatus(p.Status()) {
			out = append(out, p)
		}
	}
	return out
}

// FilterActivities returns the non-summary activities matching c.
func FilterActivities(activities []Activity, c Criteria) []Activity {
	var out []Activity
	for _, a := range activities {
		if a.IsSummary {
			continue
		}
		if c.matchDepartment(a.Department) && c.matchProject(a.Identity()) && c.matchStatus(a.Status) {
			out = append(out, a)
		}
	}
	return out
}

// Projects runs the whole query: aggregate the snapshot, then filter. It is
// safe to call on every filter change.
func Projects(s *Snapshot, c Criteria) []Project {
	return FilterProjects(Aggregate(s.All(), nil), c)
}

// DueBucket is a to-do due-date filter.
type DueBucket string

const (
	DueAll      DueBucket = All
	DueToday    DueBucket = "today"
	DueTomorrow DueBucket = "tomorrow"
	DueThisWeek DueBucket = "this-week"
	DueOverdue  DueBucket = "overdue"
)

// DueBuckets lists the buckets in chip order.
func DueBuckets() []DueBucket {
	return []DueBucket{DueAll, DueToday, DueTomorrow, DueThisWeek, DueOverdue}
}

func ParseDueBucket(s string) (DueBucket, error) {
	for _, b := range DueBuckets() {
		if string(b) == s {
			return b, nil
		}
	}
	if s == "" {
		return DueAll, nil
	}
	return "", fmt.Errorf("unknown due bucket %q", s)
}

// Label is the human form, e.g. "this week".
func (b DueBucket) Label() string {
	switch b {
	case DueThisWeek:
		return "this week"
	case DueAll:
		return "all dates"
	}
	return string(b)
}

// Match reports whether a due date falls in the bucket relative to now.
// Dates are compared by calendar day in now's location. A missing or
// malformed due date matches only DueAll.
func (b DueBucket) Match(dueDate string, now time.Time) bool {
	if b == DueAll || b == "" {
		return true
	}
	due, ok := ParseDueDate(dueDate, now.Location())
	if !ok {
		return false
	}
	today := startOfDay(now)
	due = startOfDay(due)

	switch b {
	case DueToday:
		return due.Equal(today)
	case DueTomorrow:
		return due.Equal(today.AddDate(0, 0, 1))
	case DueThisWeek:
		return !due.Before(today) && !due.After(today.AddDate(0, 0, 7))
	case DueOverdue:
		return due.Before(today)
	}
	return true
}

// TodoCriteria filters to-do items.
type TodoCriteria struct {
	Department string
	Due        DueBucket
	Status     string
}

// FilterTodos returns the to-dos matching c relative to now.
func FilterTodos(todos []TodoItem, c TodoCriteria, now time.Time) []TodoItem {
	sc := Criteria{Status: c.Status}
	var out []TodoItem
	for _, t := range todos {
		if !pass(c.Department) && t.Department != c.Department {
			continue
		}
		if !sc.matchStatus(t.Status) {
			continue
		}
		if !c.Due.Match(t.DueDate, now) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// PendingCount counts to-dos not marked done in checked. checked is keyed by
// TodoKey and holds the session check-off state.
func PendingCount(todos []TodoItem, checked map[string]bool) int {
	n := 0
	for _, t := range todos {
		if !IsChecked(t, checked) {
			n++
		}
	}
	return n
}

// IsChecked reports the check-off state: an explicit toggle wins, otherwise
// completed items start checked.
func IsChecked(t TodoItem, checked map[string]bool) bool {
	if v, ok := checked[TodoKey(t)]; ok {
		return v
	}
	return t.Status == StatusComplete
}

// TodoKey identifies a to-do within one load.
func TodoKey(t TodoItem) string {
	return t.ID + "|" + t.Department + "|" + t.Item
}
