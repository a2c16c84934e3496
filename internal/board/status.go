package board

import "strings"

// Status is the closed set of activity and to-do states.
type Status string

const (
	StatusComplete    Status = "Complete"
	StatusInProgress  Status = "In Progress"
	StatusOutstanding Status = "Outstanding"
)

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusComplete, StatusInProgress, StatusOutstanding}
}

// NormalizeStatus maps a raw spreadsheet cell onto a Status. It is total:
// unknown, empty, and sentinel values all map to Outstanding.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "done", "completed", "complete":
		return StatusComplete
	case "in progress", "progress":
		return StatusInProgress
	default:
		return StatusOutstanding
	}
}

// ParseStatus accepts the canonical labels and their slugs, case-insensitive.
// The boolean is false for anything else, including "all".
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "complete":
		return StatusComplete, true
	case "in progress", "in-progress":
		return StatusInProgress, true
	case "outstanding":
		return StatusOutstanding, true
	}
	return "", false
}

func (s Status) String() string { return string(s) }

// Slug is the lower-case, dash-joined form used for CSS-like classes and CLI flags.
func (s Status) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), " ", "-")
}

// Priority is the display form of an activity priority. Activities keep the
// raw cell; normalization only happens when rendering.
type Priority struct {
	Label string
	Class string // critical, high, medium, low
}

// NormalizePriority maps numeric and named priorities onto a display label.
// Unknown values keep their raw label and fall into the medium class.
func NormalizePriority(raw string) Priority {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "1", "high":
		return Priority{Label: "High", Class: "high"}
	case "2", "medium":
		return Priority{Label: "Medium", Class: "medium"}
	case "3", "low":
		return Priority{Label: "Low", Class: "low"}
	case "critical":
		return Priority{Label: "Critical", Class: "critical"}
	}
	return Priority{Label: trimmed, Class: "medium"}
}
