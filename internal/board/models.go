// Package board turns flat spreadsheet rows into project and to-do views:
// column detection, row normalization with fill-down, aggregation into
// projects, and filtering.
package board

import (
	"math"
	"strings"
)

// Sentinel is the spreadsheet placeholder meaning "no value".
const Sentinel = "-"

// All is the pass-through value for every filter criterion.
const All = "all"

// Timeline is a plan or actual date span. Unset ends hold Sentinel.
type Timeline struct {
	Start string
	End   string
}

type Activity struct {
	Seq           string
	ProjectType   string
	ProkerBacklog string
	Priority      string
	Label         string
	Role          string
	EffortDays    float64
	Status        Status
	Plan          Timeline
	Actual        Timeline
	Department    string
	ProjectKey    string
	IsSummary     bool
}

// Identity returns the (projectType, prokerBacklog, department) triple.
func (a Activity) Identity() ProjectIdentity {
	return ProjectIdentity{ProjectType: a.ProjectType, ProkerBacklog: a.ProkerBacklog, Department: a.Department}
}

// ProjectIdentity is the triple used by the project-type filter.
type ProjectIdentity struct {
	ProjectType   string
	ProkerBacklog string
	Department    string
}

// Project is derived from activities on every query and never stored.
type Project struct {
	Key             string
	ProjectType     string
	ProkerBacklog   string
	Department      string
	Activities      []Activity
	TotalEffortDays float64
	Completed       int
	InProgress      int
	Outstanding     int
}

func (p Project) ActivityCount() int { return len(p.Activities) }

func (p Project) Identity() ProjectIdentity {
	return ProjectIdentity{ProjectType: p.ProjectType, ProkerBacklog: p.ProkerBacklog, Department: p.Department}
}

// Status classifies the project from its activities:
// Complete when every activity is complete, Outstanding when none is
// complete or in progress, In Progress otherwise. A project with only
// complete and outstanding activities therefore counts as In Progress.
func (p Project) Status() Status {
	// An empty project is vacuously complete.
	if p.Completed == len(p.Activities) {
		return StatusComplete
	}
	if p.InProgress > 0 || p.Completed > 0 {
		return StatusInProgress
	}
	return StatusOutstanding
}

// CompletionPercent is completed/total*100 rounded to the nearest integer,
// or 0 for a project without activities.
func (p Project) CompletionPercent() int {
	if len(p.Activities) == 0 {
		return 0
	}
	return int(math.Round(float64(p.Completed) / float64(len(p.Activities)) * 100))
}

// TodoItem is one row of the to-do sheet.
type TodoItem struct {
	ID         string
	Type       string
	Department string
	Item       string
	Assignee   string
	DueDate    string
	Status     Status
}

// isSentinel reports whether a cell carries no value.
func isSentinel(v string) bool {
	t := strings.TrimSpace(v)
	return t == "" || t == Sentinel
}

// orSentinel returns v, or Sentinel when v is empty.
func orSentinel(v string) string {
	if v == "" {
		return Sentinel
	}
	return v
}
