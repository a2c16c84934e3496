package board

import (
	"regexp"
	"strconv"
	"strings"
)

const summaryMarker = "total mandays"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// FillDown carries the last non-empty hierarchical values down a sheet.
// Use one FillDown per sheet; a zero value starts with nothing seen.
type FillDown struct {
	ProjectType   string
	ProkerBacklog string
	Priority      string
}

func (f *FillDown) observe(field *string, cell string) {
	if !isSentinel(cell) {
		*field = cell
	}
}

// cell returns row[i], or "" when the index is unresolved or past the end
// of a row the API truncated.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// ProjectKey joins department, project type and backlog into an id-safe key.
func ProjectKey(department, projectType, prokerBacklog string) string {
	key := department + "_" + projectType + "_" + prokerBacklog
	return whitespaceRun.ReplaceAllString(key, "_")
}

// ParseEffort reads the leading number of a mandays cell, so "3", "2.5"
// and "3 days" all parse. Anything else, and negative values, yield 0.
func ParseEffort(raw string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// NormalizeRow converts one data row into an Activity. Fill-down state is
// updated before the row is judged, so a row without an activity label can
// still open a new project section. The boolean is false when the row has no
// activity label.
func NormalizeRow(row []string, cols ColumnMap, fd *FillDown, department string) (Activity, bool) {
	fd.observe(&fd.ProjectType, cell(row, cols.ProjectType))
	fd.observe(&fd.ProkerBacklog, cell(row, cols.ProkerBacklog))
	fd.observe(&fd.Priority, cell(row, cols.Priority))

	label := cell(row, cols.Activity)
	if isSentinel(label) {
		return Activity{}, false
	}

	projectType := orSentinel(fd.ProjectType)
	proker := orSentinel(fd.ProkerBacklog)

	return Activity{
		Seq:           orSentinel(cell(row, cols.Seq)),
		ProjectType:   projectType,
		ProkerBacklog: proker,
		Priority:      orSentinel(fd.Priority),
		Label:         label,
		Role:          orSentinel(cell(row, cols.Role)),
		EffortDays:    ParseEffort(cell(row, cols.Mandays)),
		Status:        NormalizeStatus(cell(row, cols.Status)),
		Plan: Timeline{
			Start: orSentinel(cell(row, cols.Plan.Start)),
			End:   orSentinel(cell(row, cols.Plan.End)),
		},
		Actual: Timeline{
			Start: orSentinel(cell(row, cols.Actual.Start)),
			End:   orSentinel(cell(row, cols.Actual.End)),
		},
		Department: department,
		ProjectKey: ProjectKey(department, projectType, proker),
		IsSummary:  strings.Contains(strings.ToLower(label), summaryMarker),
	}, true
}

// SheetResult is the outcome of parsing one department sheet.
type SheetResult struct {
	Department string
	Columns    ColumnMap
	Rows       int
	Activities []Activity
}

// ParseSheet resolves columns from the header row and normalizes every data
// row with fresh fill-down state. Activities without a project type are
// dropped; summary rows are kept and flagged. Fewer than two rows means no
// data.
func ParseSheet(department string, values [][]string) SheetResult {
	res := SheetResult{Department: department}
	if len(values) < 2 {
		return res
	}
	res.Columns = ResolveColumns(values[0])
	res.Rows = len(values) - 1

	var fd FillDown
	for _, row := range values[1:] {
		a, ok := NormalizeRow(row, res.Columns, &fd, department)
		if !ok || isSentinel(a.ProjectType) || isSentinel(a.Label) {
			continue
		}
		res.Activities = append(res.Activities, a)
	}
	return res
}

// ParseTodos reads the to-do sheet. Its layout is fixed:
// no, type, department, item, assignee, due date, status.
func ParseTodos(values [][]string) []TodoItem {
	if len(values) < 2 {
		return nil
	}
	var todos []TodoItem
	for _, row := range values[1:] {
		t := TodoItem{
			ID:         orSentinel(cell(row, 0)),
			Type:       orSentinel(cell(row, 1)),
			Department: orSentinel(cell(row, 2)),
			Item:       orSentinel(cell(row, 3)),
			Assignee:   orSentinel(cell(row, 4)),
			DueDate:    orSentinel(cell(row, 5)),
			Status:     NormalizeStatus(cell(row, 6)),
		}
		if t.Item == Sentinel {
			continue
		}
		todos = append(todos, t)
	}
	return todos
}
