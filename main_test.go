package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/sheetboard/internal/board"
)

func activity(dept, projectType, status string, days float64) board.Activity {
	return board.Activity{
		Seq:           "1",
		ProjectType:   projectType,
		ProkerBacklog: "Proker",
		Label:         projectType + " work",
		EffortDays:    days,
		Status:        board.NormalizeStatus(status),
		Department:    dept,
		ProjectKey:    board.ProjectKey(dept, projectType, "Proker"),
	}
}

func withFilters(t *testing.T, dept, status, sort string) {
	t.Helper()
	oldDept, oldStatus, oldSort := filterDepartment, filterStatus, sortBy
	filterDepartment, filterStatus, sortBy = dept, status, sort
	t.Cleanup(func() { filterDepartment, filterStatus, sortBy = oldDept, oldStatus, oldSort })
}

func TestValidateFilters(t *testing.T) {
	tests := []struct {
		status, sort string
		wantErr      bool
	}{
		{board.All, "source", false},
		{"in-progress", "effort", false},
		{"Complete", "name", false},
		{"done", "source", true},
		{board.All, "date", true},
	}
	for _, tt := range tests {
		withFilters(t, board.All, tt.status, tt.sort)
		err := validateFilters()
		if (err != nil) != tt.wantErr {
			t.Errorf("validateFilters(%q, %q) error = %v, wantErr %v", tt.status, tt.sort, err, tt.wantErr)
		}
	}
}

func TestRunExportRejectsUnknownFormat(t *testing.T) {
	old := exportFormat
	exportFormat = "xml"
	t.Cleanup(func() { exportFormat = old })

	err := runExport(exportCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

func TestPrintSummary(t *testing.T) {
	snap := board.NewSnapshotBuilder().
		Append(board.DepartmentBatch{Department: "Riset", Activities: []board.Activity{
			activity("Riset", "Website", "Complete", 2),
			activity("Riset", "Infra", "In Progress", 1.5),
		}}).
		Append(board.DepartmentBatch{Department: "Digitalisasi"}).
		Todos([]board.TodoItem{{ID: "1", Item: "Renew domain", Status: board.StatusOutstanding, DueDate: "-"}}).
		Build(time.Now())

	projects := board.Projects(snap, board.Criteria{})
	var buf bytes.Buffer
	printSummary(&buf, snap, projects, board.Summarize(projects))
	out := buf.String()

	for _, want := range []string{
		"Total projects   2",
		"Completed        1",
		"In progress      1",
		"Total mandays    3.5",
		"Digitalisasi",
		"Website",
		"100%",
		"1 tasks pending",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummaryNoProjects(t *testing.T) {
	snap := board.NewSnapshotBuilder().Append(board.DepartmentBatch{Department: "Riset"}).Build(time.Now())

	var buf bytes.Buffer
	printSummary(&buf, snap, nil, board.Stats{})
	if !strings.Contains(buf.String(), "No projects found") {
		t.Errorf("expected empty message, got:\n%s", buf.String())
	}
}
