package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testHeaders = []string{"No", "Project Type", "Proker/Backlog", "Priority", "Aktivitas", "Role", "Mandays", "Status", "Plan", "", "Actual", "", ""}

func sheet(rows ...[]string) [][]string {
	return append([][]string{testHeaders}, rows...)
}

// ============================================================
// Status normalization
// ============================================================

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"Done", StatusComplete},
		{"done", StatusComplete},
		{" COMPLETED ", StatusComplete},
		{"complete", StatusComplete},
		{"In Progress", StatusInProgress},
		{"PROGRESS", StatusInProgress},
		{"", StatusOutstanding},
		{"   ", StatusOutstanding},
		{"-", StatusOutstanding},
		{"NaN", StatusOutstanding},
		{"nan", StatusOutstanding},
		{"whatever", StatusOutstanding},
		{"in-progress", StatusOutstanding},
	}
	for _, tt := range tests {
		if got := NormalizeStatus(tt.in); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := ParseStatus("in progress"); !ok || s != StatusInProgress {
		t.Fatalf("ParseStatus(in progress) = %q, %v", s, ok)
	}
	if _, ok := ParseStatus("all"); ok {
		t.Fatal("all is not a status")
	}
	if StatusInProgress.Slug() != "in-progress" {
		t.Fatalf("slug = %q", StatusInProgress.Slug())
	}
}

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		in    string
		label string
		class string
	}{
		{"1", "High", "high"},
		{"2", "Medium", "medium"},
		{"3", "Low", "low"},
		{"HIGH", "High", "high"},
		{"critical", "Critical", "critical"},
		{"urgent", "urgent", "medium"},
	}
	for _, tt := range tests {
		p := NormalizePriority(tt.in)
		if p.Label != tt.label || p.Class != tt.class {
			t.Errorf("NormalizePriority(%q) = %+v", tt.in, p)
		}
	}
}

// ============================================================
// Column resolver
// ============================================================

func TestResolveColumnsHeaderDetection(t *testing.T) {
	cols := ResolveColumns(testHeaders)
	want := ColumnMap{
		Seq: 0, ProjectType: 1, ProkerBacklog: 2, Priority: 3, Activity: 4,
		Role: 5, Mandays: 6, Status: 7,
		Plan:   DateRange{Start: 8, End: 9},
		Actual: DateRange{Start: 10, End: 11},
	}
	if diff := cmp.Diff(want, cols); diff != "" {
		t.Fatalf("ResolveColumns mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveColumnsFallsBackWhenProjectTypeMissing(t *testing.T) {
	headers := []string{"No", "Type", "Backlog", "Priority", "Activity", "Role", "Mandays", "Status", "Plan", "", "Actual", "", ""}
	cols := ResolveColumns(headers)
	if cols.Status != 7 {
		t.Fatalf("status = %d, want 7", cols.Status)
	}
	if !cols.Fallback {
		t.Fatal("expected fallback when project type is unresolved")
	}
	if cols.ProjectType != 1 {
		t.Fatalf("project type = %d, want fallback 1", cols.ProjectType)
	}
	if cols.Plan != (DateRange{Start: 8, End: 9}) || cols.Actual != (DateRange{Start: 10, End: 11}) {
		t.Fatalf("plan/actual = %+v / %+v", cols.Plan, cols.Actual)
	}
}

func TestResolveColumnsFallbackKeepsResolvedFields(t *testing.T) {
	// Status is missing, so the fallback fires, but the detected columns
	// for activity and mandays must survive.
	headers := []string{"Project", "Activity", "Est. Days"}
	cols := ResolveColumns(headers)
	if !cols.Fallback {
		t.Fatal("expected fallback")
	}
	if cols.ProjectType != 0 || cols.Activity != 1 || cols.Mandays != 2 {
		t.Fatalf("resolved fields overwritten: %+v", cols)
	}
	if cols.Status != DefaultColumns.Status || cols.Role != DefaultColumns.Role {
		t.Fatalf("unresolved fields not defaulted: %+v", cols)
	}
}

func TestResolveColumnsNoFallbackWhenRequiredFound(t *testing.T) {
	headers := []string{"Project Type", "Activity", "Status"}
	cols := ResolveColumns(headers)
	if cols.Fallback {
		t.Fatal("fallback should not fire")
	}
	if cols.Mandays != Unresolved || cols.Plan.Resolved() {
		t.Fatalf("unmatched fields should stay unresolved: %+v", cols)
	}
}

func TestResolveColumnsStatusDisambiguation(t *testing.T) {
	headers := []string{"Project Type", "Plan Status", "Actual Status", "Status"}
	cols := ResolveColumns(headers)
	if cols.Status != 3 {
		t.Fatalf("status = %d, want 3", cols.Status)
	}
}

func TestResolveColumnsNoteIsNotSeq(t *testing.T) {
	cols := ResolveColumns([]string{"Notes", "No.", "Project", "Status"})
	if cols.Seq != 1 {
		t.Fatalf("seq = %d, want 1", cols.Seq)
	}
}

// ============================================================
// Row normalizer
// ============================================================

func TestFillDownWithinSheet(t *testing.T) {
	res := ParseSheet("Riset", sheet(
		[]string{"1", "Website", "Q1", "High", "Design", "UI", "3", "Done"},
		[]string{"2", "-", "", "", "Build", "Dev", "2", ""},
		[]string{"3", "", "-", "-", "Test", "QA", "1", "progress"},
		[]string{"4", "Mobile", "Q2", "2", "Spec", "PM", "1", ""},
		[]string{"5", "", "", "", "Ship", "PM", "1", ""},
	))
	if len(res.Activities) != 5 {
		t.Fatalf("got %d activities, want 5", len(res.Activities))
	}
	wantTypes := []string{"Website", "Website", "Website", "Mobile", "Mobile"}
	wantBacklog := []string{"Q1", "Q1", "Q1", "Q2", "Q2"}
	wantPriority := []string{"High", "High", "High", "2", "2"}
	for i, a := range res.Activities {
		if a.ProjectType != wantTypes[i] || a.ProkerBacklog != wantBacklog[i] || a.Priority != wantPriority[i] {
			t.Errorf("row %d: got %s/%s/%s", i, a.ProjectType, a.ProkerBacklog, a.Priority)
		}
	}
}

func TestFillDownResetsAtSheetBoundary(t *testing.T) {
	first := ParseSheet("Riset", sheet([]string{"1", "Website", "Q1", "1", "Design", "", "1", ""}))
	second := ParseSheet("Digitalisasi", sheet([]string{"1", "-", "-", "-", "Orphan", "", "1", ""}))
	if len(first.Activities) != 1 {
		t.Fatalf("first sheet: %d activities", len(first.Activities))
	}
	if len(second.Activities) != 0 {
		t.Fatalf("fill-down leaked across sheets: %+v", second.Activities)
	}
}

func TestRowWithoutLabelRejected(t *testing.T) {
	for _, label := range []string{"", "-", "   "} {
		res := ParseSheet("Riset", sheet([]string{"1", "Website", "Q1", "1", label, "UI", "3", "Done"}))
		if len(res.Activities) != 0 {
			t.Errorf("label %q: row should be rejected", label)
		}
	}
}

func TestRejectedRowStillOpensSection(t *testing.T) {
	res := ParseSheet("Riset", sheet(
		[]string{"", "Website", "Q1", "1", "", "", "", ""},
		[]string{"1", "", "", "", "Design", "UI", "3", "Done"},
	))
	if len(res.Activities) != 1 || res.Activities[0].ProjectType != "Website" {
		t.Fatalf("section header row should set fill-down: %+v", res.Activities)
	}
}

func TestRowsBeforeAnyProjectTypeDropped(t *testing.T) {
	res := ParseSheet("Riset", sheet([]string{"1", "", "", "", "Loose", "", "1", ""}))
	if len(res.Activities) != 0 {
		t.Fatalf("row without project type should be dropped: %+v", res.Activities)
	}
}

func TestParseEffort(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"3", 3},
		{"2.5", 2.5},
		{" 4 ", 4},
		{"3 days", 3},
		{"", 0},
		{"-", 0},
		{"abc", 0},
		{"-2", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1e999", 0},
	}
	for _, tt := range tests {
		if got := ParseEffort(tt.in); got != tt.want {
			t.Errorf("ParseEffort(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSummaryRowFlagged(t *testing.T) {
	res := ParseSheet("Riset", sheet(
		[]string{"1", "Website", "Q1", "1", "Design", "UI", "3", "Done"},
		[]string{"", "", "", "", "TOTAL MANDAYS", "", "3", ""},
	))
	if len(res.Activities) != 2 {
		t.Fatalf("summary row should be kept in the store: %d", len(res.Activities))
	}
	if res.Activities[0].IsSummary || !res.Activities[1].IsSummary {
		t.Fatalf("summary flags wrong: %+v", res.Activities)
	}
}

func TestProjectKey(t *testing.T) {
	got := ProjectKey("System Development", "Web  Portal", "Q1 2026")
	if got != "System_Development_Web_Portal_Q1_2026" {
		t.Fatalf("ProjectKey = %q", got)
	}
}

func TestNormalizeRowShortRow(t *testing.T) {
	var fd FillDown
	a, ok := NormalizeRow([]string{"1", "Website", "", "", "Design"}, DefaultColumns, &fd, "Riset")
	if !ok {
		t.Fatal("short row with label should normalize")
	}
	if a.Status != StatusOutstanding || a.EffortDays != 0 || a.Plan.Start != Sentinel || a.Actual.End != Sentinel {
		t.Fatalf("missing cells should default: %+v", a)
	}
	if a.ProkerBacklog != Sentinel {
		t.Fatalf("proker = %q", a.ProkerBacklog)
	}
}

func TestNormalizeRowTimelines(t *testing.T) {
	var fd FillDown
	row := []string{"1", "Website", "Q1", "1", "Design", "UI", "3", "Done", "01/02/2026", "05/02/2026", "02/02/2026", ""}
	a, _ := NormalizeRow(row, DefaultColumns, &fd, "Riset")
	if a.Plan != (Timeline{Start: "01/02/2026", End: "05/02/2026"}) {
		t.Fatalf("plan = %+v", a.Plan)
	}
	if a.Actual != (Timeline{Start: "02/02/2026", End: Sentinel}) {
		t.Fatalf("actual = %+v", a.Actual)
	}
}

func TestParseSheetNoData(t *testing.T) {
	if res := ParseSheet("Riset", nil); len(res.Activities) != 0 {
		t.Fatal("nil values should yield nothing")
	}
	if res := ParseSheet("Riset", [][]string{testHeaders}); len(res.Activities) != 0 {
		t.Fatal("header-only sheet should yield nothing")
	}
}

func TestParseTodos(t *testing.T) {
	todos := ParseTodos([][]string{
		{"No", "Tipe", "Departemen", "Item", "PIC", "Due", "Status"},
		{"1", "Admin", "Riset", "Send report", "Ana", "2026-10-20", "done"},
		{"2", "Admin", "Riset", "-", "Ana", "", ""},
		{"3", "Ops", "", "Renew license"},
	})
	if len(todos) != 2 {
		t.Fatalf("got %d todos, want 2", len(todos))
	}
	if todos[0].Status != StatusComplete || todos[0].Assignee != "Ana" {
		t.Fatalf("todo[0] = %+v", todos[0])
	}
	if todos[1].Department != Sentinel || todos[1].DueDate != Sentinel || todos[1].Status != StatusOutstanding {
		t.Fatalf("todo[1] = %+v", todos[1])
	}
}
