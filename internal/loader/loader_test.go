package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/sadopc/sheetboard/internal/board"
	"github.com/sadopc/sheetboard/internal/config"
	"github.com/sadopc/sheetboard/internal/sheets"
	"github.com/sadopc/sheetboard/internal/store"
)

// Every fetch goroutine must be gone once Load returns, including the
// cancelled ones.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeFetcher struct {
	mu      sync.Mutex
	rows    map[string][][]string
	errs    map[string]error
	block   map[string]bool // wait for cancellation
	calls   []string
	aborted []string
}

func (f *fakeFetcher) Values(ctx context.Context, spreadsheetID, sheet, cellRange string) ([][]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, spreadsheetID+"/"+sheet+"!"+cellRange)
	block := f.block[sheet]
	f.mu.Unlock()

	if block {
		select {
		case <-ctx.Done():
			f.mu.Lock()
			f.aborted = append(f.aborted, sheet)
			f.mu.Unlock()
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return nil, errors.New("not cancelled")
		}
	}
	if err := f.errs[sheet]; err != nil {
		return nil, err
	}
	return f.rows[sheet], nil
}

type memRuns struct {
	runs []store.LoadRun
}

func (m *memRuns) RecordRun(r store.LoadRun) (string, error) {
	m.runs = append(m.runs, r)
	return "id", nil
}

var header = []string{"No", "Project Type", "Proker / Backlog", "Priority", "Activity", "Role", "Mandays", "Status", "Plan Timeline", "", "Actual Timeline"}

func testConfig() config.Config {
	return config.Config{
		ProjectsSpreadsheetID: "proj",
		ProjectsRange:         "A:M",
		TodoSpreadsheetID:     "todo",
		TodoSheet:             "Sheet1",
		TodoRange:             "A:G",
		Departments:           config.DefaultDepartments(),
	}
}

func fullFetcher() *fakeFetcher {
	return &fakeFetcher{
		rows: map[string][][]string{
			"Riset": {
				header,
				{"1", "Website", "Revamp", "1", "Design", "UI", "3", "Done"},
				{"2", "", "", "", "Build", "FE", "5", "In Progress"},
			},
			"Digitalisasi": {
				header,
				{"1", "ERP", "Rollout", "2", "Migrate", "BE", "2", "Outstanding"},
			},
			"System Development": {
				header,
				{"1", "API", "Gateway", "3", "Spec", "BE", "1", "Complete"},
				{"", "", "", "", "Total Mandays", "", "1", ""},
			},
			"Sheet1": {
				{"No", "Type", "Department", "Item", "Assignee", "Due", "Status"},
				{"1", "Task", "Riset", "Write report", "Ana", "2026-10-19", "Outstanding"},
			},
		},
	}
}

func TestLoadPublishesSnapshot(t *testing.T) {
	f := fullFetcher()
	target := board.NewActivityStore()
	runs := &memRuns{}
	l := New(f, testConfig(), target, runs, zap.NewNop())

	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if target.Snapshot() != snap {
		t.Fatal("loaded snapshot was not published")
	}

	want := []string{"Riset", "Digitalisasi", "System Development"}
	if diff := cmp.Diff(want, snap.Departments()); diff != "" {
		t.Errorf("departments mismatch (-want +got):\n%s", diff)
	}
	if got := len(snap.Regular()); got != 4 {
		t.Errorf("regular activities = %d, want 4", got)
	}
	if got := len(snap.Summaries()); got != 1 {
		t.Errorf("summaries = %d, want 1", got)
	}
	if got := len(snap.Todos()); got != 1 {
		t.Errorf("todos = %d, want 1", got)
	}

	// Fill-down carries Website into the second Riset row.
	riset := snap.ByDepartment("Riset")
	if len(riset) != 2 || riset[1].ProjectType != "Website" {
		t.Errorf("fill-down not applied: %+v", riset)
	}

	if len(runs.runs) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(runs.runs))
	}
	r := runs.runs[0]
	if !r.OK() || r.Projects != 3 || r.Activities != 4 || r.Todos != 1 || r.Departments != 3 {
		t.Errorf("unexpected run: %+v", r)
	}
}

func TestLoadRequestsConfiguredRanges(t *testing.T) {
	f := fullFetcher()
	l := New(f, testConfig(), board.NewActivityStore(), nil, nil)
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := map[string]bool{}
	for _, c := range f.calls {
		got[c] = true
	}
	for _, want := range []string{"proj/Riset!A:M", "proj/Digitalisasi!A:M", "proj/System Development!A:M", "todo/Sheet1!A:G"} {
		if !got[want] {
			t.Errorf("missing fetch %q in %v", want, f.calls)
		}
	}
}

func TestLoadEmptySheetIsNotFatal(t *testing.T) {
	f := fullFetcher()
	f.errs = map[string]error{
		"Digitalisasi": fmt.Errorf("%w: 'Digitalisasi'!A:M returned 400", sheets.ErrNoData),
	}
	runs := &memRuns{}
	l := New(f, testConfig(), board.NewActivityStore(), runs, zap.NewNop())

	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := snap.ByDepartment("Digitalisasi"); len(got) != 0 {
		t.Errorf("expected no Digitalisasi rows, got %d", len(got))
	}
	if diff := cmp.Diff([]string{"Riset", "Digitalisasi", "System Development"}, snap.Departments()); diff != "" {
		t.Errorf("empty department should still be listed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Digitalisasi"}, runs.runs[0].EmptySheets); diff != "" {
		t.Errorf("empty sheets mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFailureCancelsAndPublishesNothing(t *testing.T) {
	f := fullFetcher()
	f.errs = map[string]error{"Riset": errors.New("connection reset")}
	f.block = map[string]bool{"Sheet1": true}

	target := board.NewActivityStore()
	before := target.Snapshot()
	runs := &memRuns{}
	l := New(f, testConfig(), target, runs, zap.NewNop())

	snap, err := l.Load(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if snap != nil {
		t.Fatal("expected nil snapshot on failure")
	}
	if !strings.Contains(err.Error(), "Riset") {
		t.Errorf("error should name the sheet: %v", err)
	}
	if target.Snapshot() != before {
		t.Fatal("failed load must not publish")
	}
	if diff := cmp.Diff([]string{"Sheet1"}, f.aborted); diff != "" {
		t.Errorf("blocked fetch was not cancelled (-want +got):\n%s", diff)
	}
	if len(runs.runs) != 1 || runs.runs[0].OK() {
		t.Fatalf("failed run should be recorded with an error: %+v", runs.runs)
	}
}

func TestLoadKeepsPreviousSnapshotOnFailure(t *testing.T) {
	f := fullFetcher()
	target := board.NewActivityStore()
	l := New(f, testConfig(), target, nil, nil)

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	f.errs = map[string]error{"System Development": errors.New("timeout")}
	if _, err := l.Load(context.Background()); err == nil {
		t.Fatal("expected error on second load")
	}
	if target.Snapshot() != first {
		t.Fatal("previous snapshot should stay published")
	}
}

func TestLoadParentCancelled(t *testing.T) {
	f := fullFetcher()
	f.block = map[string]bool{"Riset": true, "Digitalisasi": true, "System Development": true, "Sheet1": true}
	l := New(f, testConfig(), board.NewActivityStore(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
