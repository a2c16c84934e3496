package board

import (
	"testing"
	"time"
)

func TestActivityStoreEmptyBeforeLoad(t *testing.T) {
	st := NewActivityStore()
	snap := st.Snapshot()
	if snap == nil || !snap.Empty() {
		t.Fatal("store should start with an empty snapshot")
	}
	if len(snap.ByDepartment("Riset")) != 0 {
		t.Fatal("empty snapshot should have no departments")
	}
}

func TestActivityStoreReplace(t *testing.T) {
	st := NewActivityStore()
	first := NewSnapshotBuilder().
		Append(DepartmentBatch{Department: "Riset", Activities: []Activity{act("Riset", "A", "Q", "1", 1, StatusComplete)}}).
		Build(time.Now())
	st.Replace(first)

	second := NewSnapshotBuilder().
		Append(DepartmentBatch{Department: "Digitalisasi", Activities: []Activity{act("Digitalisasi", "B", "Q", "1", 1, StatusComplete)}}).
		Build(time.Now())
	st.Replace(second)

	snap := st.Snapshot()
	if len(snap.All()) != 1 || snap.All()[0].Department != "Digitalisasi" {
		t.Fatalf("replace should discard the previous load: %+v", snap.All())
	}
	if len(first.All()) != 1 || first.All()[0].Department != "Riset" {
		t.Fatal("published snapshots must not change")
	}
}

func TestSnapshotQueries(t *testing.T) {
	summary := act("Riset", "A", "Q", "Total Mandays", 3, StatusOutstanding)
	summary.IsSummary = true
	snap := NewSnapshotBuilder().
		Append(DepartmentBatch{Department: "Riset", Activities: []Activity{
			act("Riset", "A", "Q", "1", 1, StatusComplete),
			summary,
		}}).
		Append(DepartmentBatch{Department: "Empty"}).
		Append(DepartmentBatch{Department: "Digitalisasi", Activities: []Activity{act("Digitalisasi", "B", "Q", "1", 1, StatusComplete)}}).
		Todos([]TodoItem{{ID: "1", Item: "x"}}).
		Build(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	depts := snap.Departments()
	if len(depts) != 3 || depts[0] != "Riset" || depts[1] != "Empty" || depts[2] != "Digitalisasi" {
		t.Fatalf("departments = %v", depts)
	}
	if len(snap.ByDepartment("Riset")) != 2 {
		t.Fatalf("Riset = %d, want 2", len(snap.ByDepartment("Riset")))
	}
	if len(snap.ByDepartment(All)) != 3 {
		t.Fatal("all department should return every activity")
	}
	if got := snap.ByProjectKey("Riset_A_Q"); len(got) != 1 {
		t.Fatalf("ByProjectKey = %d, want 1 (summary excluded)", len(got))
	}
	if len(snap.Todos()) != 1 {
		t.Fatal("todos missing")
	}
	if snap.LoadedAt().Year() != 2026 {
		t.Fatal("load time not stamped")
	}
}

func TestSnapshotBuilderRetagsDepartment(t *testing.T) {
	snap := NewSnapshotBuilder().
		Append(DepartmentBatch{Department: "Riset", Activities: []Activity{act("Other", "A", "Q", "1", 1, StatusComplete)}}).
		Build(time.Now())
	if snap.All()[0].Department != "Riset" {
		t.Fatal("activity should carry its batch department")
	}
}
