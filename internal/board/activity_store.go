package board

import (
	"sync/atomic"
	"time"
)

// DepartmentBatch is every activity parsed from one department sheet.
type DepartmentBatch struct {
	Department string
	Activities []Activity
}

// Snapshot is one immutable load cycle. Callers must not modify the slices
// it returns.
type Snapshot struct {
	activities  []Activity
	departments []string
	byDept      map[string][]Activity
	todos       []TodoItem
	loadedAt    time.Time
}

// SnapshotBuilder assembles a snapshot from department-tagged batches.
type SnapshotBuilder struct {
	snap *Snapshot
}

func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{snap: &Snapshot{byDept: make(map[string][]Activity)}}
}

// Append adds a department batch. Activities are re-tagged with the batch
// department so a batch can never leak rows into another department.
func (b *SnapshotBuilder) Append(batch DepartmentBatch) *SnapshotBuilder {
	if _, seen := b.snap.byDept[batch.Department]; !seen {
		b.snap.departments = append(b.snap.departments, batch.Department)
		b.snap.byDept[batch.Department] = nil
	}
	for _, a := range batch.Activities {
		if a.Department != batch.Department {
			a.Department = batch.Department
			a.ProjectKey = ProjectKey(a.Department, a.ProjectType, a.ProkerBacklog)
		}
		b.snap.activities = append(b.snap.activities, a)
		b.snap.byDept[batch.Department] = append(b.snap.byDept[batch.Department], a)
	}
	return b
}

func (b *SnapshotBuilder) Todos(todos []TodoItem) *SnapshotBuilder {
	b.snap.todos = append([]TodoItem(nil), todos...)
	return b
}

// Build stamps the load time and returns the snapshot. The builder must not
// be used afterwards.
func (b *SnapshotBuilder) Build(loadedAt time.Time) *Snapshot {
	s := b.snap
	s.loadedAt = loadedAt
	b.snap = nil
	return s
}

func (s *Snapshot) All() []Activity { return s.activities }

// Regular returns every activity except summary rows.
func (s *Snapshot) Regular() []Activity {
	return WithoutSummaries(s.activities)
}

// Summaries returns only the "total mandays" rows.
func (s *Snapshot) Summaries() []Activity {
	var out []Activity
	for _, a := range s.activities {
		if a.IsSummary {
			out = append(out, a)
		}
	}
	return out
}

func (s *Snapshot) ByDepartment(dept string) []Activity {
	if dept == All {
		return s.activities
	}
	return s.byDept[dept]
}

func (s *Snapshot) ByProjectKey(key string) []Activity {
	var out []Activity
	for _, a := range s.activities {
		if a.ProjectKey == key && !a.IsSummary {
			out = append(out, a)
		}
	}
	return out
}

// Departments lists departments in the order their batches were appended.
func (s *Snapshot) Departments() []string { return s.departments }

func (s *Snapshot) Todos() []TodoItem { return s.todos }

func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

func (s *Snapshot) Empty() bool { return len(s.activities) == 0 && len(s.todos) == 0 }

var emptySnapshot = &Snapshot{byDept: map[string][]Activity{}}

// ActivityStore publishes snapshots. Readers always see a complete snapshot:
// a new one is built fully before Replace swaps it in.
type ActivityStore struct {
	current atomic.Pointer[Snapshot]
}

func NewActivityStore() *ActivityStore {
	return &ActivityStore{}
}

// Replace publishes s, discarding the previous snapshot.
func (st *ActivityStore) Replace(s *Snapshot) {
	st.current.Store(s)
}

// Snapshot returns the current snapshot, or an empty one before the first load.
func (st *ActivityStore) Snapshot() *Snapshot {
	if s := st.current.Load(); s != nil {
		return s
	}
	return emptySnapshot
}
