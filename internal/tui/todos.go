package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/sheetboard/internal/board"
	"github.com/sadopc/sheetboard/internal/store"
)

var todoStatusFilters = []string{"outstanding", "in-progress", "complete", board.All}
var todoStatusLabels = []string{"Outstanding", "In Progress", "Complete", "All"}

type todosModel struct {
	width  int
	height int
	now    func() time.Time

	snap        *board.Snapshot
	departments []string
	deptIdx     int
	pendingDept string
	dueIdx      int
	statusIdx   int

	// checked holds session-only check-offs keyed by board.TodoKey. It is
	// shared between copies of the model and never persisted.
	checked map[string]bool

	items  []board.TodoItem
	cursor int
}

func newTodosModel(now func() time.Time) todosModel {
	return todosModel{
		now:         now,
		departments: []string{board.All},
		checked:     make(map[string]bool),
	}
}

func (t *todosModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t *todosModel) setSnapshot(snap *board.Snapshot) {
	current := t.department()
	if t.snap == nil && t.pendingDept != "" {
		current = t.pendingDept
	}
	t.snap = snap
	t.departments = todoDepartments(snap)
	t.deptIdx = indexOf(t.departments, current)
	t.recompute()
}

func (t *todosModel) applyPrefs(prefs store.Preferences) {
	t.statusIdx = indexOf(todoStatusFilters, prefs.DefaultTodoStatus)
	if b, err := board.ParseDueBucket(prefs.DefaultDue); err == nil {
		t.dueIdx = indexOfBucket(b)
	}
	if t.snap == nil {
		t.pendingDept = prefs.DefaultDepartment
		return
	}
	t.deptIdx = indexOf(t.departments, prefs.DefaultDepartment)
	t.recompute()
}

// todoDepartments lists "all" plus each department named by a to-do, in
// first-seen order.
func todoDepartments(snap *board.Snapshot) []string {
	out := []string{board.All}
	seen := map[string]bool{}
	for _, d := range snap.Departments() {
		seen[d] = true
		out = append(out, d)
	}
	for _, td := range snap.Todos() {
		if td.Department == board.Sentinel || seen[td.Department] {
			continue
		}
		seen[td.Department] = true
		out = append(out, td.Department)
	}
	return out
}

func indexOfBucket(b board.DueBucket) int {
	for i, v := range board.DueBuckets() {
		if v == b {
			return i
		}
	}
	return 0
}

func (t todosModel) department() string {
	if t.deptIdx < len(t.departments) {
		return t.departments[t.deptIdx]
	}
	return board.All
}

func (t todosModel) criteria() board.TodoCriteria {
	return board.TodoCriteria{
		Department: t.department(),
		Due:        board.DueBuckets()[t.dueIdx],
		Status:     todoStatusFilters[t.statusIdx],
	}
}

func (t *todosModel) recompute() {
	if t.snap == nil {
		return
	}
	t.items = board.FilterTodos(t.snap.Todos(), t.criteria(), t.now())
	if t.cursor >= len(t.items) {
		t.cursor = max(0, len(t.items)-1)
	}
}

func (t todosModel) pending() int {
	if t.snap == nil {
		return 0
	}
	return board.PendingCount(t.snap.Todos(), t.checked)
}

func (t todosModel) update(msg tea.Msg) (todosModel, tea.Cmd) {
	switch msg := msg.(type) {
	case clockMsg:
		// Day boundaries move items between due buckets.
		t.recompute()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.items)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Left):
			t.deptIdx = cycle(t.deptIdx, -1, len(t.departments))
			t.recompute()
		case key.Matches(msg, keys.Right):
			t.deptIdx = cycle(t.deptIdx, 1, len(t.departments))
			t.recompute()
		case key.Matches(msg, keys.Due):
			t.dueIdx = cycle(t.dueIdx, 1, len(board.DueBuckets()))
			t.recompute()
		case key.Matches(msg, keys.Status):
			t.statusIdx = cycle(t.statusIdx, 1, len(todoStatusFilters))
			t.recompute()
		case key.Matches(msg, keys.Toggle):
			if len(t.items) > 0 {
				item := t.items[t.cursor]
				t.checked[board.TodoKey(item)] = !board.IsChecked(item, t.checked)
			}
		}
	}
	return t, nil
}

func (t todosModel) view() string {
	w := t.width - 4
	if t.snap == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading data from Google Sheets..."))
	}

	badge := warningStyle.Render(fmt.Sprintf("%d tasks pending", t.pending()))
	title := titleStyle.Render("To-Do List") + "  " + badge

	depts := make([]string, len(t.departments))
	for i, d := range t.departments {
		depts[i] = chipLabel(d)
	}
	dues := make([]string, len(board.DueBuckets()))
	for i, b := range board.DueBuckets() {
		dues[i] = b.Label()
	}

	rows := []string{
		title, "",
		renderChips(depts, t.deptIdx),
		renderChips(dues, t.dueIdx),
		renderChips(todoStatusLabels, t.statusIdx),
		"",
	}

	if len(t.items) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks match the current filters"))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	now := t.now()
	itemWidth := w - 80
	if itemWidth < 20 {
		itemWidth = 20
	}
	start, end := window(t.cursor, len(t.items), t.height-14)
	for i := start; i < end; i++ {
		item := t.items[i]
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		box := "[ ]"
		if board.IsChecked(item, t.checked) {
			box = successStyle.Render("[x]")
		}

		due := board.FormatDueDate(item.DueDate, now)
		dueStyle := mutedStyle
		if board.IsOverdue(item.DueDate, now) {
			dueStyle = errorStyle
		}

		line := cursor + box + " " + style.Render(fmt.Sprintf("%-*s", itemWidth, truncate(item.Item, itemWidth)))
		line += fmt.Sprintf(" %-14s %-12s ", truncate(item.Department, 14), truncate(item.Assignee, 12))
		line += dueStyle.Render(fmt.Sprintf("%-20s", due)) + " " + renderStatus(item.Status)
		rows = append(rows, line)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: department  d: due date  s: status  space: check"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
