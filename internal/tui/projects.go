package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/sheetboard/internal/board"
	"github.com/sadopc/sheetboard/internal/store"
)

var statusFilters = []string{board.All, "complete", "in-progress", "outstanding"}
var statusFilterLabels = []string{"All", "Complete", "In Progress", "Outstanding"}
var sortKeys = []string{"source", "effort", "progress", "name"}

type projectsModel struct {
	width  int
	height int

	snap        *board.Snapshot
	departments []string // "all" followed by the snapshot departments
	deptIdx     int
	pendingDept string // preferred department until a snapshot arrives
	statusIdx   int
	chipIdx     int // -1 = every project type
	sortIdx     int

	projects []board.Project
	chips    []board.ProjectChip
	counts   board.StatusCounts

	cursor            int
	viewingActivities bool
	actCursor         int
}

func newProjectsModel() projectsModel {
	return projectsModel{
		departments: []string{board.All},
		chipIdx:     -1,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *projectsModel) setSnapshot(snap *board.Snapshot) {
	current := p.department()
	if p.snap == nil && p.pendingDept != "" {
		current = p.pendingDept
	}
	p.snap = snap
	p.departments = departmentOptions(snap)
	p.deptIdx = indexOf(p.departments, current)
	p.recompute()
}

func (p *projectsModel) applyPrefs(prefs store.Preferences) {
	p.statusIdx = indexOf(statusFilters, prefs.DefaultStatus)
	p.sortIdx = indexOf(sortKeys, prefs.ProjectSort)
	if p.snap == nil {
		p.pendingDept = prefs.DefaultDepartment
		return
	}
	p.deptIdx = indexOf(p.departments, prefs.DefaultDepartment)
	p.chipIdx = -1
	p.recompute()
}

func (p *projectsModel) openDepartment(dept string) {
	p.deptIdx = indexOf(p.departments, dept)
	p.chipIdx = -1
	p.viewingActivities = false
	p.cursor = 0
	p.recompute()
}

func (p projectsModel) department() string {
	if p.deptIdx < len(p.departments) {
		return p.departments[p.deptIdx]
	}
	return board.All
}

func (p projectsModel) criteria() board.Criteria {
	c := board.Criteria{
		Department: p.department(),
		Status:     statusFilters[p.statusIdx],
	}
	if p.chipIdx >= 0 && p.chipIdx < len(p.chips) {
		id := p.chips[p.chipIdx].Identity
		c.Project = &id
	}
	return c
}

func (p *projectsModel) recompute() {
	if p.snap == nil {
		return
	}
	dept := p.department()
	deptActs := board.FilterActivities(p.snap.All(), board.Criteria{Department: dept})
	p.chips = board.ProjectChips(deptActs, dept == board.All)
	if p.chipIdx >= len(p.chips) {
		p.chipIdx = -1
	}

	c := p.criteria()
	p.counts = board.CountStatuses(board.FilterActivities(p.snap.All(), board.Criteria{
		Department: c.Department,
		Project:    c.Project,
	}))
	p.projects = board.SortProjects(board.Projects(p.snap, c), sortKeys[p.sortIdx])

	if p.cursor >= len(p.projects) {
		p.cursor = max(0, len(p.projects)-1)
	}
	if p.viewingActivities && len(p.projects) == 0 {
		p.viewingActivities = false
	}
}

// visible returns the projects currently listed, for export.
func (p projectsModel) visible() []board.Project {
	return p.projects
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.viewingActivities {
			return p.updateActivityView(msg)
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Left):
		p.deptIdx = cycle(p.deptIdx, -1, len(p.departments))
		p.chipIdx = -1
		p.recompute()
	case key.Matches(msg, keys.Right):
		p.deptIdx = cycle(p.deptIdx, 1, len(p.departments))
		p.chipIdx = -1
		p.recompute()
	case key.Matches(msg, keys.Status):
		p.statusIdx = cycle(p.statusIdx, 1, len(statusFilters))
		p.recompute()
	case key.Matches(msg, keys.Chip):
		// -1 .. len(chips)-1, wrapping back to "all types"
		p.chipIdx = cycle(p.chipIdx+1, 1, len(p.chips)+1) - 1
		p.recompute()
	case key.Matches(msg, keys.Sort):
		p.sortIdx = cycle(p.sortIdx, 1, len(sortKeys))
		p.recompute()
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			p.viewingActivities = true
			p.actCursor = 0
		}
	case key.Matches(msg, keys.Back):
		if p.chipIdx >= 0 {
			p.chipIdx = -1
			p.recompute()
		}
	}
	return p, nil
}

func (p projectsModel) updateActivityView(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	acts := p.projects[p.cursor].Activities
	switch {
	case key.Matches(msg, keys.Back):
		p.viewingActivities = false
	case key.Matches(msg, keys.Up):
		if p.actCursor > 0 {
			p.actCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.actCursor < len(acts)-1 {
			p.actCursor++
		}
	}
	return p, nil
}

func (p projectsModel) view() string {
	if p.snap == nil {
		return panelStyle.Width(p.width - 4).Render(mutedStyle.Render("Loading data from Google Sheets..."))
	}
	if p.viewingActivities {
		return p.renderActivityView()
	}
	return p.renderProjectList()
}

func (p projectsModel) renderFilters() string {
	depts := make([]string, len(p.departments))
	for i, d := range p.departments {
		depts[i] = chipLabel(d)
	}
	rows := []string{
		renderChips(depts, p.deptIdx),
		renderChips(statusFilterLabels, p.statusIdx),
	}

	counts := fmt.Sprintf("%s %d  %s %d  %s %d",
		statusStyles[board.StatusComplete].Render("Complete"), p.counts.Complete,
		statusStyles[board.StatusInProgress].Render("In Progress"), p.counts.InProgress,
		statusStyles[board.StatusOutstanding].Render("Outstanding"), p.counts.Outstanding,
	)
	rows = append(rows, counts)

	if len(p.chips) > 0 {
		names := []string{"All types"}
		for _, c := range p.chips {
			names = append(names, fmt.Sprintf("%s (%d)", c.Display, c.Count))
		}
		rows = append(rows, renderChips(names, p.chipIdx+1))
	}
	return strings.Join(rows, "\n")
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects") + mutedStyle.Render("  sorted by "+sortKeys[p.sortIdx])

	rows := []string{title, "", p.renderFilters(), ""}

	if len(p.projects) == 0 {
		rows = append(rows, mutedStyle.Render("No projects found"))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	nameWidth := w - 62
	if nameWidth < 20 {
		nameWidth = 20
	}
	header := mutedStyle.Render(fmt.Sprintf("  %-*s %-18s %10s %5s  %s", nameWidth, "Project", "Department", "Mandays", "Done", "Status"))
	rows = append(rows, header)

	start, end := window(p.cursor, len(p.projects), p.height-16)
	for i := start; i < end; i++ {
		proj := p.projects[i]
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		name := truncate(proj.ProjectType+" / "+proj.ProkerBacklog, nameWidth)
		line := style.Render(fmt.Sprintf("%s%-*s %-18s %10s %4d%%", cursor, nameWidth, name,
			truncate(proj.Department, 18), formatMandays(proj.TotalEffortDays), proj.CompletionPercent()))
		rows = append(rows, line+"  "+renderStatus(proj.Status()))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: department  s: status  f: project type  o: sort  enter: activities"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderActivityView() string {
	w := p.width - 4
	proj := p.projects[p.cursor]
	title := titleStyle.Render(fmt.Sprintf("%s / %s", proj.ProjectType, proj.ProkerBacklog))
	sub := mutedStyle.Render(fmt.Sprintf("%s  ·  %s  ·  %d%% complete  ·  ",
		proj.Department, formatMandays(proj.TotalEffortDays), proj.CompletionPercent())) + renderStatus(proj.Status())

	rows := []string{title, sub, ""}
	labelWidth := w - 96
	if labelWidth < 12 {
		labelWidth = 12
	}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-4s %-*s %-12s %-9s %8s  %-17s %-17s %s",
		"No", labelWidth, "Activity", "Role", "Priority", "Mandays", "Plan", "Actual", "Status")))

	start, end := window(p.actCursor, len(proj.Activities), p.height-10)
	for i := start; i < end; i++ {
		a := proj.Activities[i]
		cursor := "  "
		style := normalItemStyle
		if i == p.actCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		prio := board.NormalizePriority(a.Priority)
		line := style.Render(fmt.Sprintf("%s%-4s %-*s %-12s ", cursor, truncate(a.Seq, 4), labelWidth,
			truncate(a.Label, labelWidth), truncate(a.Role, 12)))
		line += priorityStyles[prio.Class].Render(fmt.Sprintf("%-9s", truncate(prio.Label, 9)))
		line += fmt.Sprintf(" %8s  %-17s %-17s ", humanizeDays(a.EffortDays),
			board.FormatTimeline(a.Plan), board.FormatTimeline(a.Actual))
		line += renderStatus(a.Status)
		rows = append(rows, line)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ↑/↓: scroll  esc: back"))
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// window returns the [start, end) slice of n rows that keeps cursor visible
// in at most size rows.
func window(cursor, n, size int) (int, int) {
	if size < 3 {
		size = 3
	}
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}
