package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/sheetboard/internal/board"
	"github.com/sadopc/sheetboard/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	prefs       store.Preferences
	departments []string
	formActive  bool
	form        *huh.Form

	// Form values as pointers (survive value copies)
	department *string
	status     *string
	due        *string
	todoStatus *string
	limit      *string
	sort       *string
}

func newSettingsModel(s *store.Store) settingsModel {
	dept, st, due, ts, limit, sort := "", "", "", "", "", ""
	return settingsModel{
		store:       s,
		departments: []string{board.All},
		department:  &dept,
		status:      &st,
		due:         &due,
		todoStatus:  &ts,
		limit:       &limit,
		sort:        &sort,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s *settingsModel) setSnapshot(snap *board.Snapshot) {
	s.departments = departmentOptions(snap)
}

func (s settingsModel) refresh() tea.Cmd {
	if s.store == nil {
		return nil
	}
	return func() tea.Msg {
		prefs, err := s.store.Preferences()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return prefsMsg{prefs: prefs}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case prefsMsg:
		s.prefs = msg.prefs
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func options(values, labels []string) []huh.Option[string] {
	opts := make([]huh.Option[string], len(values))
	for i, v := range values {
		opts[i] = huh.NewOption(labels[i], v)
	}
	return opts
}

func validateLimit(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 50 {
		return fmt.Errorf("enter a number between 1 and 50")
	}
	return nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.department = s.prefs.DefaultDepartment
	*s.status = s.prefs.DefaultStatus
	*s.due = s.prefs.DefaultDue
	*s.todoStatus = s.prefs.DefaultTodoStatus
	*s.limit = strconv.Itoa(s.prefs.DashboardLimit)
	*s.sort = s.prefs.ProjectSort

	deptLabels := make([]string, len(s.departments))
	for i, d := range s.departments {
		deptLabels[i] = chipLabel(d)
	}
	dueValues := make([]string, len(board.DueBuckets()))
	dueLabels := make([]string, len(board.DueBuckets()))
	for i, b := range board.DueBuckets() {
		dueValues[i] = string(b)
		dueLabels[i] = b.Label()
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default department").
				Options(options(s.departments, deptLabels)...).Value(s.department),
			huh.NewSelect[string]().Title("Default project status").
				Options(options(statusFilters, statusFilterLabels)...).Value(s.status),
			huh.NewSelect[string]().Title("Project sort").
				Options(options(sortKeys, []string{"Sheet order", "Mandays", "Progress", "Name"})...).Value(s.sort),
			huh.NewInput().Title("Dashboard project limit").Value(s.limit).Validate(validateLimit),
		).Title("Projects"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default due filter").
				Options(options(dueValues, dueLabels)...).Value(s.due),
			huh.NewSelect[string]().Title("Default to-do status").
				Options(options(todoStatusFilters, todoStatusLabels)...).Value(s.todoStatus),
		).Title("To-Do"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.save()
	}

	return s, cmd
}

func (s settingsModel) formPrefs() store.Preferences {
	limit, _ := strconv.Atoi(*s.limit)
	return store.Preferences{
		DefaultDepartment: *s.department,
		DefaultStatus:     *s.status,
		DefaultDue:        *s.due,
		DefaultTodoStatus: *s.todoStatus,
		DashboardLimit:    limit,
		ProjectSort:       *s.sort,
	}
}

func (s settingsModel) save() tea.Cmd {
	prefs := s.formPrefs()
	return func() tea.Msg {
		if err := s.store.SavePreferences(prefs); err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return prefsMsg{prefs: prefs}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	pairs := []struct{ label, value string }{
		{"Default department", chipLabel(s.prefs.DefaultDepartment)},
		{"Default project status", s.prefs.DefaultStatus},
		{"Project sort", s.prefs.ProjectSort},
		{"Dashboard project limit", strconv.Itoa(s.prefs.DashboardLimit)},
		{"Default due filter", formatDue(s.prefs.DefaultDue)},
		{"Default to-do status", s.prefs.DefaultTodoStatus},
	}

	rows := []string{title, ""}
	for _, p := range pairs {
		label := lipgloss.NewStyle().Width(26).Render(p.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(p.value)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatDue(v string) string {
	b, err := board.ParseDueBucket(v)
	if err != nil {
		return v
	}
	return b.Label()
}
