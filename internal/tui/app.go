package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/robfig/cron/v3"
	"github.com/sadopc/sheetboard/internal/board"
	"github.com/sadopc/sheetboard/internal/export"
	"github.com/sadopc/sheetboard/internal/store"
	"go.uber.org/zap"
)

// Options wires the app to its data sources. Store and Schedule may be nil.
// Context bounds every load; cancelling it aborts in-flight fetches.
type Options struct {
	Context   context.Context
	Loader    Reloader
	Store     *store.Store
	Logger    *zap.Logger
	Schedule  cron.Schedule
	ExportDir string
	Now       func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	ctx       context.Context
	loader    Reloader
	store     *store.Store
	logger    *zap.Logger
	schedule  cron.Schedule
	exportDir string
	now       func() time.Time

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	loading       bool
	snap          *board.Snapshot

	dashboard dashboardModel
	projects  projectsModel
	todos     todosModel
	history   historyModel
	settings  settingsModel

	help   help.Model
	status string
	failed bool
}

func NewApp(opts Options) App {
	h := help.New()
	h.ShowAll = false

	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ExportDir == "" {
		opts.ExportDir, _ = os.UserHomeDir()
	}

	return App{
		ctx:        opts.Context,
		loader:     opts.Loader,
		store:      opts.Store,
		logger:     opts.Logger,
		schedule:   opts.Schedule,
		exportDir:  opts.ExportDir,
		now:        opts.Now,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(),
		projects:   newProjectsModel(),
		todos:      newTodosModel(opts.Now),
		history:    newHistoryModel(opts.Store, opts.Now),
		settings:   newSettingsModel(opts.Store),
		help:       h,
		loading:    opts.Loader != nil,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.settings.refresh(),
		a.reload(),
		a.history.refresh(),
		clockCmd(),
		a.scheduleReload(),
	)
}

func clockCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// scheduleReload waits for the next cron slot. Without a schedule, reloads
// are manual only.
func (a App) scheduleReload() tea.Cmd {
	if a.schedule == nil {
		return nil
	}
	now := a.now()
	wait := a.schedule.Next(now).Sub(now)
	return tea.Tick(wait, func(t time.Time) tea.Msg {
		return scheduledReloadMsg(t)
	})
}

func (a App) reload() tea.Cmd {
	if a.loader == nil {
		return nil
	}
	ctx, l := a.ctx, a.loader
	return func() tea.Msg {
		snap, err := l.Load(ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.todos.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Reload):
			return a.startReload()
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewProjects
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewTodos
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewHistory
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case snapshotMsg:
		a.loading = false
		if msg.err != nil {
			a.failed = true
			a.status = "Failed to load data from Google Sheets: " + msg.err.Error()
			return a, a.history.refresh()
		}
		a.failed = false
		a.applySnapshot(msg.snap)
		a.status = fmt.Sprintf("Loaded %d projects, %d to-dos", a.dashboard.stats.TotalProjects, len(msg.snap.Todos()))
		return a, a.history.refresh()

	case scheduledReloadMsg:
		a.logger.Debug("scheduled reload", zap.Time("at", time.Time(msg)))
		var cmd tea.Cmd
		if !a.loading {
			a.loading = true
			cmd = a.reload()
		}
		return a, tea.Batch(cmd, a.scheduleReload())

	case clockMsg:
		a.todos, _ = a.todos.update(msg)
		return a, clockCmd()

	case prefsMsg:
		a.settings, _ = a.settings.update(msg)
		a.dashboard.setLimit(msg.prefs.DashboardLimit)
		a.projects.applyPrefs(msg.prefs)
		a.todos.applyPrefs(msg.prefs)
		return a, nil

	case historyDataMsg:
		a.history, _ = a.history.update(msg)
		return a, nil

	case openDepartmentMsg:
		a.activeView = viewProjects
		a.projects.openDepartment(msg.department)
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.failed = msg.isError
		if msg.isError {
			a.logger.Warn("tui", zap.String("status", msg.text))
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.failed = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) startReload() (tea.Model, tea.Cmd) {
	if a.loading || a.loader == nil {
		return a, nil
	}
	a.loading = true
	a.status = "Loading..."
	a.failed = false
	return a, a.reload()
}

func (a *App) applySnapshot(snap *board.Snapshot) {
	a.snap = snap
	a.dashboard.setSnapshot(snap)
	a.projects.setSnapshot(snap)
	a.todos.setSnapshot(snap)
	a.settings.setSnapshot(snap)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewTodos:
		a.todos, cmd = a.todos.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewSettings && a.settings.formActive
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewHistory:
		return a.history.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewProjects:
		content = a.projects.view()
	case viewTodos:
		content = a.todos.view()
	case viewHistory:
		content = a.history.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == viewTodos && a.snap != nil {
			name = fmt.Sprintf("%s (%d)", name, a.todos.pending())
		}
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("sheetboard")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.failed {
			style = errorStyle
		}
		status = style.Render(" " + truncate(a.status, max(a.width/2, 20)))
	}

	loadInfo := ""
	switch {
	case a.loading:
		loadInfo = warningStyle.Render(" ● loading")
	case a.snap != nil:
		loadInfo = successStyle.Render(" ● " + formatLoadedAt(a.snap.LoadedAt(), a.now()))
	}

	left := footerStyle.Render(helpView)
	right := loadInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Projects")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("%d projects match the current filters", len(a.projects.visible()))))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	if a.snap == nil {
		return func() tea.Msg {
			return statusMsg{text: "Nothing to export yet", isError: true}
		}
	}
	projects := a.projects.visible()
	loadedAt := a.snap.LoadedAt()
	dir := a.exportDir
	dateStr := a.now().Format("2006-01-02")

	return func() tea.Msg {
		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("sheetboard-export-%s.csv", dateStr))
			if err := export.ToCSV(projects, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("sheetboard-export-%s.json", dateStr))
			if err := export.ToJSON(projects, loadedAt, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}
		return exportDoneMsg{path: path}
	}
}
