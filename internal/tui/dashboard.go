package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/sheetboard/internal/board"
)

const defaultTopProjects = 5

type dashboardModel struct {
	width  int
	height int

	snap     *board.Snapshot
	limit    int
	stats    board.Stats
	counts   []board.DepartmentCount
	top      []board.Project
	selected int // highlighted department bar

	chart barchart.Model
}

func newDashboardModel() dashboardModel {
	return dashboardModel{
		limit: defaultTopProjects,
		chart: barchart.New(60, 10),
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.buildChart()
}

func (d *dashboardModel) setLimit(n int) {
	if n <= 0 {
		n = defaultTopProjects
	}
	d.limit = n
	d.recompute()
}

func (d *dashboardModel) setSnapshot(snap *board.Snapshot) {
	d.snap = snap
	d.recompute()
}

func (d *dashboardModel) recompute() {
	if d.snap == nil {
		return
	}
	projects := board.Aggregate(d.snap.All(), nil)
	d.stats = board.Summarize(projects)
	d.counts = board.DepartmentCounts(d.snap.All(), d.snap.Departments())
	d.top = board.TopProjects(projects, d.limit)
	if d.selected >= len(d.counts) {
		d.selected = max(0, len(d.counts)-1)
	}
	d.buildChart()
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			d.selected = cycle(d.selected, -1, len(d.counts))
			d.buildChart()
		case key.Matches(msg, keys.Right):
			d.selected = cycle(d.selected, 1, len(d.counts))
			d.buildChart()
		case key.Matches(msg, keys.Enter):
			if len(d.counts) == 0 {
				return d, nil
			}
			dept := d.counts[d.selected].Department
			return d, func() tea.Msg { return openDepartmentMsg{department: dept} }
		}
	}
	return d, nil
}

func (d *dashboardModel) buildChart() {
	chartWidth := d.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if d.height > 36 {
		chartHeight = 12
	}

	d.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, c := range d.counts {
		color := colorSecondary
		if i == d.selected {
			color = colorPrimary
		}
		bars = append(bars, barchart.BarData{
			Label: truncate(c.Department, 14),
			Values: []barchart.BarValue{{
				Name:  c.Department,
				Value: float64(c.Projects),
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		})
	}
	if len(bars) == 0 {
		return
	}

	d.chart.PushAll(bars)
	d.chart.Draw()
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	if d.snap == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading data from Google Sheets..."))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderCards(w),
		d.renderChartPanel(w),
		d.renderTopPanel(w),
	)
}

func (d dashboardModel) renderCards(w int) string {
	cards := []struct{ label, value string }{
		{"Total Projects", fmt.Sprintf("%d", d.stats.TotalProjects)},
		{"Completed", fmt.Sprintf("%d", d.stats.CompletedProjects)},
		{"In Progress", fmt.Sprintf("%d", d.stats.InProgressProjects)},
		{"Total Mandays", formatMandays(d.stats.TotalEffortDays)},
	}
	cardWidth := w/len(cards) - 2
	if cardWidth < 12 {
		cardWidth = 12
	}

	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = cardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Center,
				cardValueStyle.Render(c.value),
				mutedStyle.Render(c.label),
			),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (d dashboardModel) renderChartPanel(w int) string {
	title := titleStyle.Render("Projects per Department")
	if len(d.counts) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No departments loaded"),
		))
	}

	var legend []string
	for i, c := range d.counts {
		label := fmt.Sprintf("%s: %d", c.Department, c.Projects)
		if i == d.selected {
			legend = append(legend, selectedItemStyle.Render("▸ "+label))
		} else {
			legend = append(legend, mutedStyle.Render("  "+label))
		}
	}

	hint := mutedStyle.Render("←/→: select department  enter: open")
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		title, "", d.chart.View(), "", strings.Join(legend, "  "), hint,
	))
}

func (d dashboardModel) renderTopPanel(w int) string {
	title := titleStyle.Render("Project Details")
	if len(d.top) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No projects found"),
		))
	}

	barWidth := 20
	nameWidth := w - barWidth - 46
	if nameWidth < 16 {
		nameWidth = 16
	}

	rows := []string{title}
	for _, p := range d.top {
		name := truncate(p.ProjectType+" / "+p.ProkerBacklog, nameWidth)
		pct := p.CompletionPercent()
		rows = append(rows, fmt.Sprintf("  %-*s %s %3d%%  %s  %s",
			nameWidth, name,
			highlightStyle.Render(progressBar(pct, barWidth)), pct,
			mutedStyle.Render(fmt.Sprintf("%d/%d activities", p.Completed, p.ActivityCount())),
			renderStatus(p.Status()),
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
