package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/sheetboard/internal/store"
)

const historyLimit = 20

type historyModel struct {
	store  *store.Store
	width  int
	height int
	now    func() time.Time

	runs   []store.LoadRun
	cursor int
	chart  barchart.Model
}

func newHistoryModel(s *store.Store, now func() time.Time) historyModel {
	return historyModel{
		store: s,
		now:   now,
		chart: barchart.New(60, 8),
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
	h.buildChart()
}

type historyDataMsg struct {
	runs []store.LoadRun
}

func (h historyModel) refresh() tea.Cmd {
	if h.store == nil {
		return nil
	}
	return func() tea.Msg {
		runs, _ := h.store.ListRuns(historyLimit)
		return historyDataMsg{runs: runs}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.runs = msg.runs
		if h.cursor >= len(h.runs) {
			h.cursor = max(0, len(h.runs)-1)
		}
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.cursor > 0 {
				h.cursor--
			}
		case key.Matches(msg, keys.Down):
			if h.cursor < len(h.runs)-1 {
				h.cursor++
			}
		}
	}
	return h, nil
}

// buildChart plots load durations oldest to newest.
func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	h.chart = barchart.New(chartWidth, 8)

	var bars []barchart.BarData
	for i := len(h.runs) - 1; i >= 0; i-- {
		r := h.runs[i]
		color := colorSuccess
		if !r.OK() {
			color = colorError
		}
		bars = append(bars, barchart.BarData{
			Label: r.StartedAt.Local().Format("15:04"),
			Values: []barchart.BarValue{{
				Name:  r.ID,
				Value: r.Duration.Seconds(),
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		})
	}
	if len(bars) == 0 {
		return
	}
	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4
	title := titleStyle.Render("Load History")

	if len(h.runs) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No loads recorded yet. Press r to load."),
		))
	}

	now := h.now()
	rows := []string{title, "", h.chart.View(), ""}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-16s %8s %6s %6s %6s  %s",
		"", "When", "Took", "Acts", "Projs", "Todos", "Notes")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 70))))

	for i, r := range h.runs {
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		mark := successStyle.Render("✓")
		notes := ""
		if !r.OK() {
			mark = errorStyle.Render("✗")
			notes = errorStyle.Render(truncate(r.Error, max(w-70, 20)))
		} else if len(r.EmptySheets) > 0 {
			notes = warningStyle.Render("empty: " + strings.Join(r.EmptySheets, ", "))
		}
		line := style.Render(fmt.Sprintf("%s%-16s %8s %6d %6d %6d",
			cursor, humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			formatRunDuration(r.Duration), r.Activities, r.Projects, r.Todos))
		rows = append(rows, mark+" "+line+"  "+notes)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
