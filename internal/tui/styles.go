package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/sheetboard/internal/board"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorSecondary = lipgloss.Color("#2EC4B6")
	colorAccent    = lipgloss.Color("#FF6B6B")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorBg        = lipgloss.Color("#1A1B26")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Stat cards
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 2).
			Align(lipgloss.Center)

	cardValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHighlight)

	// Chips
	activeChipStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBg).
			Background(colorPrimary).
			Padding(0, 1)

	chipStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorSubtle).
			Padding(0, 1)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)

var statusStyles = map[board.Status]lipgloss.Style{
	board.StatusComplete:    lipgloss.NewStyle().Foreground(colorSuccess),
	board.StatusInProgress:  lipgloss.NewStyle().Foreground(colorWarning),
	board.StatusOutstanding: lipgloss.NewStyle().Foreground(colorAccent),
}

var priorityStyles = map[string]lipgloss.Style{
	"critical": lipgloss.NewStyle().Bold(true).Foreground(colorError),
	"high":     lipgloss.NewStyle().Foreground(colorAccent),
	"medium":   lipgloss.NewStyle().Foreground(colorWarning),
	"low":      lipgloss.NewStyle().Foreground(colorSecondary),
}

func renderStatus(s board.Status) string {
	return statusStyles[s].Render(s.String())
}

func renderPriority(raw string) string {
	p := board.NormalizePriority(raw)
	return priorityStyles[p.Class].Render(p.Label)
}

func renderChips(opts []string, active int) string {
	chips := make([]string, len(opts))
	for i, o := range opts {
		if i == active {
			chips[i] = activeChipStyle.Render(o)
		} else {
			chips[i] = chipStyle.Render(o)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}
