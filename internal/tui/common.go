package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sadopc/sheetboard/internal/board"
	"github.com/sadopc/sheetboard/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewProjects
	viewTodos
	viewHistory
	viewSettings
)

var viewNames = []string{"Dashboard", "Projects", "To-Do", "History", "Settings"}

// Reloader runs one load cycle. *loader.Loader satisfies it.
type Reloader interface {
	Load(ctx context.Context) (*board.Snapshot, error)
}

// --- Messages ---

type snapshotMsg struct {
	snap *board.Snapshot
	err  error
}

type scheduledReloadMsg time.Time

type clockMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

type prefsMsg struct {
	prefs store.Preferences
}

// openDepartmentMsg asks the projects view to show one department.
type openDepartmentMsg struct {
	department string
}

// --- Helpers ---

func formatMandays(v float64) string {
	return humanize.Ftoa(v) + " md"
}

func formatLoadedAt(t, now time.Time) string {
	if t.IsZero() {
		return "not loaded"
	}
	return "loaded " + humanize.RelTime(t, now, "ago", "from now")
}

func formatRunDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func progressBar(percent, width int) string {
	if width < 1 {
		width = 1
	}
	filled := percent * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// cycle moves i by delta within [0, n).
func cycle(i, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}

func departmentOptions(snap *board.Snapshot) []string {
	return append([]string{board.All}, snap.Departments()...)
}

func indexOf(opts []string, v string) int {
	for i, o := range opts {
		if o == v {
			return i
		}
	}
	return 0
}

func chipLabel(v string) string {
	if v == board.All {
		return "All"
	}
	return v
}

func humanizeDays(v float64) string {
	return humanize.Ftoa(v)
}
