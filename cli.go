package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/sheetboard/internal/board"
	"github.com/sadopc/sheetboard/internal/export"
	"github.com/spf13/cobra"
)

var (
	filterDepartment string
	filterStatus     string
	sortBy           string
	limit            int

	exportFormat string
	exportOut    string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Load the sheets once and print project statistics",
	Long: `Runs one load cycle and prints the headline numbers, projects per
department, and the project list matching the filters.

Example:
  sheetboard summary --department Riset --status in-progress`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Load the sheets once and export projects to CSV or JSON",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func initCLI() {
	for _, c := range []*cobra.Command{summaryCmd, exportCmd} {
		c.Flags().StringVarP(&filterDepartment, "department", "d", board.All, "Department to include")
		c.Flags().StringVarP(&filterStatus, "status", "s", board.All, "Project status: complete, in-progress, outstanding, all")
		c.Flags().StringVar(&sortBy, "sort", "source", "Sort projects by: source, effort, progress, name")
	}
	summaryCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n projects (0 = all)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: sheetboard-export-<date>.<format>)")

	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
}

func validateFilters() error {
	if filterStatus != board.All {
		if _, ok := board.ParseStatus(filterStatus); !ok {
			return fmt.Errorf("unknown status %q", filterStatus)
		}
	}
	switch sortBy {
	case "source", "effort", "progress", "name":
	default:
		return fmt.Errorf("unknown sort key %q", sortBy)
	}
	return nil
}

// loadOnce runs a single load cycle and returns the filtered projects.
func loadOnce() (*board.Snapshot, []board.Project, error) {
	if err := validateFilters(); err != nil {
		return nil, nil, err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sess, err := openSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer sess.Close()

	snap, err := sess.loader.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load data from Google Sheets: %w", err)
	}

	crit := board.Criteria{Department: filterDepartment, Status: filterStatus}
	projects := board.SortProjects(board.Projects(snap, crit), sortBy)
	return snap, projects, nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	snap, projects, err := loadOnce()
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), snap, board.TopProjects(projects, limit), board.Summarize(projects))
	return nil
}

func printSummary(w io.Writer, snap *board.Snapshot, projects []board.Project, stats board.Stats) {
	bold := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w, bold.Render("Overview"))
	fmt.Fprintf(w, "  Total projects   %d\n", stats.TotalProjects)
	fmt.Fprintf(w, "  Completed        %d\n", stats.CompletedProjects)
	fmt.Fprintf(w, "  In progress      %d\n", stats.InProgressProjects)
	fmt.Fprintf(w, "  Total mandays    %s\n", formatDays(stats.TotalEffortDays))
	fmt.Fprintln(w)

	fmt.Fprintln(w, bold.Render("Projects per department"))
	for _, c := range board.DepartmentCounts(snap.All(), snap.Departments()) {
		fmt.Fprintf(w, "  %-22s %3d  %s\n", c.Department, c.Projects, strings.Repeat("■", c.Projects))
	}
	fmt.Fprintln(w)

	if len(projects) > 0 {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Department", "Project", "Proker/Backlog", "Mandays", "Done", "Status")
		for _, p := range projects {
			t.Row(p.Department, p.ProjectType, p.ProkerBacklog,
				formatDays(p.TotalEffortDays),
				fmt.Sprintf("%d%%", p.CompletionPercent()),
				p.Status().String())
		}
		fmt.Fprintln(w, t.Render())
	} else {
		fmt.Fprintln(w, "No projects found")
	}

	pending := board.PendingCount(snap.Todos(), nil)
	overdue := len(board.FilterTodos(snap.Todos(), board.TodoCriteria{Due: board.DueOverdue, Status: "outstanding"}, time.Now()))
	fmt.Fprintf(w, "\n%d tasks pending, %d outstanding overdue\n", pending, overdue)
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)
	if format != "csv" && format != "json" {
		return fmt.Errorf("unknown format %q (want csv or json)", exportFormat)
	}
	path := exportOut
	if path == "" {
		path = fmt.Sprintf("sheetboard-export-%s.%s", time.Now().Format("2006-01-02"), format)
	}

	snap, projects, err := loadOnce()
	if err != nil {
		return err
	}

	if format == "csv" {
		err = export.ToCSV(projects, path)
	} else {
		err = export.ToJSON(projects, snap.LoadedAt(), path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d projects to %s\n", len(projects), path)
	return nil
}

func formatDays(v float64) string {
	return humanize.Ftoa(v)
}
