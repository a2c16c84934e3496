package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/sadopc/sheetboard/internal/board"
)

var csvHeader = []string{
	"Department", "Project Type", "Proker/Backlog", "Project Status", "Progress (%)",
	"No", "Activity", "Priority", "Role", "Mandays", "Status",
	"Plan Start", "Plan End", "Actual Start", "Actual End",
}

// ToCSV writes one row per activity, prefixed with its project's columns.
// Projects without activities still get a row.
func ToCSV(projects []board.Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, p := range projects {
		prefix := []string{
			p.Department,
			p.ProjectType,
			p.ProkerBacklog,
			p.Status().String(),
			fmt.Sprintf("%d", p.CompletionPercent()),
		}
		if len(p.Activities) == 0 {
			row := append(prefix, make([]string, len(csvHeader)-len(prefix))...)
			if err := w.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, a := range p.Activities {
			row := append(append([]string(nil), prefix...),
				a.Seq,
				a.Label,
				board.NormalizePriority(a.Priority).Label,
				a.Role,
				humanize.Ftoa(a.EffortDays),
				a.Status.String(),
				a.Plan.Start,
				a.Plan.End,
				a.Actual.Start,
				a.Actual.End,
			)
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
