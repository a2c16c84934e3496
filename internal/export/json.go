package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/sheetboard/internal/board"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	LoadedAt   string        `json:"loaded_at,omitempty"`
	Count      int           `json:"count"`
	Stats      jsonStats     `json:"stats"`
	Projects   []jsonProject `json:"projects"`
}

type jsonStats struct {
	TotalProjects      int     `json:"total_projects"`
	CompletedProjects  int     `json:"completed_projects"`
	InProgressProjects int     `json:"in_progress_projects"`
	TotalMandays       float64 `json:"total_mandays"`
}

type jsonProject struct {
	Key           string         `json:"key"`
	Department    string         `json:"department"`
	ProjectType   string         `json:"project_type"`
	ProkerBacklog string         `json:"proker_backlog"`
	Status        string         `json:"status"`
	Progress      int            `json:"progress_percent"`
	TotalMandays  float64        `json:"total_mandays"`
	Completed     int            `json:"completed"`
	InProgress    int            `json:"in_progress"`
	Outstanding   int            `json:"outstanding"`
	Activities    []jsonActivity `json:"activities"`
}

type jsonActivity struct {
	No          string  `json:"no"`
	Activity    string  `json:"activity"`
	Priority    string  `json:"priority"`
	Role        string  `json:"role"`
	Mandays     float64 `json:"mandays"`
	Status      string  `json:"status"`
	PlanStart   string  `json:"plan_start"`
	PlanEnd     string  `json:"plan_end"`
	ActualStart string  `json:"actual_start"`
	ActualEnd   string  `json:"actual_end"`
}

// ToJSON writes projects with their activities and the summary stats.
// loadedAt may be zero.
func ToJSON(projects []board.Project, loadedAt time.Time, path string) error {
	stats := board.Summarize(projects)
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(projects),
		Stats: jsonStats{
			TotalProjects:      stats.TotalProjects,
			CompletedProjects:  stats.CompletedProjects,
			InProgressProjects: stats.InProgressProjects,
			TotalMandays:       stats.TotalEffortDays,
		},
		Projects: make([]jsonProject, 0, len(projects)),
	}
	if !loadedAt.IsZero() {
		export.LoadedAt = loadedAt.UTC().Format(time.RFC3339)
	}

	for _, p := range projects {
		jp := jsonProject{
			Key:           p.Key,
			Department:    p.Department,
			ProjectType:   p.ProjectType,
			ProkerBacklog: p.ProkerBacklog,
			Status:        p.Status().String(),
			Progress:      p.CompletionPercent(),
			TotalMandays:  p.TotalEffortDays,
			Completed:     p.Completed,
			InProgress:    p.InProgress,
			Outstanding:   p.Outstanding,
			Activities:    make([]jsonActivity, 0, len(p.Activities)),
		}
		for _, a := range p.Activities {
			jp.Activities = append(jp.Activities, jsonActivity{
				No:          a.Seq,
				Activity:    a.Label,
				Priority:    board.NormalizePriority(a.Priority).Label,
				Role:        a.Role,
				Mandays:     a.EffortDays,
				Status:      a.Status.String(),
				PlanStart:   a.Plan.Start,
				PlanEnd:     a.Plan.End,
				ActualStart: a.Actual.Start,
				ActualEnd:   a.Actual.End,
			})
		}
		export.Projects = append(export.Projects, jp)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
