package board

import "sort"

// WithoutSummaries drops "total mandays" rows.
func WithoutSummaries(activities []Activity) []Activity {
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if !a.IsSummary {
			out = append(out, a)
		}
	}
	return out
}

// Aggregate groups activities into projects by ProjectKey. Projects appear in
// the order their first activity appears in the input. Summary rows and rows
// without a project type are skipped, as are rows rejected by pred (a nil
// pred accepts everything).
func Aggregate(activities []Activity, pred func(Activity) bool) []Project {
	index := make(map[string]int)
	var projects []Project

	for _, a := range activities {
		if a.IsSummary || isSentinel(a.ProjectType) || a.ProjectKey == "" {
			continue
		}
		if pred != nil && !pred(a) {
			continue
		}
		i, ok := index[a.ProjectKey]
		if !ok {
			i = len(projects)
			index[a.ProjectKey] = i
			projects = append(projects, Project{
				Key:           a.ProjectKey,
				ProjectType:   a.ProjectType,
				ProkerBacklog: a.ProkerBacklog,
				Department:    a.Department,
			})
		}
		p := &projects[i]
		p.Activities = append(p.Activities, a)
		p.TotalEffortDays += a.EffortDays
		switch a.Status {
		case StatusComplete:
			p.Completed++
		case StatusInProgress:
			p.InProgress++
		default:
			p.Outstanding++
		}
	}
	return projects
}

// Stats are the headline numbers on the dashboard.
type Stats struct {
	TotalProjects      int
	CompletedProjects  int
	InProgressProjects int
	TotalEffortDays    float64
}

func Summarize(projects []Project) Stats {
	st := Stats{TotalProjects: len(projects)}
	for _, p := range projects {
		switch p.Status() {
		case StatusComplete:
			st.CompletedProjects++
		case StatusInProgress:
			st.InProgressProjects++
		}
		st.TotalEffortDays += p.TotalEffortDays
	}
	return st
}

// DepartmentCount is one bar of the department chart.
type DepartmentCount struct {
	Department string
	Projects   int
}

// DepartmentCounts counts distinct projects per department, in the order of
// departments. Departments without projects are reported with zero.
func DepartmentCounts(activities []Activity, departments []string) []DepartmentCount {
	perDept := make(map[string]int)
	for _, p := range Aggregate(activities, nil) {
		perDept[p.Department]++
	}
	out := make([]DepartmentCount, 0, len(departments))
	for _, d := range departments {
		out = append(out, DepartmentCount{Department: d, Projects: perDept[d]})
	}
	return out
}

// StatusCounts tallies activities by their own status.
type StatusCounts struct {
	Complete    int
	InProgress  int
	Outstanding int
}

func (c StatusCounts) Total() int { return c.Complete + c.InProgress + c.Outstanding }

func CountStatuses(activities []Activity) StatusCounts {
	var c StatusCounts
	for _, a := range activities {
		if a.IsSummary {
			continue
		}
		switch a.Status {
		case StatusComplete:
			c.Complete++
		case StatusInProgress:
			c.InProgress++
		default:
			c.Outstanding++
		}
	}
	return c
}

// ProjectChip is a selectable project-type filter in a department view.
type ProjectChip struct {
	Identity ProjectIdentity
	Display  string
	Count    int
}

// ProjectChips lists one chip per project identity in first-seen order.
// When a project type repeats across backlogs the backlog is appended to the
// display name; withDepartment appends the department as well (used when
// several departments are shown together).
func ProjectChips(activities []Activity, withDepartment bool) []ProjectChip {
	index := make(map[ProjectIdentity]int)
	var chips []ProjectChip
	typeUses := make(map[string]int)

	for _, a := range activities {
		if a.IsSummary || isSentinel(a.ProjectType) {
			continue
		}
		id := a.Identity()
		if i, ok := index[id]; ok {
			chips[i].Count++
			continue
		}
		index[id] = len(chips)
		typeUses[a.ProjectType]++
		chips = append(chips, ProjectChip{Identity: id, Count: 1})
	}

	for i := range chips {
		id := chips[i].Identity
		name := id.ProjectType
		if typeUses[id.ProjectType] > 1 {
			name += " - " + id.ProkerBacklog
		}
		if withDepartment {
			name += " (" + id.Department + ")"
		}
		chips[i].Display = name
	}
	return chips
}

// TopProjects returns the first n projects in source order; n <= 0 returns
// all of them.
func TopProjects(projects []Project, n int) []Project {
	if n <= 0 || n >= len(projects) {
		return projects
	}
	return projects[:n]
}

// SortProjects orders a copy of projects by the given key. Unknown keys keep
// source order. The sort is stable so equal projects keep first-seen order.
func SortProjects(projects []Project, by string) []Project {
	out := append([]Project(nil), projects...)
	var less func(a, b Project) bool
	switch by {
	case "effort":
		less = func(a, b Project) bool { return a.TotalEffortDays > b.TotalEffortDays }
	case "progress":
		less = func(a, b Project) bool { return a.CompletionPercent() > b.CompletionPercent() }
	case "name":
		less = func(a, b Project) bool { return a.ProjectType < b.ProjectType }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
