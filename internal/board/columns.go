package board

import "strings"

// Unresolved marks a field whose header could not be found.
const Unresolved = -1

// DateRange pairs a start column with its end column. The sheets always put
// the end date immediately after the start date.
type DateRange struct {
	Start int
	End   int
}

// NewDateRange builds the pair for a start column; an unresolved start
// yields an unresolved range.
func NewDateRange(start int) DateRange {
	if start < 0 {
		return DateRange{Start: Unresolved, End: Unresolved}
	}
	return DateRange{Start: start, End: start + 1}
}

func (r DateRange) Resolved() bool { return r.Start >= 0 }

// ColumnMap holds the positional index of every semantic field.
type ColumnMap struct {
	Seq           int
	ProjectType   int
	ProkerBacklog int
	Priority      int
	Activity      int
	Role          int
	Mandays       int
	Status        int
	Plan          DateRange
	Actual        DateRange

	// Fallback is true when the fixed layout had to fill unresolved fields.
	Fallback bool
}

// DefaultColumns is the fixed layout used when header detection fails.
var DefaultColumns = ColumnMap{
	Seq:           0,
	ProjectType:   1,
	ProkerBacklog: 2,
	Priority:      3,
	Activity:      4,
	Role:          5,
	Mandays:       6,
	Status:        7,
	Plan:          NewDateRange(8),
	Actual:        NewDateRange(10),
}

type headerMatcher func(h string) bool

func containsAny(h string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(h, s) {
			return true
		}
	}
	return false
}

var (
	matchSeq = func(h string) bool {
		return strings.Contains(h, "no") && !strings.Contains(h, "note")
	}
	matchProjectType = func(h string) bool {
		return (strings.Contains(h, "project") && strings.Contains(h, "type")) || h == "project type" || h == "project"
	}
	matchProkerBacklog = func(h string) bool {
		return containsAny(h, "proker", "backlog")
	}
	matchPriority = func(h string) bool {
		return strings.Contains(h, "priority")
	}
	matchActivity = func(h string) bool {
		return containsAny(h, "aktivitas", "activity")
	}
	matchRole = func(h string) bool {
		return strings.Contains(h, "role")
	}
	matchMandays = func(h string) bool {
		return containsAny(h, "mandays", "man days") || (strings.Contains(h, "est") && strings.Contains(h, "day"))
	}
	matchStatus = func(h string) bool {
		return (strings.Contains(h, "status") && !containsAny(h, "plan", "actual")) || h == "status"
	}
	matchPlan = func(h string) bool {
		return h == "plan" || (strings.Contains(h, "plan") && !containsAny(h, "start", "end"))
	}
	matchActual = func(h string) bool {
		return h == "actual" || (strings.Contains(h, "actual") && !containsAny(h, "start", "end"))
	}
)

// ResolveColumns locates each field from the header row. The first header
// matching a field's rule wins. When projectType or status cannot be found,
// every unresolved field takes its position from DefaultColumns; fields that
// did resolve keep their detected index.
func ResolveColumns(headers []string) ColumnMap {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}
	find := func(m headerMatcher) int {
		for i, h := range normalized {
			if m(h) {
				return i
			}
		}
		return Unresolved
	}

	cols := ColumnMap{
		Seq:           find(matchSeq),
		ProjectType:   find(matchProjectType),
		ProkerBacklog: find(matchProkerBacklog),
		Priority:      find(matchPriority),
		Activity:      find(matchActivity),
		Role:          find(matchRole),
		Mandays:       find(matchMandays),
		Status:        find(matchStatus),
		Plan:          NewDateRange(find(matchPlan)),
		Actual:        NewDateRange(find(matchActual)),
	}

	if cols.ProjectType == Unresolved || cols.Status == Unresolved {
		cols.applyFallback(DefaultColumns)
	}
	return cols
}

func (c *ColumnMap) applyFallback(d ColumnMap) {
	c.Fallback = true
	fill := func(dst *int, v int) {
		if *dst == Unresolved {
			*dst = v
		}
	}
	fill(&c.Seq, d.Seq)
	fill(&c.ProjectType, d.ProjectType)
	fill(&c.ProkerBacklog, d.ProkerBacklog)
	fill(&c.Priority, d.Priority)
	fill(&c.Activity, d.Activity)
	fill(&c.Role, d.Role)
	fill(&c.Mandays, d.Mandays)
	fill(&c.Status, d.Status)
	if !c.Plan.Resolved() {
		c.Plan = d.Plan
	}
	if !c.Actual.Resolved() {
		c.Actual = d.Actual
	}
}
