package board

import (
	"fmt"
	"strings"
	"time"
)

var longFormLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"Mon Jan 2 2006",
}

var (
	dayFirstSlash   = []string{"2/1/2006", "2/1/06"}
	monthFirstSlash = []string{"1/2/2006", "1/2/06"}
)

var idMonths = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var idMonthsShort = []string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

func unsetDate(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", Sentinel, "nan":
		return true
	}
	return false
}

func parseWith(raw string, loc *time.Location, slashLayouts []string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if unsetDate(raw) {
		return time.Time{}, false
	}
	layouts := longFormLayouts
	if strings.Contains(raw, "/") {
		layouts = append(append([]string(nil), slashLayouts...), longFormLayouts...)
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			// Offset-bearing dates are compared by calendar day in loc.
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// ParseTimelineDate parses plan/actual cells. Slash dates are day-first
// (31/01/2026).
func ParseTimelineDate(raw string, loc *time.Location) (time.Time, bool) {
	return parseWith(raw, loc, dayFirstSlash)
}

// ParseDueDate parses to-do due dates. Slash dates are month-first
// (01/31/2026), the way the to-do sheet is filled in.
func ParseDueDate(raw string, loc *time.Location) (time.Time, bool) {
	return parseWith(raw, loc, monthFirstSlash)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatLongDate renders a timeline date as "02 Januari 2026". Unset dates
// render as Sentinel; unparseable ones are returned unchanged.
func FormatLongDate(raw string) string {
	if unsetDate(raw) {
		return Sentinel
	}
	t, ok := ParseTimelineDate(raw, time.Local)
	if !ok {
		return raw
	}
	return fmt.Sprintf("%02d %s %d", t.Day(), idMonths[t.Month()-1], t.Year())
}

// FormatCompactDate renders a timeline date as "2 Jan".
func FormatCompactDate(raw string) string {
	if unsetDate(raw) {
		return Sentinel
	}
	t, ok := ParseTimelineDate(raw, time.Local)
	if !ok {
		return raw
	}
	return fmt.Sprintf("%d %s", t.Day(), idMonthsShort[t.Month()-1])
}

// FormatTimeline renders a span as "2 Jan → 9 Jan".
func FormatTimeline(tl Timeline) string {
	if unsetDate(tl.Start) && unsetDate(tl.End) {
		return Sentinel
	}
	return FormatCompactDate(tl.Start) + " → " + FormatCompactDate(tl.End)
}

// FormatDueDate renders a to-do due date relative to now.
func FormatDueDate(raw string, now time.Time) string {
	t, ok := ParseDueDate(raw, now.Location())
	if !ok {
		return "No due date"
	}
	today := startOfDay(now)
	due := startOfDay(t)
	switch {
	case due.Equal(today):
		return "Due: Today"
	case due.Equal(today.AddDate(0, 0, 1)):
		return "Due: Tomorrow"
	case due.Before(today):
		return "Overdue (" + t.Format("Jan 2") + ")"
	default:
		return "Due: " + t.Format("Jan 2")
	}
}

// IsOverdue reports whether a due date lies strictly before today.
func IsOverdue(raw string, now time.Time) bool {
	return DueOverdue.Match(raw, now)
}
