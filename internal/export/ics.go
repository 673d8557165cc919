package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"pacemaker/internal/catalog"
	"pacemaker/internal/plan"
)

const (
	icsDate     = "20060102"
	icsDateTime = "20060102T150405Z"
)

// WriteICS writes the plan as an iCalendar feed with one all-day
// VEVENT per workout, suitable for subscribing from a phone calendar.
func WriteICS(w io.Writer, p *plan.Plan) error {
	var sb strings.Builder
	sb.WriteString("BEGIN:VCALENDAR\r\n")
	sb.WriteString("VERSION:2.0\r\n")
	sb.WriteString("PRODID:-//pacemaker//Training Plan//EN\r\n")
	sb.WriteString("CALSCALE:GREGORIAN\r\n")
	sb.WriteString("METHOD:PUBLISH\r\n")
	fmt.Fprintf(&sb, "X-WR-CALNAME:%s\r\n", escapeICS(p.Config.Name))

	stamp := time.Now().UTC().Format(icsDateTime)
	for _, wk := range p.Workouts {
		sb.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&sb, "UID:%s@pacemaker\r\n", wk.ID)
		fmt.Fprintf(&sb, "DTSTAMP:%s\r\n", stamp)
		fmt.Fprintf(&sb, "DTSTART;VALUE=DATE:%s\r\n", wk.Date.Format(icsDate))
		fmt.Fprintf(&sb, "DTEND;VALUE=DATE:%s\r\n", wk.Date.AddDate(0, 0, 1).Format(icsDate))
		fmt.Fprintf(&sb, "SUMMARY:%s\r\n", escapeICS(eventSummary(wk)))
		if desc := eventDescription(wk); desc != "" {
			fmt.Fprintf(&sb, "DESCRIPTION:%s\r\n", escapeICS(desc))
		}
		sb.WriteString("END:VEVENT\r\n")
	}
	sb.WriteString("END:VCALENDAR\r\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func eventSummary(w *plan.Workout) string {
	if w.Type == catalog.TypeRace {
		return w.Name
	}
	return fmt.Sprintf("%s %.1f km", w.Name, w.DistanceKm)
}

func eventDescription(w *plan.Workout) string {
	var lines []string
	if w.Description != "" {
		lines = append(lines, w.Description)
	}
	if segments := describeSegments(w.Segments); segments != "" {
		lines = append(lines, segments)
	}
	lines = append(lines, fmt.Sprintf("%d min, load %.0f", w.DurationMin, w.TSS))
	return strings.Join(lines, "\n")
}

// escapeICS escapes the characters iCalendar treats specially.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
