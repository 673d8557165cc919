// Package export renders a generated training plan to interchange
// formats: a flat CSV table, an iCalendar feed and an XLSX workbook.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"pacemaker/internal/catalog"
	"pacemaker/internal/plan"
)

// ErrUnknownFormat is returned for file extensions no writer handles.
var ErrUnknownFormat = errors.New("unknown export format")

// ToFile writes the plan to path in the format implied by the file
// extension: .csv, .ics or .xlsx.
func ToFile(path string, p *plan.Plan) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := Workbook(p)
		if err != nil {
			return err
		}
		return f.SaveAs(path)
	case ".csv":
		return writeFile(path, p, WriteCSV)
	case ".ics":
		return writeFile(path, p, WriteICS)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

func writeFile(path string, p *plan.Plan, write func(io.Writer, *plan.Plan) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// phaseOf returns the phase a plan week belongs to. A goal race folded
// into the final cycle can sit one week past the generated blocks; such
// weeks take the last block's phase.
func phaseOf(p *plan.Plan, week int) string {
	for _, b := range p.Blocks {
		if week >= b.StartWeek && week < b.StartWeek+b.Weeks {
			return b.Phase
		}
	}
	if len(p.Blocks) > 0 {
		return p.Blocks[len(p.Blocks)-1].Phase
	}
	return ""
}

// describeSegments renders a workout's segment chain, with target
// paces where the plan filled them in.
func describeSegments(segments []catalog.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		part := fmt.Sprintf("%dmin @ %d", s.Minutes, s.Intensity)
		if s.TargetPaceSecKm > 0 {
			part += " (" + formatPace(s.TargetPaceSecKm) + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// formatPace renders sec/km as m:ss/km.
func formatPace(secPerKm float64) string {
	sec := int(math.Round(secPerKm))
	return fmt.Sprintf("%d:%02d/km", sec/60, sec%60)
}

// title uppercases the first letter of a phase name for display.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
