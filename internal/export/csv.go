package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"pacemaker/internal/plan"
)

var csvHeader = []string{
	"date", "week", "phase", "type", "name",
	"distance_km", "duration_min", "intensity", "load", "status", "description",
}

// WriteCSV writes one row per scheduled workout, in date order.
func WriteCSV(w io.Writer, p *plan.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, wk := range p.Workouts {
		rec := []string{
			wk.Date.Format(time.DateOnly),
			strconv.Itoa(wk.Week),
			phaseOf(p, wk.Week),
			wk.Type,
			wk.Name,
			strconv.FormatFloat(wk.DistanceKm, 'f', 1, 64),
			strconv.Itoa(wk.DurationMin),
			strconv.Itoa(wk.Intensity),
			strconv.FormatFloat(wk.TSS, 'f', 0, 64),
			wk.Status,
			wk.Description,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
