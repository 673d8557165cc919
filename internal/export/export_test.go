package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pacemaker/internal/catalog"
	"pacemaker/internal/plan"
)

// testPlan is a small hand-built plan: a four-week base block, a
// one-week taper, and the goal race folded into the final cycle one
// week past the generated blocks.
func testPlan() *plan.Plan {
	start := time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)

	w1 := &plan.Workout{
		ID: "w1", Date: start, Week: 1,
		Type: catalog.TypeEasy, Name: "Easy Run",
		Description: "Relaxed aerobic running",
		Segments:    []catalog.Segment{{Minutes: 40, Intensity: 62, TargetPaceSecKm: 352}},
		DistanceKm:  7.2, Status: plan.StatusScheduled,
	}
	w2 := &plan.Workout{
		ID: "w2", Date: start.AddDate(0, 0, 2), Week: 1,
		Type: catalog.TypeTempo, Name: "Tempo Run",
		Segments: []catalog.Segment{
			{Minutes: 15, Intensity: 60},
			{Minutes: 20, Intensity: 85, TargetPaceSecKm: 290},
			{Minutes: 10, Intensity: 55},
		},
		DistanceKm: 9.5, Status: plan.StatusCompleted,
	}
	race := &plan.Workout{
		ID: "w3", Date: start.AddDate(0, 0, 41), Week: 6,
		Type: catalog.TypeRace, Name: "Goal Race",
		Segments:   []catalog.Segment{{Minutes: 22, Intensity: 97, TargetPaceSecKm: 264}},
		DistanceKm: 5, Status: plan.StatusScheduled,
	}
	for _, w := range []*plan.Workout{w1, w2, race} {
		w.RecalcMetrics()
	}

	p := &plan.Plan{
		ID: "plan-1",
		Config: plan.Config{
			Name:        "6-week 5k plan",
			Goal:        "5k",
			StartDate:   start,
			RaceDate:    start.AddDate(0, 0, 41),
			TotalWeeks:  6,
			Methodology: "daniels",
		},
		Blocks: []plan.Block{
			{
				ID: "b1", Seq: 1, Phase: plan.PhaseBase,
				StartDate: start, EndDate: start.AddDate(0, 0, 27),
				StartWeek: 1, Weeks: 4, VolumeKm: 30,
				Focus:  []string{"aerobic volume"},
				Cycles: []plan.Microcycle{{Week: 1, Workouts: []*plan.Workout{w1, w2}}},
			},
			{
				ID: "b2", Seq: 2, Phase: plan.PhaseTaper,
				StartDate: start.AddDate(0, 0, 28), EndDate: start.AddDate(0, 0, 34),
				StartWeek: 5, Weeks: 1, VolumeKm: 18,
				Focus:  []string{"freshness"},
				Cycles: []plan.Microcycle{{Week: 5, Workouts: []*plan.Workout{race}}},
			},
		},
	}
	p.Refresh()
	return p
}

func TestWriteCSV(t *testing.T) {
	p := testPlan()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, p))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+len(p.Workouts))
	require.Equal(t, csvHeader, records[0])

	first := records[1]
	require.Equal(t, "2025-04-07", first[0])
	require.Equal(t, "1", first[1])
	require.Equal(t, "base", first[2])
	require.Equal(t, "easy", first[3])
	require.Equal(t, "Easy Run", first[4])
	require.Equal(t, "7.2", first[5])
	require.Equal(t, "40", first[6])
	require.Equal(t, "62", first[7])
	require.Equal(t, "scheduled", first[9])
	require.Equal(t, "Relaxed aerobic running", first[10])

	// The race sits one week past the generated blocks and still
	// reports the final block's phase.
	last := records[len(records)-1]
	require.Equal(t, "2025-05-18", last[0])
	require.Equal(t, "6", last[1])
	require.Equal(t, "taper", last[2])
	require.Equal(t, "race", last[3])
}

func TestWriteICS(t *testing.T) {
	p := testPlan()
	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, p))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	require.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	require.Equal(t, len(p.Workouts), strings.Count(out, "BEGIN:VEVENT"))
	require.Equal(t, len(p.Workouts), strings.Count(out, "END:VEVENT"))
	require.Contains(t, out, "X-WR-CALNAME:6-week 5k plan")
	require.Contains(t, out, "UID:w1@pacemaker")

	// All-day events span exactly one day.
	require.Contains(t, out, "DTSTART;VALUE=DATE:20250407")
	require.Contains(t, out, "DTEND;VALUE=DATE:20250408")

	require.Contains(t, out, "SUMMARY:Easy Run 7.2 km\r\n")
	require.Contains(t, out, "SUMMARY:Goal Race\r\n")

	require.Contains(t, out, "40min @ 62 (5:52/km)")
	// Commas inside segment chains are escaped per RFC 5545.
	require.Contains(t, out, `15min @ 60\, 20min @ 85 (4:50/km)\, 10min @ 55`)

	// No bare newlines: every line ends with CRLF.
	require.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
}

func TestWorkbook(t *testing.T) {
	p := testPlan()
	f, err := Workbook(p)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Overview", "1 Base", "2 Taper"}, f.GetSheetList())

	name, err := f.GetCellValue(sheetOverview, "A1")
	require.NoError(t, err)
	require.Equal(t, "6-week 5k plan", name)

	goal, err := f.GetCellValue(sheetOverview, "B3")
	require.NoError(t, err)
	require.Equal(t, "5k (5.0 km)", goal)

	// Weekly volume table feeding the chart.
	wk, err := f.GetCellValue(sheetOverview, "F4")
	require.NoError(t, err)
	require.Equal(t, "1", wk)
	km, err := f.GetCellValue(sheetOverview, "G4")
	require.NoError(t, err)
	require.Equal(t, "16.7", km)

	hdr, err := f.GetCellValue("1 Base", "E3")
	require.NoError(t, err)
	require.Equal(t, "Name", hdr)
	wname, err := f.GetCellValue("1 Base", "E4")
	require.NoError(t, err)
	require.Equal(t, "Easy Run", wname)
	status, err := f.GetCellValue("1 Base", "J5")
	require.NoError(t, err)
	require.Equal(t, "completed", status)
	total, err := f.GetCellValue("1 Base", "E6")
	require.NoError(t, err)
	require.Equal(t, "Week 1 total", total)
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	p := testPlan()
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, p))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{"Overview", "1 Base", "2 Taper"}, f.GetSheetList())
}

func TestToFile(t *testing.T) {
	p := testPlan()
	dir := t.TempDir()

	for _, name := range []string{"plan.csv", "plan.ics", "plan.xlsx"} {
		path := filepath.Join(dir, name)
		require.NoError(t, ToFile(path, p))
		st, err := os.Stat(path)
		require.NoError(t, err)
		require.Greater(t, st.Size(), int64(0))
	}

	err := ToFile(filepath.Join(dir, "plan.pdf"), p)
	require.ErrorIs(t, err, ErrUnknownFormat)
}
