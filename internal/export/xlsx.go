package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pacemaker/internal/plan"
)

const sheetOverview = "Overview"

// Fills for the phase rows on the overview and the block sheet titles.
var phaseColors = map[string]string{
	plan.PhaseBase:     "BDD7EE",
	plan.PhaseBuild:    "F8CBAD",
	plan.PhasePeak:     "FFE699",
	plan.PhaseTaper:    "C6EFCE",
	plan.PhaseRecovery: "D9D9D9",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// WriteXLSX writes the plan workbook to w.
func WriteXLSX(w io.Writer, p *plan.Plan) error {
	f, err := Workbook(p)
	if err != nil {
		return err
	}
	return f.Write(w)
}

// Workbook builds an XLSX workbook for the plan: an overview sheet
// followed by one sheet per training block.
func Workbook(p *plan.Plan) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetOverview)

	if err := overviewSheet(f, p); err != nil {
		return nil, fmt.Errorf("overview sheet: %w", err)
	}
	for i := range p.Blocks {
		b := &p.Blocks[i]
		name := fmt.Sprintf("%d %s", b.Seq, title(b.Phase))
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		if err := blockSheet(f, name, b); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func overviewSheet(f *excelize.File, p *plan.Plan) error {
	sheet := sheetOverview

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E2EFDA"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", p.Config.Name)
	f.MergeCell(sheet, "A1", "D1")
	f.SetCellStyle(sheet, "A1", "D1", titleStyle)
	f.SetRowHeight(sheet, 1, 28)

	info := [][2]string{
		{"Goal:", goalLabel(&p.Config)},
		{"Methodology:", p.Config.Methodology},
		{"Start:", p.Config.StartDate.Format("Mon Jan 2 2006")},
		{"Race day:", p.Config.RaceDate.Format("Mon Jan 2 2006")},
		{"Weeks:", strconv.Itoa(p.Config.TotalWeeks)},
		{"Workouts:", strconv.Itoa(p.Summary.TotalWorkouts)},
		{"Total:", fmt.Sprintf("%.0f km, %.0f h", p.Summary.TotalKm, p.Summary.TotalHours)},
		{"Peak week:", fmt.Sprintf("%.0f km", p.Summary.PeakWeekKm)},
		{"Avg week:", fmt.Sprintf("%.0f km", p.Summary.AvgWeekKm)},
	}
	for i, row := range info {
		n := i + 3
		f.SetCellValue(sheet, fmt.Sprintf("A%d", n), row[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", n), row[1])
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", n), fmt.Sprintf("A%d", n), labelStyle)
	}

	row := len(info) + 4
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Phases:")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	row++
	for _, b := range p.Blocks {
		phaseStyle, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{phaseColors[b.Phase]}, Pattern: 1},
			Border:    thinBorder,
			Alignment: &excelize.Alignment{Vertical: "center"},
		})
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("Weeks %d-%d:", b.StartWeek, b.StartWeek+b.Weeks-1))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), title(b.Phase))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%.0f km/wk", b.VolumeKm))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), strings.Join(b.Focus, ", "))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), phaseStyle)
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Intensity split:")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Overall:")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), distLabel(p.Summary.Overall))
	row++
	for _, b := range p.Blocks {
		d, ok := p.Summary.Phases[b.Phase]
		if !ok {
			continue
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), title(b.Phase)+":")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), distLabel(d))
		row++
	}

	if len(p.Warnings) > 0 {
		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Warnings:")
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		row++
		for _, warning := range p.Warnings {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), warning)
			row++
		}
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "B", 34)
	f.SetColWidth(sheet, "C", "C", 12)
	f.SetColWidth(sheet, "D", "D", 34)

	return weeklyVolumeChart(f, p)
}

// weeklyVolumeChart writes the per-week volume table next to the
// overview info and charts it.
func weeklyVolumeChart(f *excelize.File, p *plan.Plan) error {
	sheet := sheetOverview

	f.SetCellValue(sheet, "F3", "Week")
	f.SetCellValue(sheet, "G3", "Km")
	row := 4
	for _, b := range p.Blocks {
		for _, c := range b.Cycles {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), c.Week)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), round1(c.TotalKm))
			row++
		}
	}
	if row == 4 {
		return nil
	}

	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$G$3", sheet),
				Categories: fmt.Sprintf("'%s'!$F$4:$F$%d", sheet, row-1),
				Values:     fmt.Sprintf("'%s'!$G$4:$G$%d", sheet, row-1),
				Fill:       excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
			},
		},
		Title:     []excelize.RichTextRun{{Text: "Weekly volume (km)"}},
		Dimension: excelize.ChartDimension{Width: 480, Height: 300},
	}
	return f.AddChart(sheet, "I3", chart)
}

func blockSheet(f *excelize.File, sheet string, b *plan.Block) error {
	blockTitleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{phaseColors[b.Phase]}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder})
	if err != nil {
		return err
	}
	completedStyle, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		Border: thinBorder,
	})
	if err != nil {
		return err
	}
	skippedStyle, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
		Border: thinBorder,
	})
	if err != nil {
		return err
	}
	subtotalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s block: weeks %d-%d", title(b.Phase), b.StartWeek, b.StartWeek+b.Weeks-1))
	f.MergeCell(sheet, "A1", "J1")
	f.SetCellStyle(sheet, "A1", "J1", blockTitleStyle)
	f.SetRowHeight(sheet, 1, 24)

	headers := []string{"Week", "Date", "Day", "Type", "Name", "Km", "Min", "Intensity", "Load", "Status"}
	for i, h := range headers {
		cell := colName(i+1) + "3"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	row := 4
	for _, c := range b.Cycles {
		for _, w := range c.Workouts {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), w.Week)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), w.Date.Format("Jan 2"))
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), w.Date.Format("Mon"))
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), w.Type)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), w.Name)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), round1(w.DistanceKm))
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), w.DurationMin)
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), w.Intensity)
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), round1(w.TSS))
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), w.Status)

			style := cellStyle
			switch w.Status {
			case plan.StatusCompleted:
				style = completedStyle
			case plan.StatusSkipped:
				style = skippedStyle
			}
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("J%d", row), style)
			row++
		}

		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("Week %d total", c.Week))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), round1(c.TotalKm))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), round1(c.TotalLoad))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("J%d", row), subtotalStyle)
		row++
	}

	f.SetColWidth(sheet, "A", "A", 6)
	f.SetColWidth(sheet, "B", "C", 8)
	f.SetColWidth(sheet, "D", "D", 10)
	f.SetColWidth(sheet, "E", "E", 28)
	f.SetColWidth(sheet, "F", "I", 9)
	f.SetColWidth(sheet, "J", "J", 11)

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      3,
		TopLeftCell: "A4",
		ActivePane:  "bottomLeft",
	})
}

func goalLabel(cfg *plan.Config) string {
	km := cfg.GoalDistanceKm()
	if cfg.Goal == "" || cfg.Goal == "custom" {
		return fmt.Sprintf("%.1f km", km)
	}
	return fmt.Sprintf("%s (%.1f km)", cfg.Goal, km)
}

func distLabel(d plan.Distribution) string {
	return fmt.Sprintf("%.0f%% easy, %.0f%% moderate, %.0f%% hard", d.EasyPct, d.ModeratePct, d.HardPct)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// colName returns the Excel column name for a 1-based index.
func colName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
