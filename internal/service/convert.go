package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"pacemaker/internal/plan"
	"pacemaker/internal/store"
)

// planRows flattens a plan into its storable header, block and workout
// rows. The inverse is assemblePlan.
func planRows(p *plan.Plan) (*store.Plan, []store.PlanBlock, []store.PlanWorkout, error) {
	cfgJSON, err := json.Marshal(p.Config)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encoding plan config: %w", err)
	}
	warnJSON := ""
	if len(p.Warnings) > 0 {
		data, err := json.Marshal(p.Warnings)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("encoding plan warnings: %w", err)
		}
		warnJSON = string(data)
	}

	header := &store.Plan{
		ID:           p.ID,
		Name:         p.Config.Name,
		Methodology:  p.Config.Methodology,
		GoalRace:     p.Config.Goal,
		RaceDate:     p.Config.RaceDate,
		StartDate:    p.Config.StartDate,
		TotalWeeks:   p.Config.TotalWeeks,
		ConfigJSON:   string(cfgJSON),
		WarningsJSON: warnJSON,
	}

	blocks := make([]store.PlanBlock, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		blocks = append(blocks, store.PlanBlock{
			PlanID:    p.ID,
			Seq:       b.Seq,
			Phase:     b.Phase,
			StartWeek: b.StartWeek,
			Weeks:     b.Weeks,
			VolumeKm:  b.VolumeKm,
			Focus:     strings.Join(b.Focus, ","),
		})
	}

	workouts := make([]store.PlanWorkout, 0, len(p.Workouts))
	for _, w := range p.Workouts {
		row, err := workoutRow(p.ID, w)
		if err != nil {
			return nil, nil, nil, err
		}
		workouts = append(workouts, *row)
	}

	return header, blocks, workouts, nil
}

func workoutRow(planID string, w *plan.Workout) (*store.PlanWorkout, error) {
	segJSON, err := json.Marshal(w.Segments)
	if err != nil {
		return nil, fmt.Errorf("encoding segments for workout %s: %w", w.ID, err)
	}
	return &store.PlanWorkout{
		ID:           w.ID,
		PlanID:       planID,
		Week:         w.Week,
		Day:          (int(w.Date.Weekday()) + 6) % 7,
		Date:         w.Date,
		Type:         w.Type,
		Name:         w.Name,
		Description:  w.Description,
		DistanceKm:   w.DistanceKm,
		DurationMin:  float64(w.DurationMin),
		Intensity:    w.Intensity,
		SegmentsJSON: string(segJSON),
		Status:       w.Status,
		ModifiedBy:   w.ModifiedBy,
	}, nil
}

// savePlan persists a plan, replacing any previous rows under its ID.
func savePlan(db *store.DB, p *plan.Plan) error {
	header, blocks, workouts, err := planRows(p)
	if err != nil {
		return err
	}
	if err := db.SavePlan(header, blocks, workouts); err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	return nil
}

// loadPlan reassembles a stored plan into its in-memory form.
func loadPlan(db *store.DB, id string) (*plan.Plan, error) {
	header, err := db.GetPlan(id)
	if err != nil {
		return nil, err
	}
	blockRows, err := db.GetBlocks(id)
	if err != nil {
		return nil, fmt.Errorf("loading blocks: %w", err)
	}
	workoutRows, err := db.GetWorkouts(id)
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}
	return assemblePlan(header, blockRows, workoutRows)
}

func assemblePlan(header *store.Plan, blockRows []store.PlanBlock, workoutRows []store.PlanWorkout) (*plan.Plan, error) {
	p := &plan.Plan{ID: header.ID}

	if header.ConfigJSON != "" {
		if err := json.Unmarshal([]byte(header.ConfigJSON), &p.Config); err != nil {
			return nil, fmt.Errorf("decoding plan config: %w", err)
		}
	}
	// The header columns are authoritative for the duplicated fields.
	p.Config.Name = header.Name
	p.Config.Methodology = header.Methodology
	p.Config.Goal = header.GoalRace
	p.Config.StartDate = header.StartDate
	p.Config.RaceDate = header.RaceDate
	p.Config.TotalWeeks = header.TotalWeeks

	if header.WarningsJSON != "" {
		if err := json.Unmarshal([]byte(header.WarningsJSON), &p.Warnings); err != nil {
			return nil, fmt.Errorf("decoding plan warnings: %w", err)
		}
	}

	byWeek := map[int][]*plan.Workout{}
	for i := range workoutRows {
		w, err := workoutFromRow(&workoutRows[i])
		if err != nil {
			return nil, err
		}
		byWeek[w.Week] = append(byWeek[w.Week], w)
	}

	for _, br := range blockRows {
		b := plan.Block{
			ID:        fmt.Sprintf("%s-block-%d", header.ID, br.Seq),
			Seq:       br.Seq,
			Phase:     br.Phase,
			StartWeek: br.StartWeek,
			Weeks:     br.Weeks,
			VolumeKm:  br.VolumeKm,
			StartDate: header.StartDate.AddDate(0, 0, 7*(br.StartWeek-1)),
		}
		b.EndDate = b.StartDate.AddDate(0, 0, 7*br.Weeks-1)
		if br.Focus != "" {
			for _, f := range strings.Split(br.Focus, ",") {
				b.Focus = append(b.Focus, strings.TrimSpace(f))
			}
		}
		for wk := br.StartWeek; wk < br.StartWeek+br.Weeks; wk++ {
			b.Cycles = append(b.Cycles, plan.Microcycle{Week: wk, Workouts: byWeek[wk]})
			delete(byWeek, wk)
		}
		p.Blocks = append(p.Blocks, b)
	}

	// A race scheduled past the final generated week lands outside every
	// block's range; fold any such leftovers into the last cycle.
	if len(byWeek) > 0 && len(p.Blocks) > 0 {
		leftover := make([]int, 0, len(byWeek))
		for wk := range byWeek {
			leftover = append(leftover, wk)
		}
		sort.Ints(leftover)
		last := &p.Blocks[len(p.Blocks)-1]
		tail := &last.Cycles[len(last.Cycles)-1]
		for _, wk := range leftover {
			tail.Workouts = append(tail.Workouts, byWeek[wk]...)
		}
	}

	p.Refresh()
	return p, nil
}

func workoutFromRow(row *store.PlanWorkout) (*plan.Workout, error) {
	w := &plan.Workout{
		ID:          row.ID,
		Date:        row.Date,
		Week:        row.Week,
		Type:        row.Type,
		Name:        row.Name,
		Description: row.Description,
		DistanceKm:  row.DistanceKm,
		Status:      row.Status,
		ModifiedBy:  row.ModifiedBy,
	}
	if row.SegmentsJSON != "" {
		if err := json.Unmarshal([]byte(row.SegmentsJSON), &w.Segments); err != nil {
			return nil, fmt.Errorf("decoding segments for workout %s: %w", row.ID, err)
		}
	}
	w.RecalcMetrics()
	return w, nil
}
