package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pacemaker/internal/cache"
	"pacemaker/internal/config"
	"pacemaker/internal/export"
	"pacemaker/internal/service"
	"pacemaker/internal/store"
	"pacemaker/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	importRuns := flag.String("import-runs", "", "import a run history CSV and exit")
	importReports := flag.String("import-reports", "", "import a workout report CSV and exit")
	importRecovery := flag.String("import-recovery", "", "import a recovery check-in CSV and exit")
	exportPath := flag.String("export", "", "export the active plan to a .csv, .ics or .xlsx file and exit")
	rebuild := flag.Bool("rebuild", false, "rebuild the training plan and exit")
	adapt := flag.Bool("adapt", false, "run one adaptation pass and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("Set your athlete profile, goal race and methodology, then rerun.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Create services
	planSvc := service.NewPlanService(db, cfg)
	feedbackSvc := service.NewFeedbackService(db, cfg)
	importSvc := service.NewImportService(db, feedbackSvc)
	querySvc := service.NewQueryService(db, cfg, cache.New(64, 5*time.Minute))

	// Headless modes for scripting and cron use
	switch {
	case *importRuns != "":
		res, err := importSvc.ImportRuns(*importRuns)
		return printImport("runs", res, err)
	case *importReports != "":
		res, err := importSvc.ImportReports(*importReports)
		return printImport("reports", res, err)
	case *importRecovery != "":
		res, err := importSvc.ImportRecovery(*importRecovery)
		return printImport("recovery check-ins", res, err)
	case *exportPath != "":
		return exportPlan(querySvc, *exportPath)
	case *rebuild:
		return rebuildPlan(planSvc)
	case *adapt:
		return adaptPlan(feedbackSvc)
	}

	// Launch TUI
	app := tui.NewApp(db, cfg, planSvc, feedbackSvc, querySvc)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func printImport(what string, res *service.ImportResult, err error) error {
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d %s, skipped %d\n", res.Imported, what, res.Skipped)
	for _, rowErr := range res.Errors {
		fmt.Printf("  %v\n", rowErr)
	}
	return nil
}

func exportPlan(query *service.QueryService, path string) error {
	overview, err := query.Plan()
	if err != nil {
		if errors.Is(err, store.ErrPlanNotFound) {
			return errors.New("no active plan to export; run with -rebuild first")
		}
		return err
	}
	if err := export.ToFile(path, overview.Plan); err != nil {
		return err
	}
	fmt.Printf("Exported plan to %s\n", path)
	return nil
}

func rebuildPlan(plans *service.PlanService) error {
	progress := make(chan service.Progress, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			if p.Total > 0 {
				fmt.Printf("  %s %d/%d %s\n", p.Phase, p.Completed, p.Total, p.Detail)
			} else {
				fmt.Printf("  %s %s\n", p.Phase, p.Detail)
			}
		}
	}()

	result, err := plans.Rebuild(context.Background(), service.RebuildOptions{}, progress)
	<-done
	if err != nil {
		return err
	}

	fmt.Printf("Built plan %s: %d workouts over %d weeks\n", result.PlanID, result.Workouts, result.Weeks)
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	for _, v := range result.Violations {
		fmt.Printf("  distribution miss: %s %s %.0f%% vs %.0f%% target (%s)\n",
			v.Scope, v.Band, v.ActualPct, v.TargetPct, v.Severity)
	}
	return nil
}

func adaptPlan(feedback *service.FeedbackService) error {
	result, err := feedback.Adapt(time.Now())
	if err != nil {
		if errors.Is(err, store.ErrPlanNotFound) {
			return errors.New("no active plan to adapt; run with -rebuild first")
		}
		return err
	}

	if len(result.Diff.Applied) == 0 {
		fmt.Println("No changes needed. The plan holds as scheduled.")
		return nil
	}
	for _, mod := range result.Diff.Applied {
		fmt.Printf("%s (%s): %s\n", mod.Type, mod.Priority, mod.Reason)
	}
	fmt.Printf("%d workouts changed, %d removed\n", result.Diff.Changed, result.Diff.Removed)
	return nil
}
