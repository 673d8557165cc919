package tui

import (
	"context"
	"fmt"
	"strings"

	"pacemaker/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RebuildModel is the plan rebuild screen model
type RebuildModel struct {
	plans      *service.PlanService
	units      Units
	building   bool
	done       bool
	result     *service.RebuildResult
	err        error
	progressCh chan service.Progress
	last       service.Progress
}

// NewRebuildModel creates a new rebuild model
func NewRebuildModel(ps *service.PlanService, units Units) RebuildModel {
	return RebuildModel{
		plans: ps,
		units: units,
	}
}

// Init initializes the rebuild screen
func (m RebuildModel) Init() tea.Cmd {
	return nil
}

// RebuildDoneMsg is sent when the rebuild finishes
type RebuildDoneMsg struct {
	Result *service.RebuildResult
	Err    error
}

type rebuildProgressMsg struct {
	progress service.Progress
}

type rebuildProgressClosedMsg struct{}

// Update handles messages
func (m RebuildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rebuildProgressMsg:
		m.last = msg.progress
		return m, waitForProgress(m.progressCh)

	case rebuildProgressClosedMsg:
		return m, nil

	case RebuildDoneMsg:
		m.building = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		if m.err == nil {
			return m, func() tea.Msg { return RebuildCompleteMsg{} }
		}
		return m, nil

	case tea.KeyMsg:
		if !m.building {
			switch msg.String() {
			case "enter", "b":
				m.building = true
				m.done = false
				m.err = nil
				m.result = nil
				m.last = service.Progress{}
				// The buffer covers every event one rebuild emits, so
				// the service never blocks on a slow redraw.
				m.progressCh = make(chan service.Progress, 16)
				return m, tea.Batch(m.runRebuild(m.progressCh), waitForProgress(m.progressCh))
			}
		}
	}
	return m, nil
}

func (m RebuildModel) runRebuild(ch chan service.Progress) tea.Cmd {
	return func() tea.Msg {
		result, err := m.plans.Rebuild(context.Background(), service.RebuildOptions{}, ch)
		return RebuildDoneMsg{Result: result, Err: err}
	}
}

func waitForProgress(ch chan service.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return rebuildProgressClosedMsg{}
		}
		return rebuildProgressMsg{progress: p}
	}
}

// View renders the rebuild screen
func (m RebuildModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Rebuild Plan")
	sections = append(sections, title)

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 'b' or Enter to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.done && !m.building {
		sections = append(sections, successStyle.Render("\n  Plan rebuilt!"))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' for the dashboard, '2' to review the plan"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.building {
		sections = append(sections, m.renderProgress())
	} else {
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RebuildModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  This will rebuild your training plan from the current run history:")
	lines = append(lines, "")
	lines = append(lines, "  1. Assess fitness from recent runs")
	lines = append(lines, "  2. Generate the periodized schedule")
	lines = append(lines, "  3. Apply methodology customization")
	lines = append(lines, "  4. Save and activate the new plan")
	lines = append(lines, "")
	lines = append(lines, warningStyle.Render("  The current plan and its scheduling are replaced."))
	lines = append(lines, statusStyle.Render("  Goal, methodology and length come from your config file."))
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 'b' or Enter to start"))

	return strings.Join(lines, "\n")
}

func (m RebuildModel) renderProgress() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  Rebuilding the plan...")
	lines = append(lines, "")

	if m.last.Phase != "" {
		var pct float64
		if m.last.Total > 0 {
			pct = float64(m.last.Completed) / float64(m.last.Total)
		}
		line := fmt.Sprintf("  %-24s %s", phaseLabel(m.last.Phase), RenderProgressBar(pct, 24))
		if m.last.Detail != "" {
			line += "  " + mutedStyle.Render(m.last.Detail)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  This takes a moment..."))

	return strings.Join(lines, "\n")
}

func phaseLabel(phase string) string {
	switch phase {
	case "assess":
		return "Assessing fitness"
	case "generate":
		return "Generating schedule"
	case "customize":
		return "Applying methodology"
	case "persist":
		return "Saving plan"
	default:
		return phase
	}
}

func (m RebuildModel) renderSummary() string {
	if m.result == nil {
		return ""
	}

	r := m.result
	var lines []string
	lines = append(lines, "")
	lines = append(lines, successStyle.Render(fmt.Sprintf("  %d workouts over %d weeks", r.Workouts, r.Weeks)))
	lines = append(lines, fmt.Sprintf("  Assessed VDOT %.1f, threshold %s",
		r.Assessment.VDOT, m.units.FormatPaceWithUnit(r.Assessment.ThresholdPace)))

	for _, w := range r.Warnings {
		lines = append(lines, warningStyle.Render("  ! "+w))
	}

	if len(r.Violations) > 0 {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d distribution targets missed:", len(r.Violations))))
		for _, v := range r.Violations {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("    %s %s: %.0f%% vs %.0f%% target (%s)",
				v.Scope, v.Band, v.ActualPct, v.TargetPct, v.Severity)))
		}
	}

	return strings.Join(lines, "\n")
}
