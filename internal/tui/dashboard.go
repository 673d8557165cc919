package tui

import (
	"fmt"
	"strings"

	"pacemaker/internal/analysis"
	"pacemaker/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	query   *service.QueryService
	units   Units
	data    *service.DashboardData
	loading bool
	err     error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService, units Units) DashboardModel {
	return DashboardModel{
		query:   qs,
		units:   units,
		loading: true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.query.Dashboard()
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil {
		return "\n  No data available. Import runs to get started."
	}

	var sections []string

	// Top row: fitness and load side by side
	fitnessCard := m.renderFitnessCard()
	loadCard := m.renderLoadCard()
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, fitnessCard, "  ", loadCard)
	sections = append(sections, topRow)

	// Active plan position and the next workouts
	if m.data.PlanID != "" {
		sections = append(sections, m.renderPlanCard())
	} else {
		sections = append(sections, statusStyle.Render("  No training plan yet. Press '4' to build one."))
	}

	// Race predictions
	if len(m.data.Predictions) > 0 {
		sections = append(sections, m.renderPredictions())
	}

	// Charts
	if len(m.data.WeeklyVolumeKm) > 2 {
		sections = append(sections, m.renderVolumeChart())
	}
	if len(m.data.LoadHistory) > 2 {
		sections = append(sections, m.renderLoadChart())
	}

	// Recent runs
	sections = append(sections, m.renderRecentRuns())

	// Help
	help := statusStyle.Render("Press 'r' to refresh, '2' for plan, '3' to adapt, '4' to rebuild")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderFitnessCard() string {
	title := cardTitleStyle.Render("Current Fitness")
	a := m.data.Assessment

	lines := []string{
		RenderMetric("VDOT", fmt.Sprintf("%.1f", a.VDOT), ""),
		RenderMetric("Threshold pace", m.units.FormatPaceWithUnit(a.ThresholdPace), ""),
		RenderMetric("Weekly volume", m.units.FormatKm(a.WeeklyVolumeKm), ""),
		RenderMetric("Longest run", m.units.FormatKm(a.LongestRunKm), ""),
		RenderMetric("Overall score", fmt.Sprintf("%.0f/100", a.OverallScore), ""),
		"",
		mutedStyle.Render("Training level: " + m.data.Level),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderLoadCard() string {
	title := cardTitleStyle.Render("Load & Recovery")
	l := m.data.Load

	lines := []string{
		RenderMetric("Load ratio", fmt.Sprintf("%.2f", l.Ratio), trendArrow(l.Trend)),
		RenderMetric("Acute (7d)", fmt.Sprintf("%.0f", l.Acute), ""),
		RenderMetric("Chronic (28d)", fmt.Sprintf("%.0f", l.Chronic), ""),
		RenderMetric("Recovery", fmt.Sprintf("%.0f/100", m.data.Recovery), ""),
		"",
		recoveryStatusStyle(m.data.RecoveryState).Render(m.data.RecoveryState.Description()),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderPlanCard() string {
	title := cardTitleStyle.Render(m.data.PlanName)

	var lines []string
	if m.data.CurrentWeek > 0 {
		pct := float64(m.data.CurrentWeek) / float64(m.data.TotalWeeks)
		lines = append(lines, fmt.Sprintf("Week %d of %d  %s  %s",
			m.data.CurrentWeek, m.data.TotalWeeks,
			RenderProgressBar(pct, 20),
			phaseStyle(m.data.Phase).Render(m.data.Phase)))
	} else {
		lines = append(lines, mutedStyle.Render("Plan has not started yet"))
	}

	if len(m.data.Upcoming) > 0 {
		lines = append(lines, "")
		lines = append(lines, sectionTitleStyle.Render("Next 7 days"))
		for _, w := range m.data.Upcoming {
			lines = append(lines, fmt.Sprintf("  %-10s  %-22s  %8s  %4dm  %s",
				w.Date.Format("Mon Jan 2"),
				truncateName(w.Name, 22),
				m.units.FormatKm(w.DistanceKm),
				w.DurationMin,
				workoutStatusStyle(w.Status).Render(w.Status)))
		}
	} else if m.data.CurrentWeek > 0 {
		lines = append(lines, mutedStyle.Render("Nothing scheduled in the next 7 days"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderPredictions() string {
	title := cardTitleStyle.Render("Race Predictions")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %10s  %8s  %10s",
		"Race", "Distance", "Time", "Pace"))

	rows := []string{header}
	for _, p := range m.data.Predictions {
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-10s  %10s  %8s  %10s",
			p.TargetName,
			m.units.FormatDistance(p.TargetMeters),
			formatRaceTime(float64(p.PredictedSeconds)),
			m.units.FormatPaceWithUnit(p.PredictedPace))))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func (m DashboardModel) renderVolumeChart() string {
	title := cardTitleStyle.Render(fmt.Sprintf("Weekly Volume (%s)", m.units.DistanceLabel()))

	graph := asciigraph.Plot(m.units.ChartVolumes(m.data.WeeklyVolumeKm),
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	parts := []string{title, graph}
	if labels := m.data.WeeklyLabels; len(labels) > 1 {
		first, last := labels[0], labels[len(labels)-1]
		pad := 60 - len(first) - len(last)
		if pad > 0 {
			parts = append(parts, mutedStyle.Render(first+strings.Repeat(" ", pad)+last))
		}
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m DashboardModel) renderLoadChart() string {
	title := cardTitleStyle.Render("Load Ratio (last 90 days)")

	graph := asciigraph.Plot(m.data.LoadHistory,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(2),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderRecentRuns() string {
	title := cardTitleStyle.Render("Recent Runs")

	if len(m.data.RecentRuns) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No runs recorded yet"))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %9s  %7s  %7s  %4s  %4s",
		"Date", "Distance", "Time", "Pace", "HR", "RPE"))

	rows := []string{header}
	for _, r := range m.data.RecentRuns {
		hr := "-"
		if r.AvgHeartrate != nil {
			hr = fmt.Sprintf("%.0f", *r.AvgHeartrate)
		}

		rpe := "-"
		if r.Effort > 0 {
			rpe = fmt.Sprintf("%d", r.Effort)
		}

		row := fmt.Sprintf("%-10s  %9s  %7s  %7s  %4s  %4s",
			r.Date.Format("Jan 02"),
			m.units.FormatDistance(r.DistanceM),
			formatDuration(r.DurationSec),
			m.units.FormatPaceSecKm(r.AvgPaceSecKm),
			hr,
			rpe,
		)
		if r.IsRace {
			row += "  " + warningStyle.Render("race")
		}
		rows = append(rows, tableRowStyle.Render(row))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func trendArrow(trend string) string {
	switch trend {
	case analysis.TrendIncreasing:
		return "↑ " + trend
	case analysis.TrendDecreasing:
		return "↓ " + trend
	default:
		return ""
	}
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// formatRaceTime renders a second count as a race clock, h:mm:ss above
// the hour and m:ss below it.
func formatRaceTime(seconds float64) string {
	total := int(seconds + 0.5)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
