package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	// Navigation section
	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Plan overview"},
		{"3", "Adaptation screen"},
		{"4", "Rebuild screen"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	})
	sections = append(sections, navSection)

	// Dashboard keys
	dashSection := m.renderSection("Dashboard", []keyHelp{
		{"r", "Refresh data"},
	})
	sections = append(sections, dashSection)

	// Plan keys
	planSection := m.renderSection("Plan Overview", []keyHelp{
		{"j / down", "Move cursor down"},
		{"k / up", "Move cursor up"},
		{"enter", "Open week detail"},
		{"r", "Refresh plan"},
	})
	sections = append(sections, planSection)

	// Week keys
	weekSection := m.renderSection("Week Detail", []keyHelp{
		{"h / left", "Previous week"},
		{"l / right", "Next week"},
		{"j / k", "Scroll"},
		{"esc", "Back to plan"},
	})
	sections = append(sections, weekSection)

	// Adapt and rebuild keys
	actionSection := m.renderSection("Adapt & Rebuild", []keyHelp{
		{"a / enter", "Run the adaptation pass"},
		{"b / enter", "Start the plan rebuild"},
	})
	sections = append(sections, actionSection)

	// Metrics explanation
	metricsSection := m.renderMetricsHelp()
	sections = append(sections, metricsSection)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionTitleStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderMetricsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionTitleStyle.Render("Metrics Explained"))
	lines = append(lines, "")

	metrics := []struct {
		name string
		desc string
	}{
		{"VDOT", "Aerobic capacity estimated from race efforts. Higher = fitter."},
		{"Threshold pace", "Sustainable pace at lactate threshold, roughly one-hour race pace."},
		{"Load (TSS)", "Training stress per workout. 100 = one hour at threshold."},
		{"Load ratio (ACWR)", "7-day load over 28-day load. 0.8-1.3 is the safe ramp zone."},
		{"Recovery score", "0-100 from sleep, soreness, stress, HRV and resting HR check-ins."},
		{"Intensity", "Percent of threshold effort. Easy <= 75, moderate to 88, hard above."},
		{"Adherence", "Share of scheduled workouts you completed so far."},
	}

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+mutedStyle.Render(metric.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
