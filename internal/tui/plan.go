package tui

import (
	"errors"
	"fmt"
	"strings"

	"pacemaker/internal/service"
	"pacemaker/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PlanModel is the plan overview screen model
type PlanModel struct {
	query    *service.QueryService
	units    Units
	overview *service.PlanOverview
	cursor   int
	loading  bool
	err      error
}

// weekRow is one selectable microcycle in the week table
type weekRow struct {
	week     int
	phase    string
	totalKm  float64
	load     float64
	workouts int
}

// NewPlanModel creates a new plan overview model
func NewPlanModel(qs *service.QueryService, units Units) PlanModel {
	return PlanModel{
		query:   qs,
		units:   units,
		loading: true,
	}
}

// Init initializes the plan screen
func (m PlanModel) Init() tea.Cmd {
	return m.loadPlan
}

type planLoadedMsg struct {
	overview *service.PlanOverview
	err      error
}

func (m PlanModel) loadPlan() tea.Msg {
	overview, err := m.query.Plan()
	if err != nil {
		return planLoadedMsg{err: err}
	}
	return planLoadedMsg{overview: overview}
}

// Update handles messages
func (m PlanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case planLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.overview = msg.overview
		// Start the cursor on the current training week
		if m.overview != nil && m.overview.CurrentWeek > 0 {
			m.cursor = m.overview.CurrentWeek - 1
		}
		if rows := m.weekRows(); m.cursor >= len(rows) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		rows := m.weekRows()
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, m.loadPlan
		case "enter":
			if len(rows) > 0 && m.cursor < len(rows) {
				week := rows[m.cursor].week
				max := rows[len(rows)-1].week
				return m, func() tea.Msg {
					return OpenWeekMsg{Week: week, MaxWeek: max}
				}
			}
		}
	}
	return m, nil
}

func (m PlanModel) weekRows() []weekRow {
	if m.overview == nil || m.overview.Plan == nil {
		return nil
	}
	var rows []weekRow
	for _, b := range m.overview.Plan.Blocks {
		for _, c := range b.Cycles {
			rows = append(rows, weekRow{
				week:     c.Week,
				phase:    b.Phase,
				totalKm:  c.TotalKm,
				load:     c.TotalLoad,
				workouts: len(c.Workouts),
			})
		}
	}
	return rows
}

// View renders the plan overview
func (m PlanModel) View() string {
	if m.loading {
		return "\n  Loading plan..."
	}

	if m.err != nil {
		if errors.Is(m.err, store.ErrPlanNotFound) {
			return "\n  No active plan. Press '4' to build one."
		}
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.overview == nil || m.overview.Plan == nil {
		return "\n  No active plan. Press '4' to build one."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderBlocks())
	sections = append(sections, m.renderSummary())
	if len(m.overview.Plan.Warnings) > 0 {
		sections = append(sections, m.renderWarnings())
	}
	sections = append(sections, m.renderWeeks())

	help := statusStyle.Render("\n  enter: week detail  j/k: navigate  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m PlanModel) renderHeader() string {
	cfg := m.overview.Plan.Config
	title := cardTitleStyle.Render(cfg.Name)

	goal := cfg.Goal
	if cfg.GoalKm > 0 {
		goal = fmt.Sprintf("%s (%s)", cfg.Goal, m.units.FormatKm(cfg.GoalKm))
	}

	line := fmt.Sprintf("%s  •  %s  •  %d weeks", goal, cfg.Methodology, cfg.TotalWeeks)
	dates := fmt.Sprintf("starts %s  •  race day %s",
		cfg.StartDate.Format("Mon Jan 2"),
		cfg.RaceDate.Format("Mon Jan 2 2006"))

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		title,
		metricValueStyle.Render(line),
		mutedStyle.Render(dates),
	)
}

func (m PlanModel) renderBlocks() string {
	var lines []string
	lines = append(lines, "")
	lines = append(lines, sectionTitleStyle.Render("Phases"))

	for _, b := range m.overview.Plan.Blocks {
		weeks := fmt.Sprintf("weeks %d-%d", b.StartWeek, b.StartWeek+b.Weeks-1)
		if b.Weeks == 1 {
			weeks = fmt.Sprintf("week %d", b.StartWeek)
		}
		lines = append(lines, fmt.Sprintf("  %s  %-12s  %8s/wk  %s",
			phaseStyle(b.Phase).Bold(true).Render(fmt.Sprintf("%-8s", b.Phase)),
			weeks,
			m.units.FormatKm(b.VolumeKm),
			mutedStyle.Render(strings.Join(b.Focus, ", "))))
	}

	return strings.Join(lines, "\n")
}

func (m PlanModel) renderSummary() string {
	s := m.overview.Plan.Summary

	var lines []string
	lines = append(lines, "")
	lines = append(lines, sectionTitleStyle.Render("Totals"))
	lines = append(lines, fmt.Sprintf("  %d workouts  •  %s  •  %.1f h",
		s.TotalWorkouts, m.units.FormatKm(s.TotalKm), s.TotalHours))
	lines = append(lines, fmt.Sprintf("  peak week %s  •  average week %s",
		m.units.FormatKm(s.PeakWeekKm), m.units.FormatKm(s.AvgWeekKm)))
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("  intensity %.0f%% easy, %.0f%% moderate, %.0f%% hard",
		s.Overall.EasyPct, s.Overall.ModeratePct, s.Overall.HardPct)))

	return strings.Join(lines, "\n")
}

func (m PlanModel) renderWarnings() string {
	var lines []string
	lines = append(lines, "")
	for _, w := range m.overview.Plan.Warnings {
		lines = append(lines, warningStyle.Render("  ! "+w))
	}
	return strings.Join(lines, "\n")
}

func (m PlanModel) renderWeeks() string {
	rows := m.weekRows()

	var sections []string
	sections = append(sections, "")
	header := tableHeaderStyle.Render(fmt.Sprintf("   %-5s  %-9s  %9s  %6s  %8s",
		"Week", "Phase", "Volume", "Load", "Sessions"))
	sections = append(sections, header)

	for i, row := range rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%-5d  %-9s  %9s  %6.0f  %8d",
			cursor, row.week, row.phase,
			m.units.FormatKm(row.totalKm), row.load, row.workouts)

		if row.week == m.overview.CurrentWeek {
			line += "  " + successStyle.Render("current")
		}

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(line))
		} else {
			sections = append(sections, tableRowStyle.Render(line))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
