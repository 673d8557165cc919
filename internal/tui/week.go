package tui

import (
	"fmt"
	"strings"

	"pacemaker/internal/catalog"
	"pacemaker/internal/plan"
	"pacemaker/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WeekModel is the week detail screen model
type WeekModel struct {
	query    *service.QueryService
	units    Units
	week     int
	maxWeek  int
	detail   *service.WeekDetail
	viewport viewport.Model
	loading  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewWeekModel creates a week detail model positioned on the given week
func NewWeekModel(qs *service.QueryService, units Units, week, maxWeek, width, height int) WeekModel {
	m := WeekModel{
		query:   qs,
		units:   units,
		week:    week,
		maxWeek: maxWeek,
		loading: true,
		width:   width,
		height:  height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.ready = true
	}

	return m
}

// Init initializes the week detail screen
func (m WeekModel) Init() tea.Cmd {
	return m.loadWeek
}

type weekLoadedMsg struct {
	detail *service.WeekDetail
	err    error
}

func (m WeekModel) loadWeek() tea.Msg {
	detail, err := m.query.Week(m.week)
	if err != nil {
		return weekLoadedMsg{err: err}
	}
	return weekLoadedMsg{detail: detail}
}

// Update handles messages
func (m WeekModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case weekLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.detail = msg.detail
		if m.ready {
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.detail != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "h", "left":
			if m.week > 1 {
				m.week--
				m.loading = true
				return m, m.loadWeek
			}
		case "l", "right":
			if m.week < m.maxWeek {
				m.week++
				m.loading = true
				return m, m.loadWeek
			}
		case "r":
			m.loading = true
			return m, m.loadWeek
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the week detail screen
func (m WeekModel) View() string {
	if m.loading {
		return "\n  Loading week..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  esc: back to plan  h/l: prev/next week  j/k: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m WeekModel) renderContent() string {
	if m.detail == nil {
		return "No data"
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	for _, w := range m.detail.Workouts {
		sections = append(sections, m.renderWorkout(w))
	}

	if len(m.detail.Workouts) == 0 {
		sections = append(sections, mutedStyle.Render("  No workouts this week"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m WeekModel) renderHeader() string {
	d := m.detail
	title := cardTitleStyle.Render(fmt.Sprintf("Week %d of %d", d.Week, m.maxWeek))

	span := fmt.Sprintf("%s to %s",
		d.StartDate.Format("Mon Jan 2"), d.EndDate.Format("Mon Jan 2"))
	subtitle := mutedStyle.Render(span) + "  " + phaseStyle(d.Phase).Bold(true).Render(d.Phase)

	stats := fmt.Sprintf("%s  •  load %.0f  •  %.0f%% easy",
		m.units.FormatKm(d.TotalKm), d.TotalLoad, d.RecoveryRatio*100)
	statsLine := lipgloss.NewStyle().Foreground(textColor).Bold(true).Render(stats)

	return lipgloss.JoinVertical(lipgloss.Left, "", title, subtitle, statsLine, "")
}

func (m WeekModel) renderWorkout(w plan.Workout) string {
	var lines []string

	name := metricValueStyle.Render(w.Name)
	if w.Type == catalog.TypeRace {
		name = warningStyle.Bold(true).Render(w.Name)
	}

	lines = append(lines, fmt.Sprintf("  %-10s  %s  %s",
		w.Date.Format("Mon Jan 2"),
		name,
		workoutStatusStyle(w.Status).Render("["+w.Status+"]")))

	lines = append(lines, fmt.Sprintf("              %s  •  %d min  •  intensity %d  •  load %.0f",
		m.units.FormatKm(w.DistanceKm), w.DurationMin, w.Intensity, w.TSS))

	if w.Description != "" {
		lines = append(lines, mutedStyle.Render("              "+w.Description))
	}

	if len(w.Segments) > 0 {
		lines = append(lines, mutedStyle.Render("              "+m.formatSegments(w.Segments)))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// formatSegments renders a segment list like "15min @ 60, 20min @ 85 (4:50/km)".
// Pace targets only appear on segments that carry one.
func (m WeekModel) formatSegments(segments []catalog.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		part := fmt.Sprintf("%dmin @ %d", s.Minutes, s.Intensity)
		if s.TargetPaceSecKm > 0 {
			part += fmt.Sprintf(" (%s)", m.units.FormatPaceWithUnit(s.TargetPaceSecKm))
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
